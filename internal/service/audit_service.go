package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/events"
	"github.com/spec-kit/ticket-agent/internal/observability"
)

// AuditService subscribes to intake events and records them in the log and
// the in-memory counters for operator diagnosis. Observability only; no
// pipeline behavior hangs off these handlers.
type AuditService struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handle)
	a.dispatcher.Subscribe(events.EventTicketCreationFailed, a.handle)
	a.dispatcher.Subscribe(events.EventTicketApproved, a.handle)
	a.dispatcher.Subscribe(events.EventTicketRejected, a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.metrics.RecordIntake(string(event.Type))
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("issue_key", event.IssueKey),
		zap.String("requester", event.RequesterID),
		zap.String("channel", event.ChannelID),
		zap.String("label", string(event.Label)))
	return nil
}
