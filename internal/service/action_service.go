package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/domain"
	"github.com/spec-kit/ticket-agent/internal/events"
	"github.com/spec-kit/ticket-agent/internal/repository"
	"github.com/spec-kit/ticket-agent/internal/slack"
)

// Fixed responses for the interaction surface.
const (
	MsgCompleted      = "completed"
	MsgTicketNotFound = "ticket not found"
	MsgInvalidPayload = "invalid payload"
)

// ActionService applies approve/reject interactions to logged tickets.
// There is deliberately no terminal-state guard: a redelivered or repeated
// click overwrites the status again, last write wins.
type ActionService struct {
	records    repository.TicketLogRepository
	notifier   Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActionService constructs the service.
func NewActionService(records repository.TicketLogRepository, notifier Notifier, dispatcher events.Dispatcher, logger *zap.Logger) *ActionService {
	return &ActionService{
		records:    records,
		notifier:   notifier,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle looks up the record behind the clicked button's issue key and
// transitions its status. Unknown action ids are a no-op. The returned text
// is the short completion response shown to the clicker.
func (s *ActionService) Handle(ctx context.Context, actionID, issueKey, channelID string) string {
	record, err := s.records.GetByIssueKey(ctx, issueKey)
	if err != nil {
		s.logger.Warn("ticket lookup failed", zap.String("issue_key", issueKey), zap.Error(err))
		s.notify(ctx, channelID, fmt.Sprintf("Ticket %s not found in the database.", issueKey))
		return MsgTicketNotFound
	}

	switch actionID {
	case slack.ActionApproveTicket:
		s.transition(ctx, record, domain.TicketStatusApproved, events.EventTicketApproved, channelID)
	case slack.ActionRejectTicket:
		s.transition(ctx, record, domain.TicketStatusRejected, events.EventTicketRejected, channelID)
	default:
		s.logger.Debug("ignoring unknown action", zap.String("action_id", actionID))
	}
	return MsgCompleted
}

func (s *ActionService) transition(ctx context.Context, record *domain.TicketLog, status domain.TicketStatus, eventType events.EventType, channelID string) {
	record.Status = status
	if err := s.records.Update(ctx, record); err != nil {
		s.logger.Error("ticket status update failed",
			zap.String("issue_key", record.IssueKey),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	s.publishEvent(ctx, events.Event{
		Type:        eventType,
		IssueKey:    record.IssueKey,
		RequesterID: record.RequesterID,
		ChannelID:   channelID,
		Label:       record.Label,
	})
	s.notify(ctx, channelID, fmt.Sprintf("Ticket %s has been %s", record.IssueKey, status))
}

func (s *ActionService) notify(ctx context.Context, channel, text string) {
	if channel == "" {
		return
	}
	if err := s.notifier.SendMessage(ctx, channel, text, nil, ""); err != nil {
		s.logger.Error("notification failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (s *ActionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
