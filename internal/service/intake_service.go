package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
	"github.com/spec-kit/ticket-agent/internal/domain"
	"github.com/spec-kit/ticket-agent/internal/events"
	"github.com/spec-kit/ticket-agent/internal/jira"
	"github.com/spec-kit/ticket-agent/internal/repository"
	"github.com/spec-kit/ticket-agent/internal/slack"
	"github.com/spec-kit/ticket-agent/internal/worker"
)

// User-facing messages are fixed sentences; internal errors never leak to
// the chat surface.
const (
	MsgIntakeAck     = "Ticket request received, creating your ticket..."
	MsgCreateFailed  = "Failed to create Jira ticket. Please check server logs."
	msgCreatedPrefix = "Ticket has been created: "
)

// Classifier assigns a label to free text. It is total and never fails.
type Classifier interface {
	Classify(ctx context.Context, text string) domain.Label
}

// IssueTracker creates and queries externally tracked issues.
type IssueTracker interface {
	CreateIssue(ctx context.Context, in jira.CreateIssueInput) (string, error)
	GetIssueStatus(ctx context.Context, issueKey string) string
}

// Notifier delivers a message to a channel, best-effort.
type Notifier interface {
	SendMessage(ctx context.Context, channel, text string, blocks []slack.Block, fallbackUser string) error
}

// IntakeService orchestrates the ticket-intake pipeline. The request path
// only schedules work; the classify, create-issue, persist and notify chain
// runs as a detached task outside the request lifetime.
type IntakeService struct {
	classifier Classifier
	tracker    IssueTracker
	records    repository.TicketLogRepository
	notifier   Notifier
	dispatcher events.Dispatcher
	tasks      *worker.Pool
	jiraCfg    config.JiraConfig
	logger     *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Classifier Classifier
	Tracker    IssueTracker
	Records    repository.TicketLogRepository
	Notifier   Notifier
	Dispatcher events.Dispatcher
	Tasks      *worker.Pool
	JiraCfg    config.JiraConfig
	Logger     *zap.Logger
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		classifier: deps.Classifier,
		tracker:    deps.Tracker,
		records:    deps.Records,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		tasks:      deps.Tasks,
		jiraCfg:    deps.JiraCfg,
		logger:     deps.Logger,
	}
}

// Submit acknowledges the intake command and schedules the pipeline as a
// detached task. It performs no network-bound work and returns immediately.
func (s *IntakeService) Submit(userID, channelID, text string) string {
	s.tasks.Submit("ticket-intake", func(ctx context.Context) {
		s.process(ctx, userID, channelID, text)
	})
	return MsgIntakeAck
}

// process runs the background unit: classify, create the tracked issue,
// persist the audit record, notify. Every step is best-effort; nothing is
// retried or rolled back.
func (s *IntakeService) process(ctx context.Context, userID, channelID, text string) {
	label := domain.LabelTask
	if strings.TrimSpace(text) != "" {
		label = s.classifySafe(ctx, text)
	}

	issueTypeID := s.jiraCfg.IssueTypeID(label.IssueTypeName())
	issueKey, err := s.tracker.CreateIssue(ctx, jira.CreateIssueInput{
		Summary:     text,
		Description: text,
		ProjectID:   s.jiraCfg.ProjectID,
		IssueTypeID: issueTypeID,
	})
	if err != nil || issueKey == "" {
		s.logger.Error("issue creation failed",
			zap.String("user", userID),
			zap.String("channel", channelID),
			zap.Error(err))
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTicketCreationFailed,
			RequesterID: userID,
			ChannelID:   channelID,
			Label:       label,
		})
		s.notify(ctx, channelID, MsgCreateFailed, nil, userID)
		return
	}

	record := &domain.TicketLog{
		RequesterID: userID,
		ChannelID:   channelID,
		IssueKey:    issueKey,
		Label:       label,
		Status:      domain.TicketStatusCreated,
	}
	if err := s.records.Create(ctx, record); err != nil {
		// Issue already exists upstream; log and keep going so the
		// requester still gets their key.
		s.logger.Error("ticket log insert failed",
			zap.String("issue_key", issueKey),
			zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketCreated,
		IssueKey:    issueKey,
		RequesterID: userID,
		ChannelID:   channelID,
		Label:       label,
	})
	s.notify(ctx, channelID, msgCreatedPrefix+issueKey, slack.ApprovalBlocks(issueKey), userID)
}

// classifySafe shields the pipeline from the engine: anything unexpected,
// including a panic, downgrades to the default label.
func (s *IntakeService) classifySafe(ctx context.Context, text string) (label domain.Label) {
	label = domain.LabelTask
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classification panicked", zap.Any("panic", r))
			label = domain.LabelTask
		}
	}()
	if s.classifier == nil {
		return label
	}
	if result := s.classifier.Classify(ctx, text); result.Valid() {
		label = result
	}
	return label
}

func (s *IntakeService) notify(ctx context.Context, channel, text string, blocks []slack.Block, fallbackUser string) {
	if err := s.notifier.SendMessage(ctx, channel, text, blocks, fallbackUser); err != nil {
		s.logger.Error("notification failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
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
