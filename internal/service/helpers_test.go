package service

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/ticket-agent/internal/domain"
	"github.com/spec-kit/ticket-agent/internal/jira"
	"github.com/spec-kit/ticket-agent/internal/slack"
)

var errNotFound = errors.New("no rows in result set")

type stubClassifier struct {
	mu        sync.Mutex
	label     domain.Label
	panicMode bool
	calls     int
}

func (c *stubClassifier) Classify(ctx context.Context, text string) domain.Label {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panicMode {
		panic("classifier blew up")
	}
	return c.label
}

func (c *stubClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type stubTracker struct {
	mu        sync.Mutex
	key       string
	createErr error
	status    string
	lastInput jira.CreateIssueInput
	calls     int
}

func (t *stubTracker) CreateIssue(ctx context.Context, in jira.CreateIssueInput) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.lastInput = in
	return t.key, t.createErr
}

func (t *stubTracker) GetIssueStatus(ctx context.Context, issueKey string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return t.status
}

func (t *stubTracker) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func (t *stubTracker) input() jira.CreateIssueInput {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastInput
}

// memoryRepo is an in-memory TicketLogRepository.
type memoryRepo struct {
	mu        sync.Mutex
	records   []*domain.TicketLog
	createErr error
	nextID    int64
}

func (r *memoryRepo) Create(ctx context.Context, log *domain.TicketLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	log.ID = r.nextID
	stored := *log
	r.records = append(r.records, &stored)
	return nil
}

func (r *memoryRepo) GetByIssueKey(ctx context.Context, issueKey string) (*domain.TicketLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].IssueKey == issueKey {
			found := *r.records[i]
			return &found, nil
		}
	}
	return nil, errNotFound
}

func (r *memoryRepo) Update(ctx context.Context, log *domain.TicketLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.records {
		if stored.ID == log.ID {
			stored.Status = log.Status
			return nil
		}
	}
	return errNotFound
}

func (r *memoryRepo) all() []domain.TicketLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketLog, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

type sentMessage struct {
	channel      string
	text         string
	blocks       []slack.Block
	fallbackUser string
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []sentMessage
	err      error
}

func (n *recordingNotifier) SendMessage(ctx context.Context, channel, text string, blocks []slack.Block, fallbackUser string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sentMessage{
		channel:      channel,
		text:         text,
		blocks:       blocks,
		fallbackUser: fallbackUser,
	})
	return n.err
}

func (n *recordingNotifier) sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage{}, n.messages...)
}
