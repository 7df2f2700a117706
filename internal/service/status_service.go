package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MsgStatusPrompt asks the user for a key when the status command came empty.
const MsgStatusPrompt = "Please provide a ticket key, e.g. /ticket_status KAN-1"

// StatusService answers ticket status queries straight from the tracker.
// No caching, no retry; unreachable or unknown issues read as "Unknown".
type StatusService struct {
	tracker  IssueTracker
	notifier Notifier
	logger   *zap.Logger
}

// NewStatusService constructs the service.
func NewStatusService(tracker IssueTracker, notifier Notifier, logger *zap.Logger) *StatusService {
	return &StatusService{tracker: tracker, notifier: notifier, logger: logger}
}

// Query returns the user-facing status line for the given key. The same
// text is also posted to the originating channel, best-effort.
func (s *StatusService) Query(ctx context.Context, issueKey, channelID, userID string) string {
	issueKey = strings.TrimSpace(issueKey)
	if issueKey == "" {
		return MsgStatusPrompt
	}

	status := s.tracker.GetIssueStatus(ctx, issueKey)
	text := fmt.Sprintf("Ticket %s Status: %s", issueKey, status)

	if channelID != "" {
		if err := s.notifier.SendMessage(ctx, channelID, text, nil, userID); err != nil {
			s.logger.Error("notification failed", zap.String("channel", channelID), zap.Error(err))
		}
	}
	return text
}
