package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueryEmptyKeyPrompts(t *testing.T) {
	tracker := &stubTracker{status: "Done"}
	notifier := &recordingNotifier{}
	service := NewStatusService(tracker, notifier, zap.NewNop())

	text := service.Query(context.Background(), "   ", "C1", "U1")
	assert.Equal(t, MsgStatusPrompt, text)
	assert.Zero(t, tracker.callCount())
	assert.Empty(t, notifier.sent())
}

func TestQueryReportsStatus(t *testing.T) {
	tracker := &stubTracker{status: "In Progress"}
	notifier := &recordingNotifier{}
	service := NewStatusService(tracker, notifier, zap.NewNop())

	text := service.Query(context.Background(), " KAN-2 ", "C1", "U1")
	assert.Equal(t, "Ticket KAN-2 Status: In Progress", text)

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "C1", sent[0].channel)
	assert.Equal(t, text, sent[0].text)
	assert.Equal(t, "U1", sent[0].fallbackUser)
}

func TestQueryWithoutChannelSkipsPost(t *testing.T) {
	tracker := &stubTracker{status: "Unknown"}
	notifier := &recordingNotifier{}
	service := NewStatusService(tracker, notifier, zap.NewNop())

	text := service.Query(context.Background(), "KAN-3", "", "U1")
	assert.Equal(t, "Ticket KAN-3 Status: Unknown", text)
	assert.Empty(t, notifier.sent())
}
