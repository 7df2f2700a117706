package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/config"
)

type recordedCall struct {
	path    string
	channel string
	users   string
}

func newTestClient(t *testing.T, respond func(call recordedCall) string) (*Client, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		call := recordedCall{path: r.URL.Path}
		if v, ok := body["channel"].(string); ok {
			call.channel = v
		}
		if v, ok := body["users"].(string); ok {
			call.users = v
		}
		*calls = append(*calls, call)
		_, _ = w.Write([]byte(respond(call)))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.SlackConfig{BotToken: "xoxb-test", APIBaseURL: srv.URL}, zap.NewNop())
	return client, calls
}

func TestSendMessagePostsToChannel(t *testing.T) {
	client, calls := newTestClient(t, func(recordedCall) string { return `{"ok":true}` })

	err := client.SendMessage(context.Background(), "C123", "hello", nil, "U1")
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, "/chat.postMessage", (*calls)[0].path)
	assert.Equal(t, "C123", (*calls)[0].channel)
}

func TestSendMessageDMChannelOpensConversationFirst(t *testing.T) {
	client, calls := newTestClient(t, func(call recordedCall) string {
		if call.path == "/conversations.open" {
			return `{"ok":true,"channel":{"id":"D900"}}`
		}
		return `{"ok":true}`
	})

	err := client.SendMessage(context.Background(), "D123", "hi", nil, "U42")
	require.NoError(t, err)
	require.Len(t, *calls, 2)
	assert.Equal(t, "/conversations.open", (*calls)[0].path)
	assert.Equal(t, "U42", (*calls)[0].users)
	assert.Equal(t, "D900", (*calls)[1].channel)
}

func TestSendMessageChannelNotFoundFallsBackToDM(t *testing.T) {
	client, calls := newTestClient(t, func(call recordedCall) string {
		switch {
		case call.path == "/conversations.open":
			return `{"ok":true,"channel":{"id":"D777"}}`
		case call.channel == "C404":
			return `{"ok":false,"error":"channel_not_found"}`
		default:
			return `{"ok":true}`
		}
	})

	err := client.SendMessage(context.Background(), "C404", "hi", nil, "U42")
	require.NoError(t, err)
	require.Len(t, *calls, 3)
	assert.Equal(t, "/chat.postMessage", (*calls)[0].path)
	assert.Equal(t, "/conversations.open", (*calls)[1].path)
	assert.Equal(t, "D777", (*calls)[2].channel)
}

func TestSendMessageRejectionWithoutFallbackIsError(t *testing.T) {
	client, _ := newTestClient(t, func(recordedCall) string {
		return `{"ok":false,"error":"not_in_channel"}`
	})

	err := client.SendMessage(context.Background(), "C123", "hi", nil, "")
	assert.Error(t, err)
}

func TestApprovalBlocksShape(t *testing.T) {
	blocks := ApprovalBlocks("KAN-9")
	require.Len(t, blocks, 2)

	assert.Equal(t, "section", blocks[0].Type)
	assert.Contains(t, blocks[0].Text.Text, "KAN-9")

	actions := blocks[1]
	assert.Equal(t, "actions", actions.Type)
	require.Len(t, actions.Elements, 2)
	assert.Equal(t, ActionApproveTicket, actions.Elements[0].ActionID)
	assert.Equal(t, ActionRejectTicket, actions.Elements[1].ActionID)
	// Both buttons carry the issue key for the actions handler.
	assert.Equal(t, "KAN-9", actions.Elements[0].Value)
	assert.Equal(t, "KAN-9", actions.Elements[1].Value)
}
