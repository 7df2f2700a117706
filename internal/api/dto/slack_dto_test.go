package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChannelShapes(t *testing.T) {
	fromChannel := &InteractionPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"channel":{"id":"C1"}}`), fromChannel))
	assert.Equal(t, "C1", fromChannel.ResolveChannel())

	fromContainer := &InteractionPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"container":{"channel_id":"C2"}}`), fromContainer))
	assert.Equal(t, "C2", fromContainer.ResolveChannel())

	fromTopLevel := &InteractionPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"channel_id":"C3"}`), fromTopLevel))
	assert.Equal(t, "C3", fromTopLevel.ResolveChannel())
}

func TestResolveChannelPrecedence(t *testing.T) {
	payload := &InteractionPayload{}
	raw := `{"channel":{"id":"C1"},"container":{"channel_id":"C2"},"channel_id":"C3"}`
	require.NoError(t, json.Unmarshal([]byte(raw), payload))
	assert.Equal(t, "C1", payload.ResolveChannel())
}

func TestInteractionPayloadActions(t *testing.T) {
	payload := &InteractionPayload{}
	raw := `{"actions":[{"action_id":"approve_ticket","value":"KAN-3"}],"user":{"id":"U9"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), payload))
	require.Len(t, payload.Actions, 1)
	assert.Equal(t, "approve_ticket", payload.Actions[0].ActionID)
	assert.Equal(t, "KAN-3", payload.Actions[0].Value)
}
