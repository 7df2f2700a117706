package dto

// SlashCommand is the form-encoded body Slack posts for slash commands.
type SlashCommand struct {
	Command   string `json:"command" form:"command"`
	Text      string `json:"text" form:"text"`
	UserID    string `json:"user_id" form:"user_id"`
	ChannelID string `json:"channel_id" form:"channel_id"`
}

// InteractionAction is a single element of an interaction payload, one
// per button pressed. Value carries the Jira issue key.
type InteractionAction struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
}

// InteractionUser identifies who clicked.
type InteractionUser struct {
	ID string `json:"id"`
}

// InteractionChannel is the nested channel object newer payloads carry.
type InteractionChannel struct {
	ID string `json:"id"`
}

// InteractionContainer holds the message container metadata.
type InteractionContainer struct {
	ChannelID string `json:"channel_id"`
}

// InteractionPayload is the JSON document Slack sends for block actions.
// Slack has shipped several shapes over time, so the channel id may live
// in any of three places.
type InteractionPayload struct {
	Type      string                `json:"type"`
	User      *InteractionUser      `json:"user"`
	Actions   []InteractionAction   `json:"actions"`
	Channel   *InteractionChannel   `json:"channel"`
	Container *InteractionContainer `json:"container"`
	ChannelID string                `json:"channel_id"`
}

// ResolveChannel returns the channel id from whichever payload shape is
// populated, preferring the nested channel object.
func (p *InteractionPayload) ResolveChannel() string {
	if p.Channel != nil && p.Channel.ID != "" {
		return p.Channel.ID
	}
	if p.Container != nil && p.Container.ChannelID != "" {
		return p.Container.ChannelID
	}
	return p.ChannelID
}

// EventCallback is the envelope for the Events API. Only url_verification
// is acted on.
type EventCallback struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
}
