package slack

// Block is one element of a Block Kit message.
type Block struct {
	Type     string         `json:"type"`
	BlockID  string         `json:"block_id,omitempty"`
	Text     *TextObject    `json:"text,omitempty"`
	Elements []BlockElement `json:"elements,omitempty"`
}

// TextObject is a Block Kit text node.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BlockElement is an interactive element, currently only buttons.
type BlockElement struct {
	Type     string      `json:"type"`
	Text     *TextObject `json:"text,omitempty"`
	Style    string      `json:"style,omitempty"`
	Value    string      `json:"value,omitempty"`
	ActionID string      `json:"action_id,omitempty"`
}

// Interaction action ids carried by the approval buttons.
const (
	ActionApproveTicket = "approve_ticket"
	ActionRejectTicket  = "reject_ticket"
)

// ApprovalBlocks builds the approve/reject prompt posted after a ticket is
// created. Both buttons carry the issue key so the actions handler can find
// the logged record.
func ApprovalBlocks(issueKey string) []Block {
	if issueKey == "" {
		issueKey = "UNKNOWN"
	}
	return []Block{
		{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: "Jira ticket *" + issueKey + "* has been created. Do you want to approve or reject it?",
			},
		},
		{
			Type:    "actions",
			BlockID: "actions_" + issueKey,
			Elements: []BlockElement{
				{
					Type:     "button",
					Text:     &TextObject{Type: "plain_text", Text: "Approve"},
					Style:    "primary",
					Value:    issueKey,
					ActionID: ActionApproveTicket,
				},
				{
					Type:     "button",
					Text:     &TextObject{Type: "plain_text", Text: "Reject"},
					Style:    "danger",
					Value:    issueKey,
					ActionID: ActionRejectTicket,
				},
			},
		},
	}
}
