package events

import (
	"time"

	"github.com/spec-kit/ticket-agent/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketCreationFailed EventType = "ticket_creation_failed"
	EventTicketApproved       EventType = "ticket_approved"
	EventTicketRejected       EventType = "ticket_rejected"
)

// Event represents an intake pipeline event emitted by services.
type Event struct {
	ID          string       `json:"id"`
	Type        EventType    `json:"type"`
	IssueKey    string       `json:"issue_key,omitempty"`
	RequesterID string       `json:"requester_id,omitempty"`
	ChannelID   string       `json:"channel_id,omitempty"`
	Label       domain.Label `json:"label,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}
