package domain

import "time"

// TicketStatus enumerates lifecycle states for logged tickets.
type TicketStatus string

const (
	TicketStatusCreated  TicketStatus = "created"
	TicketStatusApproved TicketStatus = "approved"
	TicketStatusRejected TicketStatus = "rejected"
)

// TicketLog is the audit record written after the tracker confirms issue
// creation. IssueKey is the tracker-issued key and the sole correlation key
// for later approve/reject interactions. Status starts at created and is
// overwritten by interaction clicks; repeated clicks simply overwrite again.
type TicketLog struct {
	ID          int64
	RequesterID string
	ChannelID   string
	IssueKey    string
	Label       Label
	Status      TicketStatus
	CreatedAt   time.Time
}
