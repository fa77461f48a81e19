package events

import "time"

const LeaveRequestDecidedTopic = "leave.request.decided.v1"

// LeaveRequestDecidedEvent notifies the requester (and watchers) that a
// request reached a final decision. Queued once per recipient.
type LeaveRequestDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	Reference    string    `json:"reference"`
	CompanyID    string    `json:"company_id"`
	RecipientID  string    `json:"recipient_id"`
	RequesterID  string    `json:"requester_id"`
	DecidedByID  string    `json:"decided_by_id"`
	Decision     string    `json:"decision"`
	LeaveType    string    `json:"leave_type"`
	DateStart    string    `json:"date_start"`
	DateEnd      string    `json:"date_end"`
	Comment      string    `json:"comment,omitempty"`
	Link         string    `json:"link"`
	OccurredAt   time.Time `json:"occurred_at"`
}
