package events

import "time"

const LeaveRequestSubmittedTopic = "leave.request.submitted.v1"

// LeaveRequestSubmittedEvent notifies one approver that a request awaits
// their decision. One event is queued per resolved approver.
type LeaveRequestSubmittedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	Reference     string    `json:"reference"`
	CompanyID     string    `json:"company_id"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	ApproverID    string    `json:"approver_id"`
	LeaveType     string    `json:"leave_type"`
	DateStart     string    `json:"date_start"`
	DayPartStart  string    `json:"day_part_start"`
	DateEnd       string    `json:"date_end"`
	DayPartEnd    string    `json:"day_part_end"`
	DaysRequested float64   `json:"days_requested"`
	Comment       string    `json:"comment,omitempty"`
	Link          string    `json:"link"`
	OccurredAt    time.Time `json:"occurred_at"`
}
