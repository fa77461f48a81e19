package leave

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type SubmitLeaveRequest struct {
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	DateStart    string `json:"date_start" binding:"required"`
	DayPartStart string `json:"day_part_start" binding:"omitempty,oneof=ALL MORNING AFTERNOON"`
	DateEnd      string `json:"date_end" binding:"required"`
	DayPartEnd   string `json:"day_part_end" binding:"omitempty,oneof=ALL MORNING AFTERNOON"`
	Comment      string `json:"comment"`
	ProjectID    string `json:"project_id" binding:"omitempty,uuid"`
}

type SubmitLeaveResponse struct {
	RequestID     string  `json:"request_id"`
	Reference     string  `json:"reference"`
	Status        string  `json:"status"`
	DaysRequested float64 `json:"days_requested"`
}

type DecideLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comment  string `json:"comment"`
}

type DecisionResponse struct {
	Message         string `json:"message"`
	Status          string `json:"status"`
	IsFinalDecision bool   `json:"is_final_decision"`
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	Reference       string  `json:"reference"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveTypeID     string  `json:"leave_type_id"`
	ProjectID       *string `json:"project_id,omitempty"`
	DateStart       string  `json:"date_start"`
	DayPartStart    string  `json:"day_part_start"`
	DateEnd         string  `json:"date_end"`
	DayPartEnd      string  `json:"day_part_end"`
	DaysRequested   float64 `json:"days_requested"`
	Comment         string  `json:"comment,omitempty"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	DecisionComment *string `json:"decision_comment,omitempty"`

	Steps []StepResponse `json:"steps,omitempty"`
}

type StepResponse struct {
	ID            string  `json:"id"`
	ApproverID    string  `json:"approver_id"`
	SequenceOrder int     `json:"sequence_order"`
	Status        string  `json:"status"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
}
