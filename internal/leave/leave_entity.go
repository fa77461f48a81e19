package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

// Request lifecycle statuses. PENDING_REVOKE is reachable only from
// APPROVED and re-enters the decision flow as a cancellation-in-progress.
const (
	StatusNew           = "NEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusCancelled     = "CANCELLED"
	StatusPendingRevoke = "PENDING_REVOKE"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	// Reference is the human-facing counter-generated number ("LV-000042").
	Reference   string     `gorm:"size:20;not null;uniqueIndex"`
	LeaveTypeID uuid.UUID  `gorm:"type:uuid;not null"`
	ProjectID   *uuid.UUID `gorm:"type:uuid"`

	DateStart    time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	DayPartStart string    `gorm:"type:varchar(10);not null;default:'ALL'"`
	DateEnd      time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	DayPartEnd   string    `gorm:"type:varchar(10);not null;default:'ALL'"`

	// DaysRequested is stored in half-day units.
	DaysRequested duration.Days `gorm:"type:int;not null"`
	Comment       string        `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'NEW';index:idx_leave_requests_company_status"`

	DecidedBy       *uuid.UUID `gorm:"type:uuid"`
	DecidedAt       *time.Time
	DecisionComment *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:100;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveType) TableName() string { return "leave_types" }

// Watcher is an extra recipient for final-decision notifications.
type Watcher struct {
	RequestID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (Watcher) TableName() string { return "leave_request_watchers" }
