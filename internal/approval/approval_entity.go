package approval

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestTypeLeave is the only request type the engine routes today; the
// rule table is keyed by type so other request kinds can share it later.
const RequestTypeLeave = "LEAVE"

// FallbackSequence marks the department-manager fallback step that advanced
// routing materializes when no rule produces an approver.
const FallbackSequence = 999

// StepStatus is the closed step state enum. Storage keeps the historical
// integer encoding (0/1/2); nothing outside the repo layer touches raw ints.
type StepStatus int

const (
	StepPending  StepStatus = 0
	StepApproved StepStatus = 1
	StepRejected StepStatus = 2
)

func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "PENDING"
	case StepApproved:
		return "APPROVED"
	case StepRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("StepStatus(%d)", int(s))
	}
}

func ParseStepStatus(v int) (StepStatus, error) {
	switch StepStatus(v) {
	case StepPending, StepApproved, StepRejected:
		return StepStatus(v), nil
	default:
		return 0, fmt.Errorf("unknown step status %d", v)
	}
}

func (s StepStatus) Terminal() bool { return s != StepPending }

// Step is one unit of required approval for a leave request. Steps sharing a
// sequence order form a wave; only the lowest pending wave is actionable.
type Step struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_steps_request"`

	ApproverID uuid.UUID  `gorm:"type:uuid;not null"`
	RoleID     *uuid.UUID `gorm:"type:uuid"`
	ProjectID  *uuid.UUID `gorm:"type:uuid"`

	SequenceOrder int        `gorm:"not null;default:1"`
	Status        StepStatus `gorm:"type:int;not null;default:0"`

	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Step) TableName() string { return "approval_steps" }

// Rule is a company-scoped routing rule mapping a subject (role, optional
// area) on a project type to an approver role with a sequence order.
type Rule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	RequestType string `gorm:"type:varchar(20);not null;default:'LEAVE'"`
	ProjectType string `gorm:"type:varchar(30);not null"`

	SubjectRoleID uuid.UUID  `gorm:"type:uuid;not null"`
	SubjectAreaID *uuid.UUID `gorm:"type:uuid"` // nil = any area

	ApproverRoleID uuid.UUID `gorm:"type:uuid;not null"`
	// MatchArea requires the approver's areas for their role to intersect
	// the subject's areas for theirs.
	MatchArea     bool `gorm:"not null;default:false"`
	SequenceOrder int  `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Rule) TableName() string { return "approval_rules" }
