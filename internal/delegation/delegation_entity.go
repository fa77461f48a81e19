package delegation

import (
	"time"

	"github.com/google/uuid"
)

// Delegation lets a delegate act as an approver on the supervisor's behalf
// within an inclusive date window. Overlapping rows for one supervisor are
// deactivated on creation, so at most one delegation per supervisor is
// effective on any given day.
type Delegation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	SupervisorID uuid.UUID `gorm:"type:uuid;not null;index"`
	DelegateID   uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Active    bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Delegation) TableName() string { return "approval_delegations" }
