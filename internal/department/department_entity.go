package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"size:255;not null"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Primary approver for employees of this department.
	BossID *uuid.UUID `gorm:"type:uuid"`

	// AllowanceOverride replaces the company default when set (half-day units).
	AllowanceOverride *duration.Days `gorm:"type:int"`

	// IncludeHolidays means bank holidays still consume allowance for this
	// department.
	IncludeHolidays bool `gorm:"not null;default:false"`
	Accrual         bool `gorm:"not null;default:false"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Supervisor is the junction row for a department's secondary supervisors.
type Supervisor struct {
	DepartmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (Supervisor) TableName() string { return "department_supervisors" }
