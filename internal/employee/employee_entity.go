package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const StatusActive = "ACTIVE"

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	FullName string `gorm:"size:255;not null"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`

	// DefaultRoleID is the fallback subject role for advanced approval
	// routing when the employee has no project-specific assignment.
	DefaultRoleID *uuid.UUID `gorm:"type:uuid"`

	IsAdmin          bool       `gorm:"not null;default:false"`
	EmploymentStatus string     `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	StartDate        time.Time  `gorm:"type:date;not null"`
	EndDate          *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (e *Employee) Active() bool {
	return e.EmploymentStatus == StatusActive && !e.DeletedAt.Valid
}

// RoleArea links an employee to an organizational area for one of their
// roles. Advanced routing intersects these sets when a rule requires the
// approver's area to match the subject's.
type RoleArea struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AreaID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (RoleArea) TableName() string { return "employee_role_areas" }
