package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	// Type keys approval rules (e.g. INTERNAL, CLIENT).
	Type string `gorm:"type:varchar(30);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Assignment gives an employee a role on a project.
type Assignment struct {
	ProjectID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;not null"`
}

func (Assignment) TableName() string { return "project_assignments" }
