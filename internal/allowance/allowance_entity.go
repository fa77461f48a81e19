package allowance

import (
	"time"

	"github.com/google/uuid"

	"go-leaveflow/internal/duration"
)

// Adjustment is a signed manual correction to an employee's allowance for
// one year, in half-day units. Rows accumulate; the engine sums them.
type Adjustment struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID     `gorm:"type:uuid;not null;index:idx_adjustment_employee_year"`
	Year       int           `gorm:"not null;index:idx_adjustment_employee_year"`
	Delta      duration.Days `gorm:"type:int;not null"`
	Reason     string        `gorm:"size:500;not null"`
	CreatedBy  uuid.UUID     `gorm:"type:uuid;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Adjustment) TableName() string { return "user_allowance_adjustments" }
