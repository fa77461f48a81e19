package schedule

import (
	"time"

	"github.com/google/uuid"

	"go-leaveflow/internal/duration"
)

// Schedule stores one workday code per weekday. A row with a nil EmployeeID
// is the company default; a row with an EmployeeID overrides it.
type Schedule struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_schedules_company_employee"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index:idx_schedules_company_employee"`

	Monday    int `gorm:"not null;default:1"`
	Tuesday   int `gorm:"not null;default:1"`
	Wednesday int `gorm:"not null;default:1"`
	Thursday  int `gorm:"not null;default:1"`
	Friday    int `gorm:"not null;default:1"`
	Saturday  int `gorm:"not null;default:2"`
	Sunday    int `gorm:"not null;default:2"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Schedule) Week() duration.WeekSchedule {
	return duration.WeekSchedule{
		duration.WorkdayCode(s.Monday),
		duration.WorkdayCode(s.Tuesday),
		duration.WorkdayCode(s.Wednesday),
		duration.WorkdayCode(s.Thursday),
		duration.WorkdayCode(s.Friday),
		duration.WorkdayCode(s.Saturday),
		duration.WorkdayCode(s.Sunday),
	}
}
