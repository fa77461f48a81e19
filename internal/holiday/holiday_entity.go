package holiday

import (
	"time"

	"github.com/google/uuid"
)

type BankHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_bank_holidays_company_date"`
	Country   string    `gorm:"size:2;not null"`
	Name      string    `gorm:"size:255;not null"`
	Date      time.Time `gorm:"type:date;not null;index:idx_bank_holidays_company_date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
