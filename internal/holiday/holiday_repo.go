package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	DatesInRange(ctx context.Context, companyID, country string, from, to time.Time) (duration.HolidaySet, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// DatesInRange returns the company's holidays for its country within
// [from, to]. Rows imported for other countries never reach the calculator.
func (r *repository) DatesInRange(ctx context.Context, companyID, country string, from, to time.Time) (duration.HolidaySet, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&BankHoliday{}).
		Select("date").
		Where("company_id = ?", companyID).
		Where("country = ?", country).
		Where("date BETWEEN ? AND ?", from, to).
		Scan(&dates).Error
	if err != nil {
		return nil, err
	}
	return duration.NewHolidaySet(dates...), nil
}
