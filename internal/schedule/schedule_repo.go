package schedule

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	// EffectiveForEmployee resolves the week that applies to an employee:
	// their own override first, then the company default, then Monday-Friday.
	EffectiveForEmployee(ctx context.Context, companyID, employeeID string) (duration.WeekSchedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EffectiveForEmployee(ctx context.Context, companyID, employeeID string) (duration.WeekSchedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		First(&s).Error
	if err == nil {
		return s.Week(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return duration.WeekSchedule{}, err
	}

	err = r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id IS NULL").
		First(&s).Error
	if err == nil {
		return s.Week(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return duration.WeekSchedule{}, err
	}

	return duration.DefaultWeek(), nil
}
