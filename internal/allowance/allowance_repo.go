package allowance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

//go:generate mockgen -source=allowance_repo.go -destination=mock/allowance_repo_mock.go -package=mock
type AdjustmentRepository interface {
	WithTx(tx *sql.Tx) AdjustmentRepository
	Create(ctx context.Context, a *Adjustment) error
	SumForYear(ctx context.Context, companyID, employeeID string, year int) (duration.Days, error)
	ListForYear(ctx context.Context, companyID, employeeID string, year int) ([]Adjustment, error)
}

type adjustmentRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) WithTx(tx *sql.Tx) AdjustmentRepository {
	return &adjustmentRepository{db: r.db, tx: tx}
}

// conn binds queries to the service-owned transaction when one is set.
func (r *adjustmentRepository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *adjustmentRepository) Create(ctx context.Context, a *Adjustment) error {
	return r.conn(ctx).Create(a).Error
}

func (r *adjustmentRepository) SumForYear(ctx context.Context, companyID, employeeID string, year int) (duration.Days, error) {
	var sum sql.NullInt64
	err := r.conn(ctx).
		Model(&Adjustment{}).
		Select("SUM(delta)").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Scan(&sum).Error
	if err != nil {
		return duration.Zero, err
	}
	return duration.Days(sum.Int64), nil
}

func (r *adjustmentRepository) ListForYear(ctx context.Context, companyID, employeeID string, year int) ([]Adjustment, error) {
	var out []Adjustment
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("created_at").
		Find(&out).Error
	return out, err
}

// RequestWindow is the slice of a leave request the breakdown engine needs
// to charge allowance: the date range and its boundary day parts.
type RequestWindow struct {
	StartDate    time.Time
	EndDate      time.Time
	DayPartStart string
	DayPartEnd   string
}

// RequestSource reads leave request windows without depending on the leave
// package, which itself consumes breakdowns for validation.
//
//go:generate mockgen -source=allowance_repo.go -destination=mock/request_source_mock.go -package=mock
type RequestSource interface {
	// WindowsIntersectingYear returns non-deleted requests of the employee in
	// any of the given statuses whose range intersects [yearStart, yearEnd].
	WindowsIntersectingYear(ctx context.Context, companyID, employeeID string, statuses []string, yearStart, yearEnd time.Time) ([]RequestWindow, error)
}

type requestSource struct {
	db *gorm.DB
}

func NewRequestSource(db *gorm.DB) RequestSource {
	return &requestSource{db: db}
}

func (r *requestSource) WindowsIntersectingYear(
	ctx context.Context,
	companyID, employeeID string,
	statuses []string,
	yearStart, yearEnd time.Time,
) ([]RequestWindow, error) {
	var out []RequestWindow
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("date_start AS start_date, date_end AS end_date, day_part_start, day_part_end").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", statuses).
		Where("deleted_at IS NULL").
		Where("date_start <= ? AND date_end >= ?", yearEnd, yearStart).
		Scan(&out).Error
	return out, err
}
