package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"go-leaveflow/internal/tenant"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string, page, pageSize int) ([]LeaveRequest, int64, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	FindTypeByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)
	// HasOverlappingPeriod reports whether any open or approved request of
	// the employee intersects [startDate, endDate].
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
	WatcherIDs(ctx context.Context, requestID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds queries to the service-owned transaction when one is set, so
// the in-tx re-read and the status write share one atomic unit.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, page, pageSize int) ([]LeaveRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	base := r.conn(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := base.
		Order("date_start DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) FindTypeByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusNew, StatusApproved, StatusPendingRevoke}).
		Where("NOT (date_end < ? OR date_start > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) WatcherIDs(ctx context.Context, requestID string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&Watcher{}).
		Select("employee_id").
		Where("request_id = ?", requestID).
		Scan(&ids).Error
	return ids, err
}
