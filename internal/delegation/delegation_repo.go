package delegation

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=delegation_repo.go -destination=mock/delegation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Delegation) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Delegation, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Delegation, error)
	// FindOverlapping returns the supervisor's active delegations whose
	// windows intersect [start, end].
	FindOverlapping(ctx context.Context, companyID, supervisorID string, start, end time.Time) ([]Delegation, error)
	// ActiveSupervisorIDs returns supervisors with an active delegation to
	// the delegate whose window contains day.
	ActiveSupervisorIDs(ctx context.Context, companyID, delegateID string, day time.Time) ([]string, error)
	Deactivate(ctx context.Context, id string) error
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

// conn binds queries to the service-owned transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, d *Delegation) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Delegation, error) {
	var out []Delegation
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Delegation, error) {
	var d Delegation
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindOverlapping(ctx context.Context, companyID, supervisorID string, start, end time.Time) ([]Delegation, error) {
	var out []Delegation
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("supervisor_id = ?", supervisorID).
		Where("active = ?", true).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Find(&out).Error
	return out, err
}

func (r *repository) ActiveSupervisorIDs(ctx context.Context, companyID, delegateID string, day time.Time) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&Delegation{}).
		Select("supervisor_id").
		Where("company_id = ?", companyID).
		Where("delegate_id = ?", delegateID).
		Where("active = ?", true).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Scan(&ids).Error
	return ids, err
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&Delegation{}).
		Where("id = ?", id).
		Update("active", false).Error
}
