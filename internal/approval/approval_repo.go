package approval

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type StepRepository interface {
	WithTx(tx *sql.Tx) StepRepository
	CreateBatch(ctx context.Context, steps []*Step) error
	ListByRequest(ctx context.Context, companyID, requestID string) ([]Step, error)
	Update(ctx context.Context, step *Step) error
}

type stepRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewStepRepository(db *gorm.DB) StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) WithTx(tx *sql.Tx) StepRepository {
	return &stepRepository{db: r.db, tx: tx}
}

// conn binds queries to the service-owned transaction when one is set, so
// step writes commit or roll back with the rest of the decision.
func (r *stepRepository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *stepRepository) CreateBatch(ctx context.Context, steps []*Step) error {
	if len(steps) == 0 {
		return nil
	}
	return r.conn(ctx).Create(steps).Error
}

func (r *stepRepository) ListByRequest(ctx context.Context, companyID, requestID string) ([]Step, error) {
	var steps []Step
	err := r.conn(ctx).
		Where("company_id = ?", companyID).
		Where("request_id = ?", requestID).
		Order("sequence_order, created_at").
		Find(&steps).Error
	return steps, err
}

func (r *stepRepository) Update(ctx context.Context, step *Step) error {
	return r.conn(ctx).Save(step).Error
}

type RuleRepository interface {
	// FindMatching returns rules for (requestType, projectType, subjectRole)
	// whose subject area is either the wildcard or one of subjectAreaIDs,
	// ordered by sequence order.
	FindMatching(ctx context.Context, companyID, requestType, projectType, subjectRoleID string, subjectAreaIDs []string) ([]Rule, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) FindMatching(
	ctx context.Context,
	companyID, requestType, projectType, subjectRoleID string,
	subjectAreaIDs []string,
) ([]Rule, error) {
	db := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("request_type = ?", requestType).
		Where("project_type = ?", projectType).
		Where("subject_role_id = ?", subjectRoleID)

	if len(subjectAreaIDs) > 0 {
		db = db.Where("subject_area_id IS NULL OR subject_area_id IN ?", subjectAreaIDs)
	} else {
		db = db.Where("subject_area_id IS NULL")
	}

	var rules []Rule
	err := db.Order("sequence_order, created_at").Find(&rules).Error
	return rules, err
}
