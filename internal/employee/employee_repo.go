package employee

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	BelongsToCompany(ctx context.Context, companyID, id string) (bool, error)
	// ActiveAdminIDs returns the company's active administrators, in stable
	// order, excluding excludeID when non-empty.
	ActiveAdminIDs(ctx context.Context, companyID, excludeID string) ([]string, error)
	// AreasForRole returns the employee's area ids for one role.
	AreasForRole(ctx context.Context, employeeID, roleID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) BelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ActiveAdminIDs(ctx context.Context, companyID, excludeID string) ([]string, error) {
	db := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("id").
		Where("company_id = ?", companyID).
		Where("is_admin = ?", true).
		Where("employment_status = ?", StatusActive)

	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var ids []string
	err := db.Order("id").Scan(&ids).Error
	return ids, err
}

func (r *repository) AreasForRole(ctx context.Context, employeeID, roleID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&RoleArea{}).
		Select("area_id").
		Where("employee_id = ?", employeeID).
		Where("role_id = ?", roleID).
		Scan(&ids).Error
	return ids, err
}
