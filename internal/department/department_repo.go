package department

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Department, error)
	// SecondarySupervisorIDs returns the active secondary supervisors of a
	// department, in stable order.
	SecondarySupervisorIDs(ctx context.Context, companyID, departmentID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Department, error) {
	var d Department
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) SecondarySupervisorIDs(ctx context.Context, companyID, departmentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("department_supervisors").
		Select("department_supervisors.employee_id").
		Joins("JOIN employees ON employees.id = department_supervisors.employee_id").
		Where("department_supervisors.department_id = ?", departmentID).
		Where("employees.company_id = ?", companyID).
		Where("employees.employment_status = ?", "ACTIVE").
		Where("employees.deleted_at IS NULL").
		Order("department_supervisors.employee_id").
		Scan(&ids).Error
	return ids, err
}
