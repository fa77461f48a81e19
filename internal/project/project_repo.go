package project

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error)
	// RoleForEmployee returns the employee's role id on the project, or ""
	// when no assignment exists.
	RoleForEmployee(ctx context.Context, projectID, employeeID string) (string, error)
	// MemberIDsWithRole returns active employees holding roleID on the
	// project, in stable order, excluding excludeID when non-empty.
	MemberIDsWithRole(ctx context.Context, companyID, projectID, roleID, excludeID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) RoleForEmployee(ctx context.Context, projectID, employeeID string) (string, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("employee_id = ?", employeeID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return a.RoleID.String(), nil
}

func (r *repository) MemberIDsWithRole(ctx context.Context, companyID, projectID, roleID, excludeID string) ([]string, error) {
	db := r.db.WithContext(ctx).
		Table("project_assignments").
		Select("project_assignments.employee_id").
		Joins("JOIN employees ON employees.id = project_assignments.employee_id").
		Where("project_assignments.project_id = ?", projectID).
		Where("project_assignments.role_id = ?", roleID).
		Where("employees.company_id = ?", companyID).
		Where("employees.employment_status = ?", "ACTIVE").
		Where("employees.deleted_at IS NULL")

	if excludeID != "" {
		db = db.Where("project_assignments.employee_id <> ?", excludeID)
	}

	var ids []string
	err := db.Order("project_assignments.employee_id").Scan(&ids).Error
	return ids, err
}
