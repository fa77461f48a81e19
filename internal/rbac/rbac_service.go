package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"

	"go-leaveflow/internal/domain"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListRoles(companyID string) ([]domain.RoleResponse, error)
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(companyID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

// Enforce reloads the company's policy before evaluating so role edits
// take effect without a restart. The enforcer is shared, hence the lock.
func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("employee_id", req.EmployeeID),
		zap.String("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (s *service) ListRoles(companyID string) ([]domain.RoleResponse, error) {
	roles, err := s.repo.ListRoles(companyID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms, err := s.repo.GetPermissionsByRoleID(role.ID)
		if err != nil {
			return nil, err
		}

		permNames := make([]string, 0, len(perms))
		for _, p := range perms {
			permNames = append(permNames, p.Resource+":"+p.Action)
		}

		result = append(result, domain.RoleResponse{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: permNames,
		})
	}

	return result, nil
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		result = append(result, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}

	return result, nil
}
