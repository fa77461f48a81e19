package approval

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	approvalerrors "go-leaveflow/internal/approval/errors"
	"go-leaveflow/internal/company"
	"go-leaveflow/internal/department"
	"go-leaveflow/internal/employee"
	"go-leaveflow/internal/project"
)

// StepBlueprint is an unpersisted approval step produced by routing.
type StepBlueprint struct {
	ApproverID    string
	RoleID        string // approver role, empty for department-manager steps
	ProjectID     string // empty outside project context
	SequenceOrder int
}

// Route is the routing decision for a new request: a flat approver set in
// basic mode, an ordered step list in advanced mode.
type Route struct {
	Mode      company.RoutingMode
	Approvers []string
	Steps     []StepBlueprint
}

//go:generate mockgen -source=approval_resolver.go -destination=mock/approval_resolver_mock.go -package=mock
type Resolver interface {
	Resolve(ctx context.Context, companyID, requesterID, projectID string) (Route, error)
}

type resolver struct {
	companies   company.Repository
	departments department.Repository
	employees   employee.Repository
	projects    project.Repository
	rules       RuleRepository
	logger      *zap.Logger
}

func NewResolver(
	companies company.Repository,
	departments department.Repository,
	employees employee.Repository,
	projects project.Repository,
	rules RuleRepository,
	logger ...*zap.Logger,
) Resolver {
	l := zap.L().Named("approval.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.resolver")
	}
	return &resolver{
		companies:   companies,
		departments: departments,
		employees:   employees,
		projects:    projects,
		rules:       rules,
		logger:      l,
	}
}

func (r *resolver) Resolve(ctx context.Context, companyID, requesterID, projectID string) (Route, error) {
	comp, err := r.companies.FindByID(ctx, companyID)
	if err != nil {
		return Route{}, err
	}

	requester, err := r.employees.FindByIDAndCompany(ctx, companyID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Route{}, approvalerrors.ErrRequesterNotFound
		}
		return Route{}, err
	}

	if comp.RoutingMode == company.RoutingAdvanced {
		return r.resolveAdvanced(ctx, companyID, requester, projectID)
	}
	return r.resolveBasic(ctx, companyID, requester)
}

func (r *resolver) resolveBasic(ctx context.Context, companyID string, requester *employee.Employee) (Route, error) {
	approvers, err := r.basicApprovers(ctx, companyID, requester)
	if err != nil {
		return Route{}, err
	}
	if len(approvers) == 0 {
		r.logger.Warn("no approver resolvable",
			zap.String("company_id", companyID),
			zap.String("requester_id", requester.ID.String()),
		)
		return Route{}, approvalerrors.ErrNoApprover
	}
	return Route{Mode: company.RoutingBasic, Approvers: approvers}, nil
}

// basicApprovers walks the basic-mode chain: secondary supervisors, then the
// department boss, then company admins. The requester is never a candidate.
func (r *resolver) basicApprovers(ctx context.Context, companyID string, requester *employee.Employee) ([]string, error) {
	requesterID := requester.ID.String()

	if requester.DepartmentID != nil {
		deptID := requester.DepartmentID.String()

		supervisors, err := r.departments.SecondarySupervisorIDs(ctx, companyID, deptID)
		if err != nil {
			return nil, err
		}
		supervisors = exclude(supervisors, requesterID)
		if len(supervisors) > 0 {
			return supervisors, nil
		}

		dept, err := r.departments.FindByIDAndCompany(ctx, companyID, deptID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && dept.BossID != nil && dept.BossID.String() != requesterID {
			boss, err := r.employees.FindByIDAndCompany(ctx, companyID, dept.BossID.String())
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if err == nil && boss.Active() {
				return []string{boss.ID.String()}, nil
			}
		}
	}

	return r.employees.ActiveAdminIDs(ctx, companyID, requesterID)
}

func (r *resolver) resolveAdvanced(ctx context.Context, companyID string, requester *employee.Employee, projectID string) (Route, error) {
	steps, err := r.ruleSteps(ctx, companyID, requester, projectID)
	if err != nil {
		return Route{}, err
	}
	if len(steps) == 0 {
		return r.managerFallback(ctx, companyID, requester)
	}
	return Route{Mode: company.RoutingAdvanced, Steps: steps}, nil
}

func (r *resolver) ruleSteps(ctx context.Context, companyID string, requester *employee.Employee, projectID string) ([]StepBlueprint, error) {
	if projectID == "" {
		return nil, nil
	}

	proj, err := r.projects.FindByIDAndCompany(ctx, companyID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	requesterID := requester.ID.String()

	roleID, err := r.projects.RoleForEmployee(ctx, projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if roleID == "" && requester.DefaultRoleID != nil {
		roleID = requester.DefaultRoleID.String()
	}
	if roleID == "" {
		return nil, nil
	}

	subjectAreas, err := r.employees.AreasForRole(ctx, requesterID, roleID)
	if err != nil {
		return nil, err
	}

	rules, err := r.rules.FindMatching(ctx, companyID, RequestTypeLeave, proj.Type, roleID, subjectAreas)
	if err != nil {
		return nil, err
	}

	var steps []StepBlueprint
	for _, rule := range rules {
		candidates, err := r.projects.MemberIDsWithRole(ctx, companyID, projectID, rule.ApproverRoleID.String(), requesterID)
		if err != nil {
			return nil, err
		}

		if rule.MatchArea {
			// A subject with no areas produces zero approvers for this rule;
			// later rules may still apply.
			if len(subjectAreas) == 0 {
				continue
			}
			candidates, err = r.filterByArea(ctx, candidates, rule.ApproverRoleID.String(), subjectAreas)
			if err != nil {
				return nil, err
			}
		}

		for _, candidate := range candidates {
			steps = append(steps, StepBlueprint{
				ApproverID:    candidate,
				RoleID:        rule.ApproverRoleID.String(),
				ProjectID:     projectID,
				SequenceOrder: rule.SequenceOrder,
			})
		}
	}

	return steps, nil
}

func (r *resolver) filterByArea(ctx context.Context, candidates []string, roleID string, subjectAreas []string) ([]string, error) {
	subject := make(map[string]struct{}, len(subjectAreas))
	for _, a := range subjectAreas {
		subject[a] = struct{}{}
	}

	var matched []string
	for _, candidate := range candidates {
		areas, err := r.employees.AreasForRole(ctx, candidate, roleID)
		if err != nil {
			return nil, err
		}
		for _, a := range areas {
			if _, ok := subject[a]; ok {
				matched = append(matched, candidate)
				break
			}
		}
	}
	return matched, nil
}

// managerFallback wraps the basic-mode resolution as a single step wave at
// the terminal sequence marker.
func (r *resolver) managerFallback(ctx context.Context, companyID string, requester *employee.Employee) (Route, error) {
	approvers, err := r.basicApprovers(ctx, companyID, requester)
	if err != nil {
		return Route{}, err
	}
	if len(approvers) == 0 {
		r.logger.Warn("no approver resolvable after rule fallback",
			zap.String("company_id", companyID),
			zap.String("requester_id", requester.ID.String()),
		)
		return Route{}, approvalerrors.ErrNoApprover
	}

	steps := make([]StepBlueprint, len(approvers))
	for i, approverID := range approvers {
		steps[i] = StepBlueprint{
			ApproverID:    approverID,
			SequenceOrder: FallbackSequence,
		}
	}
	return Route{Mode: company.RoutingAdvanced, Steps: steps}, nil
}

func exclude(ids []string, excluded string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != excluded {
			out = append(out, id)
		}
	}
	return out
}
