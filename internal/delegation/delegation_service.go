package delegation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	delegationerrors "go-leaveflow/internal/delegation/errors"
	"go-leaveflow/internal/employee"
)

//go:generate mockgen -source=delegation_service.go -destination=mock/delegation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateDelegationRequest) (DelegationResponse, error)
	GetAll(ctx context.Context, companyID string) ([]DelegationResponse, error)
	Deactivate(ctx context.Context, companyID, id string) error
	// ActingFor expands an acting identity into the set of identities it may
	// decide on behalf of: itself plus every supervisor with an active
	// delegation covering today (UTC day granularity).
	ActingFor(ctx context.Context, companyID, delegateID string, today time.Time) ([]string, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("delegation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("delegation.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateDelegationRequest) (DelegationResponse, error) {
	s.logger.Debug("create delegation requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("supervisor_id", req.SupervisorID),
		zap.String("delegate_id", req.DelegateID),
	)

	supervisorUUID, err := uuid.Parse(req.SupervisorID)
	if err != nil {
		return DelegationResponse{}, delegationerrors.ErrInvalidSupervisorID
	}
	delegateUUID, err := uuid.Parse(req.DelegateID)
	if err != nil {
		return DelegationResponse{}, delegationerrors.ErrInvalidDelegateID
	}
	if supervisorUUID == delegateUUID {
		return DelegationResponse{}, delegationerrors.ErrSelfDelegation
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return DelegationResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return DelegationResponse{}, err
	}
	if startDate.After(endDate) {
		return DelegationResponse{}, delegationerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create delegation begin tx failed", zap.Error(err))
		return DelegationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	for _, id := range []string{req.SupervisorID, req.DelegateID} {
		belongs, err := s.employees.BelongsToCompany(ctx, companyID, id)
		if err != nil {
			s.logger.Error("create delegation company check failed", zap.Error(err))
			return DelegationResponse{}, err
		}
		if !belongs {
			return DelegationResponse{}, delegationerrors.ErrNotInCompany
		}
	}

	// Deactivate the supervisor's overlapping delegations first, so at most
	// one delegation per supervisor is effective on any day.
	overlapping, err := qtx.FindOverlapping(ctx, companyID, req.SupervisorID, startDate, endDate)
	if err != nil {
		s.logger.Error("create delegation overlap lookup failed", zap.Error(err))
		return DelegationResponse{}, err
	}
	for _, old := range overlapping {
		if err := qtx.Deactivate(ctx, old.ID.String()); err != nil {
			s.logger.Error("create delegation deactivate overlap failed",
				zap.String("delegation_id", old.ID.String()),
				zap.Error(err),
			)
			return DelegationResponse{}, err
		}
	}

	d := &Delegation{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		SupervisorID: supervisorUUID,
		DelegateID:   delegateUUID,
		StartDate:    startDate,
		EndDate:      endDate,
		Active:       true,
	}
	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create delegation persist failed", zap.Error(err))
		return DelegationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create delegation commit failed", zap.Error(err))
		return DelegationResponse{}, err
	}
	s.logger.Info("create delegation success",
		zap.String("delegation_id", d.ID.String()),
		zap.String("supervisor_id", req.SupervisorID),
		zap.String("delegate_id", req.DelegateID),
		zap.Int("deactivated", len(overlapping)),
	)

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]DelegationResponse, error) {
	delegations, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]DelegationResponse, len(delegations))
	for i, d := range delegations {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return delegationerrors.ErrDelegationNotFound
		}
		return err
	}
	if err := qtx.Deactivate(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) ActingFor(ctx context.Context, companyID, delegateID string, today time.Time) ([]string, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	supervisors, err := s.repo.ActiveSupervisorIDs(ctx, companyID, delegateID, day)
	if err != nil {
		return nil, err
	}

	identities := make([]string, 0, len(supervisors)+1)
	identities = append(identities, delegateID)
	for _, id := range supervisors {
		if id != delegateID {
			identities = append(identities, id)
		}
	}
	return identities, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, delegationerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(d Delegation) DelegationResponse {
	return DelegationResponse{
		ID:           d.ID.String(),
		CompanyID:    d.CompanyID.String(),
		SupervisorID: d.SupervisorID.String(),
		DelegateID:   d.DelegateID.String(),
		StartDate:    d.StartDate.Format("2006-01-02"),
		EndDate:      d.EndDate.Format("2006-01-02"),
		Active:       d.Active,
	}
}
