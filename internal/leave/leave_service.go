package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-leaveflow/internal/allowance"
	"go-leaveflow/internal/approval"
	"go-leaveflow/internal/audit"
	"go-leaveflow/internal/company"
	"go-leaveflow/internal/delegation"
	"go-leaveflow/internal/department"
	"go-leaveflow/internal/duration"
	"go-leaveflow/internal/employee"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/holiday"
	leaveerrors "go-leaveflow/internal/leave/errors"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/schedule"
	"go-leaveflow/internal/shared/counter"
)

// Audit actions emitted by the lifecycle engine. Override is a separate
// action so administrative force-decisions stay distinguishable from
// ordinary routed ones.
const (
	AuditSubmitted      = "leave.request.submitted"
	AuditApproved       = "leave.request.approved"
	AuditRejected       = "leave.request.rejected"
	AuditCancelled      = "leave.request.cancelled"
	AuditRevokeRequest  = "leave.request.revoke_requested"
	AuditDecideOverride = "leave.decision.override"
)

const referenceCounter = "leave_reference"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (SubmitLeaveResponse, error)
	Decide(ctx context.Context, companyID, actorID, id string, req DecideLeaveRequest) (DecisionResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID string, page, pageSize int) ([]LeaveRequestResponse, int64, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
}

// ServiceDeps bundles the engine's collaborators; the lifecycle touches
// nearly every read-side repository plus the outbox and audit sinks.
type ServiceDeps struct {
	DB          *sql.DB
	Requests    Repository
	Steps       approval.StepRepository
	Resolver    approval.Resolver
	Delegations delegation.Service
	Allowances  allowance.Service
	Companies   company.Repository
	Employees   employee.Repository
	Departments department.Repository
	Schedules   schedule.Repository
	Holidays    holiday.Repository
	Counter     counter.Repository
	Outbox      kafka.OutboxRepository
	Audit       audit.Logger
}

type service struct {
	deps   ServiceDeps
	logger *zap.Logger
}

func NewService(deps ServiceDeps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{deps: deps, logger: l}
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (SubmitLeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("date_start", req.DateStart),
		zap.String("date_end", req.DateEnd),
	)

	dateStart, err := parseDate(req.DateStart)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}
	dateEnd, err := parseDate(req.DateEnd)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}
	partStart, err := parseDayPart(req.DayPartStart)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}
	partEnd, err := parseDayPart(req.DayPartEnd)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}
	if dateStart.After(dateEnd) {
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	requester, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitLeaveResponse{}, leaveerrors.ErrActorNotInCompany
		}
		return SubmitLeaveResponse{}, err
	}

	if _, err := s.deps.Requests.FindTypeByIDAndCompany(ctx, companyID, req.LeaveTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitLeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return SubmitLeaveResponse{}, err
	}

	comp, err := s.deps.Companies.FindByID(ctx, companyID)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}

	days, err := s.requestedDays(ctx, companyID, comp.Country, requester, dateStart, dateEnd, partStart, partEnd)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}
	if days == duration.Zero {
		return SubmitLeaveResponse{}, leaveerrors.ErrZeroDuration
	}

	if err := s.checkAvailability(ctx, comp, companyID, actorID, dateStart, days); err != nil {
		return SubmitLeaveResponse{}, err
	}

	// A routing gap fails the submission; an unroutable request must never
	// be persisted.
	route, err := s.deps.Resolver.Resolve(ctx, companyID, actorID, req.ProjectID)
	if err != nil {
		return SubmitLeaveResponse{}, err
	}

	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)
	qsteps := s.deps.Steps.WithTx(tx)
	qoutbox := s.deps.Outbox.WithTx(tx)

	// Checked inside the transaction so two racing submissions for the same
	// employee cannot both pass the gate.
	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, actorID, dateStart, dateEnd)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}
	if overlap {
		return SubmitLeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	nextVal, err := s.deps.Counter.GetNextValue(ctx, companyID, referenceCounter)
	if err != nil {
		s.logger.Error("submit leave generate reference failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    requester.ID,
		Reference:     fmt.Sprintf("LV-%06d", nextVal),
		LeaveTypeID:   uuid.MustParse(req.LeaveTypeID),
		DateStart:     dateStart,
		DayPartStart:  string(partStart),
		DateEnd:       dateEnd,
		DayPartEnd:    string(partEnd),
		DaysRequested: days,
		Comment:       req.Comment,
		Status:        StatusNew,
	}
	if req.ProjectID != "" {
		projectUUID := uuid.MustParse(req.ProjectID)
		l.ProjectID = &projectUUID
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return SubmitLeaveResponse{}, mapPersistError(err)
	}

	approvers := route.Approvers
	if route.Mode == company.RoutingAdvanced {
		steps := make([]*approval.Step, len(route.Steps))
		seen := make(map[string]struct{}, len(route.Steps))
		approvers = approvers[:0]
		for i, bp := range route.Steps {
			step := &approval.Step{
				ID:            uuid.New(),
				CompanyID:     l.CompanyID,
				RequestID:     l.ID,
				ApproverID:    uuid.MustParse(bp.ApproverID),
				SequenceOrder: bp.SequenceOrder,
				Status:        approval.StepPending,
			}
			if bp.RoleID != "" {
				roleUUID := uuid.MustParse(bp.RoleID)
				step.RoleID = &roleUUID
			}
			if bp.ProjectID != "" {
				projectUUID := uuid.MustParse(bp.ProjectID)
				step.ProjectID = &projectUUID
			}
			steps[i] = step

			if _, ok := seen[bp.ApproverID]; !ok {
				seen[bp.ApproverID] = struct{}{}
				approvers = append(approvers, bp.ApproverID)
			}
		}
		if err := qsteps.CreateBatch(ctx, steps); err != nil {
			s.logger.Error("submit leave persist steps failed", zap.Error(err))
			return SubmitLeaveResponse{}, err
		}
	}

	for _, approverID := range approvers {
		if err := s.queueSubmittedEvent(ctx, qoutbox, l, requester, approverID); err != nil {
			s.logger.Error("submit leave queue notification failed",
				zap.String("approver_id", approverID),
				zap.Error(err),
			)
			return SubmitLeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}

	s.deps.Audit.Log(ctx, audit.Event{
		Action:    AuditSubmitted,
		CompanyID: companyID,
		ActorID:   actorID,
		SubjectID: l.ID.String(),
		Message:   "leave request submitted",
		Meta: map[string]any{
			"reference":      l.Reference,
			"days_requested": days.Float64(),
			"approvers":      len(approvers),
		},
	})
	s.invalidateAllowance(ctx, companyID, actorID, dateStart, dateEnd)

	s.logger.Info("submit leave success",
		zap.String("request_id", l.ID.String()),
		zap.String("reference", l.Reference),
		zap.String("mode", string(route.Mode)),
		zap.Int("approvers", len(approvers)),
	)

	return SubmitLeaveResponse{
		RequestID:     l.ID.String(),
		Reference:     l.Reference,
		Status:        l.Status,
		DaysRequested: days.Float64(),
	}, nil
}

// requestedDays runs the duration calculator with the employee's effective
// schedule. Departments flagged include-holidays charge holidays like
// ordinary working days.
func (s *service) requestedDays(
	ctx context.Context,
	companyID, country string,
	requester *employee.Employee,
	dateStart, dateEnd time.Time,
	partStart, partEnd duration.DayPart,
) (duration.Days, error) {
	week, err := s.deps.Schedules.EffectiveForEmployee(ctx, companyID, requester.ID.String())
	if err != nil {
		return duration.Zero, err
	}

	includeHolidays := false
	if requester.DepartmentID != nil {
		dept, err := s.deps.Departments.FindByIDAndCompany(ctx, companyID, requester.DepartmentID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return duration.Zero, err
		}
		if err == nil {
			includeHolidays = dept.IncludeHolidays
		}
	}

	holidays := duration.HolidaySet{}
	if !includeHolidays {
		holidays, err = s.deps.Holidays.DatesInRange(ctx, companyID, country, dateStart, dateEnd)
		if err != nil {
			return duration.Zero, err
		}
	}

	days, err := duration.Calculate(dateStart, dateEnd, partStart, partEnd, week, holidays)
	if err != nil {
		if errors.Is(err, duration.ErrEndBeforeStart) {
			return duration.Zero, leaveerrors.ErrInvalidDateRange
		}
		return duration.Zero, err
	}
	return days, nil
}

func (s *service) checkAvailability(ctx context.Context, comp *company.Company, companyID, employeeID string, dateStart time.Time, days duration.Days) error {
	if comp.UnlimitedAllowance {
		return nil
	}

	breakdown, err := s.deps.Allowances.GetBreakdown(ctx, companyID, employeeID, dateStart.Year())
	if err != nil {
		return err
	}
	if days.Float64() > breakdown.AvailableAllowance {
		s.logger.Warn("submit leave insufficient allowance",
			zap.String("employee_id", employeeID),
			zap.Float64("requested", days.Float64()),
			zap.Float64("available", breakdown.AvailableAllowance),
		)
		return leaveerrors.ErrInsufficientAllowance
	}
	return nil
}

func (s *service) Decide(ctx context.Context, companyID, actorID, id string, req DecideLeaveRequest) (DecisionResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("request_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
	)

	if req.Decision == DecisionReject && strings.TrimSpace(req.Comment) == "" {
		return DecisionResponse{}, leaveerrors.ErrCommentRequired
	}

	actor, err := s.deps.Employees.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResponse{}, leaveerrors.ErrActorNotInCompany
		}
		return DecisionResponse{}, err
	}

	identities, err := s.deps.Delegations.ActingFor(ctx, companyID, actorID, time.Now().UTC())
	if err != nil {
		return DecisionResponse{}, err
	}
	idset := make(map[string]struct{}, len(identities))
	for _, v := range identities {
		idset[v] = struct{}{}
	}

	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)
	qsteps := s.deps.Steps.WithTx(tx)
	qoutbox := s.deps.Outbox.WithTx(tx)

	// Authoritative state is whatever the transaction sees now; the branch
	// below must never rely on anything read before this point.
	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecisionResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return DecisionResponse{}, err
	}
	if l.Status != StatusNew && l.Status != StatusPendingRevoke {
		return DecisionResponse{}, leaveerrors.ErrStateConflict
	}

	requesterID := l.EmployeeID.String()
	if actorID == requesterID && !actor.IsAdmin {
		return DecisionResponse{}, leaveerrors.ErrSelfApproval
	}

	var (
		override bool
		isFinal  bool
	)

	switch {
	case l.Status == StatusPendingRevoke:
		override, err = s.authorizeFlat(ctx, companyID, requesterID, idset, actor)
		if err != nil {
			return DecisionResponse{}, err
		}
		// Approving a revocation cancels the request; rejecting it restores
		// the original approval.
		if req.Decision == DecisionApprove {
			l.Status = StatusCancelled
		} else {
			l.Status = StatusApproved
		}
		isFinal = true

	default:
		steps, err := qsteps.ListByRequest(ctx, companyID, id)
		if err != nil {
			return DecisionResponse{}, err
		}

		if len(steps) == 0 {
			// Basic mode persists no steps; authorization re-resolves the
			// flat approver set.
			override, err = s.authorizeFlat(ctx, companyID, requesterID, idset, actor)
			if err != nil {
				return DecisionResponse{}, err
			}
			if req.Decision == DecisionApprove {
				l.Status = StatusApproved
			} else {
				l.Status = StatusRejected
			}
			isFinal = true
		} else {
			isFinal, override, err = s.decideSteps(ctx, qsteps, l, steps, actor, idset, req.Decision)
			if err != nil {
				return DecisionResponse{}, err
			}
		}
	}

	now := time.Now().UTC()
	if isFinal {
		decidedBy := actor.ID
		l.DecidedBy = &decidedBy
		l.DecidedAt = &now
		if req.Comment != "" {
			comment := req.Comment
			l.DecisionComment = &comment
		}
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed", zap.String("request_id", id), zap.Error(err))
		return DecisionResponse{}, err
	}

	if isFinal {
		if err := s.queueDecidedEvents(ctx, qoutbox, l, actorID, req); err != nil {
			s.logger.Error("decide leave queue notifications failed", zap.Error(err))
			return DecisionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("request_id", id), zap.Error(err))
		return DecisionResponse{}, err
	}

	s.auditDecision(ctx, l, actorID, req.Decision, override, isFinal)
	if isFinal {
		s.invalidateAllowance(ctx, companyID, requesterID, l.DateStart, l.DateEnd)
	}

	s.logger.Info("decide leave success",
		zap.String("request_id", id),
		zap.String("decision", req.Decision),
		zap.String("status", l.Status),
		zap.Bool("final", isFinal),
		zap.Bool("override", override),
	)

	message := "decision recorded, more approvals pending"
	if isFinal {
		message = "request " + strings.ToLower(l.Status)
	}
	return DecisionResponse{Message: message, Status: l.Status, IsFinalDecision: isFinal}, nil
}

// authorizeFlat re-resolves routing and authorizes the actor against the
// flat approver set. Admins outside the set pass as an override.
func (s *service) authorizeFlat(
	ctx context.Context,
	companyID, requesterID string,
	idset map[string]struct{},
	actor *employee.Employee,
) (override bool, err error) {
	route, err := s.deps.Resolver.Resolve(ctx, companyID, requesterID, "")
	if err != nil {
		if actor.IsAdmin {
			return true, nil
		}
		return false, err
	}

	approvers := route.Approvers
	for _, bp := range route.Steps {
		approvers = append(approvers, bp.ApproverID)
	}
	for _, approverID := range approvers {
		if _, ok := idset[approverID]; ok {
			return false, nil
		}
	}
	if actor.IsAdmin {
		return true, nil
	}
	return false, leaveerrors.ErrNotAuthorizedToDecide
}

// decideSteps applies an advanced-mode decision to the persisted step list
// and returns whether the request reached a terminal aggregate.
func (s *service) decideSteps(
	ctx context.Context,
	qsteps approval.StepRepository,
	l *LeaveRequest,
	steps []approval.Step,
	actor *employee.Employee,
	idset map[string]struct{},
	decision string,
) (isFinal, override bool, err error) {
	companyID := l.CompanyID.String()
	wave, ok := approval.ActionableWave(steps)
	if !ok {
		return false, false, leaveerrors.ErrStateConflict
	}

	var actionable []approval.Step
	for _, step := range steps {
		if step.Status != approval.StepPending || step.SequenceOrder != wave {
			continue
		}
		if _, mine := idset[step.ApproverID.String()]; mine {
			actionable = append(actionable, step)
		}
	}

	if len(actionable) == 0 {
		if !actor.IsAdmin {
			return false, false, leaveerrors.ErrNotAuthorizedToDecide
		}
		// Administrative override: force the whole wave.
		override = true
		for _, step := range steps {
			if step.Status == approval.StepPending && step.SequenceOrder == wave {
				actionable = append(actionable, step)
			}
		}
	}

	now := time.Now().UTC()
	decidedBy := actor.ID

	if decision == DecisionApprove {
		for i := range actionable {
			actionable[i].Status = approval.StepApproved
			actionable[i].DecidedBy = &decidedBy
			actionable[i].DecidedAt = &now
			if err := qsteps.Update(ctx, &actionable[i]); err != nil {
				return false, false, err
			}
		}

		steps, err = qsteps.ListByRequest(ctx, companyID, l.ID.String())
		if err != nil {
			return false, false, err
		}
		if approval.Aggregate(steps) == approval.OutcomeApproved {
			l.Status = StatusApproved
			return true, override, nil
		}
		return false, override, nil
	}

	// A rejection closes every pending step, not just the actionable wave;
	// there is no partially rejected request.
	for i := range steps {
		if steps[i].Status != approval.StepPending {
			continue
		}
		steps[i].Status = approval.StepRejected
		steps[i].DecidedBy = &decidedBy
		steps[i].DecidedAt = &now
		if err := qsteps.Update(ctx, &steps[i]); err != nil {
			return false, false, err
		}
	}
	l.Status = StatusRejected
	return true, override, nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("request_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.deps.Requests.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.EmployeeID.String() != actorID {
		return LeaveRequestResponse{}, leaveerrors.ErrNotRequester
	}

	action := AuditCancelled
	switch l.Status {
	case StatusNew:
		l.Status = StatusCancelled
	case StatusApproved:
		// Approved requests cannot vanish silently; revocation re-enters
		// the decision flow.
		l.Status = StatusPendingRevoke
		action = AuditRevokeRequest
	default:
		return LeaveRequestResponse{}, leaveerrors.ErrStateConflict
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.deps.Audit.Log(ctx, audit.Event{
		Action:    action,
		CompanyID: companyID,
		ActorID:   actorID,
		SubjectID: l.ID.String(),
		Message:   "leave request " + strings.ToLower(l.Status),
		Meta:      map[string]any{"reference": l.Reference},
	})
	if l.Status == StatusCancelled {
		s.invalidateAllowance(ctx, companyID, actorID, l.DateStart, l.DateEnd)
	}

	s.logger.Info("cancel leave success",
		zap.String("request_id", id),
		zap.String("status", l.Status),
	)

	return mapToResponse(*l, nil), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, page, pageSize int) ([]LeaveRequestResponse, int64, error) {
	requests, total, err := s.deps.Requests.FindAllByCompany(ctx, companyID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l, nil)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	l, err := s.deps.Requests.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	steps, err := s.deps.Steps.ListByRequest(ctx, companyID, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l, steps), nil
}

func (s *service) queueSubmittedEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	l *LeaveRequest,
	requester *employee.Employee,
	approverID string,
) error {
	payload, err := json.Marshal(events.LeaveRequestSubmittedEvent{
		EventType:     "leave.request.submitted",
		RequestID:     l.ID.String(),
		Reference:     l.Reference,
		CompanyID:     l.CompanyID.String(),
		RequesterID:   requester.ID.String(),
		RequesterName: requester.FullName,
		ApproverID:    approverID,
		LeaveType:     l.LeaveTypeID.String(),
		DateStart:     l.DateStart.Format("2006-01-02"),
		DayPartStart:  l.DayPartStart,
		DateEnd:       l.DateEnd.Format("2006-01-02"),
		DayPartEnd:    l.DayPartEnd,
		DaysRequested: l.DaysRequested.Float64(),
		Comment:       l.Comment,
		Link:          "/leaves/" + l.ID.String(),
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     l.ID.String(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.request.submitted",
		Topic:         events.LeaveRequestSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) queueDecidedEvents(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	l *LeaveRequest,
	actorID string,
	req DecideLeaveRequest,
) error {
	watchers, err := s.deps.Requests.WatcherIDs(ctx, l.ID.String())
	if err != nil {
		return err
	}

	recipients := append([]string{l.EmployeeID.String()}, watchers...)
	for _, recipientID := range recipients {
		payload, err := json.Marshal(events.LeaveRequestDecidedEvent{
			EventType:   "leave.request.decided",
			RequestID:   l.ID.String(),
			Reference:   l.Reference,
			CompanyID:   l.CompanyID.String(),
			RecipientID: recipientID,
			RequesterID: l.EmployeeID.String(),
			DecidedByID: actorID,
			Decision:    l.Status,
			LeaveType:   l.LeaveTypeID.String(),
			DateStart:   l.DateStart.Format("2006-01-02"),
			DateEnd:     l.DateEnd.Format("2006-01-02"),
			Comment:     req.Comment,
			Link:        "/leaves/" + l.ID.String(),
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		err = outbox.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     l.ID.String(),
			AggregateType: "leave_request",
			AggregateID:   l.ID.String(),
			EventType:     "leave.request.decided",
			Topic:         events.LeaveRequestDecidedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) auditDecision(ctx context.Context, l *LeaveRequest, actorID, decision string, override, isFinal bool) {
	action := AuditApproved
	switch l.Status {
	case StatusRejected:
		action = AuditRejected
	case StatusCancelled:
		action = AuditCancelled
	case StatusNew:
		action = AuditApproved // wave approved, request still open
	}

	meta := map[string]any{
		"reference": l.Reference,
		"decision":  decision,
		"final":     isFinal,
	}
	s.deps.Audit.Log(ctx, audit.Event{
		Action:    action,
		CompanyID: l.CompanyID.String(),
		ActorID:   actorID,
		SubjectID: l.ID.String(),
		Message:   "leave decision recorded",
		Meta:      meta,
	})

	if override {
		s.deps.Audit.Log(ctx, audit.Event{
			Action:    AuditDecideOverride,
			CompanyID: l.CompanyID.String(),
			ActorID:   actorID,
			SubjectID: l.ID.String(),
			Message:   "administrative override decision",
			Meta:      meta,
		})
	}
}

// invalidateAllowance drops cached breakdowns for every year the request
// touches plus the following one, which may inherit through carry-over.
func (s *service) invalidateAllowance(ctx context.Context, companyID, employeeID string, dateStart, dateEnd time.Time) {
	years := []int{dateStart.Year()}
	for y := dateStart.Year() + 1; y <= dateEnd.Year()+1; y++ {
		years = append(years, y)
	}
	s.deps.Allowances.InvalidateYears(ctx, companyID, employeeID, years...)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseDayPart(v string) (duration.DayPart, error) {
	if v == "" {
		return duration.DayPartAll, nil
	}
	part, err := duration.ParseDayPart(v)
	if err != nil {
		return "", leaveerrors.ErrInvalidDayPart
	}
	return part, nil
}

func mapToResponse(l LeaveRequest, steps []approval.Step) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		Reference:     l.Reference,
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		DateStart:     l.DateStart.Format("2006-01-02"),
		DayPartStart:  l.DayPartStart,
		DateEnd:       l.DateEnd.Format("2006-01-02"),
		DayPartEnd:    l.DayPartEnd,
		DaysRequested: l.DaysRequested.Float64(),
		Comment:       l.Comment,
		Status:        l.Status,
	}
	if l.ProjectID != nil {
		v := l.ProjectID.String()
		resp.ProjectID = &v
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.DecisionComment = l.DecisionComment

	for _, step := range steps {
		sr := StepResponse{
			ID:            step.ID.String(),
			ApproverID:    step.ApproverID.String(),
			SequenceOrder: step.SequenceOrder,
			Status:        step.Status.String(),
		}
		if step.DecidedBy != nil {
			v := step.DecidedBy.String()
			sr.DecidedBy = &v
		}
		if step.DecidedAt != nil {
			v := step.DecidedAt.Format(time.RFC3339)
			sr.DecidedAt = &v
		}
		resp.Steps = append(resp.Steps, sr)
	}
	return resp
}
