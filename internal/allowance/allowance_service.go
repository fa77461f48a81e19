package allowance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	allowanceerrors "go-leaveflow/internal/allowance/errors"
	"go-leaveflow/internal/company"
	"go-leaveflow/internal/department"
	"go-leaveflow/internal/duration"
	"go-leaveflow/internal/employee"
	"go-leaveflow/internal/holiday"
	"go-leaveflow/internal/schedule"
)

const breakdownKeyPrefix = "allowance:breakdown:"

const breakdownTTL = 10 * time.Minute

func breakdownKey(companyID, employeeID string, year int) string {
	return fmt.Sprintf("%s%s:%s:%d", breakdownKeyPrefix, companyID, employeeID, year)
}

// Statuses charged against the allowance. These mirror the lifecycle values
// persisted by the leave engine.
var (
	usedStatuses    = []string{"APPROVED"}
	pendingStatuses = []string{"NEW", "PENDING_REVOKE"}
)

//go:generate mockgen -source=allowance_service.go -destination=mock/allowance_service_mock.go -package=mock
type Service interface {
	GetBreakdown(ctx context.Context, companyID, employeeID string, year int) (Breakdown, error)
	CreateAdjustment(ctx context.Context, companyID, actorID string, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	// InvalidateYears drops cached breakdowns after a request changes state.
	// Later years are invalidated too by callers when carry-over chains exist.
	InvalidateYears(ctx context.Context, companyID, employeeID string, years ...int)
}

type service struct {
	db          *sql.DB
	adjustments AdjustmentRepository
	requests    RequestSource
	companies   company.Repository
	departments department.Repository
	employees   employee.Repository
	schedules   schedule.Repository
	holidays    holiday.Repository
	rdb         *redis.Client
	sf          *singleflight.Group
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	adjustments AdjustmentRepository,
	requests RequestSource,
	companies company.Repository,
	departments department.Repository,
	employees employee.Repository,
	schedules schedule.Repository,
	holidays holiday.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("allowance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allowance.service")
	}
	return &service{
		db:          db,
		adjustments: adjustments,
		requests:    requests,
		companies:   companies,
		departments: departments,
		employees:   employees,
		schedules:   schedules,
		holidays:    holidays,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		logger:      l,
	}
}

func (s *service) GetBreakdown(ctx context.Context, companyID, employeeID string, year int) (Breakdown, error) {
	if year < 1900 || year > 2200 {
		return Breakdown{}, allowanceerrors.ErrInvalidYear
	}

	cacheKey := breakdownKey(companyID, employeeID, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var b Breakdown
			if json.Unmarshal([]byte(cached), &b) == nil {
				return b, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		b, err := s.compute(ctx, companyID, employeeID, year)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(b); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, breakdownTTL)
			}
		}

		return b, nil
	})
	if err != nil {
		return Breakdown{}, err
	}

	return v.(Breakdown), nil
}

// compute builds the breakdown from scratch. Carry-over recurses into the
// prior year through this method (not GetBreakdown) so a chain of cold years
// does not pollute the cache with intermediate entries.
func (s *service) compute(ctx context.Context, companyID, employeeID string, year int) (Breakdown, error) {
	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Breakdown{}, allowanceerrors.ErrEmployeeNotFound
		}
		return Breakdown{}, err
	}

	comp, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{EmployeeID: employeeID, Year: year}

	if comp.UnlimitedAllowance {
		b.Unlimited = true
		b.AllowanceSource = SourceUnlimited
		return b, nil
	}

	var dept *department.Department
	if emp.DepartmentID != nil {
		dept, err = s.departments.FindByIDAndCompany(ctx, companyID, emp.DepartmentID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Breakdown{}, err
		}
	}

	base := comp.DefaultAllowance
	b.AllowanceSource = SourceCompany
	if dept != nil && dept.AllowanceOverride != nil {
		base = *dept.AllowanceOverride
		b.AllowanceSource = SourceDepartment
	}
	b.BaseAllowance = base.Float64()

	proRated, reason := proRate(base, emp.StartDate, emp.EndDate, year)
	if reason != "" {
		b.IsProRated = true
		b.ProRatingReason = reason
	}

	carried, err := s.carryOver(ctx, companyID, employeeID, emp, comp, year)
	if err != nil {
		return Breakdown{}, err
	}

	manual, err := s.adjustments.SumForYear(ctx, companyID, employeeID, year)
	if err != nil {
		return Breakdown{}, err
	}

	used, pending, err := s.consumption(ctx, companyID, employeeID, comp.Country, dept, year)
	if err != nil {
		return Breakdown{}, err
	}

	total := base + proRated + carried + manual

	b.ProRatedAdjustment = proRated.Float64()
	b.CarriedOver = carried.Float64()
	b.ManualAdjustment = manual.Float64()
	b.TotalAllowance = total.Float64()
	b.UsedAllowance = used.Float64()
	b.PendingAllowance = pending.Float64()
	b.AvailableAllowance = (total - used - pending).Float64()

	return b, nil
}

// proRate returns the delta from the unscaled base (zero or negative) and
// the reason, or empty when the employee is employed for the whole year.
func proRate(base duration.Days, startDate time.Time, endDate *time.Time, year int) (duration.Days, string) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	from := yearStart
	reason := ""
	if startDate.After(yearStart) && !startDate.After(yearEnd) {
		from = startDate
		reason = ReasonStartedMidYear
	}

	to := yearEnd
	if endDate != nil && endDate.Before(yearEnd) && !endDate.Before(yearStart) {
		to = *endDate
		if reason == "" {
			reason = ReasonLeftMidYear
		}
	}

	if reason == "" {
		return duration.Zero, ""
	}
	if to.Before(from) {
		return -base, reason
	}

	daysInYear := yearEnd.Sub(yearStart).Hours()/24 + 1
	employedDays := to.Sub(from).Hours()/24 + 1
	scaled := duration.FromFloat(base.Float64() * employedDays / daysInYear)

	return scaled - base, reason
}

func (s *service) carryOver(
	ctx context.Context,
	companyID, employeeID string,
	emp *employee.Employee,
	comp *company.Company,
	year int,
) (duration.Days, error) {
	if comp.CarryOverCap == 0 {
		return duration.Zero, nil
	}
	// Nothing to carry from before the employee existed.
	if year <= emp.StartDate.Year() {
		return duration.Zero, nil
	}

	prior, err := s.compute(ctx, companyID, employeeID, year-1)
	if err != nil {
		return duration.Zero, err
	}

	available := duration.FromFloat(prior.AvailableAllowance)
	if available <= 0 {
		return duration.Zero, nil
	}
	if comp.CarryOverCap != company.CarryOverUnlimited && available > comp.CarryOverCap {
		available = comp.CarryOverCap
	}
	return available, nil
}

func (s *service) consumption(
	ctx context.Context,
	companyID, employeeID, country string,
	dept *department.Department,
	year int,
) (used, pending duration.Days, err error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	week, err := s.schedules.EffectiveForEmployee(ctx, companyID, employeeID)
	if err != nil {
		return 0, 0, err
	}

	holidays := duration.HolidaySet{}
	if dept == nil || !dept.IncludeHolidays {
		holidays, err = s.holidays.DatesInRange(ctx, companyID, country, yearStart, yearEnd)
		if err != nil {
			return 0, 0, err
		}
	}

	used, err = s.sumWindows(ctx, companyID, employeeID, usedStatuses, yearStart, yearEnd, week, holidays)
	if err != nil {
		return 0, 0, err
	}
	pending, err = s.sumWindows(ctx, companyID, employeeID, pendingStatuses, yearStart, yearEnd, week, holidays)
	if err != nil {
		return 0, 0, err
	}
	return used, pending, nil
}

func (s *service) sumWindows(
	ctx context.Context,
	companyID, employeeID string,
	statuses []string,
	yearStart, yearEnd time.Time,
	week duration.WeekSchedule,
	holidays duration.HolidaySet,
) (duration.Days, error) {
	windows, err := s.requests.WindowsIntersectingYear(ctx, companyID, employeeID, statuses, yearStart, yearEnd)
	if err != nil {
		return duration.Zero, err
	}

	total := duration.Zero
	for _, w := range windows {
		start, end := w.StartDate, w.EndDate
		partStart, _ := duration.ParseDayPart(w.DayPartStart)
		partEnd, _ := duration.ParseDayPart(w.DayPartEnd)

		// Clip cross-year requests to this year; a clipped boundary is a
		// whole day, the original part only applies at the true boundary.
		if start.Before(yearStart) {
			start, partStart = yearStart, duration.DayPartAll
		}
		if end.After(yearEnd) {
			end, partEnd = yearEnd, duration.DayPartAll
		}

		days, err := duration.Calculate(start, end, partStart, partEnd, week, holidays)
		if err != nil {
			return duration.Zero, err
		}
		total += days
	}
	return total, nil
}

func (s *service) CreateAdjustment(ctx context.Context, companyID, actorID string, req CreateAdjustmentRequest) (AdjustmentResponse, error) {
	s.logger.Debug("create adjustment requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
	)

	if req.Year < 1900 || req.Year > 2200 {
		return AdjustmentResponse{}, allowanceerrors.ErrInvalidYear
	}
	if req.Reason == "" {
		return AdjustmentResponse{}, allowanceerrors.ErrReasonRequired
	}
	delta := duration.FromFloat(req.Delta)
	if delta == 0 || delta.Float64() != req.Delta {
		return AdjustmentResponse{}, allowanceerrors.ErrInvalidDelta
	}

	comp, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if comp.UnlimitedAllowance {
		return AdjustmentResponse{}, allowanceerrors.ErrUnlimitedAllowance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create adjustment begin tx failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.adjustments.WithTx(tx)

	belongs, err := s.employees.BelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if !belongs {
		return AdjustmentResponse{}, allowanceerrors.ErrEmployeeNotFound
	}

	a := &Adjustment{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(req.EmployeeID),
		Year:       req.Year,
		Delta:      delta,
		Reason:     req.Reason,
		CreatedBy:  uuid.MustParse(actorID),
	}
	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create adjustment persist failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create adjustment commit failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	// Later years feed off this one through carry-over.
	s.InvalidateYears(ctx, companyID, req.EmployeeID, req.Year, req.Year+1, req.Year+2)

	s.logger.Info("create adjustment success",
		zap.String("adjustment_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Float64("delta", delta.Float64()),
	)

	return AdjustmentResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Year:       a.Year,
		Delta:      a.Delta.Float64(),
		Reason:     a.Reason,
		CreatedBy:  a.CreatedBy.String(),
	}, nil
}

func (s *service) InvalidateYears(ctx context.Context, companyID, employeeID string, years ...int) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, 0, len(years))
	for _, y := range years {
		keys = append(keys, breakdownKey(companyID, employeeID, y))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("breakdown cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
