package allowance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leaveflow/internal/allowance"
	"go-leaveflow/internal/company"
	"go-leaveflow/internal/department"
	"go-leaveflow/internal/duration"
	"go-leaveflow/internal/employee"
	"go-leaveflow/internal/holiday"
	"go-leaveflow/internal/schedule"
)

type fakeCompanyRepo struct {
	findByID func(ctx context.Context, id string) (*company.Company, error)
}

func (f *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return f.findByID(ctx, id)
}

type fakeDepartmentRepo struct {
	findByIDAndCompany func(ctx context.Context, companyID, id string) (*department.Department, error)
}

func (f *fakeDepartmentRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*department.Department, error) {
	return f.findByIDAndCompany(ctx, companyID, id)
}

func (f *fakeDepartmentRepo) SecondarySupervisorIDs(ctx context.Context, companyID, departmentID string) ([]string, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	findByIDAndCompany func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.findByIDAndCompany(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) BelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	return true, nil
}

func (f *fakeEmployeeRepo) ActiveAdminIDs(ctx context.Context, companyID, excludeID string) ([]string, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) AreasForRole(ctx context.Context, employeeID, roleID string) ([]string, error) {
	return nil, nil
}

type fakeScheduleRepo struct{}

func (fakeScheduleRepo) EffectiveForEmployee(ctx context.Context, companyID, employeeID string) (duration.WeekSchedule, error) {
	return duration.DefaultWeek(), nil
}

type fakeHolidayRepo struct {
	dates   duration.HolidaySet
	country string
}

func (f *fakeHolidayRepo) DatesInRange(ctx context.Context, companyID, country string, from, to time.Time) (duration.HolidaySet, error) {
	f.country = country
	if f.dates == nil {
		return duration.HolidaySet{}, nil
	}
	return f.dates, nil
}

type stubAdjustments struct {
	sums    map[int]duration.Days
	created []*allowance.Adjustment
}

func (s *stubAdjustments) WithTx(tx *sql.Tx) allowance.AdjustmentRepository { return s }

func (s *stubAdjustments) Create(ctx context.Context, a *allowance.Adjustment) error {
	s.created = append(s.created, a)
	return nil
}

func (s *stubAdjustments) SumForYear(ctx context.Context, companyID, employeeID string, year int) (duration.Days, error) {
	return s.sums[year], nil
}

func (s *stubAdjustments) ListForYear(ctx context.Context, companyID, employeeID string, year int) ([]allowance.Adjustment, error) {
	return nil, nil
}

type fakeRequestSource struct {
	windows map[string][]allowance.RequestWindow
}

func (f *fakeRequestSource) WindowsIntersectingYear(ctx context.Context, companyID, employeeID string, statuses []string, yearStart, yearEnd time.Time) ([]allowance.RequestWindow, error) {
	var out []allowance.RequestWindow
	for _, status := range statuses {
		for _, w := range f.windows[status] {
			if !w.StartDate.After(yearEnd) && !w.EndDate.Before(yearStart) {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

var (
	_ schedule.Repository = fakeScheduleRepo{}
	_ holiday.Repository  = (*fakeHolidayRepo)(nil)
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	companyID  string
	employeeID string
	company    *company.Company
	department *department.Department
	employee   *employee.Employee
	sums       map[int]duration.Days
	windows    map[string][]allowance.RequestWindow
}

func newFixture() *fixture {
	companyID := uuid.NewString()
	employeeID := uuid.NewString()
	deptID := uuid.New()
	return &fixture{
		companyID:  companyID,
		employeeID: employeeID,
		company: &company.Company{
			ID:               uuid.MustParse(companyID),
			RoutingMode:      company.RoutingBasic,
			DefaultAllowance: 40, // 20 days
			CarryOverCap:     0,
		},
		department: &department.Department{ID: deptID},
		employee: &employee.Employee{
			ID:               uuid.MustParse(employeeID),
			CompanyID:        uuid.MustParse(companyID),
			DepartmentID:     &deptID,
			EmploymentStatus: employee.StatusActive,
			StartDate:        day(2020, 3, 1),
		},
		sums:    map[int]duration.Days{},
		windows: map[string][]allowance.RequestWindow{},
	}
}

func (f *fixture) service() allowance.Service {
	return allowance.NewService(
		nil,
		&stubAdjustments{sums: f.sums},
		&fakeRequestSource{windows: f.windows},
		&fakeCompanyRepo{findByID: func(_ context.Context, _ string) (*company.Company, error) {
			return f.company, nil
		}},
		&fakeDepartmentRepo{findByIDAndCompany: func(_ context.Context, _, _ string) (*department.Department, error) {
			return f.department, nil
		}},
		&fakeEmployeeRepo{findByIDAndCompany: func(_ context.Context, _, _ string) (*employee.Employee, error) {
			return f.employee, nil
		}},
		fakeScheduleRepo{},
		&fakeHolidayRepo{},
		nil,
	)
}

func TestGetBreakdown_UsedAndPendingSubtract(t *testing.T) {
	f := newFixture()
	f.windows["APPROVED"] = []allowance.RequestWindow{
		{ // Mon-Fri, 5 working days
			StartDate:    day(2026, 1, 5),
			EndDate:      day(2026, 1, 9),
			DayPartStart: "ALL",
			DayPartEnd:   "ALL",
		},
	}
	f.windows["NEW"] = []allowance.RequestWindow{
		{ // Mon-Tue, 2 working days
			StartDate:    day(2026, 1, 12),
			EndDate:      day(2026, 1, 13),
			DayPartStart: "ALL",
			DayPartEnd:   "ALL",
		},
	}

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 20.0, b.BaseAllowance)
	assert.Equal(t, allowance.SourceCompany, b.AllowanceSource)
	assert.Equal(t, 20.0, b.TotalAllowance)
	assert.Equal(t, 5.0, b.UsedAllowance)
	assert.Equal(t, 2.0, b.PendingAllowance)
	assert.Equal(t, 13.0, b.AvailableAllowance)
}

func TestGetBreakdown_UnlimitedShortCircuits(t *testing.T) {
	f := newFixture()
	f.company.UnlimitedAllowance = true
	f.sums[2026] = 10 // must be ignored

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.True(t, b.Unlimited)
	assert.Equal(t, allowance.SourceUnlimited, b.AllowanceSource)
	assert.Zero(t, b.BaseAllowance)
	assert.Zero(t, b.TotalAllowance)
	assert.Zero(t, b.ManualAdjustment)
}

func TestGetBreakdown_DepartmentOverrideWins(t *testing.T) {
	f := newFixture()
	override := duration.Days(50) // 25 days
	f.department.AllowanceOverride = &override

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 25.0, b.BaseAllowance)
	assert.Equal(t, allowance.SourceDepartment, b.AllowanceSource)
}

func TestGetBreakdown_ProRatesMidYearStart(t *testing.T) {
	f := newFixture()
	f.employee.StartDate = day(2026, 7, 1)

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.True(t, b.IsProRated)
	assert.Equal(t, "started mid-year", b.ProRatingReason)
	assert.Equal(t, 20.0, b.BaseAllowance)
	// 184 of 365 days employed: 20 * 184/365 = 10.08, rounded to 10.
	assert.Equal(t, -10.0, b.ProRatedAdjustment)
	assert.Equal(t, 10.0, b.TotalAllowance)
}

func TestGetBreakdown_ProRatesMidYearLeave(t *testing.T) {
	f := newFixture()
	end := day(2026, 6, 30)
	f.employee.EndDate = &end

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.True(t, b.IsProRated)
	assert.Equal(t, "left mid-year", b.ProRatingReason)
	// 181 of 365 days employed: 20 * 181/365 = 9.92, rounded to 10.
	assert.Equal(t, -10.0, b.ProRatedAdjustment)
}

func TestGetBreakdown_CarryOverClampedToCap(t *testing.T) {
	f := newFixture()
	f.company.CarryOverCap = 4 // 2 days
	f.employee.StartDate = day(2025, 1, 1)

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	// 2025 leaves the full 20 days unused; only the cap carries.
	assert.Equal(t, 2.0, b.CarriedOver)
	assert.Equal(t, 22.0, b.TotalAllowance)
}

func TestGetBreakdown_CarryOverUnlimitedCap(t *testing.T) {
	f := newFixture()
	f.company.CarryOverCap = company.CarryOverUnlimited
	f.employee.StartDate = day(2025, 1, 1)

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 20.0, b.CarriedOver)
	assert.Equal(t, 40.0, b.TotalAllowance)
}

func TestGetBreakdown_CarryOverStopsAtStartYear(t *testing.T) {
	f := newFixture()
	f.company.CarryOverCap = company.CarryOverUnlimited
	f.employee.StartDate = day(2026, 1, 1)

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Zero(t, b.CarriedOver)
}

func TestGetBreakdown_ManualAdjustment(t *testing.T) {
	f := newFixture()
	f.sums[2026] = -6 // -3 days

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Equal(t, -3.0, b.ManualAdjustment)
	assert.Equal(t, 17.0, b.TotalAllowance)
}

func TestGetBreakdown_ClipsCrossYearRequests(t *testing.T) {
	f := newFixture()
	f.windows["APPROVED"] = []allowance.RequestWindow{
		{ // Mon 2025-12-29 .. Fri 2026-01-02: only Jan 1-2 chargeable in 2026
			StartDate:    day(2025, 12, 29),
			EndDate:      day(2026, 1, 2),
			DayPartStart: "ALL",
			DayPartEnd:   "ALL",
		},
	}

	b, err := f.service().GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)

	assert.Equal(t, 2.0, b.UsedAllowance)
}

func TestGetBreakdown_ServesFromCache(t *testing.T) {
	f := newFixture()

	cached := allowance.Breakdown{
		EmployeeID:         f.employeeID,
		Year:               2026,
		BaseAllowance:      20,
		AllowanceSource:    allowance.SourceCompany,
		TotalAllowance:     20,
		AvailableAllowance: 20,
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	key := "allowance:breakdown:" + f.companyID + ":" + f.employeeID + ":2026"
	mock.ExpectGet(key).SetVal(string(payload))

	svc := allowance.NewService(
		nil,
		&stubAdjustments{},
		&fakeRequestSource{},
		&fakeCompanyRepo{findByID: func(_ context.Context, _ string) (*company.Company, error) {
			t.Fatal("cache hit must not reach the repository")
			return nil, nil
		}},
		&fakeDepartmentRepo{},
		&fakeEmployeeRepo{},
		fakeScheduleRepo{},
		&fakeHolidayRepo{},
		rdb,
	)

	b, err := svc.GetBreakdown(context.Background(), f.companyID, f.employeeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, cached, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateYears(t *testing.T) {
	f := newFixture()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(
		"allowance:breakdown:"+f.companyID+":"+f.employeeID+":2026",
		"allowance:breakdown:"+f.companyID+":"+f.employeeID+":2027",
	).SetVal(2)

	svc := allowance.NewService(
		nil,
		&stubAdjustments{},
		&fakeRequestSource{},
		&fakeCompanyRepo{},
		&fakeDepartmentRepo{},
		&fakeEmployeeRepo{},
		fakeScheduleRepo{},
		&fakeHolidayRepo{},
		rdb,
	)

	svc.InvalidateYears(context.Background(), f.companyID, f.employeeID, 2026, 2027)
	assert.NoError(t, mock.ExpectationsWereMet())
}
