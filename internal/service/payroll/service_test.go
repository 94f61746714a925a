package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployees) ListAll(context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

type fakeSessions struct {
	attendance.SessionRepository
	byEmployee map[string][]attendance.Session
	calls      int
}

func (f *fakeSessions) ListByEmployeeBetween(_ context.Context, employeeID string, _, _ time.Time) ([]attendance.Session, error) {
	f.calls++
	return f.byEmployee[employeeID], nil
}

type fakeBreaks struct {
	attendance.BreakRepository
}

func (fakeBreaks) ListOverlapping(context.Context, string, time.Time, time.Time) ([]attendance.BreakSession, error) {
	return nil, nil
}

type fakeWorksheets struct {
	commission.WorksheetRepository
	approved []commission.DailyAmount
	all      []commission.DailyAmount
	err      error
}

func (f *fakeWorksheets) DailyApprovedTotals(context.Context, string, time.Time, time.Time) ([]commission.DailyAmount, error) {
	return f.approved, f.err
}

func (f *fakeWorksheets) DailyTotals(context.Context, string, time.Time, time.Time) ([]commission.DailyAmount, error) {
	return f.all, f.err
}

type fakeApplications struct {
	commission.ApplicationRepository
	assignments []commission.Assignment
}

func (f *fakeApplications) ListApprovedAssignments(context.Context, string, time.Time, time.Time) ([]commission.Assignment, error) {
	return f.assignments, nil
}

type fakeBonuses struct {
	commission.BonusRepository
	meetings   []commission.AttendedMeeting
	bonuses    map[commission.BonusKind][]commission.Bonus
	deductions []commission.Deduction
}

func (f *fakeBonuses) ListAttendedMeetings(context.Context, string, time.Time, time.Time) ([]commission.AttendedMeeting, error) {
	return f.meetings, nil
}

func (f *fakeBonuses) ListBonuses(_ context.Context, _ string, kind commission.BonusKind, _, _ time.Time) ([]commission.Bonus, error) {
	return f.bonuses[kind], nil
}

func (f *fakeBonuses) ListDeductions(context.Context, string, int, int) ([]commission.Deduction, error) {
	return f.deductions, nil
}

type serviceFixture struct {
	svc        *PayrollServiceImpl
	sessions   *fakeSessions
	worksheets *fakeWorksheets
	bonuses    *fakeBonuses
	apps       *fakeApplications
}

func newFixture(employees ...employee.Employee) serviceFixture {
	byID := make(map[string]employee.Employee)
	for _, e := range employees {
		byID[e.ID] = e
	}
	f := serviceFixture{
		sessions:   &fakeSessions{byEmployee: make(map[string][]attendance.Session)},
		worksheets: &fakeWorksheets{},
		bonuses:    &fakeBonuses{bonuses: make(map[commission.BonusKind][]commission.Bonus)},
		apps:       &fakeApplications{},
	}
	f.svc = NewPayrollService(
		&fakeEmployees{byID: byID},
		f.sessions,
		fakeBreaks{},
		f.worksheets,
		f.apps,
		f.bonuses,
		newTestCalculator(),
		2,
	).(*PayrollServiceImpl)
	f.svc.now = func() time.Time { return at(20, 12, 0) }
	return f
}

func TestPayrollService_UnknownEmployee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AttendanceReport(ctx, "missing", "2024-06")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.EarningsReport(ctx, "missing", "2024-06")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.WorksheetReport(ctx, "missing", "2024-06")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.Zero(t, f.sessions.calls, "no facts are read for an unknown employee")
}

func TestPayrollService_InvalidMonth(t *testing.T) {
	emp := testEmployee(30000)
	f := newFixture(emp)

	_, err := f.svc.AttendanceReport(context.Background(), emp.ID, "June 2024")
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "month", verrs[0].Field)
}

func TestPayrollService_AttendanceReportDefaultsToCurrentMonth(t *testing.T) {
	emp := testEmployee(30000)
	f := newFixture(emp)
	f.sessions.byEmployee[emp.ID] = []attendance.Session{
		session(at(3, 9, 0), ptr(at(3, 15, 0))),
	}

	report, err := f.svc.AttendanceReport(context.Background(), emp.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "2024-06", report.Month)
	assert.True(t, report.TotalWage.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, report.WorkingDays)
}

func TestPayrollService_EarningsReport(t *testing.T) {
	emp := testEmployee(30000)
	dept := "Xerox"
	emp.DepartmentName = &dept
	f := newFixture(emp)

	f.sessions.byEmployee[emp.ID] = []attendance.Session{
		session(at(3, 9, 0), ptr(at(3, 15, 0))),
	}
	f.worksheets.approved = []commission.DailyAmount{
		{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(800)},
	}
	f.apps.assignments = []commission.Assignment{
		{ID: "a1", CommissionAmount: decimal.RequireFromString("120.50")},
	}
	f.bonuses.meetings = []commission.AttendedMeeting{
		{MeetingID: "m1", Topic: "Quarterly", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), BonusAmount: decimal.NewFromInt(100)},
	}
	f.bonuses.bonuses[commission.BonusKindTraining] = []commission.Bonus{{ID: "t1", Kind: commission.BonusKindTraining, Amount: decimal.NewFromInt(50)}}
	f.bonuses.deductions = []commission.Deduction{{ID: "d1", PeriodYear: 2024, PeriodMonth: 6, Amount: decimal.NewFromInt(200)}}

	resp, err := f.svc.EarningsReport(context.Background(), emp.ID, "2024-06")
	require.NoError(t, err)

	e := resp.Earnings
	assert.True(t, e.AttendanceSalary.Equal(decimal.NewFromInt(1000)))
	assert.True(t, e.WorksheetCommissions.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, e.ApplicationCommissions.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, e.MeetingsBonus.Equal(decimal.NewFromInt(100)))
	assert.True(t, e.TrainingsBonus.Equal(decimal.NewFromInt(50)))
	assert.True(t, e.DeductionAmount.Equal(decimal.NewFromInt(200)))
	// 1000 + 15 + 120.50 + 100 + 50 - 200
	assert.True(t, e.TotalEarnings.Equal(decimal.RequireFromString("1085.50")), "got %s", e.TotalEarnings)

	assert.Equal(t, "Xerox", resp.DepartmentName)
	assert.Len(t, resp.Meetings, 1)
	assert.Equal(t, "2024-06-10", resp.Meetings[0].Date)
	assert.Len(t, resp.Deductions, 1)
	assert.Empty(t, resp.Performance)
}

func TestPayrollService_WorksheetReport(t *testing.T) {
	emp := testEmployee(30000)
	dept := "xerox"
	emp.DepartmentName = &dept
	f := newFixture(emp)

	day3 := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	day4 := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	f.worksheets.all = []commission.DailyAmount{
		{Date: day3, Amount: decimal.NewFromInt(900)},
		{Date: day4, Amount: decimal.NewFromInt(300)},
	}
	f.worksheets.approved = []commission.DailyAmount{
		{Date: day3, Amount: decimal.NewFromInt(800)},
	}

	resp, err := f.svc.WorksheetReport(context.Background(), emp.ID, "2024-06")
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.True(t, resp.Days[0].Commission.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, resp.Days[1].ApprovedAmount.IsZero())
	assert.True(t, resp.Days[1].Commission.IsZero())
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(1200)))
	assert.True(t, resp.ApprovedAmount.Equal(decimal.NewFromInt(800)))
	assert.True(t, resp.TotalCommission.Equal(decimal.RequireFromString("15.00")))
}

func TestPayrollService_SalaryReport(t *testing.T) {
	first := testEmployee(30000)
	second := testEmployee(60000)
	second.ID = "0190a000-0000-7000-8000-000000000002"
	second.Name = "Meena"
	f := newFixture(first, second)

	f.sessions.byEmployee[first.ID] = []attendance.Session{
		session(at(3, 9, 0), ptr(at(3, 15, 0))),
	}
	f.sessions.byEmployee[second.ID] = []attendance.Session{
		session(at(4, 9, 0), ptr(at(4, 15, 0))),
	}

	resp, err := f.svc.SalaryReport(context.Background(), "2024-06")
	require.NoError(t, err)

	require.Len(t, resp.Rows, 2)
	// 1000.00 + 2000.00
	assert.True(t, resp.TotalEarnings.Equal(decimal.NewFromInt(3000)), "got %s", resp.TotalEarnings)
	for _, row := range resp.Rows {
		assert.Equal(t, 1, row.WorkingDays)
	}
}

func TestPayrollService_SalaryReportFailsAsAWhole(t *testing.T) {
	f := newFixture(testEmployee(30000))
	f.worksheets.err = errors.New("connection reset")

	_, err := f.svc.SalaryReport(context.Background(), "2024-06")
	assert.Error(t, err)
}
