package payroll

import (
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func newTestCalculator() *Calculator {
	return NewCalculator(ist, CommissionRules{
		ThresholdDepartment: "Xerox",
		DailyThreshold:      decimal.NewFromInt(500),
		Rate:                decimal.RequireFromString("0.05"),
	})
}

func clockTime(h, m int) *time.Time {
	t := time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
	return &t
}

func at(day, h, m int) time.Time {
	return time.Date(2024, time.June, day, h, m, 0, 0, ist)
}

func ptr(t time.Time) *time.Time { return &t }

func testEmployee(salary int64) employee.Employee {
	return employee.Employee{
		ID:            "0190a000-0000-7000-8000-000000000001",
		Name:          "Ravi",
		Salary:        decimal.NewFromInt(salary),
		WorkStartTime: clockTime(9, 0),
		WorkEndTime:   clockTime(17, 0),
	}
}

func session(login time.Time, logout *time.Time) attendance.Session {
	return attendance.Session{ID: login.String(), LoginTime: login, LogoutTime: logout}
}

func dayOf(t *testing.T, report payroll.MonthlyAttendance, day int) payroll.DailyRecord {
	t.Helper()
	require.GreaterOrEqual(t, len(report.Days), day)
	return report.Days[day-1]
}

func TestTargetSeconds(t *testing.T) {
	assert.Equal(t, int64(21600), TargetSeconds(8*3600))
	assert.Equal(t, int64(3600), TargetSeconds(3600), "short shift falls back to the full window")
	assert.Equal(t, int64(7200), TargetSeconds(7200), "zero target falls back to the full window")
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 30, DaysIn(2024, time.June))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
}

func TestDailyWage(t *testing.T) {
	t.Run("full target earns exactly one day", func(t *testing.T) {
		got := DailyWage(decimal.NewFromInt(30000), 30, 21600, 21600)
		assert.True(t, got.Equal(decimal.RequireFromString("1000.00")), "got %s", got)
	})

	t.Run("beyond target is not capped", func(t *testing.T) {
		got := DailyWage(decimal.NewFromInt(30000), 30, 28800, 21600)
		assert.True(t, got.GreaterThan(decimal.NewFromInt(1000)), "got %s", got)
		assert.True(t, got.Equal(decimal.RequireFromString("1333.33")), "got %s", got)
	})

	t.Run("half target earns half", func(t *testing.T) {
		got := DailyWage(decimal.NewFromInt(30000), 30, 10800, 21600)
		assert.True(t, got.Equal(decimal.NewFromInt(500)), "got %s", got)
	})

	t.Run("zero credited earns nothing", func(t *testing.T) {
		assert.True(t, DailyWage(decimal.NewFromInt(30000), 30, 0, 21600).IsZero())
	})

	t.Run("zero target does not divide", func(t *testing.T) {
		assert.True(t, DailyWage(decimal.NewFromInt(30000), 30, 100, 0).IsZero())
	})
}

func TestScheduleWindow(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		s := ScheduleFor(employee.Employee{WorkStartTime: clockTime(10, 0)})
		start, end := s.Window(at(3, 0, 0), ist)
		assert.Equal(t, at(3, 9, 0), start)
		assert.Equal(t, at(3, 17, 0), end)
		assert.Equal(t, int64(8*3600), s.Seconds())
	})

	t.Run("overnight window ends next day", func(t *testing.T) {
		s := ScheduleFor(employee.Employee{WorkStartTime: clockTime(22, 0), WorkEndTime: clockTime(6, 0)})
		start, end := s.Window(at(3, 0, 0), ist)
		assert.Equal(t, at(3, 22, 0), start)
		assert.Equal(t, at(4, 6, 0), end)
		assert.Equal(t, int64(8*3600), s.Seconds())
	})
}

func TestReconcileMonth_FullDay(t *testing.T) {
	c := newTestCalculator()
	emp := testEmployee(30000)
	sessions := []attendance.Session{
		// 09:00-17:00 window, two hours of buffer: six hours worked hits the target.
		session(at(3, 9, 0), ptr(at(3, 15, 0))),
	}

	report := c.ReconcileMonth(emp, 2024, time.June, sessions, nil)

	assert.Equal(t, 30, report.DaysInMonth)
	assert.Equal(t, int64(21600), report.TargetSeconds)
	assert.True(t, report.BaseDailyWage.Equal(decimal.NewFromInt(1000)))

	d := dayOf(t, report, 3)
	assert.True(t, d.Present)
	assert.Equal(t, int64(21600), d.CreditedSeconds)
	assert.True(t, d.DailyWage.Equal(decimal.RequireFromString("1000.00")), "got %s", d.DailyWage)
	assert.Empty(t, d.Remark)
	assert.True(t, report.TotalWage.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, report.WorkingDays)
}

func TestReconcileMonth_AbsentDays(t *testing.T) {
	c := newTestCalculator()
	report := c.ReconcileMonth(testEmployee(30000), 2024, time.June, nil, nil)

	require.Len(t, report.Days, 30)
	for _, d := range report.Days {
		assert.False(t, d.Present)
		assert.Zero(t, d.CreditedSeconds)
		assert.True(t, d.DailyWage.IsZero())
		assert.Nil(t, d.EffectiveLogin)
		assert.Nil(t, d.EffectiveLogout)
		assert.Equal(t, payroll.RemarkAbsent, d.Remark)
	}
	assert.True(t, report.TotalWage.IsZero())
}

func TestReconcileMonth_ClipsToWindow(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(5, 8, 0), ptr(at(5, 19, 0))),
	}

	d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, nil), 5)

	assert.Equal(t, at(5, 9, 0), *d.EffectiveLogin)
	assert.Equal(t, at(5, 17, 0), *d.EffectiveLogout)
	assert.Equal(t, int64(8*3600), d.CreditedSeconds)
	assert.True(t, d.DailyWage.GreaterThanOrEqual(decimal.NewFromInt(1000)), "credited above target earns at least the base")
}

func TestReconcileMonth_LateLoginAndOpenSession(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(7, 10, 30), nil),
	}

	d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, nil), 7)

	assert.Equal(t, payroll.RemarkLateLogin, d.Remark)
	assert.True(t, d.OpenSession)
	assert.Equal(t, at(7, 17, 0), *d.EffectiveLogout, "open session works through window end")
	assert.Equal(t, int64(6*3600+1800), d.CreditedSeconds)
}

func TestReconcileMonth_LoginAfterWindowDoesNotQualify(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(8, 17, 30), ptr(at(8, 19, 0))),
	}

	d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, nil), 8)

	assert.False(t, d.Present)
	assert.Zero(t, d.CreditedSeconds)
}

func TestReconcileMonth_Breaks(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(10, 9, 0), ptr(at(10, 12, 0))),
		session(at(10, 13, 0), ptr(at(10, 16, 0))),
	}

	t.Run("unapproved break adds nothing", func(t *testing.T) {
		breaks := []attendance.BreakSession{
			{StartTime: at(10, 12, 0), EndTime: ptr(at(10, 13, 0)), Approved: false},
		}
		d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, breaks), 10)
		assert.Equal(t, int64(6*3600), d.CreditedSeconds)
		require.Len(t, d.Breaks, 1)
		assert.False(t, d.Breaks[0].Approved)
		assert.Equal(t, "12:00-13:00 (pending)", d.BreakSummary)
	})

	t.Run("approved ended break is credited", func(t *testing.T) {
		breaks := []attendance.BreakSession{
			{StartTime: at(10, 12, 0), EndTime: ptr(at(10, 13, 0)), Approved: true},
		}
		d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, breaks), 10)
		assert.Equal(t, int64(7*3600), d.CreditedSeconds)
		assert.Equal(t, "12:00-13:00 (approved)", d.BreakSummary)
	})

	t.Run("approved open break is not credited", func(t *testing.T) {
		breaks := []attendance.BreakSession{
			{StartTime: at(10, 12, 0), Approved: true},
		}
		d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, breaks), 10)
		assert.Equal(t, int64(6*3600), d.CreditedSeconds)
		assert.Equal(t, "12:00-open (approved)", d.BreakSummary)
	})

	t.Run("break overlapping a session counts once", func(t *testing.T) {
		breaks := []attendance.BreakSession{
			{StartTime: at(10, 11, 0), EndTime: ptr(at(10, 13, 30)), Approved: true},
		}
		d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, breaks), 10)
		assert.Equal(t, int64(7*3600), d.CreditedSeconds)
	})

	t.Run("break outside the window is ignored", func(t *testing.T) {
		breaks := []attendance.BreakSession{
			{StartTime: at(10, 18, 0), EndTime: ptr(at(10, 19, 0)), Approved: true},
		}
		d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, breaks), 10)
		assert.Empty(t, d.Breaks)
		assert.Equal(t, int64(6*3600), d.CreditedSeconds)
	})
}

func TestReconcileMonth_OverlappingSessionsMerged(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(12, 9, 0), ptr(at(12, 14, 0))),
		session(at(12, 11, 0), ptr(at(12, 15, 0))),
	}

	d := dayOf(t, c.ReconcileMonth(testEmployee(30000), 2024, time.June, sessions, nil), 12)

	assert.Equal(t, int64(6*3600), d.CreditedSeconds)
}

func TestReconcileMonth_OvernightShift(t *testing.T) {
	c := newTestCalculator()
	emp := testEmployee(30000)
	emp.WorkStartTime = clockTime(22, 0)
	emp.WorkEndTime = clockTime(6, 0)
	sessions := []attendance.Session{
		session(at(14, 22, 0), ptr(at(15, 4, 0))),
	}

	report := c.ReconcileMonth(emp, 2024, time.June, sessions, nil)

	d := dayOf(t, report, 14)
	assert.Equal(t, int64(6*3600), d.CreditedSeconds)
	assert.True(t, d.DailyWage.Equal(decimal.NewFromInt(1000)))
	assert.False(t, dayOf(t, report, 15).Present)
}

func TestReconcileMonth_Deterministic(t *testing.T) {
	c := newTestCalculator()
	sessions := []attendance.Session{
		session(at(3, 9, 15), ptr(at(3, 16, 40))),
		session(at(4, 9, 0), ptr(at(4, 11, 0))),
		session(at(4, 12, 0), nil),
	}
	breaks := []attendance.BreakSession{
		{StartTime: at(4, 11, 0), EndTime: ptr(at(4, 12, 0)), Approved: true},
	}

	first := c.ReconcileMonth(testEmployee(31000), 2024, time.June, sessions, breaks)
	second := c.ReconcileMonth(testEmployee(31000), 2024, time.June, sessions, breaks)

	assert.True(t, first.TotalWage.Equal(second.TotalWage))
	assert.Equal(t, first, second)
}

func TestWorksheetCommission(t *testing.T) {
	c := newTestCalculator()
	day := func(d int, amount string) commission.DailyAmount {
		return commission.DailyAmount{Date: at(d, 0, 0), Amount: decimal.RequireFromString(amount)}
	}

	t.Run("threshold department at or under threshold earns nothing", func(t *testing.T) {
		got := c.WorksheetCommission("Xerox", []commission.DailyAmount{day(1, "500"), day(2, "120.50")})
		assert.True(t, got.IsZero(), "got %s", got)
	})

	t.Run("threshold department pays on the excess", func(t *testing.T) {
		got := c.WorksheetCommission("Xerox", []commission.DailyAmount{day(1, "800")})
		assert.True(t, got.Equal(decimal.RequireFromString("15.00")), "got %s", got)
	})

	t.Run("threshold is applied per day", func(t *testing.T) {
		got := c.WorksheetCommission("xerox", []commission.DailyAmount{day(1, "800"), day(2, "400"), day(3, "600")})
		assert.True(t, got.Equal(decimal.RequireFromString("20.00")), "got %s", got)
	})

	t.Run("other departments earn a flat rate on the month", func(t *testing.T) {
		got := c.WorksheetCommission("Mee Seva", []commission.DailyAmount{day(1, "400"), day(2, "600")})
		assert.True(t, got.Equal(decimal.RequireFromString("50.00")), "got %s", got)
	})

	t.Run("no worksheets earns nothing", func(t *testing.T) {
		assert.True(t, c.WorksheetCommission("Forms", nil).IsZero())
	})
}

func TestAggregate(t *testing.T) {
	c := newTestCalculator()
	facts := MonthlyFacts{
		Department:       "Forms",
		AttendanceSalary: decimal.RequireFromString("25000.00"),
		Assignments: []commission.Assignment{
			{CommissionAmount: decimal.RequireFromString("150.25")},
			{CommissionAmount: decimal.RequireFromString("49.75")},
		},
		WorksheetDays: []commission.DailyAmount{{Amount: decimal.NewFromInt(1000)}},
		Meetings:      []commission.AttendedMeeting{{BonusAmount: decimal.NewFromInt(100)}},
		Trainings:     []commission.Bonus{{Amount: decimal.NewFromInt(200)}},
		Performance:   []commission.Bonus{{Amount: decimal.NewFromInt(300)}},
		Deductions:    []commission.Deduction{{Amount: decimal.NewFromInt(400)}},
	}

	got := c.Aggregate(facts)

	assert.True(t, got.ApplicationCommissions.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.WorksheetCommissions.Equal(decimal.NewFromInt(50)))
	assert.True(t, got.MeetingsBonus.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.TrainingsBonus.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.PerformanceBonus.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.DeductionAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, got.TotalEarnings.Equal(decimal.RequireFromString("25450.00")), "got %s", got.TotalEarnings)
}

func TestAggregate_NoFacts(t *testing.T) {
	got := newTestCalculator().Aggregate(MonthlyFacts{AttendanceSalary: decimal.Zero})
	assert.True(t, got.TotalEarnings.IsZero())
}
