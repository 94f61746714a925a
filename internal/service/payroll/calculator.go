package payroll

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// BreakBufferSeconds is taken off the scheduled window to get the daily target.
const BreakBufferSeconds = 7200

var (
	defaultWorkStart = clock{hour: 9}
	defaultWorkEnd   = clock{hour: 17}
)

type clock struct {
	hour, min, sec int
}

func clockOf(t time.Time) clock {
	return clock{hour: t.Hour(), min: t.Minute(), sec: t.Second()}
}

func (c clock) seconds() int {
	return c.hour*3600 + c.min*60 + c.sec
}

func (c clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.hour, c.min, c.sec)
}

// Schedule is an employee's daily working window as times of day. An end at or before the
// start means the window runs past midnight.
type Schedule struct {
	Start clock
	End   clock
}

// ScheduleFor falls back to 09:00-17:00 when either end of the employee's schedule is unset.
func ScheduleFor(emp employee.Employee) Schedule {
	if emp.WorkStartTime == nil || emp.WorkEndTime == nil {
		return Schedule{Start: defaultWorkStart, End: defaultWorkEnd}
	}
	return Schedule{Start: clockOf(*emp.WorkStartTime), End: clockOf(*emp.WorkEndTime)}
}

// Seconds is the nominal window length, independent of any daylight saving shift.
func (s Schedule) Seconds() int64 {
	if s.End.seconds() <= s.Start.seconds() {
		return int64(86400 - s.Start.seconds() + s.End.seconds())
	}
	return int64(s.End.seconds() - s.Start.seconds())
}

// Window anchors the schedule on the calendar day of date in loc.
func (s Schedule) Window(date time.Time, loc *time.Location) (start, end time.Time) {
	y, m, d := date.Date()
	start = time.Date(y, m, d, s.Start.hour, s.Start.min, s.Start.sec, 0, loc)
	endDay := d
	if s.End.seconds() <= s.Start.seconds() {
		endDay++
	}
	end = time.Date(y, m, endDay, s.End.hour, s.End.min, s.End.sec, 0, loc)
	return start, end
}

// TargetSeconds is the window minus the break buffer, or the full window when that is not positive.
func TargetSeconds(windowSeconds int64) int64 {
	if target := windowSeconds - BreakBufferSeconds; target > 0 {
		return target
	}
	return windowSeconds
}

// DaysIn returns the number of calendar days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DailyWage prorates the monthly salary over calendar days and scales by credited/target.
// The result is rounded to 0.01, never negative and not capped above.
func DailyWage(salary decimal.Decimal, daysInMonth int, creditedSeconds, targetSeconds int64) decimal.Decimal {
	if daysInMonth <= 0 || targetSeconds <= 0 || creditedSeconds <= 0 || !salary.IsPositive() {
		return decimal.Zero
	}
	wage := salary.
		Mul(decimal.NewFromInt(creditedSeconds)).
		Div(decimal.NewFromInt(int64(daysInMonth)).Mul(decimal.NewFromInt(targetSeconds))).
		Round(2)
	if wage.IsNegative() {
		return decimal.Zero
	}
	return wage
}

// CommissionRules configures the worksheet commission.
type CommissionRules struct {
	ThresholdDepartment string
	DailyThreshold      decimal.Decimal
	Rate                decimal.Decimal
}

// Calculator reconciles attendance and computes earnings. It only reads its inputs.
type Calculator struct {
	loc   *time.Location
	rules CommissionRules
}

func NewCalculator(loc *time.Location, rules CommissionRules) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, rules: rules}
}

type interval struct {
	start, end time.Time
}

// clip returns the part of iv inside [lo, hi] and whether anything is left.
func (iv interval) clip(lo, hi time.Time) (interval, bool) {
	if iv.start.Before(lo) {
		iv.start = lo
	}
	if iv.end.After(hi) {
		iv.end = hi
	}
	return iv, iv.start.Before(iv.end)
}

// coveredSeconds measures the union of the intervals so overlapping time counts once.
func coveredSeconds(ivs []interval) int64 {
	if len(ivs) == 0 {
		return 0
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start.Before(ivs[j].start) })

	var total time.Duration
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		if !iv.start.After(cur.end) {
			if iv.end.After(cur.end) {
				cur.end = iv.end
			}
			continue
		}
		total += cur.end.Sub(cur.start)
		cur = iv
	}
	total += cur.end.Sub(cur.start)
	return int64(total / time.Second)
}

// ReconcileMonth builds the day-by-day attendance of emp for the month. Sessions and breaks may
// cover a wider range than the month; each day selects its own.
func (c *Calculator) ReconcileMonth(emp employee.Employee, year int, month time.Month, sessions []attendance.Session, breaks []attendance.BreakSession) payroll.MonthlyAttendance {
	schedule := ScheduleFor(emp)
	days := DaysIn(year, month)

	first := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	windowSeconds := schedule.Seconds()
	target := TargetSeconds(windowSeconds)

	report := payroll.MonthlyAttendance{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		Month:         first.Format("2006-01"),
		WorkStart:     schedule.Start.String(),
		WorkEnd:       schedule.End.String(),
		WindowSeconds: windowSeconds,
		TargetSeconds: target,
		DaysInMonth:   days,
		BaseDailyWage: baseDailyWage(emp.Salary, days),
		TotalWage:     decimal.Zero,
		Days:          make([]payroll.DailyRecord, 0, days),
	}

	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, c.loc)
		record := c.reconcileDay(date, schedule, sessions, breaks)
		record.DailyWage = DailyWage(emp.Salary, days, record.CreditedSeconds, target)

		report.TotalWage = report.TotalWage.Add(record.DailyWage)
		report.TotalCredited += record.CreditedSeconds
		if record.Present && record.CreditedSeconds > 0 {
			report.WorkingDays++
		}
		report.Days = append(report.Days, record)
	}

	return report
}

func baseDailyWage(salary decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !salary.IsPositive() {
		return decimal.Zero
	}
	return salary.Div(decimal.NewFromInt(int64(days))).Round(2)
}

func (c *Calculator) reconcileDay(date time.Time, schedule Schedule, sessions []attendance.Session, breaks []attendance.BreakSession) payroll.DailyRecord {
	workStart, workEnd := schedule.Window(date, c.loc)
	nextDay := time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, c.loc)

	record := payroll.DailyRecord{
		Date:      date.Format("2006-01-02"),
		Breaks:    []payroll.BreakEntry{},
		DailyWage: decimal.Zero,
	}

	var daySessions []attendance.Session
	for _, s := range sessions {
		login := s.LoginTime.In(c.loc)
		if login.Before(date) || !login.Before(nextDay) || !login.Before(workEnd) {
			continue
		}
		daySessions = append(daySessions, s)
	}

	var dayBreaks []attendance.BreakSession
	for _, b := range breaks {
		if !b.StartTime.Before(workEnd) {
			continue
		}
		if b.EndTime != nil && !b.EndTime.After(workStart) {
			continue
		}
		dayBreaks = append(dayBreaks, b)
		record.Breaks = append(record.Breaks, payroll.BreakEntry{
			Start:    b.StartTime.In(c.loc),
			End:      inLoc(b.EndTime, c.loc),
			Approved: b.Approved,
			Reason:   b.Reason,
		})
	}
	record.BreakSummary = c.formatBreaks(record.Breaks)

	if len(daySessions) == 0 {
		record.Remark = payroll.RemarkAbsent
		return record
	}
	record.Present = true

	earliest := daySessions[0].LoginTime
	var latestLogout *time.Time
	for _, s := range daySessions {
		if s.LoginTime.Before(earliest) {
			earliest = s.LoginTime
		}
		if s.LogoutTime != nil && (latestLogout == nil || s.LogoutTime.After(*latestLogout)) {
			latestLogout = s.LogoutTime
		}
		if s.IsOpen() {
			record.OpenSession = true
		}
	}
	firstLogin := earliest.In(c.loc)
	record.FirstLogin = &firstLogin
	if firstLogin.After(workStart) {
		record.Remark = payroll.RemarkLateLogin
	}

	effLogin := maxTime(earliest, workStart).In(c.loc)
	effLogout := workEnd
	if latestLogout != nil {
		effLogout = minTime(*latestLogout, workEnd).In(c.loc)
	}
	record.EffectiveLogin = &effLogin
	record.EffectiveLogout = &effLogout

	if !effLogin.Before(effLogout) {
		return record
	}

	var covered []interval
	for _, s := range daySessions {
		end := effLogout
		if s.LogoutTime != nil {
			end = *s.LogoutTime
		}
		if iv, ok := (interval{start: s.LoginTime, end: end}).clip(effLogin, effLogout); ok {
			covered = append(covered, iv)
		}
	}
	for _, b := range dayBreaks {
		if !b.Credited() {
			continue
		}
		if iv, ok := (interval{start: b.StartTime, end: *b.EndTime}).clip(effLogin, effLogout); ok {
			covered = append(covered, iv)
		}
	}
	record.CreditedSeconds = coveredSeconds(covered)

	return record
}

func (c *Calculator) formatBreaks(entries []payroll.BreakEntry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		end := "open"
		if e.End != nil {
			end = e.End.Format("15:04")
		}
		state := "pending"
		if e.Approved {
			state = "approved"
		}
		parts = append(parts, fmt.Sprintf("%s-%s (%s)", e.Start.Format("15:04"), end, state))
	}
	return strings.Join(parts, ", ")
}

// IsThresholdDepartment reports whether the department is paid on the daily threshold rule.
func (c *Calculator) IsThresholdDepartment(department string) bool {
	return c.rules.ThresholdDepartment != "" &&
		strings.EqualFold(strings.TrimSpace(department), strings.TrimSpace(c.rules.ThresholdDepartment))
}

// DayCommission is the threshold department's commission for one day's approved total.
func (c *Calculator) DayCommission(amount decimal.Decimal) decimal.Decimal {
	over := amount.Sub(c.rules.DailyThreshold)
	if !over.IsPositive() {
		return decimal.Zero
	}
	return over.Mul(c.rules.Rate).Round(2)
}

// WorksheetCommission applies the department rule to a month of approved daily totals.
func (c *Calculator) WorksheetCommission(department string, days []commission.DailyAmount) decimal.Decimal {
	if c.IsThresholdDepartment(department) {
		total := decimal.Zero
		for _, d := range days {
			total = total.Add(c.DayCommission(d.Amount))
		}
		return total
	}

	sum := decimal.Zero
	for _, d := range days {
		sum = sum.Add(d.Amount)
	}
	return sum.Mul(c.rules.Rate).Round(2)
}

// MonthlyFacts are the inputs of one employee's monthly earnings.
type MonthlyFacts struct {
	Department       string
	AttendanceSalary decimal.Decimal
	Assignments      []commission.Assignment
	WorksheetDays    []commission.DailyAmount
	Meetings         []commission.AttendedMeeting
	Trainings        []commission.Bonus
	Performance      []commission.Bonus
	Deductions       []commission.Deduction
}

// Aggregate sums the facts into an earnings breakdown.
func (c *Calculator) Aggregate(f MonthlyFacts) payroll.EarningsBreakdown {
	b := payroll.EarningsBreakdown{
		AttendanceSalary:       f.AttendanceSalary,
		ApplicationCommissions: decimal.Zero,
		WorksheetCommissions:   c.WorksheetCommission(f.Department, f.WorksheetDays),
		MeetingsBonus:          decimal.Zero,
		TrainingsBonus:         decimal.Zero,
		PerformanceBonus:       decimal.Zero,
		DeductionAmount:        decimal.Zero,
	}
	for _, a := range f.Assignments {
		b.ApplicationCommissions = b.ApplicationCommissions.Add(a.CommissionAmount)
	}
	for _, m := range f.Meetings {
		b.MeetingsBonus = b.MeetingsBonus.Add(m.BonusAmount)
	}
	for _, t := range f.Trainings {
		b.TrainingsBonus = b.TrainingsBonus.Add(t.Amount)
	}
	for _, p := range f.Performance {
		b.PerformanceBonus = b.PerformanceBonus.Add(p.Amount)
	}
	for _, d := range f.Deductions {
		b.DeductionAmount = b.DeductionAmount.Add(d.Amount)
	}

	b.TotalEarnings = b.AttendanceSalary.
		Add(b.ApplicationCommissions).
		Add(b.WorksheetCommissions).
		Add(b.MeetingsBonus).
		Add(b.TrainingsBonus).
		Add(b.PerformanceBonus).
		Sub(b.DeductionAmount)
	return b
}

func inLoc(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
