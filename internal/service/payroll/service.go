package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	employees    employee.EmployeeRepository
	sessions     attendance.SessionRepository
	breaks       attendance.BreakRepository
	worksheets   commission.WorksheetRepository
	applications commission.ApplicationRepository
	bonuses      commission.BonusRepository
	calc         *Calculator
	concurrency  int
	now          func() time.Time
}

func NewPayrollService(
	employees employee.EmployeeRepository,
	sessions attendance.SessionRepository,
	breaks attendance.BreakRepository,
	worksheets commission.WorksheetRepository,
	applications commission.ApplicationRepository,
	bonuses commission.BonusRepository,
	calc *Calculator,
	concurrency int,
) payroll.PayrollService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PayrollServiceImpl{
		employees:    employees,
		sessions:     sessions,
		breaks:       breaks,
		worksheets:   worksheets,
		applications: applications,
		bonuses:      bonuses,
		calc:         calc,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// period is one calendar month. Timestamps are bounded in the business location, DATE columns in UTC.
type period struct {
	year     int
	month    time.Month
	label    string
	from, to time.Time
	dateFrom time.Time
	dateTo   time.Time
}

func (s *PayrollServiceImpl) resolvePeriod(month string) (period, error) {
	if month == "" {
		month = s.now().In(s.calc.loc).Format("2006-01")
	}

	year, mon, ok := validator.ParseMonth(month)
	if !ok {
		return period{}, validator.ValidationErrors{
			{Field: "month", Message: payroll.ErrInvalidPeriod.Error()},
		}
	}

	from := time.Date(year, mon, 1, 0, 0, 0, 0, s.calc.loc)
	dateFrom := time.Date(year, mon, 1, 0, 0, 0, 0, time.UTC)
	return period{
		year:     year,
		month:    mon,
		label:    from.Format("2006-01"),
		from:     from,
		to:       from.AddDate(0, 1, 0),
		dateFrom: dateFrom,
		dateTo:   dateFrom.AddDate(0, 1, 0),
	}, nil
}

func (s *PayrollServiceImpl) attendance(ctx context.Context, emp employee.Employee, p period) (payroll.MonthlyAttendance, error) {
	sessions, err := s.sessions.ListByEmployeeBetween(ctx, emp.ID, p.from, p.to)
	if err != nil {
		return payroll.MonthlyAttendance{}, fmt.Errorf("failed to load sessions: %w", err)
	}

	// One extra day covers windows that run past midnight on the last day.
	breaks, err := s.breaks.ListOverlapping(ctx, emp.ID, p.from, p.to.AddDate(0, 0, 1))
	if err != nil {
		return payroll.MonthlyAttendance{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	return s.calc.ReconcileMonth(emp, p.year, p.month, sessions, breaks), nil
}

func (s *PayrollServiceImpl) facts(ctx context.Context, emp employee.Employee, p period) (MonthlyFacts, payroll.MonthlyAttendance, error) {
	report, err := s.attendance(ctx, emp, p)
	if err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}

	f := MonthlyFacts{
		Department:       emp.Department(),
		AttendanceSalary: report.TotalWage,
	}

	if f.Assignments, err = s.applications.ListApprovedAssignments(ctx, emp.ID, p.from, p.to); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}
	if f.WorksheetDays, err = s.worksheets.DailyApprovedTotals(ctx, emp.ID, p.dateFrom, p.dateTo); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}
	if f.Meetings, err = s.bonuses.ListAttendedMeetings(ctx, emp.ID, p.dateFrom, p.dateTo); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}
	if f.Trainings, err = s.bonuses.ListBonuses(ctx, emp.ID, commission.BonusKindTraining, p.dateFrom, p.dateTo); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}
	if f.Performance, err = s.bonuses.ListBonuses(ctx, emp.ID, commission.BonusKindPerformance, p.dateFrom, p.dateTo); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}
	if f.Deductions, err = s.bonuses.ListDeductions(ctx, emp.ID, p.year, int(p.month)); err != nil {
		return MonthlyFacts{}, payroll.MonthlyAttendance{}, err
	}

	return f, report, nil
}

func (s *PayrollServiceImpl) AttendanceReport(ctx context.Context, employeeID, month string) (payroll.AttendanceReportResponse, error) {
	p, err := s.resolvePeriod(month)
	if err != nil {
		return payroll.AttendanceReportResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.AttendanceReportResponse{}, err
	}

	report, err := s.attendance(ctx, emp, p)
	if err != nil {
		return payroll.AttendanceReportResponse{}, err
	}
	return payroll.AttendanceReportResponse{MonthlyAttendance: report}, nil
}

func (s *PayrollServiceImpl) EarningsReport(ctx context.Context, employeeID, month string) (payroll.EarningsReportResponse, error) {
	p, err := s.resolvePeriod(month)
	if err != nil {
		return payroll.EarningsReportResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.EarningsReportResponse{}, err
	}

	f, _, err := s.facts(ctx, emp, p)
	if err != nil {
		return payroll.EarningsReportResponse{}, err
	}

	resp := payroll.EarningsReportResponse{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.Name,
		DepartmentName: emp.Department(),
		Month:          p.label,
		Earnings:       s.calc.Aggregate(f),
		Assignments:    make([]commission.AssignmentResponse, 0, len(f.Assignments)),
		Meetings:       make([]payroll.MeetingItem, 0, len(f.Meetings)),
		Trainings:      make([]commission.BonusResponse, 0, len(f.Trainings)),
		Performance:    make([]commission.BonusResponse, 0, len(f.Performance)),
		Deductions:     make([]commission.DeductionResponse, 0, len(f.Deductions)),
	}
	for _, a := range f.Assignments {
		resp.Assignments = append(resp.Assignments, commission.NewAssignmentResponse(a))
	}
	for _, m := range f.Meetings {
		resp.Meetings = append(resp.Meetings, payroll.MeetingItem{
			MeetingID:   m.MeetingID,
			Topic:       m.Topic,
			Date:        m.Date.Format("2006-01-02"),
			BonusAmount: m.BonusAmount,
		})
	}
	for _, b := range f.Trainings {
		resp.Trainings = append(resp.Trainings, commission.NewBonusResponse(b))
	}
	for _, b := range f.Performance {
		resp.Performance = append(resp.Performance, commission.NewBonusResponse(b))
	}
	for _, d := range f.Deductions {
		resp.Deductions = append(resp.Deductions, commission.NewDeductionResponse(d))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) WorksheetReport(ctx context.Context, employeeID, month string) (payroll.WorksheetReportResponse, error) {
	p, err := s.resolvePeriod(month)
	if err != nil {
		return payroll.WorksheetReportResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.WorksheetReportResponse{}, err
	}

	all, err := s.worksheets.DailyTotals(ctx, emp.ID, p.dateFrom, p.dateTo)
	if err != nil {
		return payroll.WorksheetReportResponse{}, err
	}
	approved, err := s.worksheets.DailyApprovedTotals(ctx, emp.ID, p.dateFrom, p.dateTo)
	if err != nil {
		return payroll.WorksheetReportResponse{}, err
	}

	approvedByDay := make(map[string]decimal.Decimal, len(approved))
	for _, d := range approved {
		approvedByDay[d.Date.Format("2006-01-02")] = d.Amount
	}

	dept := emp.Department()
	threshold := s.calc.IsThresholdDepartment(dept)

	resp := payroll.WorksheetReportResponse{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.Name,
		DepartmentName:  dept,
		Month:           p.label,
		Days:            make([]payroll.WorksheetDay, 0, len(all)),
		TotalAmount:     decimal.Zero,
		ApprovedAmount:  decimal.Zero,
		TotalCommission: s.calc.WorksheetCommission(dept, approved),
	}
	for _, d := range all {
		key := d.Date.Format("2006-01-02")
		approvedAmount, ok := approvedByDay[key]
		if !ok {
			approvedAmount = decimal.Zero
		}

		day := payroll.WorksheetDay{
			Date:           key,
			TotalAmount:    d.Amount,
			ApprovedAmount: approvedAmount,
		}
		if threshold {
			day.Commission = s.calc.DayCommission(approvedAmount)
		} else {
			day.Commission = approvedAmount.Mul(s.calc.rules.Rate).Round(2)
		}

		resp.TotalAmount = resp.TotalAmount.Add(d.Amount)
		resp.ApprovedAmount = resp.ApprovedAmount.Add(approvedAmount)
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

// SalaryReport computes every employee's earnings with bounded concurrency. One failure fails the report.
func (s *PayrollServiceImpl) SalaryReport(ctx context.Context, month string) (payroll.SalaryReportResponse, error) {
	p, err := s.resolvePeriod(month)
	if err != nil {
		return payroll.SalaryReportResponse{}, err
	}

	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return payroll.SalaryReportResponse{}, err
	}

	rows := make([]payroll.SalaryReportRow, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			f, report, err := s.facts(gctx, emp, p)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			rows[i] = payroll.SalaryReportRow{
				EmployeeID:     emp.ID,
				EmployeeName:   emp.Name,
				DepartmentName: emp.Department(),
				MonthlySalary:  emp.Salary,
				WorkingDays:    report.WorkingDays,
				Earnings:       s.calc.Aggregate(f),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.SalaryReportResponse{}, fmt.Errorf("failed to build salary report: %w", err)
	}

	resp := payroll.SalaryReportResponse{
		Month:         p.label,
		Rows:          rows,
		TotalEarnings: decimal.Zero,
	}
	for _, row := range rows {
		resp.TotalEarnings = resp.TotalEarnings.Add(row.Earnings.TotalEarnings)
	}

	slog.Info("built salary report", "month", p.label, "employees", len(rows), "total", resp.TotalEarnings.StringFixed(2))
	return resp, nil
}
