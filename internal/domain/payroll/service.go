package payroll

import "context"

// PayrollService computes reports on demand from attendance, worksheet and bonus facts.
// Every method is a pure read.
type PayrollService interface {
	AttendanceReport(ctx context.Context, employeeID, month string) (AttendanceReportResponse, error)
	EarningsReport(ctx context.Context, employeeID, month string) (EarningsReportResponse, error)
	WorksheetReport(ctx context.Context, employeeID, month string) (WorksheetReportResponse, error)
	SalaryReport(ctx context.Context, month string) (SalaryReportResponse, error)
}
