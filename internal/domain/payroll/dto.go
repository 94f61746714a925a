package payroll

import (
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

type AttendanceReportResponse struct {
	MonthlyAttendance
}

type EarningsReportResponse struct {
	EmployeeID     string                          `json:"employee_id"`
	EmployeeName   string                          `json:"employee_name"`
	DepartmentName string                          `json:"department_name"`
	Month          string                          `json:"month"`
	Earnings       EarningsBreakdown               `json:"earnings"`
	Assignments    []commission.AssignmentResponse `json:"application_assignments"`
	Meetings       []MeetingItem                   `json:"attended_meetings"`
	Trainings      []commission.BonusResponse      `json:"training_bonuses"`
	Performance    []commission.BonusResponse      `json:"performance_bonuses"`
	Deductions     []commission.DeductionResponse  `json:"deductions"`
}

type MeetingItem struct {
	MeetingID   string          `json:"meeting_id"`
	Topic       string          `json:"topic"`
	Date        string          `json:"date"`
	BonusAmount decimal.Decimal `json:"bonus_amount"`
}

type WorksheetReportResponse struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	DepartmentName  string          `json:"department_name"`
	Month           string          `json:"month"`
	Days            []WorksheetDay  `json:"days"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ApprovedAmount  decimal.Decimal `json:"approved_amount"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

type SalaryReportRow struct {
	EmployeeID     string            `json:"employee_id"`
	EmployeeName   string            `json:"employee_name"`
	DepartmentName string            `json:"department_name"`
	MonthlySalary  decimal.Decimal   `json:"monthly_salary"`
	WorkingDays    int               `json:"working_days"`
	Earnings       EarningsBreakdown `json:"earnings"`
}

type SalaryReportResponse struct {
	Month         string            `json:"month"`
	Rows          []SalaryReportRow `json:"rows"`
	TotalEarnings decimal.Decimal   `json:"total_earnings"`
}
