package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RemarkLateLogin = "Late Login"
	RemarkAbsent    = "Absent"
)

// BreakEntry is a break overlapping the day's scheduled window, as shown on the report.
type BreakEntry struct {
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	Approved bool       `json:"approved"`
	Reason   string     `json:"reason,omitempty"`
}

// DailyRecord is one reconciled calendar day.
type DailyRecord struct {
	Date            string          `json:"date"`
	Present         bool            `json:"present"`
	FirstLogin      *time.Time      `json:"first_login,omitempty"`
	EffectiveLogin  *time.Time      `json:"effective_login,omitempty"`
	EffectiveLogout *time.Time      `json:"effective_logout,omitempty"`
	OpenSession     bool            `json:"open_session"`
	Breaks          []BreakEntry    `json:"breaks"`
	BreakSummary    string          `json:"break_summary"`
	CreditedSeconds int64           `json:"credited_seconds"`
	DailyWage       decimal.Decimal `json:"daily_wage"`
	Remark          string          `json:"remark,omitempty"`
}

// MonthlyAttendance is the reconciled month for one employee.
type MonthlyAttendance struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Month         string          `json:"month"`
	WorkStart     string          `json:"work_start"`
	WorkEnd       string          `json:"work_end"`
	WindowSeconds int64           `json:"window_seconds"`
	TargetSeconds int64           `json:"target_seconds"`
	DaysInMonth   int             `json:"days_in_month"`
	BaseDailyWage decimal.Decimal `json:"base_daily_wage"`
	WorkingDays   int             `json:"working_days"`
	TotalCredited int64           `json:"total_credited_seconds"`
	TotalWage     decimal.Decimal `json:"total_wage"`
	Days          []DailyRecord   `json:"days"`
}

// WorksheetDay is one day of the worksheet report.
type WorksheetDay struct {
	Date           string          `json:"date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Commission     decimal.Decimal `json:"commission"`
}

// EarningsBreakdown is the monthly earnings of one employee. It is never stored.
type EarningsBreakdown struct {
	AttendanceSalary       decimal.Decimal `json:"attendance_salary"`
	ApplicationCommissions decimal.Decimal `json:"application_commissions"`
	WorksheetCommissions   decimal.Decimal `json:"worksheet_commissions"`
	MeetingsBonus          decimal.Decimal `json:"meetings_bonus"`
	TrainingsBonus         decimal.Decimal `json:"trainings_bonus"`
	PerformanceBonus       decimal.Decimal `json:"performance_bonus"`
	DeductionAmount        decimal.Decimal `json:"deduction_amount"`
	TotalEarnings          decimal.Decimal `json:"total_earnings"`
}
