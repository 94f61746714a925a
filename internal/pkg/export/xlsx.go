package export

import (
	"fmt"
	"io"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
}

func newSheet(name string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name, bold: bold}, nil
}

func (s *sheetWriter) append(values ...interface{}) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.sheet, cell, &values)
}

func (s *sheetWriter) header(values ...interface{}) error {
	if err := s.append(values...); err != nil {
		return err
	}
	return s.f.SetRowStyle(s.sheet, s.row, s.row, s.bold)
}

func (s *sheetWriter) blank() {
	s.row++
}

func (s *sheetWriter) writeTo(w io.Writer) error {
	defer s.f.Close()
	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

func hours(seconds int64) float64 {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2).InexactFloat64()
}

// WriteAttendanceReport renders one employee's reconciled month as a workbook.
func WriteAttendanceReport(w io.Writer, r payroll.MonthlyAttendance) error {
	s, err := newSheet("Attendance " + r.Month)
	if err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Employee", r.EmployeeName},
		{"Month", r.Month},
		{"Schedule", r.WorkStart + " - " + r.WorkEnd},
		{"Target hours", hours(r.TargetSeconds)},
		{"Base daily wage", money(r.BaseDailyWage)},
		{"Working days", r.WorkingDays},
		{"Credited hours", hours(r.TotalCredited)},
		{"Total wage", money(r.TotalWage)},
	}
	for _, row := range summary {
		if err := s.append(row...); err != nil {
			s.f.Close()
			return err
		}
	}
	s.blank()

	if err := s.header("Date", "First login", "Effective login", "Effective logout", "Breaks", "Credited hours", "Daily wage", "Remark"); err != nil {
		s.f.Close()
		return err
	}
	for _, d := range r.Days {
		if err := s.append(
			d.Date,
			clock(d.FirstLogin),
			clock(d.EffectiveLogin),
			clock(d.EffectiveLogout),
			d.BreakSummary,
			hours(d.CreditedSeconds),
			money(d.DailyWage),
			d.Remark,
		); err != nil {
			s.f.Close()
			return err
		}
	}

	return s.writeTo(w)
}

// WriteSalaryReport renders the all-employee salary report with one row per employee and a total.
func WriteSalaryReport(w io.Writer, r payroll.SalaryReportResponse) error {
	s, err := newSheet("Salary " + r.Month)
	if err != nil {
		return err
	}

	if err := s.header(
		"Employee", "Department", "Monthly salary", "Working days", "Attendance salary",
		"Application commission", "Worksheet commission", "Meetings", "Trainings",
		"Performance", "Deductions", "Total earnings",
	); err != nil {
		s.f.Close()
		return err
	}

	for _, row := range r.Rows {
		e := row.Earnings
		if err := s.append(
			row.EmployeeName,
			row.DepartmentName,
			money(row.MonthlySalary),
			row.WorkingDays,
			money(e.AttendanceSalary),
			money(e.ApplicationCommissions),
			money(e.WorksheetCommissions),
			money(e.MeetingsBonus),
			money(e.TrainingsBonus),
			money(e.PerformanceBonus),
			money(e.DeductionAmount),
			money(e.TotalEarnings),
		); err != nil {
			s.f.Close()
			return err
		}
	}

	s.blank()
	if err := s.append("Total", "", "", "", "", "", "", "", "", "", "", money(r.TotalEarnings)); err != nil {
		s.f.Close()
		return err
	}
	if err := s.f.SetRowStyle(s.sheet, s.row, s.row, s.bold); err != nil {
		s.f.Close()
		return err
	}

	return s.writeTo(w)
}

// Filename builds a download name such as "salary-2024-06.xlsx".
func Filename(prefix, month string) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, month)
}
