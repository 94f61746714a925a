package commission

import (
	"context"
	"time"
)

type WorksheetRepository interface {
	Create(ctx context.Context, w Worksheet) (Worksheet, error)
	GetByID(ctx context.Context, id string) (Worksheet, error)
	// UpdateIfUnapproved rewrites the editable fields and returns ErrWorksheetApproved when the row is already approved.
	UpdateIfUnapproved(ctx context.Context, w Worksheet) (Worksheet, error)
	List(ctx context.Context, filter WorksheetFilter) ([]Worksheet, error)
	Approve(ctx context.Context, ids []string) (int64, error)
	// DailyApprovedTotals groups approved amounts by day for dates in [from, to).
	DailyApprovedTotals(ctx context.Context, employeeID string, from, to time.Time) ([]DailyAmount, error)
	// DailyTotals groups all amounts by day, approved or not, for dates in [from, to).
	DailyTotals(ctx context.Context, employeeID string, from, to time.Time) ([]DailyAmount, error)
}

type ServiceTypeRepository interface {
	Create(ctx context.Context, st ServiceType) (ServiceType, error)
	GetByID(ctx context.Context, id string) (ServiceType, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]ServiceType, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app Application) (Application, error)
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Application, error)
	Approve(ctx context.Context, ids []string) (int64, error)
	// ListApprovedAssignments returns the employee's assignments on approved applications created in [from, to).
	ListApprovedAssignments(ctx context.Context, employeeID string, from, to time.Time) ([]Assignment, error)
}

type BonusRepository interface {
	CreateMeeting(ctx context.Context, m Meeting) (Meeting, error)
	MarkAttendance(ctx context.Context, attendance []MeetingAttendance) error
	// ListAttendedMeetings returns meetings held in [from, to) that the employee attended.
	ListAttendedMeetings(ctx context.Context, employeeID string, from, to time.Time) ([]AttendedMeeting, error)
	CreateBonus(ctx context.Context, b Bonus) (Bonus, error)
	ListBonuses(ctx context.Context, employeeID string, kind BonusKind, from, to time.Time) ([]Bonus, error)
	CreateDeduction(ctx context.Context, d Deduction) (Deduction, error)
	ListDeductions(ctx context.Context, employeeID string, year, month int) ([]Deduction, error)
}
