package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worksheet is one line of counter work recorded by an employee. The department is stamped
// at creation so later department moves do not change past commission.
type Worksheet struct {
	ID             string
	EmployeeID     string
	DepartmentName string
	Date           time.Time
	TokenNo        *string
	CustomerName   *string
	CustomerMobile *string
	Service        *string
	Particulars    *string
	Payment        decimal.Decimal
	Amount         decimal.Decimal
	Approved       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DailyAmount is the approved worksheet total for one calendar day.
type DailyAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

type ServiceType struct {
	ID                string
	Name              string
	RefereePercentage decimal.Decimal
	PartnerPercentage decimal.Decimal
	CreatedAt         time.Time
}

type AssignKind string

const (
	AssignKindOwn     AssignKind = "own"
	AssignKindSharing AssignKind = "sharing"
)

type Application struct {
	ID              string
	ServiceTypeID   string
	CreatedBy       string
	Kind            AssignKind
	CustomerName    string
	CustomerMobile  *string
	TotalCommission decimal.Decimal
	ExpectedDate    *time.Time
	Approved        bool
	CreatedAt       time.Time

	// Joined fields
	ServiceTypeName *string
}

// Assignment is an employee's stored share of an application's commission.
type Assignment struct {
	ID               string
	ApplicationID    string
	EmployeeID       string
	CommissionAmount decimal.Decimal
	CreatedAt        time.Time

	// Joined fields
	ServiceTypeName *string
	CustomerName    *string
	ApplicationDate *time.Time
}

type Meeting struct {
	ID          string
	Topic       string
	Date        time.Time
	BonusAmount decimal.Decimal
	CreatedAt   time.Time
}

type MeetingAttendance struct {
	MeetingID  string
	EmployeeID string
	Attended   bool
}

// AttendedMeeting is a meeting the employee was marked as attending.
type AttendedMeeting struct {
	MeetingID   string
	Topic       string
	Date        time.Time
	BonusAmount decimal.Decimal
}

type BonusKind string

const (
	BonusKindTraining    BonusKind = "training"
	BonusKindPerformance BonusKind = "performance"
)

type Bonus struct {
	ID          string
	EmployeeID  string
	Kind        BonusKind
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Deduction is a manual amount withheld from one employee's monthly earnings.
type Deduction struct {
	ID          string
	EmployeeID  string
	PeriodYear  int
	PeriodMonth int
	Reason      string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}
