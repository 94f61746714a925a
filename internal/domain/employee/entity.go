package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	Name           string
	MobileNumber   string
	PasswordHash   string
	Salary         decimal.Decimal
	JoiningDate    time.Time
	WorkStartTime  *time.Time // time of day only
	WorkEndTime    *time.Time // time of day only
	DepartmentID   *string
	DepartmentName *string
	Locked         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Department returns the department name or "" when unassigned.
func (e Employee) Department() string {
	if e.DepartmentName == nil {
		return ""
	}
	return *e.DepartmentName
}

type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
