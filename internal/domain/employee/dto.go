package employee

import (
	"strings"

	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name          string          `json:"name"`
	MobileNumber  string          `json:"mobile_number"`
	Password      string          `json:"password"`
	Salary        decimal.Decimal `json:"salary"`
	JoiningDate   string          `json:"joining_date"`              // YYYY-MM-DD
	WorkStartTime *string         `json:"work_start_time,omitempty"` // HH:MM
	WorkEndTime   *string         `json:"work_end_time,omitempty"`   // HH:MM
	DepartmentID  *string         `json:"department_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidMobileNumber(r.MobileNumber) {
		errs = append(errs, validator.ValidationError{Field: "mobile_number", Message: "mobile_number must be a valid 10 digit mobile number"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}
	if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "joining_date", Message: "joining_date must be in YYYY-MM-DD format"})
	}
	errs = append(errs, validateSchedule(r.WorkStartTime, r.WorkEndTime)...)
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty"`
	MobileNumber  *string          `json:"mobile_number,omitempty"`
	Password      *string          `json:"password,omitempty"`
	PasswordHash  *string          `json:"-"`
	Salary        *decimal.Decimal `json:"salary,omitempty"`
	WorkStartTime *string          `json:"work_start_time,omitempty"`
	WorkEndTime   *string          `json:"work_end_time,omitempty"`
	ClearSchedule bool             `json:"clear_schedule,omitempty"`
	DepartmentID  *string          `json:"department_id,omitempty"`
	Locked        *bool            `json:"locked,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.MobileNumber != nil && !validator.IsValidMobileNumber(*r.MobileNumber) {
		errs = append(errs, validator.ValidationError{Field: "mobile_number", Message: "mobile_number must be a valid 10 digit mobile number"})
	}
	if r.Password != nil && len(*r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "salary must not be negative"})
	}
	if r.WorkStartTime != nil || r.WorkEndTime != nil {
		errs = append(errs, validateSchedule(r.WorkStartTime, r.WorkEndTime)...)
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateSchedule(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if (start == nil) != (end == nil) {
		errs = append(errs, validator.ValidationError{Field: "work_end_time", Message: ErrInvalidWorkingSchedule.Error()})
		return errs
	}
	if start != nil {
		if _, ok := validator.ParseClockTime(*start); !ok {
			errs = append(errs, validator.ValidationError{Field: "work_start_time", Message: "work_start_time must be in HH:MM format"})
		}
	}
	if end != nil {
		if _, ok := validator.ParseClockTime(*end); !ok {
			errs = append(errs, validator.ValidationError{Field: "work_end_time", Message: "work_end_time must be in HH:MM format"})
		}
	}
	return errs
}

type EmployeeFilter struct {
	Search       *string `json:"search,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.Search != nil {
		trimmed := strings.TrimSpace(*f.Search)
		f.Search = &trimmed
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	MobileNumber   string          `json:"mobile_number"`
	Salary         decimal.Decimal `json:"salary"`
	JoiningDate    string          `json:"joining_date"`
	WorkStartTime  *string         `json:"work_start_time,omitempty"`
	WorkEndTime    *string         `json:"work_end_time,omitempty"`
	DepartmentID   *string         `json:"department_id,omitempty"`
	DepartmentName *string         `json:"department_name,omitempty"`
	Locked         bool            `json:"locked"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

func (r *CreateDepartmentRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{Field: "name", Message: "name is required"}}
	}
	return nil
}

type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
