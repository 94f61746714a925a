package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrMobileNumberExists     = errors.New("mobile number already registered")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentNameExists   = errors.New("department name already exists")
	ErrEmployeeLocked         = errors.New("employee account is locked")
	ErrInvalidWorkingSchedule = errors.New("working start and end time must both be set or both be empty")
)
