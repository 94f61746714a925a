package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("month must be in YYYY-MM format")
)
