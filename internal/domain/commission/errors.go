package commission

import "errors"

var (
	ErrWorksheetNotFound     = errors.New("worksheet not found")
	ErrWorksheetApproved     = errors.New("approved worksheet cannot be modified")
	ErrWorksheetNotOwned     = errors.New("worksheet belongs to another employee")
	ErrServiceTypeNotFound   = errors.New("service type not found")
	ErrServiceTypeNameExists = errors.New("service type name already exists")
	ErrInvalidPercentages    = errors.New("commission percentages must be between 0 and 100 and sum to at most 100")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrPartnerRequired       = errors.New("partner employee is required for sharing applications")
	ErrPartnerIsSelf         = errors.New("partner employee must be someone else")
	ErrPartnerNotFound       = errors.New("partner employee not found")
	ErrMeetingNotFound       = errors.New("meeting not found")
	ErrNothingToApprove      = errors.New("no records selected")
	ErrEmployeeNotFound      = errors.New("employee not found")
)
