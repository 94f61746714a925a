package commission

import (
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CreateWorksheetRequest struct {
	Date           string          `json:"date"` // YYYY-MM-DD, defaults to today
	TokenNo        *string         `json:"token_no,omitempty"`
	CustomerName   *string         `json:"customer_name,omitempty"`
	CustomerMobile *string         `json:"customer_mobile,omitempty"`
	Service        *string         `json:"service,omitempty"`
	Particulars    *string         `json:"particulars,omitempty"`
	Payment        decimal.Decimal `json:"payment"`
	Amount         decimal.Decimal `json:"amount"`
}

func (r *CreateWorksheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if r.CustomerMobile != nil && *r.CustomerMobile != "" && !validator.IsValidMobileNumber(*r.CustomerMobile) {
		errs = append(errs, validator.ValidationError{Field: "customer_mobile", Message: "customer_mobile must be a valid 10 digit mobile number"})
	}
	if r.Payment.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "payment", Message: "payment must not be negative"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateWorksheetRequest struct {
	ID string `json:"-"`
	CreateWorksheetRequest
}

func (r *UpdateWorksheetRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if err := r.CreateWorksheetRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorksheetFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *string `json:"month,omitempty"` // YYYY-MM
	Approved   *bool   `json:"approved,omitempty"`

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *WorksheetFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if f.Month != nil {
		// worksheet dates are calendar dates, so the bounds stay in UTC
		from, to, ok := validator.MonthRange(*f.Month, time.UTC)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"})
		} else {
			f.From, f.To = &from, &to
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorksheetResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	DepartmentName string          `json:"department_name"`
	Date           string          `json:"date"`
	TokenNo        *string         `json:"token_no,omitempty"`
	CustomerName   *string         `json:"customer_name,omitempty"`
	CustomerMobile *string         `json:"customer_mobile,omitempty"`
	Service        *string         `json:"service,omitempty"`
	Particulars    *string         `json:"particulars,omitempty"`
	Payment        decimal.Decimal `json:"payment"`
	Amount         decimal.Decimal `json:"amount"`
	Approved       bool            `json:"approved"`
}

func NewWorksheetResponse(w Worksheet) WorksheetResponse {
	return WorksheetResponse{
		ID:             w.ID,
		EmployeeID:     w.EmployeeID,
		DepartmentName: w.DepartmentName,
		Date:           w.Date.Format("2006-01-02"),
		TokenNo:        w.TokenNo,
		CustomerName:   w.CustomerName,
		CustomerMobile: w.CustomerMobile,
		Service:        w.Service,
		Particulars:    w.Particulars,
		Payment:        w.Payment,
		Amount:         w.Amount,
		Approved:       w.Approved,
	}
}

// ApproveRequest selects rows for a bulk approval.
type ApproveRequest struct {
	IDs []string `json:"ids"`
}

func (r *ApproveRequest) Validate() error {
	if len(r.IDs) == 0 {
		return validator.ValidationErrors{{Field: "ids", Message: ErrNothingToApprove.Error()}}
	}
	for _, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			return validator.ValidationErrors{{Field: "ids", Message: "ids must contain valid UUIDs"}}
		}
	}
	return nil
}

type ApproveResponse struct {
	Approved int64 `json:"approved"`
}

type CreateServiceTypeRequest struct {
	Name              string          `json:"name"`
	RefereePercentage decimal.Decimal `json:"referee_percentage"`
	PartnerPercentage decimal.Decimal `json:"partner_percentage"`
}

func (r *CreateServiceTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.RefereePercentage.IsNegative() || r.PartnerPercentage.IsNegative() ||
		r.RefereePercentage.Add(r.PartnerPercentage).GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "referee_percentage", Message: ErrInvalidPercentages.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ServiceTypeResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	RefereePercentage decimal.Decimal `json:"referee_percentage"`
	PartnerPercentage decimal.Decimal `json:"partner_percentage"`
}

type CreateApplicationRequest struct {
	ServiceTypeID     string          `json:"service_type_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerMobile    *string         `json:"customer_mobile,omitempty"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	Kind              AssignKind      `json:"assign_type"`
	PartnerEmployeeID *string         `json:"partner_employee_id,omitempty"`
	ExpectedDate      *string         `json:"expected_date_of_completion,omitempty"` // YYYY-MM-DD
}

func (r *CreateApplicationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ServiceTypeID) {
		errs = append(errs, validator.ValidationError{Field: "service_type_id", Message: "service_type_id must be a valid UUID"})
	}
	if validator.IsEmpty(r.CustomerName) {
		errs = append(errs, validator.ValidationError{Field: "customer_name", Message: "customer_name is required"})
	}
	if r.CustomerMobile != nil && *r.CustomerMobile != "" && !validator.IsValidMobileNumber(*r.CustomerMobile) {
		errs = append(errs, validator.ValidationError{Field: "customer_mobile", Message: "customer_mobile must be a valid 10 digit mobile number"})
	}
	if !r.TotalCommission.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_commission", Message: "total_commission must be greater than zero"})
	}
	switch r.Kind {
	case AssignKindOwn:
	case AssignKindSharing:
		if r.PartnerEmployeeID == nil || *r.PartnerEmployeeID == "" {
			errs = append(errs, validator.ValidationError{Field: "partner_employee_id", Message: ErrPartnerRequired.Error()})
		} else if !validator.IsValidUUID(*r.PartnerEmployeeID) {
			errs = append(errs, validator.ValidationError{Field: "partner_employee_id", Message: "partner_employee_id must be a valid UUID"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "assign_type", Message: "assign_type must be one of: own, sharing"})
	}
	if r.ExpectedDate != nil && *r.ExpectedDate != "" {
		if _, ok := validator.IsValidDate(*r.ExpectedDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "expected_date_of_completion", Message: "expected_date_of_completion must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SplitCommission computes each assignee's share of total. An own application pays the creator
// both percentages; a sharing application pays the referee share to the creator and the partner
// share to the partner. Shares are rounded to 0.01.
func SplitCommission(total decimal.Decimal, st ServiceType, kind AssignKind) (creator, partner decimal.Decimal) {
	referee := total.Mul(st.RefereePercentage).Div(hundred).Round(2)
	partnerShare := total.Mul(st.PartnerPercentage).Div(hundred).Round(2)
	if kind == AssignKindOwn {
		return total.Mul(st.RefereePercentage.Add(st.PartnerPercentage)).Div(hundred).Round(2), decimal.Zero
	}
	return referee, partnerShare
}

type ApplicationResponse struct {
	ID              string               `json:"id"`
	ServiceTypeID   string               `json:"service_type_id"`
	ServiceTypeName *string              `json:"service_type_name,omitempty"`
	Kind            AssignKind           `json:"assign_type"`
	CustomerName    string               `json:"customer_name"`
	CustomerMobile  *string              `json:"customer_mobile,omitempty"`
	TotalCommission decimal.Decimal      `json:"total_commission"`
	Approved        bool                 `json:"approved"`
	CreatedAt       string               `json:"created_at"`
	Assignments     []AssignmentResponse `json:"assignments,omitempty"`
}

type AssignmentResponse struct {
	ID               string          `json:"id"`
	ApplicationID    string          `json:"application_id"`
	EmployeeID       string          `json:"employee_id"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	ServiceTypeName  *string         `json:"service_type_name,omitempty"`
	CustomerName     *string         `json:"customer_name,omitempty"`
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:               a.ID,
		ApplicationID:    a.ApplicationID,
		EmployeeID:       a.EmployeeID,
		CommissionAmount: a.CommissionAmount,
		ServiceTypeName:  a.ServiceTypeName,
		CustomerName:     a.CustomerName,
	}
}

type ApplicationListResponse struct {
	Month              string                `json:"month"`
	Applications       []ApplicationResponse `json:"applications"`
	ApprovedShares     []AssignmentResponse  `json:"approved_assignments"`
	ApprovedCommission decimal.Decimal       `json:"approved_commission"`
}

type CreateMeetingRequest struct {
	Topic       string          `json:"topic"`
	Date        string          `json:"date"` // YYYY-MM-DD
	BonusAmount decimal.Decimal `json:"bonus_amount"`
	Attendees   []string        `json:"attendees"`
}

func (r *CreateMeetingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Topic) {
		errs = append(errs, validator.ValidationError{Field: "topic", Message: "topic is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if r.BonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_amount", Message: "bonus_amount must not be negative"})
	}
	for _, id := range r.Attendees {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "attendees", Message: "attendees must contain valid employee UUIDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MeetingResponse struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Date        string          `json:"date"`
	BonusAmount decimal.Decimal `json:"bonus_amount"`
	Attendees   int             `json:"attendees"`
}

type CreateBonusRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BonusResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Kind        BonusKind       `json:"kind"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

func NewBonusResponse(b Bonus) BonusResponse {
	return BonusResponse{
		ID:          b.ID,
		EmployeeID:  b.EmployeeID,
		Kind:        b.Kind,
		Date:        b.Date.Format("2006-01-02"),
		Description: b.Description,
		Amount:      b.Amount,
	}
}

type CreateDeductionRequest struct {
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"` // YYYY-MM
	Reason     string          `json:"reason"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if _, _, ok := validator.ParseMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"`
	Reason     string          `json:"reason,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

func NewDeductionResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Month:      time.Date(d.PeriodYear, time.Month(d.PeriodMonth), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Reason:     d.Reason,
		Amount:     d.Amount,
	}
}
