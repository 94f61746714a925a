package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CommissionServiceImpl struct {
	tx           database.Transactor
	employees    employee.EmployeeRepository
	worksheets   commission.WorksheetRepository
	serviceTypes commission.ServiceTypeRepository
	applications commission.ApplicationRepository
	bonuses      commission.BonusRepository
	loc          *time.Location
	now          func() time.Time
}

func NewCommissionService(
	tx database.Transactor,
	employees employee.EmployeeRepository,
	worksheets commission.WorksheetRepository,
	serviceTypes commission.ServiceTypeRepository,
	applications commission.ApplicationRepository,
	bonuses commission.BonusRepository,
	loc *time.Location,
) commission.CommissionService {
	return &CommissionServiceImpl{
		tx:           tx,
		employees:    employees,
		worksheets:   worksheets,
		serviceTypes: serviceTypes,
		applications: applications,
		bonuses:      bonuses,
		loc:          loc,
		now:          time.Now,
	}
}

// workDate resolves a YYYY-MM-DD date, or today in the business location, to a UTC calendar date.
func (s *CommissionServiceImpl) workDate(date string) time.Time {
	if d, ok := validator.IsValidDate(date); ok {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	today := s.now().In(s.loc)
	return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *CommissionServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, commission.ErrEmployeeNotFound
	}
	return emp, err
}

func (s *CommissionServiceImpl) CreateWorksheet(ctx context.Context, employeeID string, req commission.CreateWorksheetRequest) (commission.WorksheetResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.WorksheetResponse{}, err
	}

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return commission.WorksheetResponse{}, err
	}

	created, err := s.worksheets.Create(ctx, commission.Worksheet{
		EmployeeID:     emp.ID,
		DepartmentName: emp.Department(),
		Date:           s.workDate(req.Date),
		TokenNo:        req.TokenNo,
		CustomerName:   req.CustomerName,
		CustomerMobile: normalizeMobile(req.CustomerMobile),
		Service:        req.Service,
		Particulars:    req.Particulars,
		Payment:        req.Payment,
		Amount:         req.Amount,
	})
	if err != nil {
		return commission.WorksheetResponse{}, err
	}

	return commission.NewWorksheetResponse(created), nil
}

// UpdateWorksheet edits the caller's own unapproved entry. The stamped department is kept.
func (s *CommissionServiceImpl) UpdateWorksheet(ctx context.Context, employeeID string, req commission.UpdateWorksheetRequest) (commission.WorksheetResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.WorksheetResponse{}, err
	}

	existing, err := s.worksheets.GetByID(ctx, req.ID)
	if err != nil {
		return commission.WorksheetResponse{}, err
	}
	if existing.EmployeeID != employeeID {
		return commission.WorksheetResponse{}, commission.ErrWorksheetNotOwned
	}
	if existing.Approved {
		return commission.WorksheetResponse{}, commission.ErrWorksheetApproved
	}

	existing.TokenNo = req.TokenNo
	existing.CustomerName = req.CustomerName
	existing.CustomerMobile = normalizeMobile(req.CustomerMobile)
	existing.Service = req.Service
	existing.Particulars = req.Particulars
	existing.Payment = req.Payment
	existing.Amount = req.Amount
	if req.Date != "" {
		existing.Date = s.workDate(req.Date)
	}

	updated, err := s.worksheets.UpdateIfUnapproved(ctx, existing)
	if err != nil {
		return commission.WorksheetResponse{}, err
	}
	return commission.NewWorksheetResponse(updated), nil
}

func (s *CommissionServiceImpl) ListWorksheets(ctx context.Context, filter commission.WorksheetFilter) ([]commission.WorksheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	worksheets, err := s.worksheets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]commission.WorksheetResponse, 0, len(worksheets))
	for _, w := range worksheets {
		resp = append(resp, commission.NewWorksheetResponse(w))
	}
	return resp, nil
}

func (s *CommissionServiceImpl) ApproveWorksheets(ctx context.Context, req commission.ApproveRequest) (commission.ApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.ApproveResponse{}, err
	}

	approved, err := s.worksheets.Approve(ctx, req.IDs)
	if err != nil {
		return commission.ApproveResponse{}, err
	}
	slog.Info("approved worksheets", "requested", len(req.IDs), "approved", approved)
	return commission.ApproveResponse{Approved: approved}, nil
}

func (s *CommissionServiceImpl) CreateServiceType(ctx context.Context, req commission.CreateServiceTypeRequest) (commission.ServiceTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.ServiceTypeResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.serviceTypes.ExistsByName(ctx, name)
	if err != nil {
		return commission.ServiceTypeResponse{}, err
	}
	if exists {
		return commission.ServiceTypeResponse{}, commission.ErrServiceTypeNameExists
	}

	st, err := s.serviceTypes.Create(ctx, commission.ServiceType{
		Name:              name,
		RefereePercentage: req.RefereePercentage,
		PartnerPercentage: req.PartnerPercentage,
	})
	if err != nil {
		return commission.ServiceTypeResponse{}, err
	}
	return serviceTypeResponse(st), nil
}

func (s *CommissionServiceImpl) ListServiceTypes(ctx context.Context) ([]commission.ServiceTypeResponse, error) {
	types, err := s.serviceTypes.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]commission.ServiceTypeResponse, 0, len(types))
	for _, st := range types {
		resp = append(resp, serviceTypeResponse(st))
	}
	return resp, nil
}

// CreateApplication stores the application and its commission split in one transaction.
func (s *CommissionServiceImpl) CreateApplication(ctx context.Context, employeeID string, req commission.CreateApplicationRequest) (commission.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.ApplicationResponse{}, err
	}

	st, err := s.serviceTypes.GetByID(ctx, req.ServiceTypeID)
	if err != nil {
		return commission.ApplicationResponse{}, err
	}

	var partnerID string
	if req.Kind == commission.AssignKindSharing {
		partnerID = *req.PartnerEmployeeID
		if partnerID == employeeID {
			return commission.ApplicationResponse{}, commission.ErrPartnerIsSelf
		}
		if _, err := s.employees.GetByID(ctx, partnerID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return commission.ApplicationResponse{}, commission.ErrPartnerNotFound
			}
			return commission.ApplicationResponse{}, err
		}
	}

	var expected *time.Time
	if req.ExpectedDate != nil && *req.ExpectedDate != "" {
		d := s.workDate(*req.ExpectedDate)
		expected = &d
	}

	creatorShare, partnerShare := commission.SplitCommission(req.TotalCommission, st, req.Kind)

	var (
		app         commission.Application
		assignments []commission.Assignment
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.applications.Create(ctx, commission.Application{
			ServiceTypeID:   st.ID,
			CreatedBy:       employeeID,
			Kind:            req.Kind,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerMobile:  normalizeMobile(req.CustomerMobile),
			TotalCommission: req.TotalCommission,
			ExpectedDate:    expected,
		})
		if err != nil {
			return err
		}

		own, err := s.applications.CreateAssignment(ctx, commission.Assignment{
			ApplicationID:    app.ID,
			EmployeeID:       employeeID,
			CommissionAmount: creatorShare,
		})
		if err != nil {
			return err
		}
		assignments = append(assignments, own)

		if partnerID != "" {
			partner, err := s.applications.CreateAssignment(ctx, commission.Assignment{
				ApplicationID:    app.ID,
				EmployeeID:       partnerID,
				CommissionAmount: partnerShare,
			})
			if err != nil {
				return err
			}
			assignments = append(assignments, partner)
		}
		return nil
	})
	if err != nil {
		return commission.ApplicationResponse{}, fmt.Errorf("failed to create application: %w", err)
	}

	app.ServiceTypeName = &st.Name
	resp := applicationResponse(app)
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, commission.NewAssignmentResponse(a))
	}
	return resp, nil
}

// ListApplications returns the employee's applications for the month and the approved shares it earns from them.
func (s *CommissionServiceImpl) ListApplications(ctx context.Context, employeeID string, month string) (commission.ApplicationListResponse, error) {
	if month == "" {
		month = s.now().In(s.loc).Format("2006-01")
	}
	from, to, ok := validator.MonthRange(month, s.loc)
	if !ok {
		return commission.ApplicationListResponse{}, validator.ValidationErrors{
			{Field: "month", Message: "month must be in YYYY-MM format"},
		}
	}

	apps, err := s.applications.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return commission.ApplicationListResponse{}, err
	}
	shares, err := s.applications.ListApprovedAssignments(ctx, employeeID, from, to)
	if err != nil {
		return commission.ApplicationListResponse{}, err
	}

	resp := commission.ApplicationListResponse{
		Month:              from.Format("2006-01"),
		Applications:       make([]commission.ApplicationResponse, 0, len(apps)),
		ApprovedShares:     make([]commission.AssignmentResponse, 0, len(shares)),
		ApprovedCommission: decimal.Zero,
	}
	for _, a := range apps {
		resp.Applications = append(resp.Applications, applicationResponse(a))
	}
	for _, a := range shares {
		resp.ApprovedShares = append(resp.ApprovedShares, commission.NewAssignmentResponse(a))
		resp.ApprovedCommission = resp.ApprovedCommission.Add(a.CommissionAmount)
	}
	return resp, nil
}

func (s *CommissionServiceImpl) ApproveApplications(ctx context.Context, req commission.ApproveRequest) (commission.ApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.ApproveResponse{}, err
	}

	approved, err := s.applications.Approve(ctx, req.IDs)
	if err != nil {
		return commission.ApproveResponse{}, err
	}
	slog.Info("approved applications", "requested", len(req.IDs), "approved", approved)
	return commission.ApproveResponse{Approved: approved}, nil
}

func (s *CommissionServiceImpl) CreateMeeting(ctx context.Context, req commission.CreateMeetingRequest) (commission.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.MeetingResponse{}, err
	}

	var meeting commission.Meeting
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		meeting, err = s.bonuses.CreateMeeting(ctx, commission.Meeting{
			Topic:       strings.TrimSpace(req.Topic),
			Date:        s.workDate(req.Date),
			BonusAmount: req.BonusAmount,
		})
		if err != nil {
			return err
		}

		marks := make([]commission.MeetingAttendance, 0, len(req.Attendees))
		for _, id := range req.Attendees {
			marks = append(marks, commission.MeetingAttendance{MeetingID: meeting.ID, EmployeeID: id, Attended: true})
		}
		return s.bonuses.MarkAttendance(ctx, marks)
	})
	if err != nil {
		return commission.MeetingResponse{}, fmt.Errorf("failed to create meeting: %w", err)
	}

	return commission.MeetingResponse{
		ID:          meeting.ID,
		Topic:       meeting.Topic,
		Date:        meeting.Date.Format("2006-01-02"),
		BonusAmount: meeting.BonusAmount,
		Attendees:   len(req.Attendees),
	}, nil
}

func (s *CommissionServiceImpl) CreateBonus(ctx context.Context, kind commission.BonusKind, req commission.CreateBonusRequest) (commission.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.BonusResponse{}, err
	}
	if _, err := s.getEmployee(ctx, req.EmployeeID); err != nil {
		return commission.BonusResponse{}, err
	}

	bonus, err := s.bonuses.CreateBonus(ctx, commission.Bonus{
		EmployeeID:  req.EmployeeID,
		Kind:        kind,
		Date:        s.workDate(req.Date),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
	})
	if err != nil {
		return commission.BonusResponse{}, err
	}
	return commission.NewBonusResponse(bonus), nil
}

func (s *CommissionServiceImpl) CreateDeduction(ctx context.Context, req commission.CreateDeductionRequest) (commission.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.DeductionResponse{}, err
	}
	if _, err := s.getEmployee(ctx, req.EmployeeID); err != nil {
		return commission.DeductionResponse{}, err
	}

	year, month, _ := validator.ParseMonth(req.Month)
	d, err := s.bonuses.CreateDeduction(ctx, commission.Deduction{
		EmployeeID:  req.EmployeeID,
		PeriodYear:  year,
		PeriodMonth: int(month),
		Reason:      strings.TrimSpace(req.Reason),
		Amount:      req.Amount,
	})
	if err != nil {
		return commission.DeductionResponse{}, err
	}
	return commission.NewDeductionResponse(d), nil
}

func serviceTypeResponse(st commission.ServiceType) commission.ServiceTypeResponse {
	return commission.ServiceTypeResponse{
		ID:                st.ID,
		Name:              st.Name,
		RefereePercentage: st.RefereePercentage,
		PartnerPercentage: st.PartnerPercentage,
	}
}

func applicationResponse(a commission.Application) commission.ApplicationResponse {
	return commission.ApplicationResponse{
		ID:              a.ID,
		ServiceTypeID:   a.ServiceTypeID,
		ServiceTypeName: a.ServiceTypeName,
		Kind:            a.Kind,
		CustomerName:    a.CustomerName,
		CustomerMobile:  a.CustomerMobile,
		TotalCommission: a.TotalCommission,
		Approved:        a.Approved,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

func normalizeMobile(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	n := validator.NormalizeMobileNumber(*s)
	return &n
}
