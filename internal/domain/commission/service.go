package commission

import "context"

type CommissionService interface {
	CreateWorksheet(ctx context.Context, employeeID string, req CreateWorksheetRequest) (WorksheetResponse, error)
	UpdateWorksheet(ctx context.Context, employeeID string, req UpdateWorksheetRequest) (WorksheetResponse, error)
	ListWorksheets(ctx context.Context, filter WorksheetFilter) ([]WorksheetResponse, error)
	ApproveWorksheets(ctx context.Context, req ApproveRequest) (ApproveResponse, error)

	CreateServiceType(ctx context.Context, req CreateServiceTypeRequest) (ServiceTypeResponse, error)
	ListServiceTypes(ctx context.Context) ([]ServiceTypeResponse, error)

	CreateApplication(ctx context.Context, employeeID string, req CreateApplicationRequest) (ApplicationResponse, error)
	ListApplications(ctx context.Context, employeeID string, month string) (ApplicationListResponse, error)
	ApproveApplications(ctx context.Context, req ApproveRequest) (ApproveResponse, error)

	CreateMeeting(ctx context.Context, req CreateMeetingRequest) (MeetingResponse, error)
	CreateBonus(ctx context.Context, kind BonusKind, req CreateBonusRequest) (BonusResponse, error)
	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
}
