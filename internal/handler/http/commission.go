package http

import (
	"net/http"

	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
)

// CommissionHandler covers the admin side of commission facts: approvals and
// the service types, meetings, bonuses and deductions that feed earnings.
type CommissionHandler interface {
	ListWorksheets(w http.ResponseWriter, r *http.Request)
	ApproveWorksheets(w http.ResponseWriter, r *http.Request)
	ApproveApplications(w http.ResponseWriter, r *http.Request)

	ListServiceTypes(w http.ResponseWriter, r *http.Request)
	CreateServiceType(w http.ResponseWriter, r *http.Request)

	CreateMeeting(w http.ResponseWriter, r *http.Request)
	CreateTrainingBonus(w http.ResponseWriter, r *http.Request)
	CreatePerformanceBonus(w http.ResponseWriter, r *http.Request)
	CreateDeduction(w http.ResponseWriter, r *http.Request)
}

type commissionHandlerImpl struct {
	commissionService commission.CommissionService
}

func NewCommissionHandler(commissionService commission.CommissionService) CommissionHandler {
	return &commissionHandlerImpl{
		commissionService: commissionService,
	}
}

func (h *commissionHandlerImpl) ListWorksheets(w http.ResponseWriter, r *http.Request) {
	filter := commission.WorksheetFilter{
		EmployeeID: optionalString(r, "employee_id"),
		Month:      optionalString(r, "month"),
		Approved:   optionalBool(r, "approved"),
	}

	worksheets, err := h.commissionService.ListWorksheets(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, worksheets)
}

func (h *commissionHandlerImpl) ApproveWorksheets(w http.ResponseWriter, r *http.Request) {
	var req commission.ApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.ApproveWorksheets(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Worksheets approved", result)
}

func (h *commissionHandlerImpl) ApproveApplications(w http.ResponseWriter, r *http.Request) {
	var req commission.ApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.ApproveApplications(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Applications approved", result)
}

func (h *commissionHandlerImpl) ListServiceTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.ListServiceTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *commissionHandlerImpl) CreateServiceType(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateServiceTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.CreateServiceType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Service type created", result)
}

func (h *commissionHandlerImpl) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateMeetingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.CreateMeeting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Meeting recorded", result)
}

func (h *commissionHandlerImpl) CreateTrainingBonus(w http.ResponseWriter, r *http.Request) {
	h.createBonus(w, r, commission.BonusKindTraining)
}

func (h *commissionHandlerImpl) CreatePerformanceBonus(w http.ResponseWriter, r *http.Request) {
	h.createBonus(w, r, commission.BonusKindPerformance)
}

func (h *commissionHandlerImpl) createBonus(w http.ResponseWriter, r *http.Request, kind commission.BonusKind) {
	var req commission.CreateBonusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.CreateBonus(r.Context(), kind, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Bonus recorded", result)
}

func (h *commissionHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateDeductionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.commissionService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Deduction recorded", result)
}
