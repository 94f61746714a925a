package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/middleware"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
)

// MeHandler serves the logged-in employee's own session, reports and commission entries.
type MeHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)

	Attendance(w http.ResponseWriter, r *http.Request)
	Earnings(w http.ResponseWriter, r *http.Request)

	ListWorksheets(w http.ResponseWriter, r *http.Request)
	CreateWorksheet(w http.ResponseWriter, r *http.Request)
	UpdateWorksheet(w http.ResponseWriter, r *http.Request)
	ListApplications(w http.ResponseWriter, r *http.Request)
	CreateApplication(w http.ResponseWriter, r *http.Request)
}

type meHandlerImpl struct {
	authService       auth.AuthService
	attendanceService attendance.AttendanceService
	payrollService    payroll.PayrollService
	commissionService commission.CommissionService
}

func NewMeHandler(
	authService auth.AuthService,
	attendanceService attendance.AttendanceService,
	payrollService payroll.PayrollService,
	commissionService commission.CommissionService,
) MeHandler {
	return &meHandlerImpl{
		authService:       authService,
		attendanceService: attendanceService,
		payrollService:    payrollService,
		commissionService: commissionService,
	}
}

// Logout implements MeHandler. The body is optional.
func (h *meHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var req attendance.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session, err := h.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out", session)
}

// Ping implements MeHandler.
func (h *meHandlerImpl) Ping(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Ping(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Refresh implements MeHandler.
func (h *meHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.attendanceService.Refresh(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Session refreshed", session)
}

// Attendance implements MeHandler.
func (h *meHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.AttendanceReport(r.Context(), middleware.EmployeeID(r), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

// Earnings implements MeHandler.
func (h *meHandlerImpl) Earnings(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.EarningsReport(r.Context(), middleware.EmployeeID(r), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

// ListWorksheets implements MeHandler.
func (h *meHandlerImpl) ListWorksheets(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)
	filter := commission.WorksheetFilter{
		EmployeeID: &employeeID,
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

// CreateWorksheet implements MeHandler.
func (h *meHandlerImpl) CreateWorksheet(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateWorksheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	worksheet, err := h.commissionService.CreateWorksheet(r.Context(), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Worksheet entry created", worksheet)
}

// UpdateWorksheet implements MeHandler.
func (h *meHandlerImpl) UpdateWorksheet(w http.ResponseWriter, r *http.Request) {
	var req commission.UpdateWorksheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	worksheet, err := h.commissionService.UpdateWorksheet(r.Context(), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Worksheet entry updated", worksheet)
}

// ListApplications implements MeHandler.
func (h *meHandlerImpl) ListApplications(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.ListApplications(r.Context(), middleware.EmployeeID(r), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateApplication implements MeHandler.
func (h *meHandlerImpl) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	application, err := h.commissionService.CreateApplication(r.Context(), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Application created", application)
}
