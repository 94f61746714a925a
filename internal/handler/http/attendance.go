package http

import (
	"log/slog"
	"net/http"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ListBreaks(w http.ResponseWriter, r *http.Request)
	ApproveBreaks(w http.ResponseWriter, r *http.Request)
	CloseStale(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ListBreaks implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListBreaks(w http.ResponseWriter, r *http.Request) {
	filter := attendance.BreakFilter{
		EmployeeID: optionalString(r, "employee_id"),
		Approved:   optionalBool(r, "approved"),
		Month:      optionalString(r, "month"),
		From:       optionalString(r, "from"),
		To:         optionalString(r, "to"),
		Limit:      getIntQueryParam(r, "limit", 0),
	}

	breaks, err := h.attendanceService.ListBreaks(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, breaks)
}

// ApproveBreaks implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveBreaks(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApproveBreaksRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ApproveBreaks(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Breaks approved", result)
}

// CloseStale implements AttendanceHandler. Runs the stale-session sweep once.
func (h *attendanceHandlerImpl) CloseStale(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CloseStaleSessions(r.Context())
	if err != nil {
		slog.Error("on-demand stale sweep failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
