package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/export"
)

type ReportHandler interface {
	AttendanceReport(w http.ResponseWriter, r *http.Request)
	AttendanceReportXLSX(w http.ResponseWriter, r *http.Request)
	EarningsReport(w http.ResponseWriter, r *http.Request)
	WorksheetReport(w http.ResponseWriter, r *http.Request)
	SalaryReport(w http.ResponseWriter, r *http.Request)
	SalaryReportXLSX(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewReportHandler(payrollService payroll.PayrollService) ReportHandler {
	return &reportHandlerImpl{
		payrollService: payrollService,
	}
}

func (h *reportHandlerImpl) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.AttendanceReport(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func (h *reportHandlerImpl) AttendanceReportXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.AttendanceReport(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAttendanceReport(&buf, report.MonthlyAttendance); err != nil {
		slog.Error("render attendance workbook", "employee_id", report.EmployeeID, "error", err)
		response.InternalServerError(w, "Failed to render report")
		return
	}
	writeWorkbook(w, export.Filename("attendance", report.Month), buf.Bytes())
}

func (h *reportHandlerImpl) EarningsReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.EarningsReport(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func (h *reportHandlerImpl) WorksheetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.WorksheetReport(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func (h *reportHandlerImpl) SalaryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.SalaryReport(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

func (h *reportHandlerImpl) SalaryReportXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.SalaryReport(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSalaryReport(&buf, report); err != nil {
		slog.Error("render salary workbook", "month", report.Month, "error", err)
		response.InternalServerError(w, "Failed to render report")
		return
	}
	writeWorkbook(w, export.Filename("salary", report.Month), buf.Bytes())
}

// writeWorkbook is only called once the workbook is fully rendered so errors can still be sent as JSON.
func writeWorkbook(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
