package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/export"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/sse"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	auth.AuthService
	jwtService jwt.Service
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "secret" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	token, _, err := f.jwtService.GenerateEmployeeToken("emp-1", "sess-1")
	return auth.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: 3600}, err
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	pings int
}

func (f *fakeAttendanceService) EnforceSingleSession(ctx context.Context, employeeID, currentSessionID string) (attendance.SessionGuardResult, error) {
	return attendance.SessionGuardResult{ActiveSessionID: currentSessionID}, nil
}

func (f *fakeAttendanceService) Ping(ctx context.Context, employeeID string) (attendance.PingResponse, error) {
	f.pings++
	return attendance.PingResponse{SessionID: "sess-1", LastPing: "2024-06-03T10:00:00Z"}, nil
}

type allowAll struct {
	access.AccessService
}

func (allowAll) Check(ctx context.Context, addr netip.Addr) error { return nil }

type fakePayrollService struct {
	payroll.PayrollService
}

func (fakePayrollService) SalaryReport(ctx context.Context, month string) (payroll.SalaryReportResponse, error) {
	if month == "June" {
		return payroll.SalaryReportResponse{}, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}
	return payroll.SalaryReportResponse{
		Month: "2024-06",
		Rows: []payroll.SalaryReportRow{
			{EmployeeID: "emp-1", EmployeeName: "Ravi", Earnings: payroll.EarningsBreakdown{TotalEarnings: decimal.NewFromInt(3000)}},
		},
		TotalEarnings: decimal.NewFromInt(3000),
	}, nil
}

type testServer struct {
	handler    http.Handler
	jwtService jwt.Service
	attendance *fakeAttendanceService
}

func newTestServer() testServer {
	jwtService := jwt.NewJWTService("router-test-secret", "1h", nil)
	attendanceService := &fakeAttendanceService{}
	authService := &fakeAuthService{jwtService: jwtService}
	payrollService := fakePayrollService{}

	router := NewRouter(RouterConfig{
		AllowedOrigins:    []string{"http://localhost:3000"},
		JWTService:        jwtService,
		AttendanceService: attendanceService,
		AccessService:     allowAll{},
		Auth:              NewAuthHandler(authService),
		Me:                NewMeHandler(authService, attendanceService, payrollService, nil),
		Events:            NewEventHandler(jwtService, sse.NewHub()),
		Employee:          NewEmployeeHandler(nil),
		Attendance:        NewAttendanceHandler(attendanceService),
		Commission:        NewCommissionHandler(nil),
		Report:            NewReportHandler(payrollService),
		Access:            NewAccessHandler(allowAll{}),
	})

	return testServer{handler: router, jwtService: jwtService, attendance: attendanceService}
}

func (s testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LoginAndPing(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"mobile_number":"9876543210","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"mobile_number":"9876543210","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data auth.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)

	rec = srv.do(t, http.MethodPost, "/api/v1/me/ping", body.Data.AccessToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, srv.attendance.pings)
}

func TestRouter_AuthBoundaries(t *testing.T) {
	srv := newTestServer()

	employeeToken, _, err := srv.jwtService.GenerateEmployeeToken("emp-1", "sess-1")
	require.NoError(t, err)
	adminToken, _, err := srv.jwtService.GenerateAdminToken("admin-1", "root")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodPost, "/api/v1/me/ping", "", "").Code)
	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodGet, "/api/v1/admin/reports/salary", employeeToken, "").Code)
	assert.Equal(t, http.StatusForbidden, srv.do(t, http.MethodPost, "/api/v1/me/ping", adminToken, "").Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/v1/admin/reports/salary", adminToken, "").Code)
}

func TestRouter_SalaryReport(t *testing.T) {
	srv := newTestServer()
	adminToken, _, err := srv.jwtService.GenerateAdminToken("admin-1", "root")
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/admin/reports/salary?month=2024-06", adminToken, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body response.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
	})

	t.Run("bad month is a validation error", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/admin/reports/salary?month=June", adminToken, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("xlsx download", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/admin/reports/salary.xlsx?month=2024-06", adminToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "salary-2024-06.xlsx")
		assert.NotZero(t, rec.Body.Len())
	})
}

func TestRouter_EventStreamRequiresStreamToken(t *testing.T) {
	srv := newTestServer()
	accessToken, _, err := srv.jwtService.GenerateEmployeeToken("emp-1", "sess-1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/v1/events", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/v1/events?token="+accessToken, "", "").Code)

	rec := srv.do(t, http.MethodPost, "/api/v1/me/events/token", accessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data streamTokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	employeeID, err := srv.jwtService.ValidateSSEToken(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)
}
