package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/middleware"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string

	JWTService        jwt.Service
	AttendanceService attendance.AttendanceService
	AccessService     access.AccessService

	Auth       AuthHandler
	Me         MeHandler
	Events     EventHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Commission CommissionHandler
	Report     ReportHandler
	Access     AccessHandler
}

func NewRouter(c RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if c.Logger != nil {
		r.Use(httplog.RequestLogger(c.Logger, &httplog.Options{
			Level:  c.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.IPAccess(c.AccessService)).Post("/login", c.Auth.Login)
			r.Post("/admin/login", c.Auth.AdminLogin)
		})

		// Authenticated with a short-lived stream token in the query string.
		r.Get("/events", c.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(c.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(c.JWTService))

			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.IPAccess(c.AccessService))
				r.Use(middleware.SessionGuard(c.AttendanceService, c.JWTService))

				r.Post("/logout", c.Me.Logout)
				r.Post("/ping", c.Me.Ping)
				r.Post("/refresh", c.Me.Refresh)
				r.Post("/events/token", c.Events.Token)

				r.Get("/attendance", c.Me.Attendance)
				r.Get("/earnings", c.Me.Earnings)

				r.Route("/worksheets", func(r chi.Router) {
					r.Get("/", c.Me.ListWorksheets)
					r.Post("/", c.Me.CreateWorksheet)
					r.Put("/{id}", c.Me.UpdateWorksheet)
				})

				r.Route("/applications", func(r chi.Router) {
					r.Get("/", c.Me.ListApplications)
					r.Post("/", c.Me.CreateApplication)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/departments", func(r chi.Router) {
					r.Get("/", c.Employee.ListDepartments)
					r.Post("/", c.Employee.CreateDepartment)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", c.Employee.ListEmployees)
					r.Post("/", c.Employee.CreateEmployee)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", c.Employee.GetEmployee)
						r.Put("/", c.Employee.UpdateEmployee)
						r.Get("/attendance-report", c.Report.AttendanceReport)
						r.Get("/attendance-report.xlsx", c.Report.AttendanceReportXLSX)
						r.Get("/salary-report", c.Report.EarningsReport)
						r.Get("/worksheet-report", c.Report.WorksheetReport)
					})
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/salary", c.Report.SalaryReport)
					r.Get("/salary.xlsx", c.Report.SalaryReportXLSX)
				})

				r.Route("/breaks", func(r chi.Router) {
					r.Get("/", c.Attendance.ListBreaks)
					r.Post("/approve", c.Attendance.ApproveBreaks)
				})
				r.Post("/attendance/close-stale", c.Attendance.CloseStale)

				r.Route("/worksheets", func(r chi.Router) {
					r.Get("/", c.Commission.ListWorksheets)
					r.Post("/approve", c.Commission.ApproveWorksheets)
				})
				r.Post("/applications/approve", c.Commission.ApproveApplications)

				r.Route("/service-types", func(r chi.Router) {
					r.Get("/", c.Commission.ListServiceTypes)
					r.Post("/", c.Commission.CreateServiceType)
				})
				r.Post("/meetings", c.Commission.CreateMeeting)
				r.Post("/training-bonuses", c.Commission.CreateTrainingBonus)
				r.Post("/performance-bonuses", c.Commission.CreatePerformanceBonus)
				r.Post("/deductions", c.Commission.CreateDeduction)

				r.Route("/ip-access", func(r chi.Router) {
					r.Get("/", c.Access.GetSettings)
					r.Put("/", c.Access.SetMode)
					r.Get("/allowed-ips", c.Access.ListAllowedIPs)
					r.Post("/allowed-ips", c.Access.AddAllowedIP)
					r.Delete("/allowed-ips/{id}", c.Access.RemoveAllowedIP)
				})
			})
		})
	})

	return r
}
