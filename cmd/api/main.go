package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/onlinehub/workforce-backend-go/internal/config"
	appHTTP "github.com/onlinehub/workforce-backend-go/internal/handler/http"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/sse"
	"github.com/onlinehub/workforce-backend-go/internal/repository/postgresql"
	accessService "github.com/onlinehub/workforce-backend-go/internal/service/access"
	attendanceService "github.com/onlinehub/workforce-backend-go/internal/service/attendance"
	serviceAuth "github.com/onlinehub/workforce-backend-go/internal/service/auth"
	commissionService "github.com/onlinehub/workforce-backend-go/internal/service/commission"
	employeeService "github.com/onlinehub/workforce-backend-go/internal/service/employee"
	payrollService "github.com/onlinehub/workforce-backend-go/internal/service/payroll"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-api"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := cfg.Location()
	transactor := postgresql.NewTransactor(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	adminRepo := postgresql.NewAdminRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	worksheetRepo := postgresql.NewWorksheetRepository(db)
	serviceTypeRepo := postgresql.NewServiceTypeRepository(db)
	applicationRepo := postgresql.NewApplicationRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	accessRepo := postgresql.NewAccessRepository(db)
	revocationStore := postgresql.NewJWTRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, revocationStore)

	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		sessionRepo,
		breakRepo,
		postgresql.NewSessionEventPublisher(db),
		cfg.Attendance,
		loc,
	)
	authService := serviceAuth.NewAuthService(employeeRepo, adminRepo, attendanceSvc, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, departmentRepo)
	commissionSvc := commissionService.NewCommissionService(
		transactor,
		employeeRepo,
		worksheetRepo,
		serviceTypeRepo,
		applicationRepo,
		bonusRepo,
		loc,
	)
	calculator := payrollService.NewCalculator(loc, payrollService.CommissionRules{
		ThresholdDepartment: cfg.Payroll.XeroxDepartment,
		DailyThreshold:      cfg.Payroll.XeroxDailyThreshold,
		Rate:                cfg.Payroll.WorksheetCommissionRate,
	})
	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		sessionRepo,
		breakRepo,
		worksheetRepo,
		applicationRepo,
		bonusRepo,
		calculator,
		cfg.Payroll.ReportConcurrency,
	)
	accessSvc := accessService.NewAccessService(accessRepo)

	if cfg.Admin.BootstrapUsername != "" {
		if err := authService.BootstrapAdmin(ctx, cfg.Admin.BootstrapUsername, cfg.Admin.BootstrapPassword); err != nil {
			slog.Error("Failed to bootstrap admin user", "error", err)
			os.Exit(1)
		}
	}

	hub := sse.NewHub()
	go postgresql.NewSessionEventListener(db).Run(ctx, hub.PublishSessionClosed)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:            logger,
		LogLevel:          cfg.SlogLevel(),
		AllowedOrigins:    cfg.App.AllowedOrigins,
		JWTService:        JWTService,
		AttendanceService: attendanceSvc,
		AccessService:     accessSvc,
		Auth:              appHTTP.NewAuthHandler(authService),
		Me:                appHTTP.NewMeHandler(authService, attendanceSvc, payrollSvc, commissionSvc),
		Events:            appHTTP.NewEventHandler(JWTService, hub),
		Employee:          appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:        appHTTP.NewAttendanceHandler(attendanceSvc),
		Commission:        appHTTP.NewCommissionHandler(commissionSvc),
		Report:            appHTTP.NewReportHandler(payrollSvc),
		Access:            appHTTP.NewAccessHandler(accessSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
