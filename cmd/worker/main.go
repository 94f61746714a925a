package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/onlinehub/workforce-backend-go/internal/config"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/cron"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
	"github.com/onlinehub/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/onlinehub/workforce-backend-go/internal/service/attendance"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", "workforce-worker"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: 4,
		MinConns: 1,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, postgresql.NewJWTRepository(db))
	attendanceSvc := attendanceService.NewAttendanceService(
		postgresql.NewTransactor(db),
		postgresql.NewSessionRepository(db),
		postgresql.NewBreakRepository(db),
		postgresql.NewSessionEventPublisher(db),
		cfg.Attendance,
		cfg.Location(),
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, JWTService, cfg.Attendance.SweepInterval).RegisterJobs(scheduler)

	if *once {
		if err := scheduler.RunOnce(ctx); err != nil {
			slog.Error("Worker run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()
}
