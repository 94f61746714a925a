package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
	Admin      AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// AttendanceConfig controls session lifetime and the stale session sweep.
type AttendanceConfig struct {
	StaleThreshold  time.Duration
	SweepInterval   time.Duration
	SessionLifetime time.Duration
}

// PayrollConfig holds the commission rules.
type PayrollConfig struct {
	XeroxDepartment         string
	XeroxDailyThreshold     decimal.Decimal
	WorksheetCommissionRate decimal.Decimal
	ReportConcurrency       int
}

// AdminConfig seeds the first back-office account when none exists.
type AdminConfig struct {
	BootstrapUsername string
	BootstrapPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Attendance configuration
	staleThreshold, err := time.ParseDuration(getEnv("STALE_SESSION_THRESHOLD", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_SESSION_THRESHOLD: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("STALE_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_SWEEP_INTERVAL: %w", err)
	}
	sessionLifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "60m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME: %w", err)
	}

	config.Attendance = AttendanceConfig{
		StaleThreshold:  staleThreshold,
		SweepInterval:   sweepInterval,
		SessionLifetime: sessionLifetime,
	}

	// Payroll configuration
	concurrency, err := strconv.Atoi(getEnv("REPORT_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_CONCURRENCY: %w", err)
	}

	threshold, err := decimal.NewFromString(getEnv("XEROX_DAILY_THRESHOLD", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid XEROX_DAILY_THRESHOLD: %w", err)
	}
	rate, err := decimal.NewFromString(getEnv("WORKSHEET_COMMISSION_RATE", "0.05"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKSHEET_COMMISSION_RATE: %w", err)
	}

	config.Payroll = PayrollConfig{
		XeroxDepartment:         getEnv("XEROX_DEPARTMENT_NAME", "Xerox"),
		XeroxDailyThreshold:     threshold,
		WorksheetCommissionRate: rate,
		ReportConcurrency:       concurrency,
	}

	config.Admin = AdminConfig{
		BootstrapUsername: getEnv("ADMIN_BOOTSTRAP_USERNAME", ""),
		BootstrapPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q is not a valid time zone: %w", c.App.Timezone, err)
	}
	if c.Attendance.StaleThreshold <= 0 {
		return fmt.Errorf("STALE_SESSION_THRESHOLD must be positive")
	}
	if c.Attendance.SweepInterval <= 0 {
		return fmt.Errorf("STALE_SWEEP_INTERVAL must be positive")
	}
	if c.Payroll.XeroxDailyThreshold.IsNegative() {
		return fmt.Errorf("XEROX_DAILY_THRESHOLD must not be negative")
	}
	if c.Payroll.WorksheetCommissionRate.IsNegative() || c.Payroll.WorksheetCommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("WORKSHEET_COMMISSION_RATE must be between 0 and 1")
	}
	if (c.Admin.BootstrapUsername == "") != (c.Admin.BootstrapPassword == "") {
		return fmt.Errorf("ADMIN_BOOTSTRAP_USERNAME and ADMIN_BOOTSTRAP_PASSWORD must be set together")
	}
	if c.Payroll.ReportConcurrency < 1 {
		return fmt.Errorf("REPORT_CONCURRENCY must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the business time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
