package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const schemaFile = "../../../../migrations/000001_init.up.sql"

var truncateTables = []string{
	"revoked_tokens",
	"allowed_ips",
	"ip_access_settings",
	"deductions",
	"bonuses",
	"meeting_attendances",
	"meetings",
	"application_assignments",
	"applications",
	"service_types",
	"worksheets",
	"break_sessions",
	"attendance_sessions",
	"admin_users",
	"employees",
	"departments",
}

// newTestDB connects to TEST_DATABASE_URL, creates the schema when missing and
// empties every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	var exists bool
	require.NoError(t, db.QueryRow(ctx, `SELECT to_regclass('public.employees') IS NOT NULL`).Scan(&exists))
	if !exists {
		schema, err := os.ReadFile(schemaFile)
		require.NoError(t, err)
		_, err = db.Exec(ctx, string(schema))
		require.NoError(t, err)
	}

	for _, table := range truncateTables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}

	return db
}

func createEmployee(t *testing.T, db *database.DB, mobile string) employee.Employee {
	t.Helper()

	emp, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		Name:         "Employee " + mobile,
		MobileNumber: mobile,
		PasswordHash: "x",
		Salary:       decimal.NewFromInt(30000),
		JoiningDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}
