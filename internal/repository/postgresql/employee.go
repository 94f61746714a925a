package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.name, e.mobile_number, e.password_hash, e.salary, e.joining_date,
	TO_CHAR(e.work_start_time, 'HH24:MI:SS'), TO_CHAR(e.work_end_time, 'HH24:MI:SS'),
	e.department_id, d.name, e.locked, e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var workStart, workEnd *string
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.MobileNumber, &emp.PasswordHash, &emp.Salary, &emp.JoiningDate,
		&workStart, &workEnd,
		&emp.DepartmentID, &emp.DepartmentName, &emp.Locked, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.WorkStartTime = parseClock(workStart)
	emp.WorkEndTime = parseClock(workEnd)
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return emp, nil
}

// GetByMobileNumber implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByMobileNumber(ctx context.Context, mobileNumber string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.mobile_number = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, validator.NormalizeMobileNumber(mobileNumber)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by mobile number: %w", err)
	}
	return emp, nil
}

// ExistsByMobileNumber implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByMobileNumber(ctx context.Context, mobileNumber string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE mobile_number = $1)`,
		validator.NormalizeMobileNumber(mobileNumber)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check mobile number: %w", err)
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}
	newEmployee.ID = id
	newEmployee.MobileNumber = validator.NormalizeMobileNumber(newEmployee.MobileNumber)

	query := `
		INSERT INTO employees (
			id, name, mobile_number, password_hash, salary, joining_date,
			work_start_time, work_end_time, department_id, locked
		) VALUES ($1, $2, $3, $4, $5, $6, $7::time, $8::time, $9, $10)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.MobileNumber,
		newEmployee.PasswordHash,
		newEmployee.Salary,
		newEmployee.JoiningDate,
		formatClock(newEmployee.WorkStartTime),
		formatClock(newEmployee.WorkEndTime),
		newEmployee.DepartmentID,
		newEmployee.Locked,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrMobileNumberExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, e.db)

	setClauses := []string{}
	args := []interface{}{}
	i := 1

	add := func(clause string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf(clause, i))
		args = append(args, value)
		i++
	}

	if req.Name != nil {
		add("name = $%d", strings.TrimSpace(*req.Name))
	}
	if req.MobileNumber != nil {
		add("mobile_number = $%d", validator.NormalizeMobileNumber(*req.MobileNumber))
	}
	if req.PasswordHash != nil {
		add("password_hash = $%d", *req.PasswordHash)
	}
	if req.Salary != nil {
		add("salary = $%d", *req.Salary)
	}
	if req.ClearSchedule {
		setClauses = append(setClauses, "work_start_time = NULL", "work_end_time = NULL")
	} else if req.WorkStartTime != nil && req.WorkEndTime != nil {
		add("work_start_time = $%d::time", *req.WorkStartTime)
		add("work_end_time = $%d::time", *req.WorkEndTime)
	}
	if req.DepartmentID != nil {
		add("department_id = $%d", *req.DepartmentID)
	}
	if req.Locked != nil {
		add("locked = $%d", *req.Locked)
	}

	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING id", strings.Join(setClauses, ", "), i)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.ErrMobileNumberExists
		}
		return fmt.Errorf("failed to update employee %s: %w", id, err)
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE $%d OR e.mobile_number ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees e WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE %s
		ORDER BY e.name ASC
		LIMIT $%d OFFSET $%d`, employeeColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListAll implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		ORDER BY e.name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) employee.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

// Create implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, department employee.Department) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Department{}, fmt.Errorf("failed to generate department id: %w", err)
	}
	department.ID = id

	err = q.QueryRow(ctx,
		`INSERT INTO departments (id, name) VALUES ($1, $2) RETURNING created_at`,
		department.ID, strings.TrimSpace(department.Name),
	).Scan(&department.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Department{}, employee.ErrDepartmentNameExists
		}
		return employee.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}

// GetByID implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	var d employee.Department
	err := q.QueryRow(ctx, `SELECT id, name, created_at FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Department{}, employee.ErrDepartmentNotFound
		}
		return employee.Department{}, fmt.Errorf("failed to get department %s: %w", id, err)
	}
	return d, nil
}

// List implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, created_at FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := []employee.Department{}
	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
