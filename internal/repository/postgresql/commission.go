package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type worksheetRepository struct {
	db *database.DB
}

func NewWorksheetRepository(db *database.DB) commission.WorksheetRepository {
	return &worksheetRepository{db: db}
}

const worksheetColumns = `
	id, employee_id, department_name, work_date, token_no, customer_name, customer_mobile,
	service, particulars, payment, amount, approved, created_at, updated_at`

func scanWorksheet(row pgx.Row) (commission.Worksheet, error) {
	var w commission.Worksheet
	err := row.Scan(
		&w.ID, &w.EmployeeID, &w.DepartmentName, &w.Date, &w.TokenNo, &w.CustomerName, &w.CustomerMobile,
		&w.Service, &w.Particulars, &w.Payment, &w.Amount, &w.Approved, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

// Create implements commission.WorksheetRepository.
func (r *worksheetRepository) Create(ctx context.Context, w commission.Worksheet) (commission.Worksheet, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Worksheet{}, fmt.Errorf("failed to generate worksheet id: %w", err)
	}
	w.ID = id

	query := `
		INSERT INTO worksheets (
			id, employee_id, department_name, work_date, token_no, customer_name, customer_mobile,
			service, particulars, payment, amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING approved, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		w.ID, w.EmployeeID, w.DepartmentName, w.Date, w.TokenNo, w.CustomerName, w.CustomerMobile,
		w.Service, w.Particulars, w.Payment, w.Amount,
	).Scan(&w.Approved, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return commission.Worksheet{}, fmt.Errorf("failed to create worksheet: %w", err)
	}
	return w, nil
}

// GetByID implements commission.WorksheetRepository.
func (r *worksheetRepository) GetByID(ctx context.Context, id string) (commission.Worksheet, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWorksheet(q.QueryRow(ctx, `SELECT `+worksheetColumns+` FROM worksheets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Worksheet{}, commission.ErrWorksheetNotFound
		}
		return commission.Worksheet{}, fmt.Errorf("failed to get worksheet %s: %w", id, err)
	}
	return w, nil
}

// UpdateIfUnapproved implements commission.WorksheetRepository.
func (r *worksheetRepository) UpdateIfUnapproved(ctx context.Context, w commission.Worksheet) (commission.Worksheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worksheets
		SET work_date = $2, token_no = $3, customer_name = $4, customer_mobile = $5,
			service = $6, particulars = $7, payment = $8, amount = $9, updated_at = NOW()
		WHERE id = $1 AND approved = FALSE
		RETURNING ` + worksheetColumns

	updated, err := scanWorksheet(q.QueryRow(ctx, query,
		w.ID, w.Date, w.TokenNo, w.CustomerName, w.CustomerMobile,
		w.Service, w.Particulars, w.Payment, w.Amount,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Worksheet{}, commission.ErrWorksheetApproved
		}
		return commission.Worksheet{}, fmt.Errorf("failed to update worksheet %s: %w", w.ID, err)
	}
	return updated, nil
}

// List implements commission.WorksheetRepository.
func (r *worksheetRepository) List(ctx context.Context, filter commission.WorksheetFilter) ([]commission.Worksheet, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("approved = $%d", argIdx))
		args = append(args, *filter.Approved)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("work_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("work_date < $%d", argIdx))
		args = append(args, *filter.To)
	}

	query := `SELECT ` + worksheetColumns + ` FROM worksheets WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY work_date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}
	defer rows.Close()

	worksheets := []commission.Worksheet{}
	for rows.Next() {
		w, err := scanWorksheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worksheet: %w", err)
		}
		worksheets = append(worksheets, w)
	}
	return worksheets, rows.Err()
}

// Approve implements commission.WorksheetRepository.
func (r *worksheetRepository) Approve(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE worksheets SET approved = TRUE, updated_at = NOW() WHERE id = ANY($1) AND approved = FALSE`,
		ids)
	if err != nil {
		return 0, fmt.Errorf("failed to approve worksheets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DailyApprovedTotals implements commission.WorksheetRepository.
func (r *worksheetRepository) DailyApprovedTotals(ctx context.Context, employeeID string, from, to time.Time) ([]commission.DailyAmount, error) {
	return r.dailyTotals(ctx, employeeID, from, to, true)
}

// DailyTotals implements commission.WorksheetRepository.
func (r *worksheetRepository) DailyTotals(ctx context.Context, employeeID string, from, to time.Time) ([]commission.DailyAmount, error) {
	return r.dailyTotals(ctx, employeeID, from, to, false)
}

func (r *worksheetRepository) dailyTotals(ctx context.Context, employeeID string, from, to time.Time, approvedOnly bool) ([]commission.DailyAmount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT work_date, COALESCE(SUM(amount), 0)
		FROM worksheets
		WHERE employee_id = $1 AND work_date >= $2 AND work_date < $3
		  AND ($4 = FALSE OR approved = TRUE)
		GROUP BY work_date
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, approvedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to sum worksheets by day: %w", err)
	}
	defer rows.Close()

	totals := []commission.DailyAmount{}
	for rows.Next() {
		var d commission.DailyAmount
		if err := rows.Scan(&d.Date, &d.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan daily worksheet total: %w", err)
		}
		totals = append(totals, d)
	}
	return totals, rows.Err()
}

type serviceTypeRepository struct {
	db *database.DB
}

func NewServiceTypeRepository(db *database.DB) commission.ServiceTypeRepository {
	return &serviceTypeRepository{db: db}
}

// Create implements commission.ServiceTypeRepository.
func (r *serviceTypeRepository) Create(ctx context.Context, st commission.ServiceType) (commission.ServiceType, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.ServiceType{}, fmt.Errorf("failed to generate service type id: %w", err)
	}
	st.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO service_types (id, name, referee_commission_percentage, partner_commission_percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		st.ID, st.Name, st.RefereePercentage, st.PartnerPercentage,
	).Scan(&st.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return commission.ServiceType{}, commission.ErrServiceTypeNameExists
		}
		return commission.ServiceType{}, fmt.Errorf("failed to create service type: %w", err)
	}
	return st, nil
}

// GetByID implements commission.ServiceTypeRepository.
func (r *serviceTypeRepository) GetByID(ctx context.Context, id string) (commission.ServiceType, error) {
	q := GetQuerier(ctx, r.db)

	var st commission.ServiceType
	err := q.QueryRow(ctx, `
		SELECT id, name, referee_commission_percentage, partner_commission_percentage, created_at
		FROM service_types WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name, &st.RefereePercentage, &st.PartnerPercentage, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.ServiceType{}, commission.ErrServiceTypeNotFound
		}
		return commission.ServiceType{}, fmt.Errorf("failed to get service type %s: %w", id, err)
	}
	return st, nil
}

// ExistsByName implements commission.ServiceTypeRepository.
func (r *serviceTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM service_types WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check service type name: %w", err)
	}
	return exists, nil
}

// List implements commission.ServiceTypeRepository.
func (r *serviceTypeRepository) List(ctx context.Context) ([]commission.ServiceType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, referee_commission_percentage, partner_commission_percentage, created_at
		FROM service_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}
	defer rows.Close()

	types := []commission.ServiceType{}
	for rows.Next() {
		var st commission.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.RefereePercentage, &st.PartnerPercentage, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service type: %w", err)
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

type applicationRepository struct {
	db *database.DB
}

func NewApplicationRepository(db *database.DB) commission.ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements commission.ApplicationRepository.
func (r *applicationRepository) Create(ctx context.Context, app commission.Application) (commission.Application, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Application{}, fmt.Errorf("failed to generate application id: %w", err)
	}
	app.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO applications (
			id, service_type_id, created_by, assign_type, customer_name, customer_mobile,
			total_commission, expected_completion_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING approved, created_at`,
		app.ID, app.ServiceTypeID, app.CreatedBy, app.Kind, app.CustomerName, app.CustomerMobile,
		app.TotalCommission, app.ExpectedDate,
	).Scan(&app.Approved, &app.CreatedAt)
	if err != nil {
		return commission.Application{}, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// CreateAssignment implements commission.ApplicationRepository.
func (r *applicationRepository) CreateAssignment(ctx context.Context, a commission.Assignment) (commission.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Assignment{}, fmt.Errorf("failed to generate assignment id: %w", err)
	}
	a.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO application_assignments (id, application_id, employee_id, commission_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		a.ID, a.ApplicationID, a.EmployeeID, a.CommissionAmount,
	).Scan(&a.CreatedAt)
	if err != nil {
		return commission.Assignment{}, fmt.Errorf("failed to create application assignment: %w", err)
	}
	return a, nil
}

// ListByEmployee implements commission.ApplicationRepository.
func (r *applicationRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]commission.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT a.id, a.service_type_id, a.created_by, a.assign_type, a.customer_name, a.customer_mobile,
			a.total_commission, a.expected_completion_date, a.approved, a.created_at, st.name
		FROM applications a
		JOIN service_types st ON st.id = a.service_type_id
		JOIN application_assignments aa ON aa.application_id = a.id
		WHERE aa.employee_id = $1 AND a.created_at >= $2 AND a.created_at < $3
		ORDER BY a.created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []commission.Application{}
	for rows.Next() {
		var a commission.Application
		if err := rows.Scan(
			&a.ID, &a.ServiceTypeID, &a.CreatedBy, &a.Kind, &a.CustomerName, &a.CustomerMobile,
			&a.TotalCommission, &a.ExpectedDate, &a.Approved, &a.CreatedAt, &a.ServiceTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Approve implements commission.ApplicationRepository.
func (r *applicationRepository) Approve(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE applications SET approved = TRUE WHERE id = ANY($1) AND approved = FALSE`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to approve applications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListApprovedAssignments implements commission.ApplicationRepository.
func (r *applicationRepository) ListApprovedAssignments(ctx context.Context, employeeID string, from, to time.Time) ([]commission.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT aa.id, aa.application_id, aa.employee_id, aa.commission_amount, aa.created_at,
			st.name, a.customer_name, a.created_at
		FROM application_assignments aa
		JOIN applications a ON a.id = aa.application_id
		JOIN service_types st ON st.id = a.service_type_id
		WHERE aa.employee_id = $1
		  AND a.approved = TRUE
		  AND a.created_at >= $2 AND a.created_at < $3
		ORDER BY a.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved assignments: %w", err)
	}
	defer rows.Close()

	assignments := []commission.Assignment{}
	for rows.Next() {
		var a commission.Assignment
		if err := rows.Scan(
			&a.ID, &a.ApplicationID, &a.EmployeeID, &a.CommissionAmount, &a.CreatedAt,
			&a.ServiceTypeName, &a.CustomerName, &a.ApplicationDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) commission.BonusRepository {
	return &bonusRepository{db: db}
}

// CreateMeeting implements commission.BonusRepository.
func (r *bonusRepository) CreateMeeting(ctx context.Context, m commission.Meeting) (commission.Meeting, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Meeting{}, fmt.Errorf("failed to generate meeting id: %w", err)
	}
	m.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO meetings (id, topic, meeting_date, bonus_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		m.ID, m.Topic, m.Date, m.BonusAmount,
	).Scan(&m.CreatedAt)
	if err != nil {
		return commission.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}
	return m, nil
}

// MarkAttendance implements commission.BonusRepository.
func (r *bonusRepository) MarkAttendance(ctx context.Context, attendance []commission.MeetingAttendance) error {
	if len(attendance) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO meeting_attendances (meeting_id, employee_id, attended)
		VALUES ($1, $2, $3)
		ON CONFLICT (meeting_id, employee_id) DO UPDATE SET attended = EXCLUDED.attended
	`
	for _, a := range attendance {
		if _, err := q.Exec(ctx, query, a.MeetingID, a.EmployeeID, a.Attended); err != nil {
			return fmt.Errorf("failed to mark meeting attendance: %w", err)
		}
	}
	return nil
}

// ListAttendedMeetings implements commission.BonusRepository.
func (r *bonusRepository) ListAttendedMeetings(ctx context.Context, employeeID string, from, to time.Time) ([]commission.AttendedMeeting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.id, m.topic, m.meeting_date, m.bonus_amount
		FROM meeting_attendances ma
		JOIN meetings m ON m.id = ma.meeting_id
		WHERE ma.employee_id = $1 AND ma.attended = TRUE
		  AND m.meeting_date >= $2 AND m.meeting_date < $3
		ORDER BY m.meeting_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attended meetings: %w", err)
	}
	defer rows.Close()

	meetings := []commission.AttendedMeeting{}
	for rows.Next() {
		var m commission.AttendedMeeting
		if err := rows.Scan(&m.MeetingID, &m.Topic, &m.Date, &m.BonusAmount); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// CreateBonus implements commission.BonusRepository.
func (r *bonusRepository) CreateBonus(ctx context.Context, b commission.Bonus) (commission.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Bonus{}, fmt.Errorf("failed to generate bonus id: %w", err)
	}
	b.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO bonuses (id, employee_id, kind, bonus_date, description, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		b.ID, b.EmployeeID, b.Kind, b.Date, b.Description, b.Amount,
	).Scan(&b.CreatedAt)
	if err != nil {
		return commission.Bonus{}, fmt.Errorf("failed to create %s bonus: %w", b.Kind, err)
	}
	return b, nil
}

// ListBonuses implements commission.BonusRepository.
func (r *bonusRepository) ListBonuses(ctx context.Context, employeeID string, kind commission.BonusKind, from, to time.Time) ([]commission.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, bonus_date, description, amount, created_at
		FROM bonuses
		WHERE employee_id = $1 AND kind = $2 AND bonus_date >= $3 AND bonus_date < $4
		ORDER BY bonus_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, kind, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s bonuses: %w", kind, err)
	}
	defer rows.Close()

	bonuses := []commission.Bonus{}
	for rows.Next() {
		var b commission.Bonus
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.Kind, &b.Date, &b.Description, &b.Amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}

// CreateDeduction implements commission.BonusRepository.
func (r *bonusRepository) CreateDeduction(ctx context.Context, d commission.Deduction) (commission.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return commission.Deduction{}, fmt.Errorf("failed to generate deduction id: %w", err)
	}
	d.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO deductions (id, employee_id, period_year, period_month, reason, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		d.ID, d.EmployeeID, d.PeriodYear, d.PeriodMonth, d.Reason, d.Amount,
	).Scan(&d.CreatedAt)
	if err != nil {
		return commission.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	return d, nil
}

// ListDeductions implements commission.BonusRepository.
func (r *bonusRepository) ListDeductions(ctx context.Context, employeeID string, year, month int) ([]commission.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, period_year, period_month, reason, amount, created_at
		FROM deductions
		WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
		ORDER BY created_at ASC`,
		employeeID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	deductions := []commission.Deduction{}
	for rows.Next() {
		var d commission.Deduction
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.PeriodYear, &d.PeriodMonth, &d.Reason, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}
