package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo employee.DepartmentRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo employee.DepartmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func parseClock(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.ParseClockTime(*s)
	if !ok {
		return nil
	}
	return &t
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

func toResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		MobileNumber:   e.MobileNumber,
		Salary:         e.Salary,
		JoiningDate:    e.JoiningDate.Format("2006-01-02"),
		WorkStartTime:  formatClock(e.WorkStartTime),
		WorkEndTime:    formatClock(e.WorkEndTime),
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		Locked:         e.Locked,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.departmentRepo.GetByID(ctx, *id)
	return err
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	mobile := validator.NormalizeMobileNumber(req.MobileNumber)
	exists, err := s.employeeRepo.ExistsByMobileNumber(ctx, mobile)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrMobileNumberExists
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	joining, _ := validator.IsValidDate(req.JoiningDate)

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:          strings.TrimSpace(req.Name),
		MobileNumber:  mobile,
		PasswordHash:  hash,
		Salary:        req.Salary,
		JoiningDate:   joining,
		WorkStartTime: parseClock(req.WorkStartTime),
		WorkEndTime:   parseClock(req.WorkEndTime),
		DepartmentID:  req.DepartmentID,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("created employee", "employee_id", created.ID)
	return s.GetByID(ctx, created.ID)
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(e), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	resp := employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, toResponse(e))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		req.PasswordHash = &hash
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if req.Locked != nil {
		slog.Info("employee lock changed", "employee_id", req.ID, "locked", *req.Locked)
	}
	return s.GetByID(ctx, req.ID)
}

func (s *EmployeeServiceImpl) CreateDepartment(ctx context.Context, req employee.CreateDepartmentRequest) (employee.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.DepartmentResponse{}, err
	}

	d, err := s.departmentRepo.Create(ctx, employee.Department{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return employee.DepartmentResponse{}, err
	}
	return employee.DepartmentResponse{ID: d.ID, Name: d.Name}, nil
}

func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, employee.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return resp, nil
}
