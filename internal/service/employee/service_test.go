package employee

import (
	"context"
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const deptID = "0190a000-0000-7000-8000-0000000000d1"

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	rows    map[string]employee.Employee
	updates []employee.UpdateEmployeeRequest
}

func (f *fakeEmployeeRepo) ExistsByMobileNumber(_ context.Context, mobile string) (bool, error) {
	for _, e := range f.rows {
		if e.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "0190a000-0000-7000-8000-000000000001"
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.rows[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, id string, req employee.UpdateEmployeeRequest) error {
	e, ok := f.rows[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	f.updates = append(f.updates, req)
	if req.Locked != nil {
		e.Locked = *req.Locked
	}
	if req.PasswordHash != nil {
		e.PasswordHash = *req.PasswordHash
	}
	f.rows[id] = e
	return nil
}

type fakeDepartmentRepo struct {
	employee.DepartmentRepository
}

func (fakeDepartmentRepo) GetByID(_ context.Context, id string) (employee.Department, error) {
	if id != deptID {
		return employee.Department{}, employee.ErrDepartmentNotFound
	}
	return employee.Department{ID: id, Name: "Xerox"}, nil
}

func validCreate() employee.CreateEmployeeRequest {
	start, end := "10:00", "18:30"
	dept := deptID
	return employee.CreateEmployeeRequest{
		Name:          " Priya ",
		MobileNumber:  "+91 98765-43210",
		Password:      "secret1",
		Salary:        decimal.NewFromInt(30000),
		JoiningDate:   "2024-01-15",
		WorkStartTime: &start,
		WorkEndTime:   &end,
		DepartmentID:  &dept,
	}
}

func TestCreateEmployee(t *testing.T) {
	repo := &fakeEmployeeRepo{rows: make(map[string]employee.Employee)}
	svc := NewEmployeeService(repo, fakeDepartmentRepo{})

	resp, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, "Priya", resp.Name)
	assert.Equal(t, "9876543210", resp.MobileNumber)
	require.NotNil(t, resp.WorkStartTime)
	assert.Equal(t, "10:00", *resp.WorkStartTime)
	assert.Equal(t, "18:30", *resp.WorkEndTime)

	stored := repo.rows[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = svc.Create(context.Background(), validCreate())
	assert.ErrorIs(t, err, employee.ErrMobileNumberExists)
}

func TestCreateEmployee_UnknownDepartment(t *testing.T) {
	repo := &fakeEmployeeRepo{rows: make(map[string]employee.Employee)}
	svc := NewEmployeeService(repo, fakeDepartmentRepo{})

	req := validCreate()
	other := "0190a000-0000-7000-8000-0000000000d2"
	req.DepartmentID = &other

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrDepartmentNotFound)
}

func TestCreateEmployee_HalfSchedule(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{rows: make(map[string]employee.Employee)}, fakeDepartmentRepo{})

	req := validCreate()
	req.WorkEndTime = nil

	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestUpdateEmployee_LockAndPassword(t *testing.T) {
	repo := &fakeEmployeeRepo{rows: make(map[string]employee.Employee)}
	svc := NewEmployeeService(repo, fakeDepartmentRepo{})

	created, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	locked := true
	password := "another-secret"
	resp, err := svc.Update(context.Background(), employee.UpdateEmployeeRequest{
		ID:       created.ID,
		Locked:   &locked,
		Password: &password,
	})
	require.NoError(t, err)
	assert.True(t, resp.Locked)

	require.Len(t, repo.updates, 1)
	require.NotNil(t, repo.updates[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.updates[0].PasswordHash), []byte(password)))
}

func TestGetEmployee_NotFound(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{rows: make(map[string]employee.Employee)}, fakeDepartmentRepo{})

	_, err := svc.GetByID(context.Background(), "0190a000-0000-7000-8000-0000000000ff")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
