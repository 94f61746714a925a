package commission

import (
	"context"
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorID = "0190a000-0000-7000-8000-000000000001"
	partnerID = "0190a000-0000-7000-8000-000000000002"
	stID      = "0190a000-0000-7000-8000-0000000000aa"
	wsID      = "0190a000-0000-7000-8000-0000000000bb"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployees struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeWorksheets struct {
	commission.WorksheetRepository
	rows map[string]commission.Worksheet
}

func (f *fakeWorksheets) Create(_ context.Context, w commission.Worksheet) (commission.Worksheet, error) {
	w.ID = wsID
	f.rows[w.ID] = w
	return w, nil
}

func (f *fakeWorksheets) GetByID(_ context.Context, id string) (commission.Worksheet, error) {
	w, ok := f.rows[id]
	if !ok {
		return commission.Worksheet{}, commission.ErrWorksheetNotFound
	}
	return w, nil
}

func (f *fakeWorksheets) UpdateIfUnapproved(_ context.Context, w commission.Worksheet) (commission.Worksheet, error) {
	if f.rows[w.ID].Approved {
		return commission.Worksheet{}, commission.ErrWorksheetApproved
	}
	f.rows[w.ID] = w
	return w, nil
}

type fakeServiceTypes struct {
	commission.ServiceTypeRepository
	st commission.ServiceType
}

func (f *fakeServiceTypes) GetByID(_ context.Context, id string) (commission.ServiceType, error) {
	if id != f.st.ID {
		return commission.ServiceType{}, commission.ErrServiceTypeNotFound
	}
	return f.st, nil
}

type fakeApplications struct {
	commission.ApplicationRepository
	assignments []commission.Assignment
}

func (f *fakeApplications) Create(_ context.Context, a commission.Application) (commission.Application, error) {
	a.ID = "app-1"
	a.CreatedAt = time.Now()
	return a, nil
}

func (f *fakeApplications) CreateAssignment(_ context.Context, a commission.Assignment) (commission.Assignment, error) {
	f.assignments = append(f.assignments, a)
	return a, nil
}

func newTestService() (*CommissionServiceImpl, *fakeWorksheets, *fakeApplications) {
	dept := "Xerox"
	employees := &fakeEmployees{byID: map[string]employee.Employee{
		creatorID: {ID: creatorID, Name: "Asha", DepartmentName: &dept},
		partnerID: {ID: partnerID, Name: "Vikram"},
	}}
	worksheets := &fakeWorksheets{rows: make(map[string]commission.Worksheet)}
	apps := &fakeApplications{}
	serviceTypes := &fakeServiceTypes{st: commission.ServiceType{
		ID:                stID,
		Name:              "Passport",
		RefereePercentage: decimal.NewFromInt(10),
		PartnerPercentage: decimal.NewFromInt(5),
	}}

	svc := NewCommissionService(passthroughTx{}, employees, worksheets, serviceTypes, apps, nil, time.UTC).(*CommissionServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC) }
	return svc, worksheets, apps
}

func TestSplitCommission(t *testing.T) {
	st := commission.ServiceType{
		RefereePercentage: decimal.RequireFromString("12.5"),
		PartnerPercentage: decimal.RequireFromString("7.5"),
	}
	total := decimal.RequireFromString("333.33")

	creator, partner := commission.SplitCommission(total, st, commission.AssignKindOwn)
	assert.True(t, creator.Equal(decimal.RequireFromString("66.67")), "got %s", creator)
	assert.True(t, partner.IsZero())

	creator, partner = commission.SplitCommission(total, st, commission.AssignKindSharing)
	assert.True(t, creator.Equal(decimal.RequireFromString("41.67")), "got %s", creator)
	assert.True(t, partner.Equal(decimal.RequireFromString("25.00")), "got %s", partner)
}

func TestCreateApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("sharing splits between creator and partner", func(t *testing.T) {
		svc, _, apps := newTestService()
		partner := partnerID

		resp, err := svc.CreateApplication(ctx, creatorID, commission.CreateApplicationRequest{
			ServiceTypeID:     stID,
			CustomerName:      "Kiran",
			TotalCommission:   decimal.NewFromInt(1000),
			Kind:              commission.AssignKindSharing,
			PartnerEmployeeID: &partner,
		})
		require.NoError(t, err)

		require.Len(t, apps.assignments, 2)
		assert.Equal(t, creatorID, apps.assignments[0].EmployeeID)
		assert.True(t, apps.assignments[0].CommissionAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, partnerID, apps.assignments[1].EmployeeID)
		assert.True(t, apps.assignments[1].CommissionAmount.Equal(decimal.NewFromInt(50)))
		assert.Len(t, resp.Assignments, 2)
		require.NotNil(t, resp.ServiceTypeName)
		assert.Equal(t, "Passport", *resp.ServiceTypeName)
	})

	t.Run("own pays both percentages to the creator", func(t *testing.T) {
		svc, _, apps := newTestService()

		_, err := svc.CreateApplication(ctx, creatorID, commission.CreateApplicationRequest{
			ServiceTypeID:   stID,
			CustomerName:    "Kiran",
			TotalCommission: decimal.NewFromInt(1000),
			Kind:            commission.AssignKindOwn,
		})
		require.NoError(t, err)

		require.Len(t, apps.assignments, 1)
		assert.True(t, apps.assignments[0].CommissionAmount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("partner cannot be the creator", func(t *testing.T) {
		svc, _, _ := newTestService()
		self := creatorID

		_, err := svc.CreateApplication(ctx, creatorID, commission.CreateApplicationRequest{
			ServiceTypeID:     stID,
			CustomerName:      "Kiran",
			TotalCommission:   decimal.NewFromInt(1000),
			Kind:              commission.AssignKindSharing,
			PartnerEmployeeID: &self,
		})
		assert.ErrorIs(t, err, commission.ErrPartnerIsSelf)
	})

	t.Run("unknown partner", func(t *testing.T) {
		svc, _, _ := newTestService()
		ghost := "0190a000-0000-7000-8000-0000000000ff"

		_, err := svc.CreateApplication(ctx, creatorID, commission.CreateApplicationRequest{
			ServiceTypeID:     stID,
			CustomerName:      "Kiran",
			TotalCommission:   decimal.NewFromInt(1000),
			Kind:              commission.AssignKindSharing,
			PartnerEmployeeID: &ghost,
		})
		assert.ErrorIs(t, err, commission.ErrPartnerNotFound)
	})
}

func TestCreateWorksheet_StampsDepartmentAndDate(t *testing.T) {
	svc, worksheets, _ := newTestService()

	resp, err := svc.CreateWorksheet(context.Background(), creatorID, commission.CreateWorksheetRequest{
		Amount: decimal.NewFromInt(650),
	})
	require.NoError(t, err)

	assert.Equal(t, "Xerox", resp.DepartmentName)
	assert.Equal(t, "2024-06-12", resp.Date)
	assert.Equal(t, "Xerox", worksheets.rows[wsID].DepartmentName)
}

func TestUpdateWorksheet(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits unapproved entry", func(t *testing.T) {
		svc, worksheets, _ := newTestService()
		worksheets.rows[wsID] = commission.Worksheet{ID: wsID, EmployeeID: creatorID, DepartmentName: "Xerox", Amount: decimal.NewFromInt(100)}

		req := commission.UpdateWorksheetRequest{ID: wsID}
		req.Amount = decimal.NewFromInt(900)
		resp, err := svc.UpdateWorksheet(ctx, creatorID, req)
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(900)))
		assert.Equal(t, "Xerox", resp.DepartmentName)
	})

	t.Run("approved entry is locked", func(t *testing.T) {
		svc, worksheets, _ := newTestService()
		worksheets.rows[wsID] = commission.Worksheet{ID: wsID, EmployeeID: creatorID, Approved: true}

		_, err := svc.UpdateWorksheet(ctx, creatorID, commission.UpdateWorksheetRequest{ID: wsID})
		assert.ErrorIs(t, err, commission.ErrWorksheetApproved)
	})

	t.Run("someone else's entry", func(t *testing.T) {
		svc, worksheets, _ := newTestService()
		worksheets.rows[wsID] = commission.Worksheet{ID: wsID, EmployeeID: partnerID}

		_, err := svc.UpdateWorksheet(ctx, creatorID, commission.UpdateWorksheetRequest{ID: wsID})
		assert.ErrorIs(t, err, commission.ErrWorksheetNotOwned)
	})
}
