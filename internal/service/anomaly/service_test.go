package anomaly

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/org"
)

type fakeAnomalyRepo struct {
	domain.Repository
	rows []domain.Anomaly
}

func (f *fakeAnomalyRepo) List(_ context.Context, filter domain.Filter, tenantID string) ([]domain.Anomaly, int64, error) {
	var out []domain.Anomaly
	for _, a := range f.rows {
		if a.TenantID != tenantID {
			continue
		}
		if len(filter.EmployeeIDs) > 0 && !contains(filter.EmployeeIDs, a.EmployeeID) {
			continue
		}
		if filter.Type != nil && string(a.Type) != *filter.Type {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeManagers struct {
	level org.ManagerLevel
	scope []string
}

func (f *fakeManagers) ResolveLevel(context.Context, string, string) (org.ManagerLevel, error) {
	return f.level, nil
}

func (f *fakeManagers) ManagedEmployeeIDs(context.Context, org.ManagerLevel, string) ([]string, error) {
	return f.scope, nil
}

func (f *fakeManagers) ManagersFor(context.Context, string, string) ([]employee.Employee, error) {
	return nil, nil
}

func authedContext(t *testing.T, role string) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ta.Encode(map[string]interface{}{
		"tenant_id": "t1",
		"user_id":   "u1",
		"role":      role,
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func seededRepo() *fakeAnomalyRepo {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &fakeAnomalyRepo{rows: []domain.Anomaly{
		{ID: "a1", TenantID: "t1", EmployeeID: "e1", Type: domain.TypeLate, Date: date},
		{ID: "a2", TenantID: "t1", EmployeeID: "e2", Type: domain.TypeAbsence, Date: date},
		{ID: "a3", TenantID: "t2", EmployeeID: "e9", Type: domain.TypeLate, Date: date},
	}}
}

func TestListScopedToManagedEmployees(t *testing.T) {
	t.Parallel()

	managers := &fakeManagers{
		level: org.ManagerLevel{Kind: org.LevelDepartment, DepartmentID: "d1"},
		scope: []string{"e1"},
	}
	svc := NewService(seededRepo(), managers)

	result, err := svc.ListAnomalies(authedContext(t, "manager"), domain.Filter{})
	require.NoError(t, err)
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "a1", result.Anomalies[0].ID)
	assert.Equal(t, int64(1), result.Total)
}

func TestListEmptyScopeIsEmptyListing(t *testing.T) {
	t.Parallel()

	managers := &fakeManagers{level: org.NoLevel()}
	svc := NewService(seededRepo(), managers)

	result, err := svc.ListAnomalies(authedContext(t, "manager"), domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, result.Anomalies)
	assert.Equal(t, int64(0), result.Total)
}

func TestListAdminSeesWholeTenant(t *testing.T) {
	t.Parallel()

	// A non-matching scope must not apply to admins
	managers := &fakeManagers{level: org.NoLevel()}
	svc := NewService(seededRepo(), managers)

	result, err := svc.ListAnomalies(authedContext(t, "admin"), domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, result.Anomalies, 2)
}

func TestListRejectsUnknownType(t *testing.T) {
	t.Parallel()

	svc := NewService(seededRepo(), &fakeManagers{})

	typ := "NOT_A_TYPE"
	_, err := svc.ListAnomalies(authedContext(t, "admin"), domain.Filter{Type: &typ})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestListMissingClaims(t *testing.T) {
	t.Parallel()

	svc := NewService(seededRepo(), &fakeManagers{})

	_, err := svc.ListAnomalies(context.Background(), domain.Filter{})
	assert.Error(t, err)
}
