package managerres

import (
	"context"
	"testing"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/org"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrgRepo struct {
	departmentsByManager []org.Department
	siteScopesByManager  []org.SiteManager
	legacySitesByManager []org.Site
	teamsByManager       []org.Team

	departments  map[string]org.Department
	sites        map[string]org.Site
	teams        map[string]org.Team
	siteManagers map[string][]org.SiteManager
}

func (f *fakeOrgRepo) ListDepartmentsByManager(_ context.Context, _, _ string) ([]org.Department, error) {
	return f.departmentsByManager, nil
}

func (f *fakeOrgRepo) ListSiteScopesByManager(_ context.Context, _, _ string) ([]org.SiteManager, error) {
	return f.siteScopesByManager, nil
}

func (f *fakeOrgRepo) ListSitesByLegacyManager(_ context.Context, _, _ string) ([]org.Site, error) {
	return f.legacySitesByManager, nil
}

func (f *fakeOrgRepo) ListTeamsByManager(_ context.Context, _, _ string) ([]org.Team, error) {
	return f.teamsByManager, nil
}

func (f *fakeOrgRepo) GetDepartmentByID(_ context.Context, id, _ string) (org.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return org.Department{}, org.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeOrgRepo) GetSiteByID(_ context.Context, id, _ string) (org.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return org.Site{}, org.ErrSiteNotFound
	}
	return s, nil
}

func (f *fakeOrgRepo) GetTeamByID(_ context.Context, id, _ string) (org.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return org.Team{}, org.ErrTeamNotFound
	}
	return t, nil
}

func (f *fakeOrgRepo) ListSiteManagersBySite(_ context.Context, siteID, _ string) ([]org.SiteManager, error) {
	return f.siteManagers[siteID], nil
}

type fakeEmployeeRepo struct {
	byID          map[string]employee.Employee
	byUserID      map[string]employee.Employee
	idsByDept     map[string][]string
	idsBySite     map[string][]string
	idsBySiteDept map[string]map[string][]string
	idsByTeam     map[string][]string
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID, _ string) (employee.Employee, error) {
	e, ok := f.byUserID[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListActiveByIDs(_ context.Context, ids []string, _ string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, ok := f.byID[id]; ok && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListIDsByDepartments(_ context.Context, departmentIDs []string, _ string) ([]string, error) {
	var out []string
	for _, id := range departmentIDs {
		out = append(out, f.idsByDept[id]...)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListIDsBySite(_ context.Context, siteID string, departmentID *string, _ string) ([]string, error) {
	if departmentID != nil {
		return f.idsBySiteDept[siteID][*departmentID], nil
	}
	return f.idsBySite[siteID], nil
}

func (f *fakeEmployeeRepo) ListIDsByTeams(_ context.Context, teamIDs []string, _ string) ([]string, error) {
	var out []string
	for _, id := range teamIDs {
		out = append(out, f.idsByTeam[id]...)
	}
	return out, nil
}

func manager(id string) employee.Employee {
	return employee.Employee{ID: id, TenantID: "t1", IsActive: true, FirstName: "M", LastName: id}
}

func TestResolveLevelDepartmentBeatsSite(t *testing.T) {
	t.Parallel()

	orgRepo := &fakeOrgRepo{
		departmentsByManager: []org.Department{{ID: "d1"}},
		siteScopesByManager:  []org.SiteManager{{SiteID: "s1", ManagerID: "m1"}},
	}
	empRepo := &fakeEmployeeRepo{
		byUserID: map[string]employee.Employee{"u1": {ID: "m1", IsActive: true}},
	}
	svc := NewService(orgRepo, empRepo)

	level, err := svc.ResolveLevel(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelDepartment, level.Kind)
	assert.Equal(t, "d1", level.DepartmentID)
	assert.Empty(t, level.SiteIDs)
}

func TestResolveLevelSiteJoinTable(t *testing.T) {
	t.Parallel()

	d1 := "d1"
	orgRepo := &fakeOrgRepo{
		siteScopesByManager: []org.SiteManager{
			{SiteID: "s1", ManagerID: "m1", DepartmentID: &d1},
			{SiteID: "s2", ManagerID: "m1"},
		},
	}
	empRepo := &fakeEmployeeRepo{
		byUserID: map[string]employee.Employee{"u1": {ID: "m1", IsActive: true}},
	}
	svc := NewService(orgRepo, empRepo)

	level, err := svc.ResolveLevel(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelSite, level.Kind)
	assert.Equal(t, []string{"s1", "s2"}, level.SiteIDs)
	require.NotNil(t, level.SiteDepartmentID)
	assert.Equal(t, "d1", *level.SiteDepartmentID)
}

func TestResolveLevelLegacySiteFallback(t *testing.T) {
	t.Parallel()

	d1 := "d1"
	orgRepo := &fakeOrgRepo{
		legacySitesByManager: []org.Site{{ID: "s1", DepartmentID: &d1}},
	}
	empRepo := &fakeEmployeeRepo{
		byUserID: map[string]employee.Employee{"u1": {ID: "m1", IsActive: true}},
	}
	svc := NewService(orgRepo, empRepo)

	level, err := svc.ResolveLevel(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelSite, level.Kind)
	assert.Equal(t, []string{"s1"}, level.SiteIDs)
}

func TestResolveLevelTeamThenNone(t *testing.T) {
	t.Parallel()

	empRepo := &fakeEmployeeRepo{
		byUserID: map[string]employee.Employee{"u1": {ID: "m1", IsActive: true}},
	}

	svc := NewService(&fakeOrgRepo{teamsByManager: []org.Team{{ID: "tm1"}}}, empRepo)
	level, err := svc.ResolveLevel(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelTeam, level.Kind)
	assert.Equal(t, "tm1", level.TeamID)

	svc = NewService(&fakeOrgRepo{}, empRepo)
	level, err = svc.ResolveLevel(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelNone, level.Kind)
}

func TestResolveLevelUnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeOrgRepo{}, &fakeEmployeeRepo{})
	level, err := svc.ResolveLevel(context.Background(), "ghost", "t1")
	require.NoError(t, err)
	assert.Equal(t, org.LevelNone, level.Kind)
}

func TestManagedEmployeeIDsLegacySiteWithDepartment(t *testing.T) {
	t.Parallel()

	// Legacy-managed site whose own record names department d1: scope is
	// the site's employees restricted to d1.
	d1 := "d1"
	orgRepo := &fakeOrgRepo{
		sites: map[string]org.Site{"s1": {ID: "s1", DepartmentID: &d1}},
	}
	empRepo := &fakeEmployeeRepo{
		idsBySiteDept: map[string]map[string][]string{
			"s1": {"d1": {"e1", "e2"}},
		},
		idsBySite: map[string][]string{"s1": {"e1", "e2", "e3"}},
	}
	svc := NewService(orgRepo, empRepo)

	ids, err := svc.ManagedEmployeeIDs(context.Background(), org.ManagerLevel{
		Kind:    org.LevelSite,
		SiteIDs: []string{"s1"},
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)
}

func TestManagedEmployeeIDsSiteWithoutDerivableDepartment(t *testing.T) {
	t.Parallel()

	orgRepo := &fakeOrgRepo{
		sites: map[string]org.Site{"s1": {ID: "s1"}},
	}
	svc := NewService(orgRepo, &fakeEmployeeRepo{})

	ids, err := svc.ManagedEmployeeIDs(context.Background(), org.ManagerLevel{
		Kind:    org.LevelSite,
		SiteIDs: []string{"s1"},
	}, "t1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManagedEmployeeIDsDepartmentAndNone(t *testing.T) {
	t.Parallel()

	empRepo := &fakeEmployeeRepo{
		idsByDept: map[string][]string{"d1": {"e1", "e2"}},
	}
	svc := NewService(&fakeOrgRepo{}, empRepo)

	ids, err := svc.ManagedEmployeeIDs(context.Background(), org.ManagerLevel{
		Kind:         org.LevelDepartment,
		DepartmentID: "d1",
	}, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)

	ids, err = svc.ManagedEmployeeIDs(context.Background(), org.NoLevel(), "t1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManagersForDepartmentFirst(t *testing.T) {
	t.Parallel()

	mDept := "m-dept"
	mSite := "m-site"
	d1, s1 := "d1", "s1"
	orgRepo := &fakeOrgRepo{
		departments:  map[string]org.Department{"d1": {ID: "d1", ManagerID: &mDept}},
		siteManagers: map[string][]org.SiteManager{"s1": {{SiteID: "s1", ManagerID: mSite}}},
	}
	empRepo := &fakeEmployeeRepo{
		byID: map[string]employee.Employee{
			"e1":     {ID: "e1", DepartmentID: &d1, SiteID: &s1, IsActive: true},
			"m-dept": manager("m-dept"),
			"m-site": manager("m-site"),
		},
	}
	svc := NewService(orgRepo, empRepo)

	managers, err := svc.ManagersFor(context.Background(), "e1", "t1")
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "m-dept", managers[0].ID)
}

func TestManagersForSiteJoinThenLegacy(t *testing.T) {
	t.Parallel()

	mLegacy := "m-legacy"
	s1 := "s1"
	orgRepo := &fakeOrgRepo{
		sites: map[string]org.Site{"s1": {ID: "s1", ManagerID: &mLegacy}},
	}
	empRepo := &fakeEmployeeRepo{
		byID: map[string]employee.Employee{
			"e1":       {ID: "e1", SiteID: &s1, IsActive: true},
			"m-legacy": manager("m-legacy"),
		},
	}
	svc := NewService(orgRepo, empRepo)

	// No join rows: the legacy column answers.
	managers, err := svc.ManagersFor(context.Background(), "e1", "t1")
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "m-legacy", managers[0].ID)
}

func TestManagersForNoManager(t *testing.T) {
	t.Parallel()

	empRepo := &fakeEmployeeRepo{
		byID: map[string]employee.Employee{"e1": {ID: "e1", IsActive: true}},
	}
	svc := NewService(&fakeOrgRepo{}, empRepo)

	managers, err := svc.ManagersFor(context.Background(), "e1", "t1")
	require.NoError(t, err)
	assert.Empty(t, managers)
}
