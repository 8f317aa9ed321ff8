package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/leave"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notify"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notifylog"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/org"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shiftly-hq/presence-backend-go/internal/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testPlanned() *schedule.PlannedInterval {
	return &schedule.PlannedInterval{
		Start:        testDay.Add(8 * time.Hour),
		End:          testDay.Add(16 * time.Hour),
		BreakMinutes: 60,
	}
}

// world is the in-memory state all fakes share.
type world struct {
	punches  map[string]punch.Event
	leaves   []leave.Leave
	planned  *schedule.PlannedInterval
	snapshot []anomaly.Anomaly
	logRows  map[notifylog.Key]notifylog.Entry
	sent     []notify.Request
}

func newWorld() *world {
	return &world{
		punches: make(map[string]punch.Event),
		logRows: make(map[notifylog.Key]notifylog.Entry),
	}
}

func (w *world) addPunch(id string, kind punch.Kind, at time.Time) {
	w.punches[id] = punch.Event{
		ID: id, TenantID: "t1", EmployeeID: "e1",
		Timestamp: at, Kind: kind, Method: punch.MethodBadge,
	}
}

type fakePunchRepo struct {
	punch.EventRepository
	w *world
}

func (r *fakePunchRepo) ListByEmployeeAndDay(_ context.Context, _ string, _, _ time.Time, _ string) ([]punch.Event, error) {
	var out []punch.Event
	for _, e := range r.w.punches {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakePunchRepo) ListEmployeeIDsWithEventsSince(_ context.Context, _ string, _ time.Time) ([]string, error) {
	if len(r.w.punches) == 0 {
		return nil, nil
	}
	return []string{"e1"}, nil
}

func (r *fakePunchRepo) GetByID(_ context.Context, id string, _ string) (punch.Event, error) {
	e, ok := r.w.punches[id]
	if !ok {
		return punch.Event{}, punch.ErrPunchNotFound
	}
	return e, nil
}

func (r *fakePunchRepo) Update(_ context.Context, event punch.Event) error {
	r.w.punches[event.ID] = event
	return nil
}

type fakeAnomalyRepo struct {
	anomaly.Repository
	w *world
}

func (r *fakeAnomalyRepo) ReplaceDay(_ context.Context, _, _ string, _ time.Time, anomalies []anomaly.Anomaly) error {
	r.w.snapshot = anomalies
	return nil
}

type fakeScheduleRepo struct{ schedule.Repository }

func (fakeScheduleRepo) ListScheduledEmployeeIDs(_ context.Context, _ string, _ time.Time) ([]string, error) {
	return []string{"e1"}, nil
}

type fakeLeaveRepo struct{ w *world }

func (r *fakeLeaveRepo) ListApprovedByEmployeeAndDate(_ context.Context, _ string, _ time.Time, _ string) ([]leave.Leave, error) {
	return r.w.leaves, nil
}

type fakeTenantRepo struct{ tenant.Repository }

func (fakeTenantRepo) ListActive(_ context.Context) ([]tenant.Tenant, error) {
	return []tenant.Tenant{{ID: "t1", Timezone: "UTC", IsActive: true}}, nil
}

func (fakeTenantRepo) GetSettings(_ context.Context, tenantID string) (tenant.Settings, error) {
	return tenant.DefaultSettings(tenantID), nil
}

type fakeEmployeeRepo struct{ employee.Repository }

func (fakeEmployeeRepo) GetByID(_ context.Context, id, tenantID string) (employee.Employee, error) {
	return employee.Employee{
		ID: id, TenantID: tenantID,
		FirstName: "Ada", LastName: "Martin", Matricule: "A100", IsActive: true,
	}, nil
}

type fakeResolver struct{ w *world }

func (r *fakeResolver) Resolve(_ context.Context, _, _ string, _ time.Time) (*schedule.PlannedInterval, error) {
	return r.w.planned, nil
}

type fakeManagers struct{}

func (fakeManagers) ResolveLevel(_ context.Context, _, _ string) (org.ManagerLevel, error) {
	return org.NoLevel(), nil
}

func (fakeManagers) ManagedEmployeeIDs(_ context.Context, _ org.ManagerLevel, _ string) ([]string, error) {
	return nil, nil
}

func (fakeManagers) ManagersFor(_ context.Context, _, _ string) ([]employee.Employee, error) {
	email := "manager@example.com"
	return []employee.Employee{{ID: "m1", Email: &email, FirstName: "Max", LastName: "Durand", IsActive: true}}, nil
}

type fakeLogRepo struct{ w *world }

func (r *fakeLogRepo) GetByKey(_ context.Context, key notifylog.Key) (*notifylog.Entry, error) {
	if e, ok := r.w.logRows[key]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *fakeLogRepo) Insert(_ context.Context, entry notifylog.Entry) (bool, error) {
	k := notifylog.Key{TenantID: entry.TenantID, EmployeeID: entry.EmployeeID, Type: entry.Type, BucketKey: entry.BucketKey}
	if _, ok := r.w.logRows[k]; ok {
		return false, nil
	}
	r.w.logRows[k] = entry
	return true, nil
}

func (r *fakeLogRepo) RefreshSentAt(_ context.Context, key notifylog.Key, managerID string, lateMinutes *int, sentAt time.Time) error {
	e := r.w.logRows[key]
	e.ManagerID = managerID
	e.LateMinutes = lateMinutes
	e.SentAt = sentAt
	r.w.logRows[key] = e
	return nil
}

type fakeDispatcher struct{ w *world }

func (d *fakeDispatcher) Dispatch(_ context.Context, req notify.Request) error {
	d.w.sent = append(d.w.sent, req)
	return nil
}

func newTestService(w *world) *ServiceImpl {
	return &ServiceImpl{
		punchRepo:    &fakePunchRepo{w: w},
		anomalyRepo:  &fakeAnomalyRepo{w: w},
		scheduleRepo: fakeScheduleRepo{},
		leaveRepo:    &fakeLeaveRepo{w: w},
		tenantRepo:   fakeTenantRepo{},
		employeeRepo: fakeEmployeeRepo{},
		resolver:     &fakeResolver{w: w},
		managers:     fakeManagers{},
		ledger:       ledger.NewService(&fakeLogRepo{w: w}),
		dispatcher:   &fakeDispatcher{w: w},
		runInTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

func TestReconcileLateNotifiesOnce(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.planned = testPlanned()
	w.addPunch("p1", punch.KindIn, testDay.Add(8*time.Hour+25*time.Minute))
	svc := newTestService(w)

	now := testDay.Add(9 * time.Hour)
	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeLate, now))
	require.Len(t, w.sent, 1)
	assert.Equal(t, anomaly.TypeLate, w.sent[0].AnomalyType)
	assert.Equal(t, "manager@example.com", w.sent[0].ManagerEmail)
	assert.Equal(t, "15", w.sent[0].Payload["late_minutes"])

	// A second tick inside the frequency window stays silent, and only one
	// ledger row exists.
	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeLate, now.Add(time.Second)))
	assert.Len(t, w.sent, 1)
	assert.Len(t, w.logRows, 1)
}

func TestReconcileLateBelowThreshold(t *testing.T) {
	t.Parallel()

	// IN at 08:12: late by 2 past tolerance, total 12 from start, under the
	// 15 minute notify threshold. Anomaly recorded, nothing dispatched.
	w := newWorld()
	w.planned = testPlanned()
	w.addPunch("p1", punch.KindIn, testDay.Add(8*time.Hour+12*time.Minute))
	svc := newTestService(w)

	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeLate, testDay.Add(9*time.Hour)))
	assert.Empty(t, w.sent)

	found := false
	for _, a := range w.snapshot {
		if a.Type == anomaly.TypeLate {
			found = true
		}
	}
	assert.True(t, found, "LATE anomaly still recorded in the snapshot")
}

func TestReconcileLeaveSuppression(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.planned = testPlanned()
	w.leaves = []leave.Leave{{
		EmployeeID: "e1",
		StartDate:  testDay,
		EndDate:    testDay,
		Status:     leave.StatusApproved,
		LeaveType:  &leave.LeaveType{Code: "TELETRAVAIL"},
	}}
	svc := newTestService(w)

	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeAbsence, testDay.Add(12*time.Hour)))
	assert.Empty(t, w.sent)
	assert.Empty(t, w.snapshot)
}

func TestReconcileAbsence(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.planned = testPlanned()
	svc := newTestService(w)

	// Past start + tolerance + buffer.
	now := testDay.Add(10 * time.Hour)
	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeAbsence, now))
	require.Len(t, w.sent, 1)
	assert.Equal(t, anomaly.TypeAbsence, w.sent[0].AnomalyType)

	// The absence buckets on the calendar date.
	for key := range w.logRows {
		assert.Equal(t, "2026-03-02", key.BucketKey)
	}
}

func TestReconcileMissingOutWaitsForShiftEnd(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.planned = testPlanned()
	w.addPunch("p1", punch.KindIn, testDay.Add(8*time.Hour))
	svc := newTestService(w)

	// Midday: session open but the shift is not over, no alert. The open
	// session classifies as ABSENCE_PARTIAL by then anyway; force the
	// missing-out path with a just-opened session after end of shift.
	require.NoError(t, svc.ReconcileType(context.Background(), anomaly.TypeMissingOut, testDay.Add(12*time.Hour)))
	assert.Empty(t, w.sent)
}

func TestSnapshotDayWritesDerived(t *testing.T) {
	t.Parallel()

	w := newWorld()
	w.planned = testPlanned()
	w.addPunch("p1", punch.KindIn, testDay.Add(8*time.Hour))
	w.addPunch("p2", punch.KindOut, testDay.Add(17*time.Hour+30*time.Minute))
	svc := newTestService(w)

	snap, err := svc.SnapshotDay(context.Background(), "t1", "e1", testDay, testDay.Add(18*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, snap.Result.Derived)

	out := w.punches["p2"]
	require.NotNil(t, out.WorkedMinutes)
	assert.Equal(t, 570, *out.WorkedMinutes)
	require.NotNil(t, out.OvertimeMinutes)
	assert.Equal(t, 150, *out.OvertimeMinutes)
	require.NotNil(t, out.HoursWorked)
	assert.Equal(t, "9.5", out.HoursWorked.String())
}
