package scheduleres

import (
	"context"
	"testing"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleRepo struct {
	schedule.Repository
	row *schedule.Schedule
}

func (f *fakeScheduleRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time, _ string) (*schedule.Schedule, error) {
	return f.row, nil
}

type fakeTenantRepo struct {
	tenant.Repository
	tz string
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id string) (tenant.Tenant, error) {
	return tenant.Tenant{ID: id, Timezone: f.tz, IsActive: true}, nil
}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func dayShift() *schedule.Shift {
	return &schedule.Shift{
		ID:           "s1",
		StartTime:    "08:00",
		EndTime:      "16:00",
		BreakMinutes: 60,
	}
}

func resolver(row *schedule.Schedule, tz string) Resolver {
	return NewResolver(&fakeScheduleRepo{row: row}, &fakeTenantRepo{tz: tz})
}

func TestResolveShiftTimes(t *testing.T) {
	t.Parallel()

	r := resolver(&schedule.Schedule{
		Status: schedule.StatusPublished,
		Shift:  dayShift(),
	}, "UTC")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	require.NotNil(t, planned)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), planned.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), planned.End)
	assert.Equal(t, 420, planned.ScheduledMinutes())
}

func TestResolveCustomOverride(t *testing.T) {
	t.Parallel()

	custom := "09:30"
	r := resolver(&schedule.Schedule{
		Status:          schedule.StatusPublished,
		Shift:           dayShift(),
		CustomStartTime: &custom,
	}, "UTC")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	require.NotNil(t, planned)
	assert.Equal(t, 9, planned.Start.Hour())
	assert.Equal(t, 30, planned.Start.Minute())
	// Break still comes from the shift template.
	assert.Equal(t, 60, planned.BreakMinutes)
}

func TestResolveNoSchedule(t *testing.T) {
	t.Parallel()

	r := resolver(nil, "UTC")
	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	assert.Nil(t, planned)
}

func TestResolveSuspendedByLeave(t *testing.T) {
	t.Parallel()

	leaveID := "l1"
	r := resolver(&schedule.Schedule{
		Status:             schedule.StatusSuspendedByLeave,
		SuspendedByLeaveID: &leaveID,
		Shift:              dayShift(),
	}, "UTC")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	assert.Nil(t, planned)
}

func TestResolveDraftNotExpected(t *testing.T) {
	t.Parallel()

	r := resolver(&schedule.Schedule{
		Status: schedule.StatusDraft,
		Shift:  dayShift(),
	}, "UTC")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	assert.Nil(t, planned)
}

func TestResolveNightShiftRollsOver(t *testing.T) {
	t.Parallel()

	r := resolver(&schedule.Schedule{
		Status: schedule.StatusPublished,
		Shift: &schedule.Shift{
			StartTime:    "22:00",
			EndTime:      "06:00",
			BreakMinutes: 30,
			IsNightShift: true,
		},
	}, "UTC")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	require.NotNil(t, planned)
	assert.Equal(t, 3, planned.End.Day())
	assert.True(t, planned.End.After(planned.Start))
	assert.Equal(t, 450, planned.ScheduledMinutes())
}

func TestResolveTenantTimezone(t *testing.T) {
	t.Parallel()

	r := resolver(&schedule.Schedule{
		Status: schedule.StatusPublished,
		Shift:  dayShift(),
	}, "Europe/Paris")

	planned, err := r.Resolve(context.Background(), "t1", "e1", day)
	require.NoError(t, err)
	require.NotNil(t, planned)
	// 08:00 Paris in March (CET) is 07:00 UTC.
	assert.Equal(t, 7, planned.Start.UTC().Hour())
}
