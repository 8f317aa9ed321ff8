package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notifylog"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLogRepo mimics the database uniqueness constraint in memory.
type fakeLogRepo struct {
	rows map[notifylog.Key]notifylog.Entry
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{rows: make(map[notifylog.Key]notifylog.Entry)}
}

func keyOf(e notifylog.Entry) notifylog.Key {
	return notifylog.Key{TenantID: e.TenantID, EmployeeID: e.EmployeeID, Type: e.Type, BucketKey: e.BucketKey}
}

func (f *fakeLogRepo) GetByKey(_ context.Context, key notifylog.Key) (*notifylog.Entry, error) {
	if e, ok := f.rows[key]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeLogRepo) Insert(_ context.Context, entry notifylog.Entry) (bool, error) {
	k := keyOf(entry)
	if _, ok := f.rows[k]; ok {
		return false, nil
	}
	f.rows[k] = entry
	return true, nil
}

func (f *fakeLogRepo) RefreshSentAt(_ context.Context, key notifylog.Key, managerID string, lateMinutes *int, sentAt time.Time) error {
	e := f.rows[key]
	e.ManagerID = managerID
	e.LateMinutes = lateMinutes
	e.SentAt = sentAt
	f.rows[key] = e
	return nil
}

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func lateKey() notifylog.Key {
	return notifylog.Key{
		TenantID:   "t1",
		EmployeeID: "e1",
		Type:       anomaly.TypeLate,
		BucketKey:  notifylog.SessionBucket(baseTime, baseTime.Add(-time.Hour)),
	}
}

func entryFor(key notifylog.Key, sentAt time.Time) notifylog.Entry {
	return notifylog.Entry{
		TenantID:   key.TenantID,
		EmployeeID: key.EmployeeID,
		Type:       key.Type,
		BucketKey:  key.BucketKey,
		ManagerID:  "m1",
		SentAt:     sentAt,
	}
}

func TestShouldNotifyFirstTime(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeLogRepo())
	ok, err := svc.ShouldNotify(context.Background(), lateKey(), tenant.DefaultSettings("t1"), baseTime)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShouldNotifyInsideWindow(t *testing.T) {
	t.Parallel()

	repo := newFakeLogRepo()
	svc := NewService(repo)
	settings := tenant.DefaultSettings("t1")
	key := lateKey()

	won, err := svc.RecordSent(context.Background(), entryFor(key, baseTime), settings)
	require.NoError(t, err)
	assert.True(t, won)

	// One second later, same ongoing condition: still silenced.
	ok, err := svc.ShouldNotify(context.Background(), key, settings, baseTime.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, repo.rows, 1)
}

func TestShouldNotifyAfterWindowExpires(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeLogRepo())
	settings := tenant.DefaultSettings("t1")
	key := lateKey()

	_, err := svc.RecordSent(context.Background(), entryFor(key, baseTime), settings)
	require.NoError(t, err)

	// LATE frequency defaults to 60 minutes.
	ok, err := svc.ShouldNotify(context.Background(), key, settings, baseTime.Add(59*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ShouldNotify(context.Background(), key, settings, baseTime.Add(60*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordSentLosesRace(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeLogRepo())
	settings := tenant.DefaultSettings("t1")
	key := lateKey()

	won, err := svc.RecordSent(context.Background(), entryFor(key, baseTime), settings)
	require.NoError(t, err)
	assert.True(t, won)

	// Second writer for the identical key inside the window loses, without
	// error: exactly one dispatch.
	won, err = svc.RecordSent(context.Background(), entryFor(key, baseTime.Add(time.Second)), settings)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestRecordSentRefreshesExpiredWindow(t *testing.T) {
	t.Parallel()

	repo := newFakeLogRepo()
	svc := NewService(repo)
	settings := tenant.DefaultSettings("t1")
	key := lateKey()

	_, err := svc.RecordSent(context.Background(), entryFor(key, baseTime), settings)
	require.NoError(t, err)

	later := baseTime.Add(2 * time.Hour)
	won, err := svc.RecordSent(context.Background(), entryFor(key, later), settings)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, later, repo.rows[key].SentAt)
	assert.Len(t, repo.rows, 1)
}

func TestBucketKeysPerType(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	shiftStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-02|08:00", notifylog.SessionBucket(day, shiftStart))
	assert.Equal(t, "2026-03-02", notifylog.DateBucket(day))
	assert.Equal(t, "01HZX", notifylog.PunchBucket("01HZX"))
}

func TestFrequencyForCoversAllTypes(t *testing.T) {
	t.Parallel()

	settings := tenant.DefaultSettings("t1")
	for _, typ := range anomaly.TypeValues {
		freq := FrequencyFor(anomaly.Type(typ), settings)
		assert.Positive(t, freq, "type %s has no frequency policy", typ)
	}
}
