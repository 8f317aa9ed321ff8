package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/shiftly-hq/presence-backend-go/internal/domain/device"
)

type fakeDeviceRepo struct {
	devices map[string]domain.Device
}

func (f *fakeDeviceRepo) GetByID(_ context.Context, id string) (domain.Device, error) {
	d, ok := f.devices[id]
	if !ok {
		return domain.Device{}, domain.ErrDeviceNotFound
	}
	return d, nil
}

func newRepo(t *testing.T, devices ...domain.Device) *fakeDeviceRepo {
	t.Helper()
	repo := &fakeDeviceRepo{devices: make(map[string]domain.Device)}
	for _, d := range devices {
		repo.devices[d.ID] = d
	}
	return repo
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticateValidKey(t *testing.T) {
	t.Parallel()

	svc := NewService(newRepo(t, domain.Device{
		ID:         "dev-1",
		TenantID:   "t1",
		APIKeyHash: hashKey(t, "secret-key"),
		IsActive:   true,
	}))

	d, err := svc.Authenticate(context.Background(), "dev-1", "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "t1", d.TenantID)
}

func TestAuthenticateWrongKey(t *testing.T) {
	t.Parallel()

	svc := NewService(newRepo(t, domain.Device{
		ID:         "dev-1",
		TenantID:   "t1",
		APIKeyHash: hashKey(t, "secret-key"),
		IsActive:   true,
	}))

	_, err := svc.Authenticate(context.Background(), "dev-1", "wrong-key")
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)
}

func TestAuthenticateUnknownDeviceSameError(t *testing.T) {
	t.Parallel()

	svc := NewService(newRepo(t))

	// Unknown device must be indistinguishable from a wrong key
	_, err := svc.Authenticate(context.Background(), "nope", "secret-key")
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)
}

func TestAuthenticateInactiveDevice(t *testing.T) {
	t.Parallel()

	svc := NewService(newRepo(t, domain.Device{
		ID:         "dev-1",
		TenantID:   "t1",
		APIKeyHash: hashKey(t, "secret-key"),
		IsActive:   false,
	}))

	_, err := svc.Authenticate(context.Background(), "dev-1", "secret-key")
	assert.ErrorIs(t, err, domain.ErrDeviceInactive)
}
