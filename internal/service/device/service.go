package device

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/shiftly-hq/presence-backend-go/internal/domain/device"
)

// Service authenticates webhook calls from punch capture devices.
type Service interface {
	// Authenticate verifies the presented API key against the device's
	// stored hash and returns the device on success
	Authenticate(ctx context.Context, deviceID, apiKey string) (domain.Device, error)
}

type ServiceImpl struct {
	repo domain.Repository
}

func NewService(repo domain.Repository) Service {
	return &ServiceImpl{repo: repo}
}

// Authenticate implements Service. An unknown device and a wrong key return
// the same error so callers cannot probe for registered device IDs.
func (s *ServiceImpl) Authenticate(ctx context.Context, deviceID, apiKey string) (domain.Device, error) {
	d, err := s.repo.GetByID(ctx, deviceID)
	if err != nil {
		return domain.Device{}, domain.ErrInvalidAPIKey
	}
	if !d.IsActive {
		return domain.Device{}, domain.ErrDeviceInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.APIKeyHash), []byte(apiKey)); err != nil {
		return domain.Device{}, domain.ErrInvalidAPIKey
	}
	return d, nil
}
