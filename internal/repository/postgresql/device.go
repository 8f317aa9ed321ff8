package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/device"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type deviceRepository struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.Repository {
	return &deviceRepository{db: db}
}

// GetByID implements device.Repository.
func (r *deviceRepository) GetByID(ctx context.Context, id string) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, api_key_hash, is_active, created_at, updated_at
		FROM devices
		WHERE id = $1
	`

	var d device.Device
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.TenantID, &d.Name, &d.APIKeyHash, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device: %w", err)
	}

	return d, nil
}
