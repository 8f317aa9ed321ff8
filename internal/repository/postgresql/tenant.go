package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type tenantRepository struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.Repository {
	return &tenantRepository{db: db}
}

// GetByID implements tenant.Repository.
func (r *tenantRepository) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`

	var t tenant.Tenant
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Timezone, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tenant.Tenant{}, tenant.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	return t, nil
}

// ListActive implements tenant.Repository.
func (r *tenantRepository) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, is_active, created_at, updated_at
		FROM tenants
		WHERE is_active = true
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Timezone, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	return tenants, nil
}

// GetSettings implements tenant.Repository. A tenant without a settings row
// gets the documented defaults; classification never fails for lack of
// configuration.
func (r *tenantRepository) GetSettings(ctx context.Context, tenantID string) (tenant.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			tenant_id,
			late_tolerance_minutes, late_notify_threshold_minutes, late_notify_frequency_minutes,
			absence_buffer_minutes, absence_notify_frequency_minutes,
			partial_absence_threshold_minutes, partial_absence_notify_frequency_minutes,
			missing_out_detection_window_minutes,
			missing_in_notify_frequency_minutes, missing_out_notify_frequency_minutes,
			technical_notify_frequency_minutes,
			technical_on_orphan_break_end, technical_on_faulty_capture,
			updated_at
		FROM tenant_settings
		WHERE tenant_id = $1
	`

	var s tenant.Settings
	err := q.QueryRow(ctx, query, tenantID).Scan(
		&s.TenantID,
		&s.LateToleranceMinutes, &s.LateNotifyThresholdMinutes, &s.LateNotifyFrequencyMinutes,
		&s.AbsenceBufferMinutes, &s.AbsenceNotifyFrequencyMinutes,
		&s.PartialAbsenceThresholdMinutes, &s.PartialAbsenceNotifyFrequencyMinutes,
		&s.MissingOutDetectionWindowMinutes,
		&s.MissingInNotifyFrequencyMinutes, &s.MissingOutNotifyFrequencyMinutes,
		&s.TechnicalNotifyFrequencyMinutes,
		&s.TechnicalOnOrphanBreakEnd, &s.TechnicalOnFaultyCapture,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tenant.DefaultSettings(tenantID), nil
		}
		return tenant.Settings{}, fmt.Errorf("failed to get tenant settings: %w", err)
	}

	return s, nil
}
