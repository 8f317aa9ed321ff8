package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notifylog"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type notifyLogRepository struct {
	db *database.DB
}

func NewNotifyLogRepository(db *database.DB) notifylog.Repository {
	return &notifyLogRepository{db: db}
}

// GetByKey implements notifylog.Repository.
func (r *notifyLogRepository) GetByKey(ctx context.Context, key notifylog.Key) (*notifylog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, anomaly_type, bucket_key,
			   manager_id, late_minutes, sent_at
		FROM notification_logs
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND anomaly_type = $3
		  AND bucket_key = $4
	`

	var e notifylog.Entry
	err := q.QueryRow(ctx, query, key.TenantID, key.EmployeeID, key.Type, key.BucketKey).Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.Type, &e.BucketKey,
		&e.ManagerID, &e.LateMinutes, &e.SentAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification log: %w", err)
	}

	return &e, nil
}

// Insert implements notifylog.Repository. The unique constraint over
// (tenant_id, employee_id, anomaly_type, bucket_key) arbitrates concurrent
// ticks: rows-affected zero means another writer already recorded this
// bucket.
func (r *notifyLogRepository) Insert(ctx context.Context, entry notifylog.Entry) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_logs (
			id, tenant_id, employee_id, anomaly_type, bucket_key,
			manager_id, late_minutes, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, employee_id, anomaly_type, bucket_key) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		entry.ID, entry.TenantID, entry.EmployeeID, entry.Type, entry.BucketKey,
		entry.ManagerID, entry.LateMinutes, entry.SentAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification log: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RefreshSentAt implements notifylog.Repository.
func (r *notifyLogRepository) RefreshSentAt(ctx context.Context, key notifylog.Key, managerID string, lateMinutes *int, sentAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_logs
		SET manager_id = $1,
			late_minutes = $2,
			sent_at = $3
		WHERE tenant_id = $4
		  AND employee_id = $5
		  AND anomaly_type = $6
		  AND bucket_key = $7
	`

	_, err := q.Exec(ctx, query, managerID, lateMinutes, sentAt,
		key.TenantID, key.EmployeeID, key.Type, key.BucketKey)
	if err != nil {
		return fmt.Errorf("failed to refresh notification log: %w", err)
	}

	return nil
}
