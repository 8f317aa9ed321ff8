package notifylog

import (
	"context"
	"time"
)

// Repository persists sent-notification records. Insert carries the race
// semantics: concurrent writers for the same key resolve at the database,
// not in application locks.
type Repository interface {
	// GetByKey retrieves the current record for a bucket. Returns nil when
	// none exists.
	GetByKey(ctx context.Context, key Key) (*Entry, error)

	// Insert writes the entry with ON CONFLICT DO NOTHING on the bucket
	// uniqueness constraint. Returns true when this writer won the insert,
	// false when a concurrent writer already had.
	Insert(ctx context.Context, entry Entry) (bool, error)

	// RefreshSentAt moves an existing record's sent_at forward, opening a
	// new frequency window for an expired bucket
	RefreshSentAt(ctx context.Context, key Key, managerID string, lateMinutes *int, sentAt time.Time) error
}
