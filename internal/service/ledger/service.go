// Package ledger gates notification dispatch: one alert per ongoing
// condition per frequency window, durable across scheduler ticks and safe
// under concurrent ticks. The race between two writers for the same bucket
// resolves at the database uniqueness constraint, never in process memory.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notifylog"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
)

type Service interface {
	// ShouldNotify reports whether no alert for the key exists inside its
	// current frequency window. Settings are the tick's read-only snapshot.
	ShouldNotify(ctx context.Context, key notifylog.Key, settings tenant.Settings, now time.Time) (bool, error)

	// RecordSent writes the sent record. Returns true when this caller won
	// the write; false means a concurrent writer already recorded the same
	// bucket inside the window, and the caller must not dispatch.
	RecordSent(ctx context.Context, entry notifylog.Entry, settings tenant.Settings) (bool, error)
}

type ServiceImpl struct {
	notifylog.Repository
}

func NewService(repo notifylog.Repository) Service {
	return &ServiceImpl{Repository: repo}
}

// FrequencyFor maps an anomaly type to its tenant-configured re-notification
// cadence.
func FrequencyFor(t anomaly.Type, s tenant.Settings) time.Duration {
	minutes := 0
	switch t {
	case anomaly.TypeLate:
		minutes = s.LateNotifyFrequencyMinutes
	case anomaly.TypeAbsence:
		minutes = s.AbsenceNotifyFrequencyMinutes
	case anomaly.TypeAbsencePartial:
		minutes = s.PartialAbsenceNotifyFrequencyMinutes
	case anomaly.TypeMissingIn, anomaly.TypeDoubleIn:
		minutes = s.MissingInNotifyFrequencyMinutes
	case anomaly.TypeMissingOut, anomaly.TypeDoubleOut:
		minutes = s.MissingOutNotifyFrequencyMinutes
	case anomaly.TypeAbsenceTechnical:
		minutes = s.TechnicalNotifyFrequencyMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// ShouldNotify implements Service.
func (s *ServiceImpl) ShouldNotify(ctx context.Context, key notifylog.Key, settings tenant.Settings, now time.Time) (bool, error) {
	existing, err := s.GetByKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read notification log: %w", err)
	}
	if existing == nil {
		return true, nil
	}
	return now.Sub(existing.SentAt) >= FrequencyFor(key.Type, settings), nil
}

// RecordSent implements Service. The insert carries ON CONFLICT DO NOTHING
// semantics; losing it means another tick already sent for this bucket. A
// conflict against an entry whose window has expired is not a loss: the
// record's sent_at is refreshed and this caller still dispatches.
func (s *ServiceImpl) RecordSent(ctx context.Context, entry notifylog.Entry, settings tenant.Settings) (bool, error) {
	won, err := s.Insert(ctx, entry)
	if err != nil {
		return false, fmt.Errorf("failed to record notification: %w", err)
	}
	if won {
		return true, nil
	}

	key := notifylog.Key{
		TenantID:   entry.TenantID,
		EmployeeID: entry.EmployeeID,
		Type:       entry.Type,
		BucketKey:  entry.BucketKey,
	}
	existing, err := s.GetByKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read conflicting notification log: %w", err)
	}
	if existing == nil {
		// Row vanished between insert and read; treat as already handled.
		return false, nil
	}
	if entry.SentAt.Sub(existing.SentAt) < FrequencyFor(entry.Type, settings) {
		return false, nil
	}

	if err := s.RefreshSentAt(ctx, key, entry.ManagerID, entry.LateMinutes, entry.SentAt); err != nil {
		return false, fmt.Errorf("failed to refresh notification log: %w", err)
	}
	return true, nil
}
