package notifylog

import (
	"fmt"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
)

// Key identifies one notification bucket. Uniqueness over the four fields is
// enforced by the database; the bucket key ties the row to the thing being
// notified about so that distinct occurrences never share a window.
type Key struct {
	TenantID   string
	EmployeeID string
	Type       anomaly.Type
	BucketKey  string
}

// Entry is one sent-notification record.
type Entry struct {
	ID          string
	TenantID    string
	EmployeeID  string
	Type        anomaly.Type
	BucketKey   string
	ManagerID   string
	LateMinutes *int
	SentAt      time.Time
}

// SessionBucket keys session-scoped types (LATE, ABSENCE_PARTIAL): one
// window per employee per shift session.
func SessionBucket(date time.Time, shiftStart time.Time) string {
	return fmt.Sprintf("%s|%s", date.Format("2006-01-02"), shiftStart.Format("15:04"))
}

// DateBucket keys day-scoped types (ABSENCE): one window per employee day.
func DateBucket(date time.Time) string {
	return date.Format("2006-01-02")
}

// PunchBucket keys punch-attached types (MISSING_IN, MISSING_OUT,
// ABSENCE_TECHNICAL): one window per triggering punch event.
func PunchBucket(punchID string) string {
	return punchID
}
