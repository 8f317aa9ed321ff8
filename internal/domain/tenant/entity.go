package tenant

import "time"

type Tenant struct {
	ID        string
	Name      string
	Timezone  string // IANA name, e.g. "Europe/Paris"
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings holds the per-tenant reconciliation tuning. A tenant without a
// settings row runs on DefaultSettings.
type Settings struct {
	TenantID string

	// LateToleranceMinutes is the grace period after shift start before a
	// punch counts as late.
	LateToleranceMinutes int

	// LateNotifyThresholdMinutes is the minimum lateness, measured from
	// shift start, before a LATE notification goes out. It is at least the
	// tolerance in practice.
	LateNotifyThresholdMinutes int
	LateNotifyFrequencyMinutes int

	// AbsenceBufferMinutes is how long after start+tolerance the engine
	// waits before declaring a zero-punch day an ABSENCE.
	AbsenceBufferMinutes          int
	AbsenceNotifyFrequencyMinutes int

	// PartialAbsenceThresholdMinutes is how long a session may stay open
	// past its expected end before escalating to ABSENCE_PARTIAL.
	PartialAbsenceThresholdMinutes       int
	PartialAbsenceNotifyFrequencyMinutes int

	// MissingOutDetectionWindowMinutes bounds how far back the missing-out
	// job looks for open sessions.
	MissingOutDetectionWindowMinutes int
	MissingInNotifyFrequencyMinutes  int
	MissingOutNotifyFrequencyMinutes int

	TechnicalNotifyFrequencyMinutes int

	// TechnicalOnOrphanBreakEnd and TechnicalOnFaultyCapture toggle the two
	// predicates feeding ABSENCE_TECHNICAL.
	TechnicalOnOrphanBreakEnd bool
	TechnicalOnFaultyCapture  bool

	UpdatedAt time.Time
}

// DefaultSettings returns the engine defaults applied when a tenant has no
// settings row.
func DefaultSettings(tenantID string) Settings {
	return Settings{
		TenantID:                             tenantID,
		LateToleranceMinutes:                 10,
		LateNotifyThresholdMinutes:           15,
		LateNotifyFrequencyMinutes:           60,
		AbsenceBufferMinutes:                 60,
		AbsenceNotifyFrequencyMinutes:        240,
		PartialAbsenceThresholdMinutes:       120,
		PartialAbsenceNotifyFrequencyMinutes: 120,
		MissingOutDetectionWindowMinutes:     720,
		MissingInNotifyFrequencyMinutes:      240,
		MissingOutNotifyFrequencyMinutes:     240,
		TechnicalNotifyFrequencyMinutes:      1440,
		TechnicalOnOrphanBreakEnd:            true,
		TechnicalOnFaultyCapture:             true,
	}
}
