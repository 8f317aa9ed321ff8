// Package classifier evaluates one employee day's punches against the
// resolved schedule and produces the day's anomaly set plus worked/overtime
// figures. Everything here is pure: the same input, including the explicit
// Now, always yields the same output. The live ingestion path and the
// periodic reconciliation jobs share this exact logic, so a reclassification
// after a correction converges to the same snapshot.
package classifier

import (
	"sort"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

// Policy is the slice of tenant settings the classifier needs.
type Policy struct {
	LateToleranceMinutes           int
	AbsenceBufferMinutes           int
	PartialAbsenceThresholdMinutes int
	TechnicalOnOrphanBreakEnd      bool
	TechnicalOnFaultyCapture       bool
}

// PolicyFromSettings projects tenant settings onto a classifier policy.
func PolicyFromSettings(s tenant.Settings) Policy {
	return Policy{
		LateToleranceMinutes:           s.LateToleranceMinutes,
		AbsenceBufferMinutes:           s.AbsenceBufferMinutes,
		PartialAbsenceThresholdMinutes: s.PartialAbsenceThresholdMinutes,
		TechnicalOnOrphanBreakEnd:      s.TechnicalOnOrphanBreakEnd,
		TechnicalOnFaultyCapture:       s.TechnicalOnFaultyCapture,
	}
}

// ClassifyInput is one employee day. Punches may arrive in any order; they
// are re-sorted defensively. Planned is nil when nothing was expected
// (no schedule, draft planning, or leave suspension). Now is injected so the
// open-day checks (ABSENCE, ABSENCE_PARTIAL) stay deterministic.
type ClassifyInput struct {
	TenantID   string
	EmployeeID string
	Date       time.Time
	Punches    []punch.Event
	Planned    *schedule.PlannedInterval
	Policy     Policy
	Now        time.Time
}

// Derived is the worked/overtime figure materialized onto the terminal OUT
// punch of a complete day.
type Derived struct {
	TerminalOutPunchID string
	WorkedMinutes      int
	OvertimeMinutes    int
	HoursWorked        decimal.Decimal
}

// DayResult is the classification outcome. Anomalies carry tenant, employee,
// date, type and payload fields; ids and timestamps are the caller's job.
type DayResult struct {
	Anomalies []anomaly.Anomaly
	Derived   *Derived
}

// ClassifyDay evaluates the decision table over the day's punch set.
func ClassifyDay(in ClassifyInput) DayResult {
	punches := make([]punch.Event, len(in.Punches))
	copy(punches, in.Punches)
	sort.SliceStable(punches, func(i, j int) bool {
		if punches[i].Timestamp.Equal(punches[j].Timestamp) {
			return punches[i].ID < punches[j].ID
		}
		return punches[i].Timestamp.Before(punches[j].Timestamp)
	})

	var result DayResult
	emit := func(t anomaly.Type, punchID *string, note string) *anomaly.Anomaly {
		result.Anomalies = append(result.Anomalies, anomaly.Anomaly{
			TenantID:   in.TenantID,
			EmployeeID: in.EmployeeID,
			Type:       t,
			Date:       in.Date,
			PunchID:    punchID,
			Note:       note,
		})
		return &result.Anomalies[len(result.Anomalies)-1]
	}

	classifyTechnical(punches, in, emit)

	var ins, outs []punch.Event
	for _, p := range punches {
		switch p.Kind {
		case punch.KindIn:
			ins = append(ins, p)
		case punch.KindOut:
			outs = append(outs, p)
		}
	}

	if len(ins) == 0 && len(outs) == 0 {
		if in.Planned != nil && len(punches) == 0 {
			deadline := in.Planned.Start.
				Add(time.Duration(in.Policy.LateToleranceMinutes) * time.Minute).
				Add(time.Duration(in.Policy.AbsenceBufferMinutes) * time.Minute)
			if in.Now.After(deadline) {
				emit(anomaly.TypeAbsence, nil, "no punches recorded for a scheduled day")
			}
		}
		return result
	}

	// flagged tracks punches already carrying a pairing classification so
	// the trailing-IN rule never double-counts one punch.
	flagged := make(map[string]bool)

	if len(ins) > 1 {
		for _, p := range ins[1:] {
			emit(anomaly.TypeDoubleIn, ptr(p.ID), "duplicate IN punch")
			flagged[p.ID] = true
		}
	}
	if len(outs) > 1 {
		for _, p := range outs[:len(outs)-1] {
			emit(anomaly.TypeDoubleOut, ptr(p.ID), "duplicate OUT punch")
			flagged[p.ID] = true
		}
	}

	if len(ins) == 0 && len(outs) > 0 {
		emit(anomaly.TypeMissingIn, ptr(outs[0].ID), "OUT punch with no IN")
	}

	// Open session: more INs than OUTs and the day's last pairing event is
	// the unmatched IN. Escalates to ABSENCE_PARTIAL once open longer than
	// the partial threshold; otherwise MISSING_OUT. Never both.
	if len(ins) > len(outs) {
		last := lastPairing(punches)
		if last != nil && last.Kind == punch.KindIn && !flagged[last.ID] {
			openFor := int(in.Now.Sub(last.Timestamp).Minutes())
			if openFor > in.Policy.PartialAbsenceThresholdMinutes {
				a := emit(anomaly.TypeAbsencePartial, ptr(last.ID), "session open past partial-absence threshold")
				a.OpenSinceMinutes = ptr(openFor)
			} else {
				a := emit(anomaly.TypeMissingOut, ptr(last.ID), "IN punch with no matching OUT")
				if openFor > 0 {
					a.OpenSinceMinutes = ptr(openFor)
				}
			}
		}
	}

	if in.Planned != nil && len(ins) > 0 {
		tolerance := time.Duration(in.Policy.LateToleranceMinutes) * time.Minute
		if ins[0].Timestamp.After(in.Planned.Start.Add(tolerance)) {
			a := emit(anomaly.TypeLate, ptr(ins[0].ID), "IN punch past start plus tolerance")
			a.LateMinutes = ptr(int(ins[0].Timestamp.Sub(in.Planned.Start).Minutes()) - in.Policy.LateToleranceMinutes)
		}
	}

	result.Derived = deriveWorked(ins, outs, in.Planned)
	return result
}

// classifyTechnical emits ABSENCE_TECHNICAL for punches failing device
// correlation: orphan BREAK_END with no open BREAK_START, and captures the
// device adapter flagged as faulty. Both predicates are tenant-tunable.
func classifyTechnical(punches []punch.Event, in ClassifyInput, emit func(anomaly.Type, *string, string) *anomaly.Anomaly) {
	openBreaks := 0
	for _, p := range punches {
		if in.Policy.TechnicalOnFaultyCapture && p.Faulty {
			emit(anomaly.TypeAbsenceTechnical, ptr(p.ID), "capture flagged faulty by device adapter")
			continue
		}
		switch p.Kind {
		case punch.KindBreakStart:
			openBreaks++
		case punch.KindBreakEnd:
			if openBreaks > 0 {
				openBreaks--
			} else if in.Policy.TechnicalOnOrphanBreakEnd {
				emit(anomaly.TypeAbsenceTechnical, ptr(p.ID), "BREAK_END with no open BREAK_START")
			}
		}
	}
}

// deriveWorked computes the worked/overtime figures for a complete day:
// workedMinutes spans first IN to last OUT; scheduledMinutes nets the break
// out of the planned interval; overtime never goes negative.
func deriveWorked(ins, outs []punch.Event, planned *schedule.PlannedInterval) *Derived {
	if len(ins) == 0 || len(outs) == 0 {
		return nil
	}
	firstIn := ins[0]
	lastOut := outs[len(outs)-1]
	if !lastOut.Timestamp.After(firstIn.Timestamp) {
		return nil
	}

	worked := int(lastOut.Timestamp.Sub(firstIn.Timestamp).Minutes())
	scheduled := 0
	if planned != nil {
		scheduled = planned.ScheduledMinutes()
	}
	overtime := worked - scheduled
	if overtime < 0 {
		overtime = 0
	}

	return &Derived{
		TerminalOutPunchID: lastOut.ID,
		WorkedMinutes:      worked,
		OvertimeMinutes:    overtime,
		HoursWorked:        decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(60)).Round(2),
	}
}

// lastPairing returns the last IN or OUT event of the day.
func lastPairing(punches []punch.Event) *punch.Event {
	for i := len(punches) - 1; i >= 0; i-- {
		if punches[i].Kind == punch.KindIn || punches[i].Kind == punch.KindOut {
			return &punches[i]
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
