package cron

import (
	"context"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/service/reconcile"
)

// ReconcileJobs contains the per-anomaly-type reconciliation cron jobs.
type ReconcileJobs struct {
	reconciler reconcile.Service
	interval   time.Duration
}

// NewReconcileJobs creates reconciliation cron jobs. Interval is shared by
// all anomaly types; zero falls back to 15 minutes.
func NewReconcileJobs(reconciler reconcile.Service, interval time.Duration) *ReconcileJobs {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReconcileJobs{
		reconciler: reconciler,
		interval:   interval,
	}
}

// RegisterJobs registers one job per detected anomaly type. Each pass is
// idempotent, so overlapping ticks after a slow run converge to the same
// snapshots and ledger rows.
func (j *ReconcileJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_late", j.interval, j.typed(anomaly.TypeLate))
	scheduler.AddJob("reconcile_absence", j.interval, j.typed(anomaly.TypeAbsence))
	scheduler.AddJob("reconcile_absence_partial", j.interval, j.typed(anomaly.TypeAbsencePartial))
	scheduler.AddJob("reconcile_absence_technical", j.interval, j.typed(anomaly.TypeAbsenceTechnical))
	scheduler.AddJob("reconcile_missing_in", j.interval, j.typed(anomaly.TypeMissingIn))
	scheduler.AddJob("reconcile_missing_out", j.interval, j.typed(anomaly.TypeMissingOut))
}

func (j *ReconcileJobs) typed(typ anomaly.Type) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return j.reconciler.ReconcileType(ctx, typ, time.Now().UTC())
	}
}
