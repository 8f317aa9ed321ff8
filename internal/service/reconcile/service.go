// Package reconcile drives the periodic attendance pass: per tenant, per
// employee day, it re-reads current state, reclassifies, persists the
// snapshot and pushes gated notifications to the resolved managers. The same
// snapshot routine backs the live ingestion path, so both converge on
// identical anomaly sets.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/leave"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notify"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notifylog"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
	"github.com/shiftly-hq/presence-backend-go/internal/repository/postgresql"
	"github.com/shiftly-hq/presence-backend-go/internal/service/classifier"
	"github.com/shiftly-hq/presence-backend-go/internal/service/ledger"
	"github.com/shiftly-hq/presence-backend-go/internal/service/managerres"
	"github.com/shiftly-hq/presence-backend-go/internal/service/scheduleres"
)

// DaySnapshot is one reclassified employee day.
type DaySnapshot struct {
	Result   classifier.DayResult
	Planned  *schedule.PlannedInterval
	Excluded bool
}

type Service interface {
	// SnapshotDay reclassifies one employee day and persists anomalies and
	// derived figures. Now is explicit so backfills stay deterministic.
	SnapshotDay(ctx context.Context, tenantID, employeeID string, date, now time.Time) (DaySnapshot, error)

	// ReconcileType runs one anomaly type's notification pass over every
	// active tenant. Per-employee failures are logged and skipped.
	ReconcileType(ctx context.Context, typ anomaly.Type, now time.Time) error
}

type ServiceImpl struct {
	db           *database.DB
	punchRepo    punch.EventRepository
	anomalyRepo  anomaly.Repository
	scheduleRepo schedule.Repository
	leaveRepo    leave.Repository
	tenantRepo   tenant.Repository
	employeeRepo employee.Repository
	resolver     scheduleres.Resolver
	managers     managerres.Service
	ledger       ledger.Service
	dispatcher   notify.Dispatcher

	// runInTx wraps the snapshot writes in one transaction. Factored out so
	// the write path can run against fakes.
	runInTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewService(
	db *database.DB,
	punchRepo punch.EventRepository,
	anomalyRepo anomaly.Repository,
	scheduleRepo schedule.Repository,
	leaveRepo leave.Repository,
	tenantRepo tenant.Repository,
	employeeRepo employee.Repository,
	resolver scheduleres.Resolver,
	managers managerres.Service,
	ledgerSvc ledger.Service,
	dispatcher notify.Dispatcher,
) Service {
	s := &ServiceImpl{
		db:           db,
		punchRepo:    punchRepo,
		anomalyRepo:  anomalyRepo,
		scheduleRepo: scheduleRepo,
		leaveRepo:    leaveRepo,
		tenantRepo:   tenantRepo,
		employeeRepo: employeeRepo,
		resolver:     resolver,
		managers:     managers,
		ledger:       ledgerSvc,
		dispatcher:   dispatcher,
	}
	s.runInTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			return fn(context.WithValue(ctx, "tx", tx))
		})
	}
	return s
}

// SnapshotDay implements Service.
func (s *ServiceImpl) SnapshotDay(ctx context.Context, tenantID, employeeID string, date, now time.Time) (DaySnapshot, error) {
	leaves, err := s.leaveRepo.ListApprovedByEmployeeAndDate(ctx, employeeID, date, tenantID)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to check leaves: %w", err)
	}
	for _, l := range leaves {
		if l.Covers(date) {
			// Any approved leave suppresses detection for the day; remote
			// work codes (Télétravail, Mission) are the common case.
			if err := s.anomalyRepo.ReplaceDay(ctx, tenantID, employeeID, date, nil); err != nil {
				return DaySnapshot{}, fmt.Errorf("failed to clear snapshot: %w", err)
			}
			return DaySnapshot{Excluded: true}, nil
		}
	}

	planned, err := s.resolver.Resolve(ctx, tenantID, employeeID, date)
	if err != nil {
		return DaySnapshot{}, err
	}

	settings, err := s.tenantRepo.GetSettings(ctx, tenantID)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to load tenant settings: %w", err)
	}

	from, to := dayWindow(date, planned)
	punches, err := s.punchRepo.ListByEmployeeAndDay(ctx, employeeID, from, to, tenantID)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to load punches: %w", err)
	}

	result := classifier.ClassifyDay(classifier.ClassifyInput{
		TenantID:   tenantID,
		EmployeeID: employeeID,
		Date:       date,
		Punches:    punches,
		Planned:    planned,
		Policy:     classifier.PolicyFromSettings(settings),
		Now:        now,
	})

	for i := range result.Anomalies {
		result.Anomalies[i].ID = uuid.NewString()
		result.Anomalies[i].CreatedAt = now
	}

	err = s.runInTx(ctx, func(txCtx context.Context) error {
		if err := s.anomalyRepo.ReplaceDay(txCtx, tenantID, employeeID, date, result.Anomalies); err != nil {
			return fmt.Errorf("failed to replace snapshot: %w", err)
		}
		if result.Derived != nil {
			if err := s.writeDerived(txCtx, tenantID, *result.Derived); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return DaySnapshot{}, err
	}

	return DaySnapshot{Result: result, Planned: planned}, nil
}

func (s *ServiceImpl) writeDerived(ctx context.Context, tenantID string, d classifier.Derived) error {
	event, err := s.punchRepo.GetByID(ctx, d.TerminalOutPunchID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load terminal OUT punch: %w", err)
	}
	worked, overtime, hours := d.WorkedMinutes, d.OvertimeMinutes, d.HoursWorked
	event.WorkedMinutes = &worked
	event.OvertimeMinutes = &overtime
	event.HoursWorked = &hours
	if err := s.punchRepo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to write derived figures: %w", err)
	}
	return nil
}

// ReconcileType implements Service.
func (s *ServiceImpl) ReconcileType(ctx context.Context, typ anomaly.Type, now time.Time) error {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	for _, t := range tenants {
		if err := s.reconcileTenant(ctx, t, typ, now); err != nil {
			slog.Error("Cron: tenant reconciliation failed",
				"tenant_id", t.ID, "anomaly_type", typ, "error", err)
		}
	}
	return nil
}

func (s *ServiceImpl) reconcileTenant(ctx context.Context, t tenant.Tenant, typ anomaly.Type, now time.Time) error {
	settings, err := s.tenantRepo.GetSettings(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	for _, d := range datesFor(typ, date) {
		employeeIDs, err := s.employeesFor(ctx, t.ID, d)
		if err != nil {
			return err
		}
		for _, employeeID := range employeeIDs {
			if err := s.reconcileEmployeeDay(ctx, t.ID, employeeID, typ, d, now, settings); err != nil {
				slog.Error("Cron: employee reconciliation failed",
					"tenant_id", t.ID, "employee_id", employeeID,
					"anomaly_type", typ, "date", d.Format("2006-01-02"), "error", err)
			}
		}
	}
	return nil
}

// datesFor picks the service days a type must look at. Open-session types
// reach back one day so night shifts and long sessions are not lost at the
// date boundary.
func datesFor(typ anomaly.Type, today time.Time) []time.Time {
	switch typ {
	case anomaly.TypeMissingOut, anomaly.TypeAbsencePartial, anomaly.TypeAbsenceTechnical:
		return []time.Time{today.AddDate(0, 0, -1), today}
	default:
		return []time.Time{today}
	}
}

// employeesFor unions the day's scheduled employees with anyone who punched:
// pairing anomalies exist without a schedule, absence exists without punches.
func (s *ServiceImpl) employeesFor(ctx context.Context, tenantID string, date time.Time) ([]string, error) {
	scheduled, err := s.scheduleRepo.ListScheduledEmployeeIDs(ctx, tenantID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled employees: %w", err)
	}
	punched, err := s.punchRepo.ListEmployeeIDsWithEventsSince(ctx, tenantID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list punched employees: %w", err)
	}

	seen := make(map[string]bool, len(scheduled)+len(punched))
	var out []string
	for _, id := range append(scheduled, punched...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *ServiceImpl) reconcileEmployeeDay(ctx context.Context, tenantID, employeeID string, typ anomaly.Type, date, now time.Time, settings tenant.Settings) error {
	snap, err := s.SnapshotDay(ctx, tenantID, employeeID, date, now)
	if err != nil {
		return err
	}
	if snap.Excluded {
		return nil
	}

	for _, a := range snap.Result.Anomalies {
		if a.Type != typ {
			continue
		}
		if !s.notifiable(a, snap.Planned, now, settings) {
			continue
		}
		if err := s.notifyManagers(ctx, a, snap.Planned, now, settings); err != nil {
			return err
		}
	}
	return nil
}

// notifiable applies the per-type dispatch gates that are about timing, not
// classification: the classifier records the condition, this decides whether
// it is worth an alert yet.
func (s *ServiceImpl) notifiable(a anomaly.Anomaly, planned *schedule.PlannedInterval, now time.Time, settings tenant.Settings) bool {
	switch a.Type {
	case anomaly.TypeLate:
		if a.LateMinutes == nil {
			return false
		}
		// Threshold measures lateness from shift start, tolerance included.
		return *a.LateMinutes+settings.LateToleranceMinutes >= settings.LateNotifyThresholdMinutes

	case anomaly.TypeMissingOut:
		if planned == nil || now.Before(planned.End) {
			return false
		}
		if a.OpenSinceMinutes != nil && *a.OpenSinceMinutes > settings.MissingOutDetectionWindowMinutes {
			// Session older than the detection window: stale, leave it to
			// corrections rather than nagging managers.
			return false
		}
		return true

	default:
		return true
	}
}

func (s *ServiceImpl) notifyManagers(ctx context.Context, a anomaly.Anomaly, planned *schedule.PlannedInterval, now time.Time, settings tenant.Settings) error {
	bucket := bucketFor(a, planned)
	key := notifylog.Key{
		TenantID:   a.TenantID,
		EmployeeID: a.EmployeeID,
		Type:       a.Type,
		BucketKey:  bucket,
	}

	ok, err := s.ledger.ShouldNotify(ctx, key, settings, now)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	managers, err := s.managers.ManagersFor(ctx, a.EmployeeID, a.TenantID)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		slog.Warn("Cron: anomaly has no resolvable manager, skipping dispatch",
			"tenant_id", a.TenantID, "employee_id", a.EmployeeID, "anomaly_type", a.Type)
		return nil
	}

	emp, err := s.employeeRepo.GetByID(ctx, a.EmployeeID, a.TenantID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}

	entry := notifylog.Entry{
		ID:          uuid.NewString(),
		TenantID:    a.TenantID,
		EmployeeID:  a.EmployeeID,
		Type:        a.Type,
		BucketKey:   bucket,
		ManagerID:   managers[0].ID,
		LateMinutes: a.LateMinutes,
		SentAt:      now,
	}
	won, err := s.ledger.RecordSent(ctx, entry, settings)
	if err != nil {
		return err
	}
	if !won {
		// A concurrent tick already handled this bucket.
		return nil
	}

	payload := payloadFor(a, emp, now)
	for _, m := range managers {
		email := ""
		if m.Email != nil {
			email = *m.Email
		}
		req := notify.Request{
			TenantID:     a.TenantID,
			ManagerID:    m.ID,
			ManagerEmail: email,
			EmployeeName: emp.FullName(),
			AnomalyType:  a.Type,
			Payload:      payload,
		}
		if err := s.dispatcher.Dispatch(ctx, req); err != nil {
			// Transport failure is the dispatcher's to report; the ledger
			// already records that a send was attempted.
			slog.Error("Cron: dispatch failed",
				"tenant_id", a.TenantID, "manager_id", m.ID,
				"anomaly_type", a.Type, "error", err)
		}
	}
	return nil
}

// bucketFor picks the deduplication unit per type: session for the same
// continuous lateness episode, date for a full-day absence, the triggering
// punch for everything punch-attached.
func bucketFor(a anomaly.Anomaly, planned *schedule.PlannedInterval) string {
	switch a.Type {
	case anomaly.TypeLate, anomaly.TypeAbsencePartial:
		if planned != nil {
			return notifylog.SessionBucket(a.Date, planned.Start)
		}
		if a.PunchID != nil {
			return notifylog.PunchBucket(*a.PunchID)
		}
		return notifylog.DateBucket(a.Date)
	case anomaly.TypeAbsence:
		return notifylog.DateBucket(a.Date)
	default:
		if a.PunchID != nil {
			return notifylog.PunchBucket(*a.PunchID)
		}
		return notifylog.DateBucket(a.Date)
	}
}

func payloadFor(a anomaly.Anomaly, emp employee.Employee, now time.Time) map[string]string {
	payload := map[string]string{
		"employee_name":      emp.FullName(),
		"employee_matricule": emp.Matricule,
		"anomaly_type":       string(a.Type),
		"date":               a.Date.Format("2006-01-02"),
		"detected_at":        now.Format(time.RFC3339),
		"note":               a.Note,
	}
	if a.LateMinutes != nil {
		payload["late_minutes"] = fmt.Sprintf("%d", *a.LateMinutes)
	}
	if a.OpenSinceMinutes != nil {
		payload["open_since_minutes"] = fmt.Sprintf("%d", *a.OpenSinceMinutes)
	}
	return payload
}

// dayWindow is the punch fetch window for a service day: the calendar day,
// stretched to cover a night shift's spill into the next morning.
func dayWindow(date time.Time, planned *schedule.PlannedInterval) (time.Time, time.Time) {
	from := date
	to := date.Add(24 * time.Hour)
	if planned != nil && planned.End.Add(4*time.Hour).After(to) {
		to = planned.End.Add(4 * time.Hour)
	}
	return from, to
}
