package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

// GetByEmployeeAndDate implements schedule.Repository.
func (r *scheduleRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) (*schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			sc.id, sc.tenant_id, sc.employee_id, sc.date, sc.shift_id,
			sc.custom_start_time, sc.custom_end_time, sc.status, sc.suspended_by_leave_id,
			sc.created_at, sc.updated_at,
			sh.id, sh.name, sh.start_time, sh.end_time, sh.break_minutes, sh.is_night_shift
		FROM schedules sc
		LEFT JOIN shifts sh ON sh.id = sc.shift_id
		WHERE sc.employee_id = $1
		  AND sc.date = $2
		  AND sc.tenant_id = $3
		LIMIT 1
	`

	var sc schedule.Schedule
	var shiftID, shiftName, shiftStart, shiftEnd *string
	var breakMinutes *int
	var isNightShift *bool

	err := q.QueryRow(ctx, query, employeeID, date, tenantID).Scan(
		&sc.ID, &sc.TenantID, &sc.EmployeeID, &sc.Date, &sc.ShiftID,
		&sc.CustomStartTime, &sc.CustomEndTime, &sc.Status, &sc.SuspendedByLeaveID,
		&sc.CreatedAt, &sc.UpdatedAt,
		&shiftID, &shiftName, &shiftStart, &shiftEnd, &breakMinutes, &isNightShift,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if shiftID != nil {
		sc.Shift = &schedule.Shift{
			ID:           *shiftID,
			TenantID:     sc.TenantID,
			Name:         deref(shiftName),
			StartTime:    deref(shiftStart),
			EndTime:      deref(shiftEnd),
			BreakMinutes: derefInt(breakMinutes),
			IsNightShift: isNightShift != nil && *isNightShift,
		}
	}

	return &sc, nil
}

// GetShiftByID implements schedule.Repository.
func (r *scheduleRepository) GetShiftByID(ctx context.Context, id string, tenantID string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, start_time, end_time, break_minutes, is_night_shift,
			   created_at, updated_at
		FROM shifts
		WHERE id = $1
		  AND tenant_id = $2
	`

	var sh schedule.Shift
	err := q.QueryRow(ctx, query, id, tenantID).Scan(
		&sh.ID, &sh.TenantID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.BreakMinutes, &sh.IsNightShift,
		&sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return sh, nil
}

// ListScheduledEmployeeIDs implements schedule.Repository.
func (r *scheduleRepository) ListScheduledEmployeeIDs(ctx context.Context, tenantID string, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT sc.employee_id
		FROM schedules sc
		JOIN employees e ON e.id = sc.employee_id
		WHERE sc.tenant_id = $1
		  AND sc.date = $2
		  AND sc.status = $3
		  AND e.is_active = true
	`

	rows, err := q.Query(ctx, query, tenantID, date, schedule.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled employees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
