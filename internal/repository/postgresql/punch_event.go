package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type punchEventRepository struct {
	db *database.DB
}

func NewPunchEventRepository(db *database.DB) punch.EventRepository {
	return &punchEventRepository{db: db}
}

const punchEventColumns = `
	id, tenant_id, employee_id, device_id, punched_at, kind, method, faulty,
	original_timestamp, correction_note, corrected_by, corrected_at, correction_approved,
	worked_minutes, overtime_minutes, hours_worked,
	created_at, updated_at`

func scanPunchEvent(row pgx.Row, e *punch.Event) error {
	return row.Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.DeviceID, &e.Timestamp, &e.Kind, &e.Method, &e.Faulty,
		&e.OriginalTimestamp, &e.CorrectionNote, &e.CorrectedBy, &e.CorrectedAt, &e.CorrectionApproved,
		&e.WorkedMinutes, &e.OvertimeMinutes, &e.HoursWorked,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// Create implements punch.EventRepository.
func (r *punchEventRepository) Create(ctx context.Context, event punch.Event) (punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_events (
			id, tenant_id, employee_id, device_id, punched_at, kind, method, faulty
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		event.ID,
		event.TenantID,
		event.EmployeeID,
		event.DeviceID,
		event.Timestamp,
		event.Kind,
		event.Method,
		event.Faulty,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return punch.Event{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetByID implements punch.EventRepository.
func (r *punchEventRepository) GetByID(ctx context.Context, id string, tenantID string) (punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE id = $1
		  AND tenant_id = $2
	`

	var event punch.Event
	err := scanPunchEvent(q.QueryRow(ctx, query, id, tenantID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return punch.Event{}, punch.ErrPunchNotFound
		}
		return punch.Event{}, fmt.Errorf("failed to get punch event by ID: %w", err)
	}

	return event, nil
}

// ListByEmployeeAndDay implements punch.EventRepository.
func (r *punchEventRepository) ListByEmployeeAndDay(ctx context.Context, employeeID string, from, to time.Time, tenantID string) ([]punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE employee_id = $1
		  AND tenant_id = $2
		  AND punched_at >= $3
		  AND punched_at < $4
		ORDER BY punched_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query punch events: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		var event punch.Event
		if err := scanPunchEvent(rows, &event); err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

// List implements punch.EventRepository.
func (r *punchEventRepository) List(ctx context.Context, filter punch.EventFilter, tenantID string) ([]punch.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "p.tenant_id = $1"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		baseWhere += fmt.Sprintf(" AND p.employee_id = ANY($%d)", argIdx)
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND p.punched_at >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND p.punched_at < $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	if filter.Kind != nil && *filter.Kind != "" {
		baseWhere += fmt.Sprintf(" AND p.kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.Method != nil && *filter.Method != "" {
		baseWhere += fmt.Sprintf(" AND p.method = $%d", argIdx)
		args = append(args, *filter.Method)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM punch_events p WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punch events: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			p.id, p.tenant_id, p.employee_id, p.device_id, p.punched_at, p.kind, p.method, p.faulty,
			p.original_timestamp, p.correction_note, p.corrected_by, p.corrected_at, p.correction_approved,
			p.worked_minutes, p.overtime_minutes, p.hours_worked,
			p.created_at, p.updated_at,
			(e.first_name || ' ' || e.last_name) AS employee_name,
			e.matricule AS employee_matricule
		FROM punch_events p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.punched_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	perPage := filter.PerPage
	if perPage == 0 {
		perPage = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query punch events: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		var event punch.Event
		err := rows.Scan(
			&event.ID, &event.TenantID, &event.EmployeeID, &event.DeviceID, &event.Timestamp, &event.Kind, &event.Method, &event.Faulty,
			&event.OriginalTimestamp, &event.CorrectionNote, &event.CorrectedBy, &event.CorrectedAt, &event.CorrectionApproved,
			&event.WorkedMinutes, &event.OvertimeMinutes, &event.HoursWorked,
			&event.CreatedAt, &event.UpdatedAt,
			&event.EmployeeName, &event.EmployeeMatricule,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, event)
	}

	return events, total, nil
}

// Update implements punch.EventRepository. Only correction metadata and the
// derived figures are writable; the raw capture fields never change.
func (r *punchEventRepository) Update(ctx context.Context, event punch.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_events
		SET punched_at = $1,
			original_timestamp = $2,
			correction_note = $3,
			corrected_by = $4,
			corrected_at = $5,
			correction_approved = $6,
			worked_minutes = $7,
			overtime_minutes = $8,
			hours_worked = $9,
			updated_at = NOW()
		WHERE id = $10
		  AND tenant_id = $11
	`

	tag, err := q.Exec(ctx, query,
		event.Timestamp,
		event.OriginalTimestamp,
		event.CorrectionNote,
		event.CorrectedBy,
		event.CorrectedAt,
		event.CorrectionApproved,
		event.WorkedMinutes,
		event.OvertimeMinutes,
		event.HoursWorked,
		event.ID,
		event.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update punch event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}

	return nil
}

// ListEmployeeIDsWithEventsSince implements punch.EventRepository.
func (r *punchEventRepository) ListEmployeeIDsWithEventsSince(ctx context.Context, tenantID string, since time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM punch_events
		WHERE tenant_id = $1
		  AND punched_at >= $2
	`

	rows, err := q.Query(ctx, query, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query punched employees: %w", err)
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
