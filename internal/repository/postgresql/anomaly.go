package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.Repository {
	return &anomalyRepository{db: db}
}

// ReplaceDay implements anomaly.Repository. Runs inside the caller's
// transaction so delete and insert land atomically.
func (r *anomalyRepository) ReplaceDay(ctx context.Context, tenantID, employeeID string, date time.Time, anomalies []anomaly.Anomaly) error {
	q := GetQuerier(ctx, r.db)

	deleteQuery := `
		DELETE FROM anomalies
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND date = $3
	`
	if _, err := q.Exec(ctx, deleteQuery, tenantID, employeeID, date); err != nil {
		return fmt.Errorf("failed to clear anomaly snapshot: %w", err)
	}

	insertQuery := `
		INSERT INTO anomalies (
			id, tenant_id, employee_id, type, date, punch_id,
			late_minutes, open_since_minutes, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, a := range anomalies {
		_, err := q.Exec(ctx, insertQuery,
			a.ID, a.TenantID, a.EmployeeID, a.Type, a.Date, a.PunchID,
			a.LateMinutes, a.OpenSinceMinutes, a.Note, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert anomaly: %w", err)
		}
	}

	return nil
}

// ListByEmployeeAndDay implements anomaly.Repository.
func (r *anomalyRepository) ListByEmployeeAndDay(ctx context.Context, employeeID string, date time.Time, tenantID string) ([]anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, type, date, punch_id,
			   late_minutes, open_since_minutes, note, created_at
		FROM anomalies
		WHERE employee_id = $1
		  AND date = $2
		  AND tenant_id = $3
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		var a anomaly.Anomaly
		err := rows.Scan(
			&a.ID, &a.TenantID, &a.EmployeeID, &a.Type, &a.Date, &a.PunchID,
			&a.LateMinutes, &a.OpenSinceMinutes, &a.Note, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}

	return anomalies, nil
}

// List implements anomaly.Repository.
func (r *anomalyRepository) List(ctx context.Context, filter anomaly.Filter, tenantID string) ([]anomaly.Anomaly, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.tenant_id = $1"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		baseWhere += fmt.Sprintf(" AND a.employee_id = ANY($%d)", argIdx)
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND a.type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM anomalies a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count anomalies: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			a.id, a.tenant_id, a.employee_id, a.type, a.date, a.punch_id,
			a.late_minutes, a.open_since_minutes, a.note, a.created_at,
			(e.first_name || ' ' || e.last_name) AS employee_name,
			e.matricule AS employee_matricule
		FROM anomalies a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.created_at DESC
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
		return nil, 0, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		var a anomaly.Anomaly
		err := rows.Scan(
			&a.ID, &a.TenantID, &a.EmployeeID, &a.Type, &a.Date, &a.PunchID,
			&a.LateMinutes, &a.OpenSinceMinutes, &a.Note, &a.CreatedAt,
			&a.EmployeeName, &a.EmployeeMatricule,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}

	return anomalies, total, nil
}
