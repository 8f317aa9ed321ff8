package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/leave"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

// ListApprovedByEmployeeAndDate implements leave.Repository. Any of the
// three approved statuses counts.
func (r *leaveRepository) ListApprovedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			l.id, l.tenant_id, l.employee_id, l.leave_type_id,
			l.start_date, l.end_date, l.status, l.created_at, l.updated_at,
			lt.id, lt.code, lt.name
		FROM leaves l
		JOIN leave_types lt ON lt.id = l.leave_type_id
		WHERE l.employee_id = $1
		  AND l.tenant_id = $2
		  AND l.start_date <= $3
		  AND l.end_date >= $3
		  AND l.status IN ($4, $5, $6)
	`

	rows, err := q.Query(ctx, query, employeeID, tenantID, date,
		leave.StatusApproved, leave.StatusManagerApproved, leave.StatusHRApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var l leave.Leave
		var lt leave.LeaveType
		err := rows.Scan(
			&l.ID, &l.TenantID, &l.EmployeeID, &l.LeaveTypeID,
			&l.StartDate, &l.EndDate, &l.Status, &l.CreatedAt, &l.UpdatedAt,
			&lt.ID, &lt.Code, &lt.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		lt.TenantID = l.TenantID
		l.LeaveType = &lt
		leaves = append(leaves, l)
	}

	return leaves, nil
}
