// Package scheduleres resolves the effective planned interval for one
// employee day: shift template times, custom overrides, leave suspension and
// the tenant timezone all folded into one absolute-time answer.
package scheduleres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
)

// Resolver returns the planned interval for an employee on a date, or nil
// when nothing is expected of them that day.
type Resolver interface {
	Resolve(ctx context.Context, tenantID, employeeID string, date time.Time) (*schedule.PlannedInterval, error)
}

type ResolverImpl struct {
	schedule.Repository
	tenantRepo tenant.Repository
}

func NewResolver(scheduleRepo schedule.Repository, tenantRepo tenant.Repository) Resolver {
	return &ResolverImpl{
		Repository: scheduleRepo,
		tenantRepo: tenantRepo,
	}
}

// Resolve implements Resolver. A missing schedule, a DRAFT row and a
// leave-suspended row all resolve to nil without error: "nothing planned" is
// a valid state, not a failure.
func (r *ResolverImpl) Resolve(ctx context.Context, tenantID, employeeID string, date time.Time) (*schedule.PlannedInterval, error) {
	sched, err := r.GetByEmployeeAndDate(ctx, employeeID, date, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up schedule: %w", err)
	}
	if sched == nil {
		return nil, nil
	}
	if sched.Status != schedule.StatusPublished {
		return nil, nil
	}

	t, err := r.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		loc = time.UTC
	}

	startClock, endClock, breakMinutes := effectiveTimes(sched)
	if startClock == "" || endClock == "" {
		return nil, nil
	}

	start, err := combine(date, startClock, loc)
	if err != nil {
		return nil, err
	}
	end, err := combine(date, endClock, loc)
	if err != nil {
		return nil, err
	}

	// Night shift: an end at or before the start belongs to the next day.
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	return &schedule.PlannedInterval{
		Start:        start,
		End:          end,
		BreakMinutes: breakMinutes,
	}, nil
}

// effectiveTimes applies the custom override when present, else the shift
// template.
func effectiveTimes(s *schedule.Schedule) (start, end string, breakMinutes int) {
	if s.Shift != nil {
		start = s.Shift.StartTime
		end = s.Shift.EndTime
		breakMinutes = s.Shift.BreakMinutes
	}
	if s.CustomStartTime != nil && *s.CustomStartTime != "" {
		start = *s.CustomStartTime
	}
	if s.CustomEndTime != nil && *s.CustomEndTime != "" {
		end = *s.CustomEndTime
	}
	return start, end, breakMinutes
}

// combine builds an absolute time from a calendar date and a "15:04" wall
// clock in the given location.
func combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return time.Time{}, schedule.ErrInvalidWallClock
	}
	parsed, err := time.Parse("15:04", parts[0]+":"+parts[1])
	if err != nil {
		return time.Time{}, schedule.ErrInvalidWallClock
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}
