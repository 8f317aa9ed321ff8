package punch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/oklog/ulid/v2"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	domain "github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shiftly-hq/presence-backend-go/internal/service/managerres"
	"github.com/shiftly-hq/presence-backend-go/internal/service/reconcile"
)

type EventServiceImpl struct {
	domain.EventRepository
	employeeRepo employee.Repository
	tenantRepo   tenant.Repository
	reconciler   reconcile.Service
	managers     managerres.Service
}

func NewEventService(
	eventRepo domain.EventRepository,
	employeeRepo employee.Repository,
	tenantRepo tenant.Repository,
	reconciler reconcile.Service,
	managers managerres.Service,
) domain.EventService {
	return &EventServiceImpl{
		EventRepository: eventRepo,
		employeeRepo:    employeeRepo,
		tenantRepo:      tenantRepo,
		reconciler:      reconciler,
		managers:        managers,
	}
}

// newEventID returns a time-ordered id so the append-only store sorts by
// insertion without a secondary index.
func newEventID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.New(rand.NewSource(t.UnixNano()))).String()
}

// Ingest implements punch.EventService.
func (s *EventServiceImpl) Ingest(ctx context.Context, req domain.IngestRequest) (domain.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.EventResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, req.TenantID)
	if err != nil {
		return domain.EventResponse{}, err
	}
	if !emp.IsActive {
		return domain.EventResponse{}, employee.ErrEmployeeInactive
	}

	ts := req.Timestamp.UTC()
	event := domain.Event{
		ID:         newEventID(ts),
		TenantID:   req.TenantID,
		EmployeeID: req.EmployeeID,
		DeviceID:   req.DeviceID,
		Timestamp:  ts,
		Kind:       domain.Kind(req.Kind),
		Method:     domain.Method(req.Method),
		Faulty:     req.Faulty,
	}

	created, err := s.Create(ctx, event)
	if err != nil {
		return domain.EventResponse{}, err
	}

	s.reclassify(ctx, created)

	return domain.ToEventResponse(created), nil
}

// RecordManual implements punch.EventService.
func (s *EventServiceImpl) RecordManual(ctx context.Context, req domain.ManualPunchRequest) (domain.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.EventResponse{}, err
	}

	tenantID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return domain.EventResponse{}, err
	}
	req.RecordedBy = userID

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, tenantID)
	if err != nil {
		return domain.EventResponse{}, err
	}
	if !emp.IsActive {
		return domain.EventResponse{}, employee.ErrEmployeeInactive
	}

	ts := req.Timestamp.UTC()
	event := domain.Event{
		ID:         newEventID(ts),
		TenantID:   tenantID,
		EmployeeID: req.EmployeeID,
		Timestamp:  ts,
		Kind:       domain.Kind(req.Kind),
		Method:     domain.MethodManual,
	}

	created, err := s.Create(ctx, event)
	if err != nil {
		return domain.EventResponse{}, err
	}

	s.reclassify(ctx, created)

	return domain.ToEventResponse(created), nil
}

// Correct implements punch.EventService. The original timestamp is kept on
// the event; a correction is an audited adjustment, never an overwrite.
func (s *EventServiceImpl) Correct(ctx context.Context, req domain.CorrectionRequest) (domain.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.EventResponse{}, err
	}

	tenantID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return domain.EventResponse{}, err
	}

	event, err := s.EventRepository.GetByID(ctx, req.EventID, tenantID)
	if err != nil {
		return domain.EventResponse{}, err
	}

	now := time.Now().UTC()
	if event.OriginalTimestamp == nil {
		original := event.Timestamp
		event.OriginalTimestamp = &original
	}
	event.Timestamp = req.NewTimestamp.UTC()
	event.CorrectionNote = &req.Note
	event.CorrectedBy = &userID
	event.CorrectedAt = &now
	event.CorrectionApproved = &req.Approved

	if err := s.Update(ctx, event); err != nil {
		return domain.EventResponse{}, err
	}

	s.reclassify(ctx, event)

	return domain.ToEventResponse(event), nil
}

// GetEvent implements punch.EventService.
func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (domain.EventResponse, error) {
	tenantID, _, err := claimsFromContext(ctx)
	if err != nil {
		return domain.EventResponse{}, err
	}

	event, err := s.EventRepository.GetByID(ctx, id, tenantID)
	if err != nil {
		return domain.EventResponse{}, err
	}

	return domain.ToEventResponse(event), nil
}

// ListEvents implements punch.EventService. Non-admin callers see only the
// employees their manager level resolves to; an empty scope is an empty
// listing, not an error.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filter domain.EventFilter) (domain.ListEventsResponse, error) {
	tenantID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return domain.ListEventsResponse{}, err
	}

	if !isAdmin(ctx) {
		level, err := s.managers.ResolveLevel(ctx, userID, tenantID)
		if err != nil {
			return domain.ListEventsResponse{}, err
		}
		scope, err := s.managers.ManagedEmployeeIDs(ctx, level, tenantID)
		if err != nil {
			return domain.ListEventsResponse{}, err
		}
		if len(scope) == 0 {
			return domain.ListEventsResponse{Page: 1, PerPage: filter.PerPage}, nil
		}
		filter.EmployeeIDs = scope
	}

	events, total, err := s.List(ctx, filter, tenantID)
	if err != nil {
		return domain.ListEventsResponse{}, err
	}

	responses := make([]domain.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, domain.ToEventResponse(e))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage == 0 {
		perPage = 20
	}

	return domain.ListEventsResponse{
		Events:  responses,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// reclassify re-runs the day snapshot for the event's employee day. A
// failure here is logged, not returned: the punch is durably stored and the
// next scheduler tick converges to the same snapshot anyway.
func (s *EventServiceImpl) reclassify(ctx context.Context, event domain.Event) {
	date := s.serviceDate(ctx, event)
	if _, err := s.reconciler.SnapshotDay(ctx, event.TenantID, event.EmployeeID, date, time.Now().UTC()); err != nil {
		slog.Error("live reclassification failed",
			"tenant_id", event.TenantID, "employee_id", event.EmployeeID,
			"punch_id", event.ID, "error", err)
	}
}

// serviceDate maps an event instant to its calendar day in the tenant
// timezone.
func (s *EventServiceImpl) serviceDate(ctx context.Context, event domain.Event) time.Time {
	loc := time.UTC
	if t, err := s.tenantRepo.GetByID(ctx, event.TenantID); err == nil {
		if l, err := time.LoadLocation(t.Timezone); err == nil {
			loc = l
		}
	}
	local := event.Timestamp.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func isAdmin(ctx context.Context) bool {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

func claimsFromContext(ctx context.Context) (tenantID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	tenantID, ok := claims["tenant_id"].(string)
	if !ok || tenantID == "" {
		return "", "", fmt.Errorf("tenant_id claim is missing or invalid")
	}
	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return tenantID, userID, nil
}
