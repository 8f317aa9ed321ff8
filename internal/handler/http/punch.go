package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/handler/http/response"
	devicesvc "github.com/shiftly-hq/presence-backend-go/internal/service/device"
)

type PunchHandler interface {
	IngestWebhook(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	punchService  punch.EventService
	deviceService devicesvc.Service
}

func NewPunchHandler(punchService punch.EventService, deviceService devicesvc.Service) PunchHandler {
	return &punchHandlerImpl{
		punchService:  punchService,
		deviceService: deviceService,
	}
}

// IngestWebhook implements PunchHandler. Devices authenticate with their API
// key; the device row decides the tenant, never the request body.
func (h *punchHandlerImpl) IngestWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deviceID := chi.URLParam(r, "deviceID")
	apiKey := r.Header.Get("X-Device-Key")
	if apiKey == "" {
		response.Unauthorized(w, "Missing device api key")
		return
	}

	dev, err := h.deviceService.Authenticate(ctx, deviceID, apiKey)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req punch.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = dev.TenantID
	if req.DeviceID == nil {
		req.DeviceID = &dev.ID
	}

	event, err := h.punchService.Ingest(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", event)
}

// Create implements PunchHandler. Manual entry on behalf of an employee.
func (h *punchHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req punch.ManualPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	event, err := h.punchService.RecordManual(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", event)
}

// Correct implements PunchHandler.
func (h *punchHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req punch.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EventID = chi.URLParam(r, "id")

	event, err := h.punchService.Correct(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch corrected", event)
}

// Get implements PunchHandler.
func (h *punchHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	event, err := h.punchService.GetEvent(ctx, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, event)
}

// List implements PunchHandler. Managers see only their scope; admins see
// the whole tenant.
func (h *punchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := punch.EventFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if from := r.URL.Query().Get("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.BadRequest(w, "Invalid date_from, expected YYYY-MM-DD", nil)
			return
		}
		filter.DateFrom = &t
	}

	if to := r.URL.Query().Get("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.BadRequest(w, "Invalid date_to, expected YYYY-MM-DD", nil)
			return
		}
		filter.DateTo = &t
	}

	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = &kind
	}

	if method := r.URL.Query().Get("method"); method != "" {
		filter.Method = &method
	}

	filter.Page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			filter.Page = pageNum
		}
	}

	filter.PerPage = 20
	if l := r.URL.Query().Get("per_page"); l != "" {
		if perPage, err := strconv.Atoi(l); err == nil && perPage > 0 {
			filter.PerPage = perPage
		}
	}

	result, err := h.punchService.ListEvents(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Events, &response.Meta{
		Page:       result.Page,
		Limit:      result.PerPage,
		TotalItems: result.Total,
		TotalPages: totalPages(result.Total, result.PerPage),
	})
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
