package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/handler/http/response"
)

type AnomalyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.Service
}

func NewAnomalyHandler(anomalyService anomaly.Service) AnomalyHandler {
	return &anomalyHandlerImpl{
		anomalyService: anomalyService,
	}
}

// List implements AnomalyHandler. Managers see only their scope; admins see
// the whole tenant.
func (h *anomalyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := anomaly.Filter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if typ := r.URL.Query().Get("type"); typ != "" {
		filter.Type = &typ
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

	result, err := h.anomalyService.ListAnomalies(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Anomalies, &response.Meta{
		Page:       result.Page,
		Limit:      result.PerPage,
		TotalItems: result.Total,
		TotalPages: totalPages(result.Total, result.PerPage),
	})
}
