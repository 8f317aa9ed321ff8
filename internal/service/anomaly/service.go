package anomaly

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	domain "github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/validator"
	"github.com/shiftly-hq/presence-backend-go/internal/service/managerres"
)

type ServiceImpl struct {
	domain.Repository
	managers managerres.Service
}

func NewService(repo domain.Repository, managers managerres.Service) domain.Service {
	return &ServiceImpl{
		Repository: repo,
		managers:   managers,
	}
}

// ListAnomalies implements anomaly.Service. Non-admin callers see only the
// employees their manager level resolves to; an empty scope is an empty
// listing, not an error.
func (s *ServiceImpl) ListAnomalies(ctx context.Context, filter domain.Filter) (domain.ListResponse, error) {
	tenantID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return domain.ListResponse{}, err
	}

	if filter.Type != nil && !validator.IsInSlice(*filter.Type, domain.TypeValues) {
		return domain.ListResponse{}, domain.ErrInvalidType
	}

	if !isAdmin(ctx) {
		level, err := s.managers.ResolveLevel(ctx, userID, tenantID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		scope, err := s.managers.ManagedEmployeeIDs(ctx, level, tenantID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		if len(scope) == 0 {
			return domain.ListResponse{Page: 1, PerPage: filter.PerPage}, nil
		}
		filter.EmployeeIDs = scope
	}

	anomalies, total, err := s.List(ctx, filter, tenantID)
	if err != nil {
		return domain.ListResponse{}, err
	}

	responses := make([]domain.Response, 0, len(anomalies))
	for _, a := range anomalies {
		responses = append(responses, domain.ToResponse(a))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage == 0 {
		perPage = 20
	}

	return domain.ListResponse{
		Anomalies: responses,
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	}, nil
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
