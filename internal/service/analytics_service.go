package service

import (
	"context"
	"time"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type AnalyticsService struct {
	analytics *repository.AnalyticsRepository
}

func NewAnalyticsService(analytics *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// Dashboard returns the aggregate counters, scoped to the principal's owned
// routes for drivers. "Today" runs from local midnight to now.
func (s *AnalyticsService) Dashboard(ctx context.Context, principal model.Principal) (*model.DashboardStats, error) {
	scope := model.ScopeFor(principal)
	if scope.Type == model.ScopeDriver && scope.DriverID == nil {
		return nil, ErrDriverProfileMissing
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.analytics.DashboardStats(ctx, scope, dayStart)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return stats, nil
}
