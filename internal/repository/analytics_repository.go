package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-service/internal/model"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DashboardStats aggregates the dashboard counters for the given scope.
// dayStart bounds the "today" bucket and is supplied by the caller so the
// local-midnight definition lives in one place.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context, scope model.Scope, dayStart time.Time) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	db := r.db.WithContext(ctx)

	var err error
	if stats.ActiveVehicles, err = r.countVehicles(db, scope); err != nil {
		return nil, err
	}

	driverQuery := func() *gorm.DB {
		q := db.Model(&model.Driver{})
		if scope.Type == model.ScopeDriver {
			if scope.DriverID == nil {
				return q.Where("1=0")
			}
			q = q.Where("id = ?", *scope.DriverID)
		}
		return q
	}
	if err = driverQuery().Where("status = ?", model.DriverStatusActive).Count(&stats.ActiveDrivers).Error; err != nil {
		return nil, err
	}
	if err = driverQuery().Count(&stats.TotalDrivers).Error; err != nil {
		return nil, err
	}
	if err = driverQuery().Where("has_account = ?", true).Count(&stats.DriversWithAccounts).Error; err != nil {
		return nil, err
	}

	routeQuery := applyRouteScope(db.Model(&model.Route{}), scope)
	if err = routeQuery.Where("routes.status = ?", model.RouteStatusActive).Count(&stats.ActiveRoutes).Error; err != nil {
		return nil, err
	}

	today := func(status model.DeliveryStatus) (int64, error) {
		var count int64
		query := applyDeliveryScope(db.Model(&model.Delivery{}), scope).
			Where("deliveries.created_at >= ? AND deliveries.status = ?", dayStart, status)
		if err := query.Count(&count).Error; err != nil {
			return 0, err
		}
		return count, nil
	}
	if stats.TodayDeliveries.Pending, err = today(model.DeliveryStatusPending); err != nil {
		return nil, err
	}
	if stats.TodayDeliveries.InProgress, err = today(model.DeliveryStatusInProgress); err != nil {
		return nil, err
	}
	if stats.TodayDeliveries.Completed, err = today(model.DeliveryStatusCompleted); err != nil {
		return nil, err
	}

	completedQuery := applyDeliveryScope(db.Model(&model.Delivery{}), scope).
		Where("deliveries.status = ?", model.DeliveryStatusCompleted)
	if err = completedQuery.Count(&stats.CompletedDeliveries).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *AnalyticsRepository) countVehicles(db *gorm.DB, scope model.Scope) (int64, error) {
	var count int64
	query := db.Model(&model.Vehicle{}).Where("vehicles.status = ?", model.VehicleStatusActive)
	if scope.Type == model.ScopeDriver {
		if scope.DriverID == nil {
			return 0, nil
		}
		query = query.
			Joins("JOIN routes r ON r.vehicle_id = vehicles.id").
			Where("r.driver_id = ?", *scope.DriverID).
			Distinct("vehicles.id")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
