package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"fleet-service/internal/model"
)

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

type ImportPlan struct {
	Deliveries []model.Delivery
	// ChunkSize > 0 partitions the deliveries into consecutive routes of that
	// capacity.
	ChunkSize     int
	AssignDrivers bool
	RouteName     string
}

// Execute persists a whole import as one transaction: deliveries, the routes
// chunked from them, and driver auto-assignment either all land or none do.
func (r *ImportRepository) Execute(ctx context.Context, plan ImportPlan) (*model.ImportResult, error) {
	result := &model.ImportResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range plan.Deliveries {
			if plan.Deliveries[i].DeliveryID == "" {
				plan.Deliveries[i].DeliveryID = NewCode(CodePrefixDelivery)
			}
			if err := tx.Create(&plan.Deliveries[i]).Error; err != nil {
				return err
			}
		}
		result.DeliveriesImported = len(plan.Deliveries)

		if plan.ChunkSize <= 0 || len(plan.Deliveries) == 0 {
			return nil
		}

		var routes []*model.Route
		for start := 0; start < len(plan.Deliveries); start += plan.ChunkSize {
			end := start + plan.ChunkSize
			if end > len(plan.Deliveries) {
				end = len(plan.Deliveries)
			}
			chunk := plan.Deliveries[start:end]

			route := &model.Route{
				RouteID: NewCode(CodePrefixRoute),
				Name:    fmt.Sprintf("%s %d", plan.RouteName, len(routes)+1),
				Status:  model.RouteStatusPending,
			}
			if err := tx.Create(route).Error; err != nil {
				return err
			}

			ids := make([]interface{}, 0, len(chunk))
			for _, d := range chunk {
				ids = append(ids, d.ID)
			}
			if err := tx.Model(&model.Delivery{}).
				Where("id IN ?", ids).
				Update("route_id", route.ID).Error; err != nil {
				return err
			}
			if _, err := recountStops(tx, route.ID); err != nil {
				return err
			}
			routes = append(routes, route)
		}
		result.RoutesCreated = len(routes)

		if !plan.AssignDrivers {
			return nil
		}

		var drivers []model.Driver
		if err := tx.Where("status = ?", model.DriverStatusOffDuty).
			Limit(len(routes)).
			Find(&drivers).Error; err != nil {
			return err
		}
		for i, driver := range drivers {
			if err := tx.Model(&model.Route{}).
				Where("id = ?", routes[i].ID).
				Update("driver_id", driver.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Driver{}).
				Where("id = ?", driver.ID).
				Update("status", model.DriverStatusActive).Error; err != nil {
				return err
			}
		}
		result.DriversAssigned = len(drivers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
