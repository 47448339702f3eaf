package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

type DeliveryFilter struct {
	Scope        model.Scope
	Statuses     []model.DeliveryStatus
	RouteID      *uuid.UUID
	Unassigned   bool
	CreatedAfter *time.Time
	Search       string
	Limit        int
	Offset       int
}

// Create inserts a delivery. When the delivery lands on a route the route's
// total_stops is recounted, and a zero stop number is replaced with the new
// tail position, inside the same transaction.
func (r *DeliveryRepository) Create(ctx context.Context, delivery *model.Delivery) error {
	generated := delivery.DeliveryID == ""
	var err error
	for i := 0; i < codeAttempts; i++ {
		if generated {
			delivery.DeliveryID = NewCode(CodePrefixDelivery)
		}
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if delivery.RouteID != nil {
				var route model.Route
				if err := tx.First(&route, "id = ?", *delivery.RouteID).Error; err != nil {
					return err
				}
			}
			if err := tx.Create(delivery).Error; err != nil {
				return err
			}
			if delivery.RouteID == nil {
				return nil
			}
			total, err := recountStops(tx, *delivery.RouteID)
			if err != nil {
				return err
			}
			if delivery.StopNumber == 0 {
				delivery.StopNumber = total
				return tx.Model(&model.Delivery{}).
					Where("id = ?", delivery.ID).
					Update("stop_number", total).Error
			}
			return nil
		})
		if err == nil || !generated || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.WithContext(ctx).
		Preload("Route").
		First(&delivery, "deliveries.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) List(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, error) {
	query := r.db.WithContext(ctx).Model(&model.Delivery{})
	query = applyDeliveryScope(query, filter.Scope)

	if len(filter.Statuses) > 0 {
		query = query.Where("deliveries.status IN ?", filter.Statuses)
	}
	if filter.RouteID != nil {
		query = query.Where("deliveries.route_id = ?", *filter.RouteID)
	}
	if filter.Unassigned {
		query = query.Where("deliveries.route_id IS NULL")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("deliveries.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("deliveries.address LIKE ? OR deliveries.customer_name LIKE ?", search, search)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(500)
	}

	var deliveries []model.Delivery
	if err := query.
		Order("deliveries.stop_number ASC, deliveries.created_at DESC").
		Preload("Route").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Update applies the given fields. A route_id change recounts both the old
// and the new owning route in the same transaction so total_stops never
// drifts from actual membership.
func (r *DeliveryRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&delivery, "id = ?", id).Error; err != nil {
			return err
		}
		previousRoute := delivery.RouteID

		var newRoute *uuid.UUID
		reassigned := false
		if raw, ok := fields["route_id"]; ok {
			reassigned = true
			if routeID, isID := raw.(*uuid.UUID); isID && routeID != nil {
				newRoute = routeID
				var route model.Route
				if err := tx.First(&route, "id = ?", *routeID).Error; err != nil {
					return err
				}
			}
		}

		if len(fields) > 0 {
			if err := tx.Model(&delivery).Updates(fields).Error; err != nil {
				return err
			}
		}

		if !reassigned {
			return nil
		}
		if previousRoute != nil {
			if _, err := recountStops(tx, *previousRoute); err != nil {
				return err
			}
		}
		if newRoute != nil && (previousRoute == nil || *newRoute != *previousRoute) {
			if _, err := recountStops(tx, *newRoute); err != nil {
				return err
			}
		}
		// Reload into a zeroed struct: scanning over the populated one keeps
		// stale pointer fields when the column went NULL.
		delivery = model.Delivery{}
		return tx.First(&delivery, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var delivery model.Delivery
		if err := tx.First(&delivery, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Delivery{}, "id = ?", id).Error; err != nil {
			return err
		}
		if delivery.RouteID != nil {
			if _, err := recountStops(tx, *delivery.RouteID); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyDeliveryScope(query *gorm.DB, scope model.Scope) *gorm.DB {
	switch scope.Type {
	case model.ScopeAll:
		return query
	case model.ScopeDriver:
		if scope.DriverID == nil {
			return query.Where("1=0")
		}
		return query.
			Joins("JOIN routes r ON r.id = deliveries.route_id").
			Where("r.driver_id = ?", *scope.DriverID)
	default:
		return query.Where("1=0")
	}
}
