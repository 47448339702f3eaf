package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

type RouteFilter struct {
	Scope    model.Scope
	Statuses []model.RouteStatus
	DriverID *uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

// Create inserts the route and optionally attaches existing unassigned
// deliveries. total_stops is recounted from actual membership before the
// transaction commits.
func (r *RouteRepository) Create(ctx context.Context, route *model.Route, attach []uuid.UUID) error {
	generated := route.RouteID == ""
	var err error
	for i := 0; i < codeAttempts; i++ {
		if generated {
			route.RouteID = NewCode(CodePrefixRoute)
		}
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(route).Error; err != nil {
				return err
			}
			if len(attach) > 0 {
				if err := tx.Model(&model.Delivery{}).
					Where("id IN ? AND route_id IS NULL", attach).
					Update("route_id", route.ID).Error; err != nil {
					return err
				}
			}
			total, err := recountStops(tx, route.ID)
			if err != nil {
				return err
			}
			route.TotalStops = total
			return nil
		})
		if err == nil || !generated || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func (r *RouteRepository) GetByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Route, error) {
	query := r.db.WithContext(ctx).Model(&model.Route{}).Where("routes.id = ?", id)
	query = applyRouteScope(query, scope)

	var route model.Route
	err := query.
		Preload("Driver").
		Preload("Vehicle").
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB {
			return db.Order("deliveries.stop_number ASC")
		}).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepository) List(ctx context.Context, filter RouteFilter) ([]model.Route, error) {
	query := r.db.WithContext(ctx).Model(&model.Route{})
	query = applyRouteScope(query, filter.Scope)

	if len(filter.Statuses) > 0 {
		query = query.Where("routes.status IN ?", filter.Statuses)
	}
	if filter.DriverID != nil {
		query = query.Where("routes.driver_id = ?", *filter.DriverID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("routes.name LIKE ? OR routes.route_id LIKE ?", search, search)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var routes []model.Route
	if err := query.
		Order("routes.created_at DESC").
		Preload("Driver").
		Preload("Vehicle").
		Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *RouteRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Route, error) {
	var route model.Route
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&route, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&route).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// Delete removes a route unless it still owns pending or in-progress
// deliveries. Remaining (terminal) deliveries are detached inside the same
// transaction.
func (r *RouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var route model.Route
		if err := tx.First(&route, "id = ?", id).Error; err != nil {
			return err
		}

		var blocking int64
		if err := tx.Model(&model.Delivery{}).
			Where("route_id = ? AND status IN ?", id, []model.DeliveryStatus{model.DeliveryStatusPending, model.DeliveryStatusInProgress}).
			Count(&blocking).Error; err != nil {
			return err
		}
		if blocking > 0 {
			return ActiveWorkError{Blocking: blocking}
		}

		if err := tx.Model(&model.Delivery{}).
			Where("route_id = ?", id).
			Update("route_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Route{}, "id = ?", id).Error
	})
}

// TransferStops moves the given deliveries from one route to another and
// recounts both routes' total_stops from actual membership, all in one
// transaction. Ids not currently owned by the source route are skipped; the
// result reports how many rows actually moved.
func (r *RouteRepository) TransferStops(ctx context.Context, deliveryIDs []uuid.UUID, fromID, toID uuid.UUID) (*model.TransferResult, error) {
	result := &model.TransferResult{Requested: len(deliveryIDs)}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var from, to model.Route
		if err := tx.First(&from, "id = ?", fromID).Error; err != nil {
			return err
		}
		if err := tx.First(&to, "id = ?", toID).Error; err != nil {
			return err
		}

		if len(deliveryIDs) > 0 {
			moved := tx.Model(&model.Delivery{}).
				Where("id IN ? AND route_id = ?", deliveryIDs, fromID).
				Update("route_id", toID)
			if moved.Error != nil {
				return moved.Error
			}
			result.Transferred = int(moved.RowsAffected)
		}

		fromTotal, err := recountStops(tx, fromID)
		if err != nil {
			return err
		}
		toTotal, err := recountStops(tx, toID)
		if err != nil {
			return err
		}
		result.FromTotal = fromTotal
		result.ToTotal = toTotal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyRouteScope(query *gorm.DB, scope model.Scope) *gorm.DB {
	switch scope.Type {
	case model.ScopeAll:
		return query
	case model.ScopeDriver:
		if scope.DriverID == nil {
			return query.Where("1=0")
		}
		return query.Where("routes.driver_id = ?", *scope.DriverID)
	default:
		return query.Where("1=0")
	}
}

// recountStops persists total_stops from the actual delivery membership of a
// route. Must run inside the transaction that changed membership.
func recountStops(tx *gorm.DB, routeID uuid.UUID) (int, error) {
	var count int64
	if err := tx.Model(&model.Delivery{}).
		Where("route_id = ?", routeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&model.Route{}).
		Where("id = ?", routeID).
		Update("total_stops", count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
