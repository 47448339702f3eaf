package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type RouteService struct {
	routes   *repository.RouteRepository
	drivers  *repository.DriverRepository
	vehicles *repository.VehicleRepository
}

func NewRouteService(
	routes *repository.RouteRepository,
	drivers *repository.DriverRepository,
	vehicles *repository.VehicleRepository,
) *RouteService {
	return &RouteService{
		routes:   routes,
		drivers:  drivers,
		vehicles: vehicles,
	}
}

// driverWritableRouteFields is the set a driver principal may change on their
// own route. Everything else submitted is dropped without error, matching the
// narrowing contract of the update endpoint.
var driverWritableRouteFields = map[string]struct{}{
	"status":          {},
	"completed_stops": {},
	"actual_time":     {},
}

type CreateRouteInput struct {
	RouteID       string
	Name          string
	Status        model.RouteStatus
	EstimatedTime string
	DriverID      *uuid.UUID
	VehicleID     *uuid.UUID
	// DeliveryIDs attaches existing unassigned deliveries to the new route.
	DeliveryIDs []uuid.UUID
}

func (s *RouteService) Create(ctx context.Context, principal model.Principal, input CreateRouteInput) (*model.Route, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = model.RouteStatusPending
	}
	if !validRouteStatus(status) {
		return nil, ErrInvalidInput
	}

	if input.DriverID != nil {
		if _, err := s.drivers.GetByID(ctx, *input.DriverID); err != nil {
			return nil, translateStoreError(err)
		}
	}
	if input.VehicleID != nil {
		if _, err := s.vehicles.GetByID(ctx, *input.VehicleID); err != nil {
			return nil, translateStoreError(err)
		}
	}

	route := &model.Route{
		RouteID:       strings.TrimSpace(input.RouteID),
		Name:          strings.TrimSpace(input.Name),
		Status:        status,
		EstimatedTime: strings.TrimSpace(input.EstimatedTime),
		DriverID:      input.DriverID,
		VehicleID:     input.VehicleID,
	}
	if err := s.routes.Create(ctx, route, input.DeliveryIDs); err != nil {
		return nil, translateStoreError(err)
	}
	return route, nil
}

func (s *RouteService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Route, error) {
	route, err := s.routes.GetByID(ctx, model.ScopeFor(principal), id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return route, nil
}

func (s *RouteService) List(ctx context.Context, principal model.Principal, filter repository.RouteFilter) ([]model.Route, error) {
	filter.Scope = model.ScopeFor(principal)
	routes, err := s.routes.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return routes, nil
}

type UpdateRouteInput struct {
	Name           *string
	Status         *model.RouteStatus
	CompletedStops *int
	EstimatedTime  *string
	ActualTime     *string
	DriverID       *uuid.UUID
	VehicleID      *uuid.UUID
}

// Update edits a route. A driver principal must own the route and only the
// driver-writable fields survive; a manager may write everything. Lifecycle
// rules hold for both: forward-only status moves, completed_stops
// non-decreasing and bounded by total_stops.
func (s *RouteService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateRouteInput) (*model.Route, error) {
	route, err := s.routes.GetByID(ctx, model.Scope{Type: model.ScopeAll}, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	if !model.ScopeFor(principal).AllowsRoute(route.DriverID) {
		return nil, ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.CompletedStops != nil {
		fields["completed_stops"] = *input.CompletedStops
	}
	if input.EstimatedTime != nil {
		fields["estimated_time"] = strings.TrimSpace(*input.EstimatedTime)
	}
	if input.ActualTime != nil {
		fields["actual_time"] = strings.TrimSpace(*input.ActualTime)
	}
	if input.DriverID != nil {
		fields["driver_id"] = *input.DriverID
	}
	if input.VehicleID != nil {
		fields["vehicle_id"] = *input.VehicleID
	}

	// Narrow before validating: a restricted field submitted by a driver is
	// dropped, never rejected.
	if principal.IsDriver() {
		for key := range fields {
			if _, ok := driverWritableRouteFields[key]; !ok {
				delete(fields, key)
			}
		}
	}

	if raw, ok := fields["driver_id"]; ok {
		if _, err := s.drivers.GetByID(ctx, raw.(uuid.UUID)); err != nil {
			return nil, translateStoreError(err)
		}
	}
	if raw, ok := fields["vehicle_id"]; ok {
		if _, err := s.vehicles.GetByID(ctx, raw.(uuid.UUID)); err != nil {
			return nil, translateStoreError(err)
		}
	}
	if raw, ok := fields["status"]; ok {
		next := raw.(model.RouteStatus)
		if !validRouteStatus(next) || !route.Status.CanTransitionTo(next) {
			return nil, ErrInvalidStatus
		}
	}
	if raw, ok := fields["completed_stops"]; ok {
		stops := raw.(int)
		if stops < route.CompletedStops || stops > route.TotalStops {
			return nil, ErrInvalidInput
		}
	}

	updated, err := s.routes.Update(ctx, id, fields)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return updated, nil
}

func (s *RouteService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	return translateStoreError(s.routes.Delete(ctx, id))
}

// TransferStops reassigns deliveries between two routes. Only ids currently
// on the source route move; both routes' total_stops are recomputed from
// membership in the same store transaction.
func (s *RouteService) TransferStops(ctx context.Context, principal model.Principal, deliveryIDs []uuid.UUID, fromID, toID uuid.UUID) (*model.TransferResult, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if fromID == toID {
		return nil, ErrInvalidInput
	}
	result, err := s.routes.TransferStops(ctx, deliveryIDs, fromID, toID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return result, nil
}

func validRouteStatus(status model.RouteStatus) bool {
	switch status {
	case model.RouteStatusPending, model.RouteStatusActive, model.RouteStatusCompleted, model.RouteStatusCancelled:
		return true
	default:
		return false
	}
}
