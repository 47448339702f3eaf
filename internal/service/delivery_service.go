package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type DeliveryService struct {
	deliveries *repository.DeliveryRepository
	routes     *repository.RouteRepository
}

func NewDeliveryService(deliveries *repository.DeliveryRepository, routes *repository.RouteRepository) *DeliveryService {
	return &DeliveryService{deliveries: deliveries, routes: routes}
}

// driverWritableDeliveryFields mirrors the route narrowing: a driver may only
// report progress and notes on stops of their own route.
var driverWritableDeliveryFields = map[string]struct{}{
	"status": {},
	"notes":  {},
}

type CreateDeliveryInput struct {
	DeliveryID          string
	Address             string
	CustomerName        string
	CustomerPhone       string
	PackageCount        int
	ScheduledTime       string
	SpecialInstructions string
	Latitude            *float64
	Longitude           *float64
	StopNumber          int
	RouteID             *uuid.UUID
}

func (s *DeliveryService) Create(ctx context.Context, principal model.Principal, input CreateDeliveryInput) (*model.Delivery, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, ErrInvalidInput
	}
	if input.PackageCount < 0 {
		return nil, ErrInvalidInput
	}

	delivery := &model.Delivery{
		DeliveryID:          strings.TrimSpace(input.DeliveryID),
		Address:             strings.TrimSpace(input.Address),
		CustomerName:        strings.TrimSpace(input.CustomerName),
		CustomerPhone:       strings.TrimSpace(input.CustomerPhone),
		PackageCount:        input.PackageCount,
		ScheduledTime:       strings.TrimSpace(input.ScheduledTime),
		SpecialInstructions: input.SpecialInstructions,
		Status:              model.DeliveryStatusPending,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		StopNumber:          input.StopNumber,
		RouteID:             input.RouteID,
	}
	if delivery.PackageCount == 0 {
		delivery.PackageCount = 1
	}

	if err := s.deliveries.Create(ctx, delivery); err != nil {
		return nil, translateStoreError(err)
	}
	return delivery, nil
}

func (s *DeliveryService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Delivery, error) {
	delivery, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if principal.IsDriver() && !s.ownsDelivery(principal, delivery) {
		return nil, ErrNotFound
	}
	return delivery, nil
}

func (s *DeliveryService) List(ctx context.Context, principal model.Principal, filter repository.DeliveryFilter) ([]model.Delivery, error) {
	filter.Scope = model.ScopeFor(principal)
	deliveries, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return deliveries, nil
}

type UpdateDeliveryInput struct {
	Address             *string
	CustomerName        *string
	CustomerPhone       *string
	PackageCount        *int
	ScheduledTime       *string
	SpecialInstructions *string
	Status              *model.DeliveryStatus
	Notes               *string
	StopNumber          *int
	RouteID             *uuid.UUID
	ClearRoute          bool
}

// Update edits a delivery. Driver principals must own the delivery through
// its route's assignment and are narrowed to {status, notes}; managers may
// also move the delivery between routes, which recounts both routes inside
// the store transaction.
func (s *DeliveryService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateDeliveryInput) (*model.Delivery, error) {
	delivery, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	if principal.IsDriver() {
		if !s.ownsDelivery(principal, delivery) {
			return nil, ErrPermissionDenied
		}
	} else if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if input.CustomerName != nil {
		fields["customer_name"] = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		fields["customer_phone"] = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.PackageCount != nil {
		fields["package_count"] = *input.PackageCount
	}
	if input.ScheduledTime != nil {
		fields["scheduled_time"] = strings.TrimSpace(*input.ScheduledTime)
	}
	if input.SpecialInstructions != nil {
		fields["special_instructions"] = *input.SpecialInstructions
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.StopNumber != nil {
		fields["stop_number"] = *input.StopNumber
	}
	if input.RouteID != nil {
		fields["route_id"] = input.RouteID
	} else if input.ClearRoute {
		fields["route_id"] = (*uuid.UUID)(nil)
	}

	// Narrow before validating: a restricted field submitted by a driver is
	// dropped, never rejected.
	if principal.IsDriver() {
		for key := range fields {
			if _, ok := driverWritableDeliveryFields[key]; !ok {
				delete(fields, key)
			}
		}
	}

	if raw, ok := fields["package_count"]; ok {
		if raw.(int) <= 0 {
			return nil, ErrInvalidInput
		}
	}
	if raw, ok := fields["status"]; ok {
		next := raw.(model.DeliveryStatus)
		if !validDeliveryStatus(next) || !delivery.Status.CanTransitionTo(next) {
			return nil, ErrInvalidStatus
		}
	}

	updated, err := s.deliveries.Update(ctx, id, fields)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return updated, nil
}

func (s *DeliveryService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	return translateStoreError(s.deliveries.Delete(ctx, id))
}

func (s *DeliveryService) ownsDelivery(principal model.Principal, delivery *model.Delivery) bool {
	if principal.DriverID == nil || delivery.Route == nil || delivery.Route.DriverID == nil {
		return false
	}
	return *delivery.Route.DriverID == *principal.DriverID
}

func validDeliveryStatus(status model.DeliveryStatus) bool {
	switch status {
	case model.DeliveryStatusPending, model.DeliveryStatusInProgress, model.DeliveryStatusCompleted, model.DeliveryStatusCancelled:
		return true
	default:
		return false
	}
}
