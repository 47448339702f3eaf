package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type VehicleService struct {
	vehicles *repository.VehicleRepository
}

func NewVehicleService(vehicles *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

type CreateVehicleInput struct {
	VehicleID       string
	Type            string
	Status          model.VehicleStatus
	Mileage         float64
	LastMaintenance *time.Time
}

func (s *VehicleService) Create(ctx context.Context, principal model.Principal, input CreateVehicleInput) (*model.Vehicle, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	status := input.Status
	if status == "" {
		status = model.VehicleStatusActive
	}
	if !validVehicleStatus(status) {
		return nil, ErrInvalidInput
	}

	vehicle := &model.Vehicle{
		VehicleID:       strings.TrimSpace(input.VehicleID),
		Type:            strings.TrimSpace(input.Type),
		Status:          status,
		Mileage:         input.Mileage,
		LastMaintenance: input.LastMaintenance,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, translateStoreError(err)
	}
	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context, principal model.Principal, filter repository.VehicleFilter) ([]model.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return vehicles, nil
}

type UpdateVehicleInput struct {
	Type            *string
	Status          *model.VehicleStatus
	Mileage         *float64
	LastMaintenance *time.Time
}

func (s *VehicleService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateVehicleInput) (*model.Vehicle, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if input.Type != nil {
		fields["type"] = strings.TrimSpace(*input.Type)
	}
	if input.Status != nil {
		if !validVehicleStatus(*input.Status) {
			return nil, ErrInvalidInput
		}
		fields["status"] = *input.Status
	}
	if input.Mileage != nil {
		fields["mileage"] = *input.Mileage
	}
	if input.LastMaintenance != nil {
		fields["last_maintenance"] = *input.LastMaintenance
	}

	vehicle, err := s.vehicles.Update(ctx, id, fields)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	return translateStoreError(s.vehicles.Delete(ctx, id))
}

func validVehicleStatus(status model.VehicleStatus) bool {
	switch status {
	case model.VehicleStatusActive, model.VehicleStatusMaintenance, model.VehicleStatusRetired:
		return true
	default:
		return false
	}
}
