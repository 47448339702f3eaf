package service

import (
	"context"
	"fmt"
	"strconv"

	"fleet-service/internal/importer"
	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type ImportService struct {
	imports *repository.ImportRepository
	// routeCapacity is the fixed chunk size used when partitioning imported
	// deliveries into routes.
	routeCapacity int
}

func NewImportService(imports *repository.ImportRepository, routeCapacity int) *ImportService {
	return &ImportService{imports: imports, routeCapacity: routeCapacity}
}

type ImportOptions struct {
	OptimizeRoutes bool
	AssignDrivers  bool
}

// headerAliases maps each delivery field to the spreadsheet headers accepted
// for it, in priority order.
var headerAliases = map[string][]string{
	"address":      {"address", "delivery address", "street address", "destination", "addr"},
	"customer":     {"customer", "customer name", "recipient", "client", "name"},
	"packages":     {"packages", "package count", "qty", "quantity", "parcels", "pieces"},
	"time":         {"time", "scheduled time", "delivery time", "window"},
	"phone":        {"phone", "phone number", "contact", "mobile", "telephone"},
	"instructions": {"instructions", "special instructions", "notes", "comments"},
}

// ImportDeliveries turns tabular rows into pending deliveries and optionally
// partitions them into fixed-capacity routes with driver auto-assignment.
// Any malformed row fails the whole import; the store transaction in the
// repository makes the import all-or-nothing.
func (s *ImportService) ImportDeliveries(ctx context.Context, principal model.Principal, rows []importer.Row, opts ImportOptions) (*model.ImportResult, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to import", ErrInvalidInput)
	}

	deliveries := make([]model.Delivery, 0, len(rows))
	for i, row := range rows {
		delivery, err := mapRow(row, i)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}

	plan := repository.ImportPlan{
		Deliveries:    deliveries,
		AssignDrivers: opts.AssignDrivers,
		RouteName:     "Imported route",
	}
	if opts.OptimizeRoutes {
		plan.ChunkSize = s.routeCapacity
	}

	result, err := s.imports.Execute(ctx, plan)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return result, nil
}

func mapRow(row importer.Row, index int) (model.Delivery, error) {
	delivery := model.Delivery{
		Address:             pick(row, "address"),
		CustomerName:        pick(row, "customer"),
		CustomerPhone:       pick(row, "phone"),
		ScheduledTime:       pick(row, "time"),
		SpecialInstructions: pick(row, "instructions"),
		PackageCount:        1,
		Status:              model.DeliveryStatusPending,
		StopNumber:          index + 1,
	}

	if delivery.Address == "" {
		delivery.Address = fmt.Sprintf("Imported stop %d", index+1)
	}
	if delivery.CustomerName == "" {
		delivery.CustomerName = fmt.Sprintf("Customer %d", index+1)
	}

	if raw := pick(row, "packages"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			return model.Delivery{}, fmt.Errorf("%w: row %d has invalid package count %q", ErrInvalidInput, index+1, raw)
		}
		delivery.PackageCount = count
	}

	return delivery, nil
}

func pick(row importer.Row, field string) string {
	for _, alias := range headerAliases[field] {
		if value, ok := row[alias]; ok && value != "" {
			return value
		}
	}
	return ""
}
