package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/importer"
	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

func newImportFixture(t *testing.T, routeCapacity int) (*gorm.DB, *ImportService) {
	t.Helper()
	database := openTestDB(t)
	return database, NewImportService(repository.NewImportRepository(database), routeCapacity)
}

func importRows(n int) []importer.Row {
	rows := make([]importer.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, importer.Row{
			"address":  fmt.Sprintf("%d Abay Avenue", i+1),
			"customer": fmt.Sprintf("Customer %d", i+1),
			"packages": "2",
		})
	}
	return rows
}

func TestImportChunksIntoFixedCapacityRoutes(t *testing.T) {
	database, svc := newImportFixture(t, 3)
	ctx := context.Background()

	result, err := svc.ImportDeliveries(ctx, managerPrincipal(), importRows(8), ImportOptions{OptimizeRoutes: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.DeliveriesImported != 8 {
		t.Fatalf("imported = %d, want 8", result.DeliveriesImported)
	}
	if result.RoutesCreated != 3 {
		t.Fatalf("routes = %d, want 3", result.RoutesCreated)
	}

	var routes []model.Route
	if err := database.Order("created_at ASC").Find(&routes).Error; err != nil {
		t.Fatalf("load routes: %v", err)
	}
	totals := 0
	for _, route := range routes {
		if route.TotalStops > 3 {
			t.Fatalf("route %s has %d stops, capacity is 3", route.RouteID, route.TotalStops)
		}
		if route.Status != model.RouteStatusPending {
			t.Fatalf("route status = %s, want pending", route.Status)
		}
		totals += route.TotalStops
	}
	if totals != 8 {
		t.Fatalf("sum of route totals = %d, want 8", totals)
	}
}

func TestImportWithoutOptimizeCreatesNoRoutes(t *testing.T) {
	database, svc := newImportFixture(t, 3)
	ctx := context.Background()

	result, err := svc.ImportDeliveries(ctx, managerPrincipal(), importRows(4), ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.RoutesCreated != 0 {
		t.Fatalf("routes = %d, want 0", result.RoutesCreated)
	}

	var unassigned int64
	if err := database.Model(&model.Delivery{}).Where("route_id IS NULL").Count(&unassigned).Error; err != nil {
		t.Fatalf("count deliveries: %v", err)
	}
	if unassigned != 4 {
		t.Fatalf("unassigned deliveries = %d, want 4", unassigned)
	}
}

func TestImportBadPackageCountFailsWholeUpload(t *testing.T) {
	database, svc := newImportFixture(t, 3)
	ctx := context.Background()

	rows := importRows(3)
	rows[1]["packages"] = "lots"

	if _, err := svc.ImportDeliveries(ctx, managerPrincipal(), rows, ImportOptions{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	var count int64
	if err := database.Model(&model.Delivery{}).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d deliveries persisted from failed import, want 0", count)
	}
}

func TestImportAssignsOffDutyDrivers(t *testing.T) {
	database, svc := newImportFixture(t, 3)
	ctx := context.Background()

	offDuty := []model.Driver{
		{DriverID: "DRV-TEST0001", Name: "First", Status: model.DriverStatusOffDuty},
		{DriverID: "DRV-TEST0002", Name: "Second", Status: model.DriverStatusOffDuty},
	}
	for i := range offDuty {
		if err := database.Create(&offDuty[i]).Error; err != nil {
			t.Fatalf("seed driver: %v", err)
		}
	}
	busy := model.Driver{DriverID: "DRV-TEST0003", Name: "Busy", Status: model.DriverStatusActive}
	if err := database.Create(&busy).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	result, err := svc.ImportDeliveries(ctx, managerPrincipal(), importRows(9), ImportOptions{
		OptimizeRoutes: true,
		AssignDrivers:  true,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.RoutesCreated != 3 {
		t.Fatalf("routes = %d, want 3", result.RoutesCreated)
	}
	if result.DriversAssigned != 2 {
		t.Fatalf("assigned = %d, only 2 drivers were off duty", result.DriversAssigned)
	}

	var activated int64
	if err := database.Model(&model.Driver{}).
		Where("id IN ? AND status = ?", []uuid.UUID{offDuty[0].ID, offDuty[1].ID}, model.DriverStatusActive).
		Count(&activated).Error; err != nil {
		t.Fatalf("count activated: %v", err)
	}
	if activated != 2 {
		t.Fatalf("activated = %d, want 2", activated)
	}

	var assignedRoutes int64
	if err := database.Model(&model.Route{}).Where("driver_id IS NOT NULL").Count(&assignedRoutes).Error; err != nil {
		t.Fatalf("count assigned routes: %v", err)
	}
	if assignedRoutes != 2 {
		t.Fatalf("assigned routes = %d, want 2", assignedRoutes)
	}
}

func TestImportRequiresManager(t *testing.T) {
	_, svc := newImportFixture(t, 3)
	ctx := context.Background()

	driverID := managerPrincipal().UserID
	if _, err := svc.ImportDeliveries(ctx, driverPrincipal(driverID), importRows(1), ImportOptions{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestMapRowDefaults(t *testing.T) {
	delivery, err := mapRow(importer.Row{}, 4)
	if err != nil {
		t.Fatalf("map empty row: %v", err)
	}
	if delivery.Address != "Imported stop 5" {
		t.Fatalf("address = %q", delivery.Address)
	}
	if delivery.CustomerName != "Customer 5" {
		t.Fatalf("customer = %q", delivery.CustomerName)
	}
	if delivery.PackageCount != 1 {
		t.Fatalf("package_count = %d, want 1", delivery.PackageCount)
	}
	if delivery.StopNumber != 5 {
		t.Fatalf("stop_number = %d, want 5", delivery.StopNumber)
	}
}

func TestMapRowHeaderAliases(t *testing.T) {
	delivery, err := mapRow(importer.Row{
		"delivery address": "42 Dostyk",
		"recipient":        "Aliya",
		"qty":              "3",
		"delivery time":    "10:00-12:00",
	}, 0)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if delivery.Address != "42 Dostyk" || delivery.CustomerName != "Aliya" {
		t.Fatalf("aliases not honored: %+v", delivery)
	}
	if delivery.PackageCount != 3 {
		t.Fatalf("package_count = %d, want 3", delivery.PackageCount)
	}
	if delivery.ScheduledTime != "10:00-12:00" {
		t.Fatalf("scheduled_time = %q", delivery.ScheduledTime)
	}
}
