package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type routeFixture struct {
	database   *gorm.DB
	routes     *RouteService
	deliveries *DeliveryService
	drivers    *DriverService
}

func newRouteFixture(t *testing.T) routeFixture {
	t.Helper()
	database := openTestDB(t)
	routeRepo := repository.NewRouteRepository(database)
	driverRepo := repository.NewDriverRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	deliveryRepo := repository.NewDeliveryRepository(database)
	userRepo := repository.NewUserRepository(database)
	return routeFixture{
		database:   database,
		routes:     NewRouteService(routeRepo, driverRepo, vehicleRepo),
		deliveries: NewDeliveryService(deliveryRepo, routeRepo),
		drivers:    NewDriverService(driverRepo, userRepo),
	}
}

func (f routeFixture) createDeliveries(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	manager := managerPrincipal()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		delivery, err := f.deliveries.Create(ctx, manager, CreateDeliveryInput{
			Address: "1 Test Street",
		})
		if err != nil {
			t.Fatalf("create delivery: %v", err)
		}
		ids = append(ids, delivery.ID)
	}
	return ids
}

func (f routeFixture) routeByID(t *testing.T, id uuid.UUID) model.Route {
	t.Helper()
	var route model.Route
	if err := f.database.First(&route, "id = ?", id).Error; err != nil {
		t.Fatalf("load route: %v", err)
	}
	return route
}

func TestCreateRouteAttachmentRecountsStops(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	deliveryIDs := f.createDeliveries(t, 3)
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{
		Name:        "Morning run",
		DeliveryIDs: deliveryIDs,
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if route.TotalStops != 3 {
		t.Fatalf("total_stops = %d, want 3", route.TotalStops)
	}
	if route.RouteID == "" {
		t.Fatalf("expected generated route code")
	}
}

func TestTransferStopsMovesOnlySourceDeliveries(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	fromIDs := f.createDeliveries(t, 3)
	from, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "From", DeliveryIDs: fromIDs})
	if err != nil {
		t.Fatalf("create from route: %v", err)
	}
	to, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "To"})
	if err != nil {
		t.Fatalf("create to route: %v", err)
	}

	elsewhere := f.createDeliveries(t, 1)

	result, err := f.routes.TransferStops(ctx, manager, []uuid.UUID{fromIDs[0], fromIDs[1], elsewhere[0]}, from.ID, to.ID)
	if err != nil {
		t.Fatalf("transfer stops: %v", err)
	}
	if result.Requested != 3 || result.Transferred != 2 {
		t.Fatalf("requested/transferred = %d/%d, want 3/2", result.Requested, result.Transferred)
	}
	if result.FromTotal != 1 || result.ToTotal != 2 {
		t.Fatalf("from/to totals = %d/%d, want 1/2", result.FromTotal, result.ToTotal)
	}

	if got := f.routeByID(t, from.ID).TotalStops; got != 1 {
		t.Fatalf("persisted source total_stops = %d, want 1", got)
	}
	if got := f.routeByID(t, to.ID).TotalStops; got != 2 {
		t.Fatalf("persisted target total_stops = %d, want 2", got)
	}

	var moved model.Delivery
	if err := f.database.First(&moved, "id = ?", fromIDs[0]).Error; err != nil {
		t.Fatalf("load moved delivery: %v", err)
	}
	if moved.RouteID == nil || *moved.RouteID != to.ID {
		t.Fatalf("delivery route_id = %v, want %s", moved.RouteID, to.ID)
	}
}

func TestTransferStopsRejectsSameRoute(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Loop"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if _, err := f.routes.TransferStops(ctx, manager, nil, route.ID, route.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestTransferStopsRequiresManager(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()

	if _, err := f.routes.TransferStops(ctx, driverPrincipal(uuid.New()), nil, uuid.New(), uuid.New()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestDriverRouteUpdateDropsRestrictedFields(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Kanat"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	deliveryIDs := f.createDeliveries(t, 2)
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{
		Name:        "Owned",
		Status:      model.RouteStatusActive,
		DriverID:    &driver.ID,
		DeliveryIDs: deliveryIDs,
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	newName := "Hijacked"
	stops := 1
	updated, err := f.routes.Update(ctx, driverPrincipal(driver.ID), route.ID, UpdateRouteInput{
		Name:           &newName,
		CompletedStops: &stops,
	})
	if err != nil {
		t.Fatalf("driver update: %v", err)
	}
	if updated.Name != "Owned" {
		t.Fatalf("name = %q, driver edit should be dropped", updated.Name)
	}
	if updated.CompletedStops != 1 {
		t.Fatalf("completed_stops = %d, want 1", updated.CompletedStops)
	}
}

func TestDriverRouteUpdateIgnoresBadRestrictedFields(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Courier"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	deliveryIDs := f.createDeliveries(t, 1)
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{
		Name:        "Owned",
		DriverID:    &driver.ID,
		DeliveryIDs: deliveryIDs,
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	// A nonexistent vehicle would fail lookup for a manager, but the field is
	// dropped for a driver before any lookup runs.
	ghost := uuid.New()
	stops := 1
	updated, err := f.routes.Update(ctx, driverPrincipal(driver.ID), route.ID, UpdateRouteInput{
		VehicleID:      &ghost,
		CompletedStops: &stops,
	})
	if err != nil {
		t.Fatalf("driver update: %v", err)
	}
	if updated.VehicleID != nil {
		t.Fatalf("vehicle_id = %v, driver edit should be dropped", updated.VehicleID)
	}
	if updated.CompletedStops != 1 {
		t.Fatalf("completed_stops = %d, want 1", updated.CompletedStops)
	}

	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{VehicleID: &ghost}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("manager ghost vehicle err = %v, want ErrNotFound", err)
	}
}

func TestDriverCannotUpdateForeignRoute(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	owner, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Owner"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Foreign", DriverID: &owner.ID})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	status := model.RouteStatusActive
	if _, err := f.routes.Update(ctx, driverPrincipal(uuid.New()), route.ID, UpdateRouteInput{Status: &status}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestRouteStatusLifecycle(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Lifecycle"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	completed := model.RouteStatusCompleted
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{Status: &completed}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("pending->completed err = %v, want ErrInvalidStatus", err)
	}

	active := model.RouteStatusActive
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{Status: &active}); err != nil {
		t.Fatalf("pending->active: %v", err)
	}
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{Status: &completed}); err != nil {
		t.Fatalf("active->completed: %v", err)
	}

	pending := model.RouteStatusPending
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{Status: &pending}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("completed->pending err = %v, want ErrInvalidStatus", err)
	}
}

func TestCompletedStopsBounds(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	deliveryIDs := f.createDeliveries(t, 2)
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Bounds", DeliveryIDs: deliveryIDs})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	over := 3
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{CompletedStops: &over}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("over total err = %v, want ErrInvalidInput", err)
	}

	two := 2
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{CompletedStops: &two}); err != nil {
		t.Fatalf("set completed_stops: %v", err)
	}

	one := 1
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{CompletedStops: &one}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("decrease err = %v, want ErrInvalidInput", err)
	}
}

func TestRouteDeleteBlockedByPendingDeliveries(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	deliveryIDs := f.createDeliveries(t, 1)
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Busy", DeliveryIDs: deliveryIDs})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	if err := f.routes.Delete(ctx, manager, route.ID); !errors.Is(err, ErrHasActiveWork) {
		t.Fatalf("err = %v, want ErrHasActiveWork", err)
	}

	cancelled := model.DeliveryStatusCancelled
	if _, err := f.deliveries.Update(ctx, manager, deliveryIDs[0], UpdateDeliveryInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel delivery: %v", err)
	}
	if err := f.routes.Delete(ctx, manager, route.ID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}

	var detached model.Delivery
	if err := f.database.First(&detached, "id = ?", deliveryIDs[0]).Error; err != nil {
		t.Fatalf("load delivery: %v", err)
	}
	if detached.RouteID != nil {
		t.Fatalf("delivery still references deleted route")
	}
}

func TestDriverRouteVisibilityScoped(t *testing.T) {
	f := newRouteFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	mine, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if _, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Visible", DriverID: &mine.ID}); err != nil {
		t.Fatalf("create route: %v", err)
	}
	other, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Hidden"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	routes, err := f.routes.List(ctx, driverPrincipal(mine.ID), repository.RouteFilter{})
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 1 || routes[0].Name != "Visible" {
		t.Fatalf("driver sees %d routes, want only their own", len(routes))
	}

	if _, err := f.routes.Get(ctx, driverPrincipal(mine.ID), other.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get foreign route err = %v, want ErrNotFound", err)
	}
}
