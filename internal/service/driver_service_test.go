package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type driverFixture struct {
	database *gorm.DB
	drivers  *DriverService
	routes   *RouteService
}

func newDriverFixture(t *testing.T) driverFixture {
	t.Helper()
	database := openTestDB(t)
	driverRepo := repository.NewDriverRepository(database)
	userRepo := repository.NewUserRepository(database)
	routeRepo := repository.NewRouteRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	return driverFixture{
		database: database,
		drivers:  NewDriverService(driverRepo, userRepo),
		routes:   NewRouteService(routeRepo, driverRepo, vehicleRepo),
	}
}

func TestCreateDriverGeneratesCode(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()

	driver, err := f.drivers.Create(ctx, managerPrincipal(), CreateDriverInput{Name: "Aset"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if driver.DriverID == "" {
		t.Fatalf("expected generated driver code")
	}
	if driver.Status != model.DriverStatusOffDuty {
		t.Fatalf("status = %s, want off_duty default", driver.Status)
	}
	if driver.SafetyScore != 5.0 {
		t.Fatalf("safety_score = %v, want 5.0 default", driver.SafetyScore)
	}
}

func TestCreateAccountOnceOnly(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{
		Name:  "Bauyrzhan",
		Email: "bauyrzhan@fleet.kz",
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}

	updated, err := f.drivers.CreateAccount(ctx, manager, driver.ID, "secret123")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if !updated.HasAccount {
		t.Fatalf("has_account not flipped")
	}

	var user model.User
	if err := f.database.First(&user, "email = ?", "bauyrzhan@fleet.kz").Error; err != nil {
		t.Fatalf("load credential: %v", err)
	}
	if user.Username != "bauyrzhan" {
		t.Fatalf("username = %q, want local part of email", user.Username)
	}
	if user.Role != model.UserRoleDriver {
		t.Fatalf("role = %s, want driver", user.Role)
	}

	if _, err := f.drivers.CreateAccount(ctx, manager, driver.ID, "secret123"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("second create err = %v, want ErrAccountExists", err)
	}
}

func TestCreateAccountRequiresEmail(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "NoEmail"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if _, err := f.drivers.CreateAccount(ctx, manager, driver.ID, "secret123"); !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("err = %v, want ErrMissingEmail", err)
	}
}

func TestDeleteDriverBlockedByActiveRoute(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{
		Name:  "Busy",
		Email: "busy@fleet.kz",
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if _, err := f.drivers.CreateAccount(ctx, manager, driver.ID, "secret123"); err != nil {
		t.Fatalf("create account: %v", err)
	}
	route, err := f.routes.Create(ctx, manager, CreateRouteInput{Name: "Assigned", DriverID: &driver.ID})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}

	if err := f.drivers.Delete(ctx, manager, driver.ID); !errors.Is(err, ErrHasActiveWork) {
		t.Fatalf("err = %v, want ErrHasActiveWork", err)
	}

	cancelled := model.RouteStatusCancelled
	if _, err := f.routes.Update(ctx, manager, route.ID, UpdateRouteInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel route: %v", err)
	}
	if err := f.drivers.Delete(ctx, manager, driver.ID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}

	var credentials int64
	if err := f.database.Model(&model.User{}).Where("email = ?", "busy@fleet.kz").Count(&credentials).Error; err != nil {
		t.Fatalf("count credentials: %v", err)
	}
	if credentials != 0 {
		t.Fatalf("credential survived driver deletion")
	}

	var detached model.Route
	if err := f.database.First(&detached, "id = ?", route.ID).Error; err != nil {
		t.Fatalf("load route: %v", err)
	}
	if detached.DriverID != nil {
		t.Fatalf("route still references deleted driver")
	}
}

func TestDriverEmailChangeSyncsCredential(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	driver, err := f.drivers.Create(ctx, manager, CreateDriverInput{
		Name:  "Renamed",
		Email: "old@fleet.kz",
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if _, err := f.drivers.CreateAccount(ctx, manager, driver.ID, "secret123"); err != nil {
		t.Fatalf("create account: %v", err)
	}

	email := "new@fleet.kz"
	if _, err := f.drivers.Update(ctx, manager, driver.ID, UpdateDriverInput{Email: &email}); err != nil {
		t.Fatalf("update email: %v", err)
	}

	var user model.User
	if err := f.database.First(&user, "email = ?", email).Error; err != nil {
		t.Fatalf("credential not rewritten: %v", err)
	}
}

func TestDriverSelfAccessOnly(t *testing.T) {
	f := newDriverFixture(t)
	ctx := context.Background()
	manager := managerPrincipal()

	mine, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	other, err := f.drivers.Create(ctx, manager, CreateDriverInput{Name: "Other"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}

	principal := driverPrincipal(mine.ID)
	if _, err := f.drivers.Get(ctx, principal, mine.ID); err != nil {
		t.Fatalf("self get: %v", err)
	}
	if _, err := f.drivers.Get(ctx, principal, other.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("foreign get err = %v, want ErrPermissionDenied", err)
	}
	if _, err := f.drivers.List(ctx, principal, repository.DriverFilter{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("list err = %v, want ErrPermissionDenied", err)
	}
}
