package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type DriverService struct {
	drivers *repository.DriverRepository
	users   *repository.UserRepository
}

func NewDriverService(drivers *repository.DriverRepository, users *repository.UserRepository) *DriverService {
	return &DriverService{drivers: drivers, users: users}
}

type CreateDriverInput struct {
	DriverID      string
	Name          string
	Phone         string
	Email         string
	LicenseNumber string
	LicenseExpiry *time.Time
	Status        model.DriverStatus
	SafetyScore   *float64
}

func (s *DriverService) Create(ctx context.Context, principal model.Principal, input CreateDriverInput) (*model.Driver, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = model.DriverStatusOffDuty
	}
	if !validDriverStatus(status) {
		return nil, ErrInvalidInput
	}

	driver := &model.Driver{
		DriverID:      strings.TrimSpace(input.DriverID),
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		LicenseNumber: strings.TrimSpace(input.LicenseNumber),
		LicenseExpiry: input.LicenseExpiry,
		Status:        status,
		SafetyScore:   5.0,
	}
	if input.SafetyScore != nil {
		driver.SafetyScore = *input.SafetyScore
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, translateStoreError(err)
	}
	return driver, nil
}

// Get returns a driver record. Managers see everyone; a driver principal only
// their own profile.
func (s *DriverService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Driver, error) {
	if principal.IsDriver() && (principal.DriverID == nil || *principal.DriverID != id) {
		return nil, ErrPermissionDenied
	}
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return driver, nil
}

func (s *DriverService) List(ctx context.Context, principal model.Principal, filter repository.DriverFilter) ([]model.Driver, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	drivers, err := s.drivers.List(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return drivers, nil
}

type UpdateDriverInput struct {
	Name          *string
	Phone         *string
	Email         *string
	LicenseNumber *string
	LicenseExpiry *time.Time
	Status        *model.DriverStatus
	SafetyScore   *float64
}

// Update applies manager edits. An email change for a driver with a login
// keeps the credential in sync inside the repository transaction.
func (s *DriverService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateDriverInput) (*model.Driver, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.LicenseNumber != nil {
		fields["license_number"] = strings.TrimSpace(*input.LicenseNumber)
	}
	if input.LicenseExpiry != nil {
		fields["license_expiry"] = *input.LicenseExpiry
	}
	if input.Status != nil {
		if !validDriverStatus(*input.Status) {
			return nil, ErrInvalidInput
		}
		fields["status"] = *input.Status
	}
	if input.SafetyScore != nil {
		fields["safety_score"] = *input.SafetyScore
	}

	driver, err := s.drivers.Update(ctx, id, fields)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return driver, nil
}

// Delete removes a driver and its credential; the active-route guard and the
// credential cleanup run inside one store transaction.
func (s *DriverService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	return translateStoreError(s.drivers.Delete(ctx, id))
}

// CreateAccount provisions a driver login. The credential insert and the
// has_account flip commit together; a concurrent duplicate fails the whole
// transaction via the unique email index.
func (s *DriverService) CreateAccount(ctx context.Context, principal model.Principal, driverID uuid.UUID, password string) (*model.Driver, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if len(password) < 6 {
		return nil, ErrInvalidInput
	}

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if driver.Email == "" {
		return nil, ErrMissingEmail
	}
	if driver.HasAccount {
		return nil, ErrAccountExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     usernameFromEmail(driver.Email),
		Email:        driver.Email,
		PasswordHash: hash,
		Role:         model.UserRoleDriver,
	}
	if err := s.drivers.CreateAccount(ctx, driver.ID, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, translateStoreError(err)
	}

	driver.HasAccount = true
	return driver, nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func validDriverStatus(status model.DriverStatus) bool {
	switch status {
	case model.DriverStatusOffDuty, model.DriverStatusActive, model.DriverStatusInactive:
		return true
	default:
		return false
	}
}
