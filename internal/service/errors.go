package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fleet-service/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDriverProfileMissing = errors.New("no driver profile linked to this account")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateKey         = errors.New("duplicate value for unique field")
	ErrMissingEmail         = errors.New("driver has no email on file")
	ErrAccountExists        = errors.New("account already exists")
	ErrHasActiveWork        = errors.New("blocked by active work")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidStatus        = errors.New("invalid status transition")
)

// translateStoreError lifts store failures into the service taxonomy.
// Anything unmatched passes through untouched and surfaces as a system error.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	var activeWork repository.ActiveWorkError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.As(err, &activeWork):
		return fmt.Errorf("%w: %d pending or active dependents", ErrHasActiveWork, activeWork.Blocking)
	default:
		return err
	}
}
