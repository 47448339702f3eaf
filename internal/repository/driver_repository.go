package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
)

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

type DriverFilter struct {
	Statuses   []model.DriverStatus
	HasAccount *bool
	Search     string
	Limit      int
	Offset     int
}

func (r *DriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	if driver.DriverID != "" {
		return r.db.WithContext(ctx).Create(driver).Error
	}
	var err error
	for i := 0; i < codeAttempts; i++ {
		driver.DriverID = NewCode(CodePrefixDriver)
		err = r.db.WithContext(ctx).Create(driver).Error
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).First(&driver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) GetByEmail(ctx context.Context, email string) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.WithContext(ctx).First(&driver, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) List(ctx context.Context, filter DriverFilter) ([]model.Driver, error) {
	query := r.db.WithContext(ctx).Model(&model.Driver{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.HasAccount != nil {
		query = query.Where("has_account = ?", *filter.HasAccount)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR driver_id LIKE ?", search, search)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var drivers []model.Driver
	if err := query.Order("created_at DESC").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// Update applies the given fields. When the email changes for a driver with a
// login, the linked credential's email is rewritten in the same transaction so
// the two records never drift apart.
func (r *DriverRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&driver, "id = ?", id).Error; err != nil {
			return err
		}
		if email, ok := fields["email"].(string); ok && driver.HasAccount && email != driver.Email {
			if err := tx.Model(&model.User{}).
				Where("email = ? AND role = ?", driver.Email, model.UserRoleDriver).
				Update("email", email).Error; err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&driver).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// Delete removes a driver and its linked credential. The active-route guard
// runs inside the transaction; a driver still owning pending or active routes
// aborts with ActiveWorkError.
func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var driver model.Driver
		if err := tx.First(&driver, "id = ?", id).Error; err != nil {
			return err
		}

		var blocking int64
		if err := tx.Model(&model.Route{}).
			Where("driver_id = ? AND status IN ?", id, []model.RouteStatus{model.RouteStatusPending, model.RouteStatusActive}).
			Count(&blocking).Error; err != nil {
			return err
		}
		if blocking > 0 {
			return ActiveWorkError{Blocking: blocking}
		}

		if driver.HasAccount && driver.Email != "" {
			if err := tx.Where("email = ? AND role = ?", driver.Email, model.UserRoleDriver).
				Delete(&model.User{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Route{}).
			Where("driver_id = ?", id).
			Update("driver_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Driver{}, "id = ?", id).Error
	})
}

// CreateAccount writes the credential and flips has_account together. The
// unique index on users.email makes a concurrent duplicate creation fail the
// whole transaction instead of leaving a half-linked account.
func (r *DriverRepository) CreateAccount(ctx context.Context, driverID uuid.UUID, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Model(&model.Driver{}).
			Where("id = ?", driverID).
			Update("has_account", true).Error
	})
}

