package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/model"
)

// CatalogRepository holds the flat record kinds with no cross-entity
// invariants: compliance documents and training modules.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListTrainingModules(ctx context.Context) ([]model.TrainingModule, error) {
	var modules []model.TrainingModule
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *CatalogRepository) CreateTrainingModule(ctx context.Context, module *model.TrainingModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *CatalogRepository) ListComplianceDocuments(ctx context.Context, driverID *uuid.UUID) ([]model.ComplianceDocument, error) {
	query := r.db.WithContext(ctx).Model(&model.ComplianceDocument{})
	if driverID != nil {
		query = query.Where("driver_id = ?", *driverID)
	}
	var docs []model.ComplianceDocument
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *CatalogRepository) CreateComplianceDocument(ctx context.Context, doc *model.ComplianceDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}
