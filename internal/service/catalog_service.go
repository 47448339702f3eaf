package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type CatalogService struct {
	catalog *repository.CatalogRepository
}

func NewCatalogService(catalog *repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListTrainingModules(ctx context.Context, principal model.Principal) ([]model.TrainingModule, error) {
	modules, err := s.catalog.ListTrainingModules(ctx)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return modules, nil
}

type CreateTrainingModuleInput struct {
	Title           string
	Category        string
	DurationMinutes int
	Required        bool
}

func (s *CatalogService) CreateTrainingModule(ctx context.Context, principal model.Principal, input CreateTrainingModuleInput) (*model.TrainingModule, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidInput
	}
	module := &model.TrainingModule{
		Title:           strings.TrimSpace(input.Title),
		Category:        strings.TrimSpace(input.Category),
		DurationMinutes: input.DurationMinutes,
		Required:        input.Required,
	}
	if err := s.catalog.CreateTrainingModule(ctx, module); err != nil {
		return nil, translateStoreError(err)
	}
	return module, nil
}

// ListComplianceDocuments scopes driver principals to their own documents.
func (s *CatalogService) ListComplianceDocuments(ctx context.Context, principal model.Principal) ([]model.ComplianceDocument, error) {
	var driverID *uuid.UUID
	if principal.IsDriver() {
		if principal.DriverID == nil {
			return nil, ErrDriverProfileMissing
		}
		driverID = principal.DriverID
	}
	docs, err := s.catalog.ListComplianceDocuments(ctx, driverID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return docs, nil
}

type CreateComplianceDocumentInput struct {
	DriverID   *uuid.UUID
	Name       string
	Type       string
	Status     string
	ExpiryDate *time.Time
}

func (s *CatalogService) CreateComplianceDocument(ctx context.Context, principal model.Principal, input CreateComplianceDocumentInput) (*model.ComplianceDocument, error) {
	if !principal.IsManager() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	doc := &model.ComplianceDocument{
		DriverID:   input.DriverID,
		Name:       strings.TrimSpace(input.Name),
		Type:       strings.TrimSpace(input.Type),
		Status:     strings.TrimSpace(input.Status),
		ExpiryDate: input.ExpiryDate,
	}
	if doc.Status == "" {
		doc.Status = "valid"
	}
	if err := s.catalog.CreateComplianceDocument(ctx, doc); err != nil {
		return nil, translateStoreError(err)
	}
	return doc, nil
}
