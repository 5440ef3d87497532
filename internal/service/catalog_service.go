package service

import (
	"context"
	"strings"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// CatalogService manages the service catalog. Requesting an item opens an
// incident pre-filled from the item's defaults.
type CatalogService struct {
	catalog   repository.CatalogRepository
	incidents *IncidentService
}

// CatalogItemInput describes create/update payloads.
type CatalogItemInput struct {
	Name            string
	Description     string
	Category        string
	DefaultPriority domain.IncidentPriority
	Active          bool
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog repository.CatalogRepository, incidents *IncidentService) *CatalogService {
	return &CatalogService{catalog: catalog, incidents: incidents}
}

// Create adds a catalog item.
func (s *CatalogService) Create(ctx context.Context, input CatalogItemInput) (*domain.CatalogItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.DefaultPriority == "" {
		input.DefaultPriority = domain.IncidentPriorityMedium
	}
	item := &domain.CatalogItem{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        strings.TrimSpace(input.Category),
		DefaultPriority: input.DefaultPriority,
		Active:          input.Active,
	}
	if err := s.catalog.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update rewrites a catalog item.
func (s *CatalogService) Update(ctx context.Context, itemID string, input CatalogItemInput) (*domain.CatalogItem, error) {
	item, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	item.Name = strings.TrimSpace(input.Name)
	item.Description = input.Description
	item.Category = strings.TrimSpace(input.Category)
	if input.DefaultPriority != "" {
		item.DefaultPriority = input.DefaultPriority
	}
	item.Active = input.Active
	if err := s.catalog.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns catalog items; end-users only see active ones.
func (s *CatalogService) List(ctx context.Context, staffViewer bool) ([]domain.CatalogItem, error) {
	return s.catalog.List(ctx, !staffViewer)
}

// RequestItem opens an incident for the user from the item's defaults.
func (s *CatalogService) RequestItem(ctx context.Context, userID, itemID, notes string) (*domain.Incident, error) {
	item, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, apperrors.NewConflict("catalog item inactive", nil)
	}

	description := strings.TrimSpace(notes)
	if description == "" {
		description = item.Description
	}
	return s.incidents.Create(ctx, userID, IncidentCreateInput{
		Title:       "Service request: " + item.Name,
		Description: description,
		Category:    item.Category,
		Priority:    item.DefaultPriority,
	})
}
