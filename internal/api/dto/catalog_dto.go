package dto

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// CatalogItemRequest payload for create/update.
type CatalogItemRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DefaultPriority string `json:"default_priority" validate:"required"`
	Active          bool   `json:"active"`
}

// RequestItemRequest is the body for ordering a catalog item.
type RequestItemRequest struct {
	Notes string `json:"notes"`
}

// CatalogItemResponse serializes a catalog entry.
type CatalogItemResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	DefaultPriority string    `json:"default_priority"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCatalogItemResponse maps the domain model.
func NewCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category,
		DefaultPriority: string(item.DefaultPriority),
		Active:          item.Active,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// CatalogListResponse maps a slice of catalog items.
func CatalogListResponse(items []domain.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCatalogItemResponse(&items[i]))
	}
	return out
}
