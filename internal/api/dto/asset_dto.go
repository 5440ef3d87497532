package dto

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// CreateAssetRequest payload for registering equipment.
type CreateAssetRequest struct {
	AssetTag string `json:"asset_tag" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind"`
	Notes    string `json:"notes"`
}

// UpdateAssetRequest payload for editing asset metadata.
type UpdateAssetRequest struct {
	Name  string `json:"name" validate:"required"`
	Kind  string `json:"kind"`
	Notes string `json:"notes"`
}

// AssignAssetRequest binds an asset to an end-user.
type AssignAssetRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// SetAssetStatusRequest moves an asset through its lifecycle.
type SetAssetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssetResponse serializes a managed asset.
type AssetResponse struct {
	ID             string    `json:"id"`
	AssetTag       string    `json:"asset_tag"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	AssignedUserID *string   `json:"assigned_user_id,omitempty"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAssetResponse maps the domain model.
func NewAssetResponse(asset *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             asset.ID,
		AssetTag:       asset.AssetTag,
		Name:           asset.Name,
		Kind:           asset.Kind,
		Status:         string(asset.Status),
		AssignedUserID: asset.AssignedUserID,
		Notes:          asset.Notes,
		CreatedAt:      asset.CreatedAt,
		UpdatedAt:      asset.UpdatedAt,
	}
}

// AssetListResponse maps a slice of assets.
func AssetListResponse(assets []domain.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		out = append(out, NewAssetResponse(&assets[i]))
	}
	return out
}
