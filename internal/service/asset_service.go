package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// AssetService manages equipment records and assignment.
type AssetService struct {
	assets repository.AssetRepository
	users  repository.UserRepository
}

// AssetInput describes create/update payloads.
type AssetInput struct {
	AssetTag string
	Name     string
	Kind     string
	Notes    string
}

// NewAssetService constructs the service.
func NewAssetService(assets repository.AssetRepository, users repository.UserRepository) *AssetService {
	return &AssetService{assets: assets, users: users}
}

var assetTransitions = map[domain.AssetStatus][]domain.AssetStatus{
	domain.AssetStatusInStock:  {domain.AssetStatusAssigned, domain.AssetStatusInRepair, domain.AssetStatusRetired},
	domain.AssetStatusAssigned: {domain.AssetStatusInStock, domain.AssetStatusInRepair, domain.AssetStatusRetired},
	domain.AssetStatusInRepair: {domain.AssetStatusInStock, domain.AssetStatusRetired},
	domain.AssetStatusRetired:  {},
}

func isValidAssetTransition(current, next domain.AssetStatus) bool {
	for _, candidate := range assetTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create registers a new asset in stock.
func (s *AssetService) Create(ctx context.Context, input AssetInput) (*domain.Asset, error) {
	if strings.TrimSpace(input.AssetTag) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("asset_tag and name required", nil)
	}
	if _, err := s.assets.GetByTag(ctx, input.AssetTag); err == nil {
		return nil, apperrors.NewConflict("asset tag already exists", map[string]any{"asset_tag": input.AssetTag})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	asset := &domain.Asset{
		AssetTag: strings.TrimSpace(input.AssetTag),
		Name:     strings.TrimSpace(input.Name),
		Kind:     strings.TrimSpace(input.Kind),
		Status:   domain.AssetStatusInStock,
		Notes:    input.Notes,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Update edits descriptive fields; status moves through SetStatus or
// Assign/Unassign.
func (s *AssetService) Update(ctx context.Context, assetID string, input AssetInput) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		asset.Name = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Kind) != "" {
		asset.Kind = strings.TrimSpace(input.Kind)
	}
	asset.Notes = input.Notes
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Assign hands an asset to a user.
func (s *AssetService) Assign(ctx context.Context, assetID, userID string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, apperrors.NewValidationError("unknown user", map[string]any{"user_id": userID})
	}
	if !isValidAssetTransition(asset.Status, domain.AssetStatusAssigned) {
		return nil, assetConflict(asset.Status, domain.AssetStatusAssigned)
	}

	asset.Status = domain.AssetStatusAssigned
	asset.AssignedUserID = &userID
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Unassign returns an asset to stock.
func (s *AssetService) Unassign(ctx context.Context, assetID string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !isValidAssetTransition(asset.Status, domain.AssetStatusInStock) {
		return nil, assetConflict(asset.Status, domain.AssetStatusInStock)
	}

	asset.Status = domain.AssetStatusInStock
	asset.AssignedUserID = nil
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// SetStatus moves an asset along the transition relation.
func (s *AssetService) SetStatus(ctx context.Context, assetID string, status domain.AssetStatus) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !isValidAssetTransition(asset.Status, status) {
		return nil, assetConflict(asset.Status, status)
	}

	asset.Status = status
	if status != domain.AssetStatusAssigned {
		asset.AssignedUserID = nil
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// List returns all assets for staff views.
func (s *AssetService) List(ctx context.Context, limit, offset int) ([]domain.Asset, error) {
	return s.assets.List(ctx, limit, offset)
}

// ListForUser returns assets assigned to the user.
func (s *AssetService) ListForUser(ctx context.Context, userID string) ([]domain.Asset, error) {
	return s.assets.ListByUser(ctx, userID)
}

func assetConflict(from, to domain.AssetStatus) error {
	return apperrors.NewConflict("invalid asset transition", map[string]any{
		"from": from,
		"to":   to,
	})
}
