package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexdesk/portal-service/internal/api/dto"
	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/service"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// AssetsHandler exposes asset management endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// Create POST /api/assets. Staff only.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.Create(c.Context(), service.AssetInput{
		AssetTag: req.AssetTag,
		Name:     req.Name,
		Kind:     req.Kind,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// Update PUT /api/assets/:id. Staff only.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.Update(c.Context(), c.Params("id"), service.AssetInput{
		Name:  req.Name,
		Kind:  req.Kind,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// Assign POST /api/assets/:id/assign. Staff only.
func (h *AssetsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.AssignAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.Assign(c.Context(), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// Unassign POST /api/assets/:id/unassign. Staff only.
func (h *AssetsHandler) Unassign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	asset, err := h.service.Unassign(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// SetStatus PATCH /api/assets/:id/status. Staff only.
func (h *AssetsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.SetAssetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	asset, err := h.service.SetStatus(c.Context(), c.Params("id"), domain.AssetStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssetResponse(asset)})
}

// List GET /api/assets. Staff see the full register; users see their own
// assigned equipment.
func (h *AssetsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.User != nil {
		assets, err := h.service.ListForUser(c.Context(), principal.User.ID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.AssetListResponse(assets)})
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	assets, err := h.service.List(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssetListResponse(assets)})
}
