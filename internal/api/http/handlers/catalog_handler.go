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

// CatalogHandler exposes the service catalog.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// Create POST /api/catalog. Staff only.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CatalogItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Context(), catalogInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCatalogItemResponse(item)})
}

// Update PUT /api/catalog/:id. Staff only.
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CatalogItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	item, err := h.service.Update(c.Context(), c.Params("id"), catalogInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCatalogItemResponse(item)})
}

// List GET /api/catalog. Users only see active items.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.service.List(c.Context(), principal.Staff != nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CatalogListResponse(items)})
}

// RequestItem POST /api/catalog/:id/request. Opens an incident pre-filled
// from the item's defaults.
func (h *CatalogHandler) RequestItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RequestItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	incident, err := h.service.RequestItem(c.Context(), principal.User.ID, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewIncidentResponse(incident)})
}

func catalogInput(req dto.CatalogItemRequest) service.CatalogItemInput {
	return service.CatalogItemInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		DefaultPriority: domain.IncidentPriority(req.DefaultPriority),
		Active:          req.Active,
	}
}
