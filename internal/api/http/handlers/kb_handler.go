package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexdesk/portal-service/internal/api/dto"
	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/service"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// KBHandler exposes knowledge-base endpoints.
type KBHandler struct {
	service *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// Create POST /api/kb. Staff only.
func (h *KBHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	article, err := h.service.Create(c.Context(), principal.Staff.ID, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update PUT /api/kb/:id. Staff only.
func (h *KBHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	article, err := h.service.Update(c.Context(), c.Params("id"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Get GET /api/kb/:id. User reads count a view; unpublished articles are
// hidden from users.
func (h *KBHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	article, err := h.service.Get(c.Context(), c.Params("id"), principal.Staff != nil)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Search GET /api/kb.
func (h *KBHandler) Search(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	articles, err := h.service.Search(c.Context(), c.Query("q"), principal.Staff != nil, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleListResponse(articles)})
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Tags:      req.Tags,
		Published: req.Published,
	}
}
