package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexdesk/portal-service/internal/api/dto"
	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/service"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// SessionsHandler manages remote-desktop session endpoints.
type SessionsHandler struct {
	service *service.SessionService
	tracker *service.SLATracker
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessionService *service.SessionService, tracker *service.SLATracker) *SessionsHandler {
	return &SessionsHandler{service: sessionService, tracker: tracker}
}

// Create POST /api/sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	session, err := h.service.Request(c.Context(), principal.User.ID, req.TargetUserID, req.Purpose)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// List GET /api/sessions.
func (h *SessionsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	sessions, err := h.service.ListForUser(c.Context(), principal.User.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionListResponse(sessions)})
}

// Get GET /api/sessions/:id.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.GetForUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Approve POST /api/sessions/:id/approve.
func (h *SessionsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.Approve(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Deny POST /api/sessions/:id/deny.
func (h *SessionsHandler) Deny(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.Deny(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Cancel POST /api/sessions/:id/cancel.
func (h *SessionsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.Cancel(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Start POST /api/sessions/:id/start.
func (h *SessionsHandler) Start(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.Start(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Complete POST /api/sessions/:id/complete.
func (h *SessionsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.Complete(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	h.tracker.Forget(session.ID)
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// AppendEvent POST /api/sessions/:id/events.
func (h *SessionsHandler) AppendEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TimingEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TimingEventInput{
		EventType:           req.EventType,
		EventTimestamp:      req.EventTimestamp,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
		Notes:               req.Notes,
	}
	event, err := h.service.AppendEvent(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTimingEventResponse(event)})
}

// SendMessage POST /api/sessions/:id/messages.
func (h *SessionsHandler) SendMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SessionMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	message, err := h.service.SendMessage(c.Context(), principal.User.ID, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionMessageResponse(message)})
}

// ListMessages GET /api/sessions/:id/messages. Chat order, oldest first.
func (h *SessionsHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	messages, err := h.service.Messages(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionMessageListResponse(messages)})
}

// ListEvents GET /api/sessions/:id/events. Newest first.
func (h *SessionsHandler) ListEvents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	timingEvents, err := h.service.Events(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TimingEventListResponse(timingEvents)})
}

// Metrics GET /api/sessions/:id/metrics. Recomputes from the event log;
// on a fetch failure the last known snapshot is served.
func (h *SessionsHandler) Metrics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	session, err := h.service.GetForUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	metrics, err := h.tracker.Refresh(c.Context(), session.ID)
	if err != nil {
		if cached, ok := h.tracker.Latest(session.ID); ok {
			return c.JSON(fiber.Map{"data": cached, "stale": true})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}
