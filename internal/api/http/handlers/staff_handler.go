package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexdesk/portal-service/internal/api/dto"
	"github.com/nexdesk/portal-service/internal/service"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// StaffHandler exposes auth endpoints for service-desk staff.
type StaffHandler struct {
	auth *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{auth: authService}
}

// Login handles POST /auth/staff/login. When MFA is enabled the response
// carries mfa_required and no token; the client follows up on /auth/staff/mfa/verify.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp := dto.AuthResponse{Staff: dto.NewStaffResponse(result.Staff), MFA: result.MFARequired}
	if !result.MFARequired {
		resp.Token = result.Token
		resp.ExpiresAt = &result.ExpiresAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// VerifyMFA handles POST /auth/staff/mfa/verify.
func (h *StaffHandler) VerifyMFA(c *fiber.Ctx) error {
	var req dto.VerifyMFARequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.VerifyStaffMFA(c.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     result.Token,
			ExpiresAt: &result.ExpiresAt,
			Staff:     dto.NewStaffResponse(result.Staff),
		},
	})
}
