package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexdesk/portal-service/internal/api/http/handlers"
	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Staff          *handlers.StaffHandler
	Incidents      *handlers.IncidentsHandler
	Sessions       *handlers.SessionsHandler
	Notifications  *handlers.NotificationsHandler
	KB             *handlers.KBHandler
	Catalog        *handlers.CatalogHandler
	Assets         *handlers.AssetsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/staff/mfa/verify", cfg.Staff.VerifyMFA)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protectedAuth.Post("/password/change", cfg.Users.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	incidents := api.Group("/incidents", auth.RequireAnyRole())
	incidents.Post("", cfg.Incidents.Create)
	incidents.Get("", cfg.Incidents.List)
	incidents.Get("/stats", cfg.Incidents.Stats)
	incidents.Get("/:id", cfg.Incidents.Get)
	incidents.Patch("/:id/status", cfg.Incidents.UpdateStatus)
	incidents.Patch("/:id/assignee", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Incidents.Assign)

	sessions := api.Group("/sessions", auth.RequireUser())
	sessions.Post("", cfg.Sessions.Create)
	sessions.Get("", cfg.Sessions.List)
	sessions.Get("/:id", cfg.Sessions.Get)
	sessions.Post("/:id/approve", cfg.Sessions.Approve)
	sessions.Post("/:id/deny", cfg.Sessions.Deny)
	sessions.Post("/:id/cancel", cfg.Sessions.Cancel)
	sessions.Post("/:id/start", cfg.Sessions.Start)
	sessions.Post("/:id/complete", cfg.Sessions.Complete)
	sessions.Post("/:id/events", cfg.Sessions.AppendEvent)
	sessions.Get("/:id/events", cfg.Sessions.ListEvents)
	sessions.Post("/:id/messages", cfg.Sessions.SendMessage)
	sessions.Get("/:id/messages", cfg.Sessions.ListMessages)
	sessions.Get("/:id/metrics", cfg.Sessions.Metrics)

	notifications := api.Group("/notifications", auth.RequireUser())
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/stream", cfg.Notifications.Stream)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	kb := api.Group("/kb", auth.RequireAnyRole())
	kb.Get("", cfg.KB.Search)
	kb.Post("", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.KB.Create)
	kb.Get("/:id", cfg.KB.Get)
	kb.Put("/:id", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.KB.Update)

	catalog := api.Group("/catalog", auth.RequireAnyRole())
	catalog.Get("", cfg.Catalog.List)
	catalog.Post("", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Catalog.Create)
	catalog.Put("/:id", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Catalog.Update)
	catalog.Post("/:id/request", auth.RequireUser(), cfg.Catalog.RequestItem)

	assets := api.Group("/assets", auth.RequireAnyRole())
	assets.Get("", cfg.Assets.List)
	assets.Post("", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Assets.Create)
	assets.Put("/:id", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Assets.Update)
	assets.Post("/:id/assign", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Assets.Assign)
	assets.Post("/:id/unassign", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Assets.Unassign)
	assets.Patch("/:id/status", auth.RequireStaffRole(domain.StaffRoleAgent, domain.StaffRoleAdmin), cfg.Assets.SetStatus)
}
