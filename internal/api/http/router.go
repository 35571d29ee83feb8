package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/support-kit/helpdesk-ingest/internal/api/http/handlers"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Webhooks       *handlers.WebhooksHandler
	Tickets        *handlers.TicketsHandler
	Tenants        *handlers.TenantsHandler
	Leads          *handlers.LeadsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	webhooks := app.Group("/webhooks")
	webhooks.Post("/whatsapp", cfg.Webhooks.WhatsApp)
	webhooks.Post("/telegram", cfg.Webhooks.Telegram)
	webhooks.Post("/phone", cfg.Webhooks.Phone)
	webhooks.Post("/chatbot", cfg.Webhooks.Chatbot)
	webhooks.Post("/ticket", cfg.Webhooks.Generic)
	webhooks.Post("/lead", cfg.Webhooks.Lead)
	webhooks.Get("/tenant/:token", cfg.Webhooks.TenantProbe)
	webhooks.Post("/tenant/:token", cfg.Webhooks.TenantGeneric)
	webhooks.Post("/tenant/:token/:channel", cfg.Webhooks.TenantChannel)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Post("/tenants", auth.RequireSuperAdmin(), cfg.Tenants.Create)
	api.Get("/tenants/:id", cfg.Tenants.Get)
	api.Post("/tenants/:id/agents", cfg.Tenants.CreateAgent)
	api.Get("/tenants/:id/agents", cfg.Tenants.ListAgents)
	api.Patch("/agents/:id/status", cfg.Tenants.UpdateAgentStatus)
	api.Get("/tickets", cfg.Tickets.List)
	api.Get("/tickets/:id", cfg.Tickets.Get)
	api.Get("/leads", cfg.Leads.List)
	api.Post("/leads/:id/convert", cfg.Leads.Convert)
}
