package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-kit/helpdesk-ingest/internal/api/dto"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/service"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// TenantsHandler serves tenant and agent provisioning.
type TenantsHandler struct {
	service *service.TenantService
}

// NewTenantsHandler constructs the handler.
func NewTenantsHandler(tenantService *service.TenantService) *TenantsHandler {
	return &TenantsHandler{service: tenantService}
}

// Create POST /api/tenants.
func (h *TenantsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tenant, err := h.service.CreateTenant(c.UserContext(), service.TenantCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Channels: req.Channels,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK(dto.TenantFromDomain(tenant)))
}

// Get GET /api/tenants/:id.
func (h *TenantsHandler) Get(c *fiber.Ctx) error {
	tenantID := c.Params("id")
	if err := requireTenantScope(c, tenantID); err != nil {
		return err
	}
	tenant, err := h.service.GetTenant(c.UserContext(), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.TenantFromDomain(tenant)))
}

// CreateAgent POST /api/tenants/:id/agents.
func (h *TenantsHandler) CreateAgent(c *fiber.Ctx) error {
	tenantID := c.Params("id")
	if err := requireTenantScope(c, tenantID); err != nil {
		return err
	}
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.service.CreateAgent(c.UserContext(), tenantID, service.AgentCreateInput{
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK(dto.AgentFromDomain(agent)))
}

// ListAgents GET /api/tenants/:id/agents.
func (h *TenantsHandler) ListAgents(c *fiber.Ctx) error {
	tenantID := c.Params("id")
	if err := requireTenantScope(c, tenantID); err != nil {
		return err
	}
	agents, err := h.service.ListAgents(c.UserContext(), tenantID)
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.AgentFromDomain(&agents[i]))
	}
	return c.JSON(dto.OK(items))
}

// UpdateAgentStatus PATCH /api/agents/:id/status.
func (h *TenantsHandler) UpdateAgentStatus(c *fiber.Ctx) error {
	var req struct {
		Status domain.AgentStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.UpdateAgentStatus(c.UserContext(), c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(dto.OK(fiber.Map{"status": req.Status}))
}

func requireTenantScope(c *fiber.Ctx, tenantID string) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	if scope := principal.TenantScope(); scope != nil && *scope != tenantID {
		return apperrors.NewNotFound("tenant", nil)
	}
	return nil
}
