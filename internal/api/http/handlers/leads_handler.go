package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/support-kit/helpdesk-ingest/internal/api/dto"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/service"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// LeadsHandler serves the leads pipeline endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs the handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// List GET /api/leads.
func (h *LeadsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	tenantID := c.Query("tenantId")
	if scope := principal.TenantScope(); scope != nil {
		tenantID = *scope
	}
	if tenantID == "" {
		return apperrors.NewValidationError("tenantId is required", nil)
	}
	leads, err := h.service.ListLeads(c.UserContext(), tenantID,
		parseIntDefault(c.Query("limit"), 50), parseIntDefault(c.Query("offset"), 0))
	if err != nil {
		return err
	}
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, dto.LeadFromDomain(&leads[i]))
	}
	return c.JSON(dto.OK(items))
}

// Convert POST /api/leads/:id/convert.
func (h *LeadsHandler) Convert(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	existing, err := h.service.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if scope := principal.TenantScope(); scope != nil && existing.TenantID != *scope {
		return apperrors.NewNotFound("lead", nil)
	}
	lead, ticket, err := h.service.ConvertLead(c.UserContext(), existing.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKWithMessage(fiber.Map{
		"lead":   dto.LeadFromDomain(lead),
		"ticket": dto.TicketFromDomain(ticket),
	}, "Lead converted to ticket "+ticket.ExternalKey))
}
