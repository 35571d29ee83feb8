package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/support-kit/helpdesk-ingest/internal/api/dto"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	"github.com/support-kit/helpdesk-ingest/internal/service"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// TicketsHandler serves dashboard ticket reads.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	filter := parseTicketQuery(c)
	if scope := principal.TenantScope(); scope != nil {
		filter.TenantID = scope
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(dto.OK(items))
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if scope := principal.TenantScope(); scope != nil && ticket.TenantID != *scope {
		return apperrors.NewNotFound("ticket", nil)
	}
	return c.JSON(dto.OK(dto.TicketFromDomain(ticket)))
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if tenantID := c.Query("tenantId"); tenantID != "" {
		filter.TenantID = &tenantID
	}
	if channel := c.Query("channel"); channel != "" {
		filter.Channel = &channel
	}
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}
	if assignee := c.Query("assigneeId"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.Limit = parseIntDefault(c.Query("limit"), 50)
	filter.Offset = parseIntDefault(c.Query("offset"), 0)
	return filter
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &ts
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
