package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-kit/helpdesk-ingest/internal/api/dto"
	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/ingest"
	"github.com/support-kit/helpdesk-ingest/internal/service"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// WebhooksHandler exposes the channel intake endpoints.
type WebhooksHandler struct {
	ingestService *service.IngestService
	resolver      *service.ResolverService
}

// NewWebhooksHandler constructs the handler.
func NewWebhooksHandler(ingestService *service.IngestService, resolver *service.ResolverService) *WebhooksHandler {
	return &WebhooksHandler{ingestService: ingestService, resolver: resolver}
}

// WhatsApp POST /webhooks/whatsapp.
func (h *WebhooksHandler) WhatsApp(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestWhatsApp(c.UserContext(), payload)
	return respondIngest(c, result, err)
}

// Telegram POST /webhooks/telegram.
func (h *WebhooksHandler) Telegram(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestTelegram(c.UserContext(), payload)
	return respondIngest(c, result, err)
}

// Phone POST /webhooks/phone.
func (h *WebhooksHandler) Phone(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestPhone(c.UserContext(), payload)
	return respondIngest(c, result, err)
}

// Chatbot POST /webhooks/chatbot.
func (h *WebhooksHandler) Chatbot(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestChatbot(c.UserContext(), payload, c.Query("tenantId"))
	return respondIngest(c, result, err)
}

// Generic POST /webhooks/ticket.
func (h *WebhooksHandler) Generic(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestGeneric(c.UserContext(), payload)
	return respondIngest(c, result, err)
}

// Lead POST /webhooks/lead.
func (h *WebhooksHandler) Lead(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	lead, err := h.ingestService.IngestLead(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OKWithMessage(dto.LeadFromDomain(lead),
		fmt.Sprintf("Lead recorded with %s interest", lead.Interest)))
}

// TenantProbe GET /webhooks/tenant/:token reports the channels the endpoint
// accepts, confirming the token is live.
func (h *WebhooksHandler) TenantProbe(c *fiber.Ctx) error {
	tenant, err := h.authenticateToken(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(fiber.Map{
		"tenant":   tenant.Name,
		"channels": ingest.SupportedTenantChannels,
	}))
}

// TenantGeneric POST /webhooks/tenant/:token.
func (h *WebhooksHandler) TenantGeneric(c *fiber.Ctx) error {
	return h.tenantScoped(c, "")
}

// TenantChannel POST /webhooks/tenant/:token/:channel.
func (h *WebhooksHandler) TenantChannel(c *fiber.Ctx) error {
	return h.tenantScoped(c, c.Params("channel"))
}

func (h *WebhooksHandler) tenantScoped(c *fiber.Ctx, channel string) error {
	tenant, err := h.authenticateToken(c)
	if err != nil {
		return err
	}
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}
	result, err := h.ingestService.IngestForTenant(c.UserContext(), tenant, channel, payload)
	return respondIngest(c, result, err)
}

func (h *WebhooksHandler) authenticateToken(c *fiber.Ctx) (*domain.Tenant, error) {
	tenant, err := h.resolver.ResolveByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid webhook token")
		}
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

func parsePayload(c *fiber.Ctx) (ingest.Payload, error) {
	body := c.Body()
	if len(body) == 0 {
		return ingest.Payload{}, nil
	}
	var payload ingest.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewValidationError("invalid JSON payload", nil)
	}
	return payload, nil
}

func respondIngest(c *fiber.Ctx, result *service.IngestResult, err error) error {
	if err != nil {
		if errors.Is(err, service.ErrDuplicateDelivery) {
			return c.JSON(dto.OKWithMessage(nil, "Duplicate delivery ignored"))
		}
		return err
	}
	message := "Ticket created, awaiting agent assignment"
	if result.Assignee != nil {
		message = fmt.Sprintf("Ticket created and assigned to %s", result.Assignee.Name)
	}
	return c.Status(http.StatusCreated).JSON(dto.OKWithMessage(dto.TicketFromDomain(result.Ticket), message))
}
