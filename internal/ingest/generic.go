package ingest

import (
	"strings"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ParseGeneric normalizes the universal multi-channel payload. The caller
// names its own channel (default "web") and tenant resolution tries explicit
// tenantId, then phone, telegram, and email signals in that order.
func ParseGeneric(p Payload) (*Submission, error) {
	channel := p.First("channel", "source")
	if channel == "" {
		channel = string(domain.ChannelWeb)
	}

	sub := parseGenericFields(p, domain.ChannelKind(channel))
	if sub.Description == "" {
		return nil, apperrors.NewValidationError("Description is required", nil)
	}

	sub.TenantID = p.String("tenantId")
	sub.PhoneCandidates = dedupeStrings(
		p.String("whatsappNumber"),
		p.String("calledNumber"),
		p.String("phoneNumber"),
		sub.CustomerPhone,
	)
	sub.TelegramHandle = strings.TrimPrefix(p.First("bot_username", "botUsername"), "@")
	sub.Email = sub.CustomerEmail
	return sub, nil
}

// ParseChannelFallback handles unrecognized channel names on the
// tenant-token endpoint with generic field extraction.
func ParseChannelFallback(p Payload, channel string) (*Submission, error) {
	sub := parseGenericFields(p, domain.ChannelKind(channel))
	if sub.Description == "" {
		return nil, apperrors.NewValidationError("Description is required", nil)
	}
	return sub, nil
}

func parseGenericFields(p Payload, channel domain.ChannelKind) *Submission {
	sub := newSubmission(channel)

	sub.Title = p.First("subject", "title")
	sub.Description = p.First("message", "text", "body", "description")
	sub.CustomerName = p.First("name", "customerName", "customer.name")
	sub.CustomerEmail = p.First("email", "customerEmail", "customer.email")
	sub.CustomerPhone = p.First("phone", "customerPhone", "customer.phone")
	sub.Category = p.String("category")
	sub.Priority = explicitPriority(p.String("priority"))
	if sub.CustomerName == "" {
		sub.CustomerName = sub.CustomerEmail
	}
	if sub.CustomerName == "" {
		sub.CustomerName = "Customer"
	}
	putMeta(sub.Metadata, "reference", p.String("reference"))
	return sub
}
