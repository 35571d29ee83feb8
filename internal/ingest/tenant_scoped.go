package ingest

import (
	"strings"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// SupportedTenantChannels is the capability list the token-scoped endpoint
// advertises. Unknown channel names still work through the generic branch.
var SupportedTenantChannels = []string{
	string(domain.ChannelWhatsApp),
	string(domain.ChannelTelegram),
	string(domain.ChannelPhone),
	string(domain.ChannelChatbot),
	string(domain.ChannelContactForm),
}

// ParseTenantChannel parses a payload on the token-scoped endpoint, where the
// tenant is already authenticated and channel identity resolution is skipped.
// When the path carries no channel the payload's channel or source field
// names it, falling back to web.
func ParseTenantChannel(p Payload, channel, tenantID string) (*Submission, error) {
	if channel == "" {
		channel = p.First("channel", "source")
	}
	if channel == "" {
		channel = string(domain.ChannelWeb)
	}

	var (
		sub *Submission
		err error
	)
	switch domain.ChannelKind(channel) {
	case domain.ChannelWhatsApp:
		sub, err = ParseWhatsApp(p)
	case domain.ChannelTelegram:
		sub, err = ParseTelegram(p)
	case domain.ChannelPhone:
		sub, err = ParsePhone(p)
	case domain.ChannelChatbot:
		sub, err = ParseChatbot(p, tenantID)
	default:
		sub, err = ParseChannelFallback(p, channel)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sub.Description) == "" {
		return nil, apperrors.NewValidationError("Description is required", nil)
	}

	// Token wins over any identity hints the payload carried.
	sub.TenantID = tenantID
	sub.PhoneCandidates = nil
	sub.TelegramHandle = ""
	sub.Email = ""
	return sub, nil
}
