package domain

import "time"

// ChannelKind identifies how an inbound message reached the helpdesk.
type ChannelKind string

const (
	ChannelWhatsApp    ChannelKind = "whatsapp"
	ChannelTelegram    ChannelKind = "telegram"
	ChannelPhone       ChannelKind = "phone"
	ChannelEmail       ChannelKind = "email"
	ChannelChatbot     ChannelKind = "chatbot"
	ChannelContactForm ChannelKind = "contact-form"
	ChannelWeb         ChannelKind = "web"
)

// ChannelIdentifiers maps a tenant to the external identities it owns per
// channel. Every identifier, when set, is unique across tenants.
type ChannelIdentifiers struct {
	WhatsApp string `json:"whatsapp,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Tenant is the organization boundary tickets are routed into.
type Tenant struct {
	ID           string
	Name         string
	Email        string
	WebhookToken string
	Channels     ChannelIdentifiers
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identifier returns the tenant identity registered for a channel.
func (t *Tenant) Identifier(kind ChannelKind) string {
	switch kind {
	case ChannelWhatsApp:
		return t.Channels.WhatsApp
	case ChannelTelegram:
		return t.Channels.Telegram
	case ChannelEmail:
		return t.Channels.Email
	case ChannelPhone:
		return t.Channels.Phone
	default:
		return ""
	}
}
