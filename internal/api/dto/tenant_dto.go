package dto

import (
	"time"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// CreateTenantRequest payload.
type CreateTenantRequest struct {
	Name     string                    `json:"name"`
	Email    string                    `json:"email"`
	Channels domain.ChannelIdentifiers `json:"channels"`
}

// TenantResponse includes the webhook token handed to the tenant admin.
type TenantResponse struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Email        string                    `json:"email"`
	WebhookToken string                    `json:"webhookToken"`
	Channels     domain.ChannelIdentifiers `json:"channels"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

// TenantFromDomain converts a domain tenant.
func TenantFromDomain(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID,
		Name:         t.Name,
		Email:        t.Email,
		WebhookToken: t.WebhookToken,
		Channels:     t.Channels,
		CreatedAt:    t.CreatedAt,
	}
}

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Status domain.AgentStatus `json:"status"`
}

// AgentResponse representation.
type AgentResponse struct {
	ID       string             `json:"id"`
	TenantID string             `json:"tenantId"`
	Name     string             `json:"name"`
	Email    string             `json:"email,omitempty"`
	Status   domain.AgentStatus `json:"status"`
}

// AgentFromDomain converts a domain agent.
func AgentFromDomain(a *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:       a.ID,
		TenantID: a.TenantID,
		Name:     a.Name,
		Email:    a.Email,
		Status:   a.Status,
	}
}
