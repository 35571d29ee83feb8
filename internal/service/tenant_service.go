package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// TenantService provisions tenants and their agents.
type TenantService struct {
	tenants       repository.TenantRepository
	agents        repository.AgentRepository
	countryPrefix string
}

// TenantCreateInput describes tenant provisioning payload.
type TenantCreateInput struct {
	Name     string
	Email    string
	Channels domain.ChannelIdentifiers
}

// AgentCreateInput describes agent provisioning payload.
type AgentCreateInput struct {
	Name   string
	Email  string
	Status domain.AgentStatus
}

// NewTenantService constructs the service.
func NewTenantService(tenants repository.TenantRepository, agents repository.AgentRepository, countryPrefix string) *TenantService {
	return &TenantService{tenants: tenants, agents: agents, countryPrefix: countryPrefix}
}

// CreateTenant provisions a tenant with a fresh webhook token. Channel
// identifiers must be unique across tenants; resolution assumes one match.
func (s *TenantService) CreateTenant(ctx context.Context, input TenantCreateInput) (*domain.Tenant, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if err := s.checkChannelUniqueness(ctx, input.Channels); err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		WebhookToken: generateWebhookToken(),
		Channels:     input.Channels,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// GetTenant fetches a tenant by ID.
func (s *TenantService) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// CreateAgent adds an agent to a tenant.
func (s *TenantService) CreateAgent(ctx context.Context, tenantID string, input AgentCreateInput) (*domain.Agent, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, apperrors.MapError(err)
	}

	status := input.Status
	switch status {
	case domain.AgentStatusOnline, domain.AgentStatusAway, domain.AgentStatusOffline:
	case "":
		status = domain.AgentStatusOffline
	default:
		return nil, apperrors.NewValidationError("invalid agent status", map[string]any{"status": status})
	}

	agent := &domain.Agent{
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Status:   status,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ListAgents returns a tenant's agents in stored order.
func (s *TenantService) ListAgents(ctx context.Context, tenantID string) ([]domain.Agent, error) {
	agents, err := s.agents.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// UpdateAgentStatus changes an agent's availability.
func (s *TenantService) UpdateAgentStatus(ctx context.Context, agentID string, status domain.AgentStatus) error {
	switch status {
	case domain.AgentStatusOnline, domain.AgentStatusAway, domain.AgentStatusOffline:
	default:
		return apperrors.NewValidationError("invalid agent status", map[string]any{"status": status})
	}
	if err := s.agents.UpdateStatus(ctx, agentID, status); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TenantService) checkChannelUniqueness(ctx context.Context, channels domain.ChannelIdentifiers) error {
	checks := []struct {
		kind  domain.ChannelKind
		value string
	}{
		{domain.ChannelWhatsApp, channels.WhatsApp},
		{domain.ChannelTelegram, channels.Telegram},
		{domain.ChannelEmail, channels.Email},
		{domain.ChannelPhone, channels.Phone},
	}
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		existing, err := s.tenants.ListWithChannel(ctx, check.kind)
		if err != nil {
			return apperrors.MapError(err)
		}
		for i := range existing {
			if s.identifiersEqual(check.kind, existing[i].Identifier(check.kind), check.value) {
				return apperrors.NewConflict("channel identifier already in use",
					map[string]any{"channel": string(check.kind), "identifier": check.value})
			}
		}
	}
	return nil
}

func (s *TenantService) identifiersEqual(kind domain.ChannelKind, a, b string) bool {
	switch kind {
	case domain.ChannelWhatsApp, domain.ChannelPhone:
		return NormalizePhone(a, s.countryPrefix) == NormalizePhone(b, s.countryPrefix)
	case domain.ChannelTelegram:
		return strings.EqualFold(strings.TrimPrefix(a, "@"), strings.TrimPrefix(b, "@"))
	default:
		return strings.EqualFold(a, b)
	}
}

func generateWebhookToken() string {
	return "whk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
