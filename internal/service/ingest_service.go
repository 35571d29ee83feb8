package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/ingest"
	"github.com/support-kit/helpdesk-ingest/internal/observability"
	"github.com/support-kit/helpdesk-ingest/internal/persistence"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ErrDuplicateDelivery reports that a provider redelivered a webhook the
// service already processed. Callers acknowledge it without a second ticket.
var ErrDuplicateDelivery = errors.New("duplicate webhook delivery")

// IngestResult is the outcome of one accepted webhook.
type IngestResult struct {
	Ticket   *domain.Ticket
	Assignee *domain.Agent
}

// IngestService runs the full intake pipeline: parse, resolve tenant,
// classify priority, create and assign the ticket.
type IngestService struct {
	resolver        *ResolverService
	tickets         *TicketService
	leads           *LeadService
	dedup           *persistence.Redis
	dedupTTL        time.Duration
	defaultCategory string
	metrics         *observability.Metrics
	logger          *zap.Logger
}

// IngestDependencies bundles collaborators for the ingest service.
type IngestDependencies struct {
	Resolver        *ResolverService
	Tickets         *TicketService
	Leads           *LeadService
	Dedup           *persistence.Redis
	DedupTTL        time.Duration
	DefaultCategory string
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// NewIngestService constructs the service.
func NewIngestService(deps IngestDependencies) *IngestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		resolver:        deps.Resolver,
		tickets:         deps.Tickets,
		leads:           deps.Leads,
		dedup:           deps.Dedup,
		dedupTTL:        deps.DedupTTL,
		defaultCategory: deps.DefaultCategory,
		metrics:         deps.Metrics,
		logger:          logger,
	}
}

// IngestWhatsApp handles a WhatsApp webhook delivery.
func (s *IngestService) IngestWhatsApp(ctx context.Context, payload ingest.Payload) (*IngestResult, error) {
	sub, err := ingest.ParseWhatsApp(payload)
	if err != nil {
		return s.fail(string(domain.ChannelWhatsApp), err)
	}
	tenant, err := s.resolver.Resolve(ctx, hintsFrom(sub))
	if err != nil {
		return s.fail(string(domain.ChannelWhatsApp), tenantFailure(err,
			"Tenant not found for this WhatsApp number. Please configure the channel mapping."))
	}
	return s.submit(ctx, tenant, sub)
}

// IngestTelegram handles a Telegram webhook delivery. Bot-username resolution
// is tried first, then an explicit tenantId in the body.
func (s *IngestService) IngestTelegram(ctx context.Context, payload ingest.Payload) (*IngestResult, error) {
	sub, err := ingest.ParseTelegram(payload)
	if err != nil {
		return s.fail(string(domain.ChannelTelegram), err)
	}
	tenant, err := s.resolver.ResolveByChannel(ctx, domain.ChannelTelegram, sub.TelegramHandle)
	if errors.Is(err, ErrTenantNotFound) && sub.TenantID != "" {
		tenant, err = s.resolver.Resolve(ctx, ResolutionHints{TenantID: sub.TenantID})
	}
	if err != nil {
		return s.fail(string(domain.ChannelTelegram), tenantFailure(err,
			"Tenant not found for this bot. Please configure the channel mapping."))
	}
	return s.submit(ctx, tenant, sub)
}

// IngestPhone handles a phone/IVR webhook delivery. The called number
// resolves the tenant unless the payload supplied a tenantId.
func (s *IngestService) IngestPhone(ctx context.Context, payload ingest.Payload) (*IngestResult, error) {
	sub, err := ingest.ParsePhone(payload)
	if err != nil {
		return s.fail(string(domain.ChannelPhone), err)
	}
	tenant, err := s.resolver.Resolve(ctx, hintsFrom(sub))
	if err != nil {
		return s.fail(string(domain.ChannelPhone), tenantFailure(err,
			"Tenant not found for this phone number. Please configure the called number."))
	}
	return s.submit(ctx, tenant, sub)
}

// IngestChatbot handles a chatbot widget delivery. Only an explicit tenant ID
// is accepted; there is no channel identity to match.
func (s *IngestService) IngestChatbot(ctx context.Context, payload ingest.Payload, queryTenantID string) (*IngestResult, error) {
	sub, err := ingest.ParseChatbot(payload, queryTenantID)
	if err != nil {
		return s.fail(string(domain.ChannelChatbot), err)
	}
	tenant, err := s.resolver.Resolve(ctx, ResolutionHints{TenantID: sub.TenantID})
	if err != nil {
		return s.fail(string(domain.ChannelChatbot), tenantFailure(err, "tenantId is required"))
	}
	return s.submit(ctx, tenant, sub)
}

// IngestGeneric handles the universal multi-channel endpoint.
func (s *IngestService) IngestGeneric(ctx context.Context, payload ingest.Payload) (*IngestResult, error) {
	sub, err := ingest.ParseGeneric(payload)
	if err != nil {
		return s.fail(string(domain.ChannelWeb), err)
	}
	tenant, err := s.resolver.Resolve(ctx, hintsFrom(sub))
	if err != nil {
		return s.fail(sub.Channel, tenantFailure(err,
			"Unable to resolve tenant. Provide tenantId or a configured channel identifier."))
	}
	return s.submit(ctx, tenant, sub)
}

// IngestLead routes an inbound call into the leads pipeline instead of
// creating a ticket directly. The call is classified on intake; conversion
// happens later through the lead service.
func (s *IngestService) IngestLead(ctx context.Context, payload ingest.Payload) (*domain.Lead, error) {
	sub, err := ingest.ParsePhone(payload)
	if err != nil {
		s.metrics.RecordIngest("lead", "rejected")
		return nil, err
	}
	tenant, err := s.resolver.Resolve(ctx, hintsFrom(sub))
	if err != nil {
		s.metrics.RecordIngest("lead", "rejected")
		return nil, tenantFailure(err,
			"Tenant not found for this phone number. Please configure the called number.")
	}
	lead, err := s.leads.CreateLead(ctx, LeadCreateInput{
		TenantID:   tenant.ID,
		CallerName: payload.String("callerName"),
		Phone:      sub.CustomerPhone,
		Transcript: payload.String("transcript"),
		Metadata:   sub.Metadata,
	})
	if err != nil {
		s.metrics.RecordIngest("lead", "rejected")
		return nil, err
	}
	s.metrics.RecordIngest("lead", "created")
	return lead, nil
}

// IngestForTenant handles the token-scoped endpoint; the tenant is already
// authenticated by the caller.
func (s *IngestService) IngestForTenant(ctx context.Context, tenant *domain.Tenant, channel string, payload ingest.Payload) (*IngestResult, error) {
	sub, err := ingest.ParseTenantChannel(payload, channel, tenant.ID)
	if err != nil {
		return s.fail(channel, err)
	}
	return s.submit(ctx, tenant, sub)
}

func (s *IngestService) submit(ctx context.Context, tenant *domain.Tenant, sub *ingest.Submission) (*IngestResult, error) {
	if dup, err := s.seenBefore(ctx, sub.Channel, sub.DedupKey); err == nil && dup {
		s.metrics.RecordIngest(sub.Channel, "duplicate")
		s.logger.Info("duplicate webhook ignored",
			zap.String("channel", sub.Channel),
			zap.String("dedup_key", sub.DedupKey))
		return nil, ErrDuplicateDelivery
	}

	priority := sub.Priority
	if priority == "" {
		priority = ClassifyPriority(sub.Description)
	}
	category := sub.Category
	if category == "" {
		category = s.defaultCategory
	}

	ticket, assignee, err := s.tickets.CreateTicket(ctx, TicketCreateInput{
		TenantID:      tenant.ID,
		Title:         sub.Title,
		Description:   sub.Description,
		Priority:      priority,
		Category:      category,
		Source:        sub.Source,
		Channel:       sub.Channel,
		CustomerName:  sub.CustomerName,
		CustomerEmail: sub.CustomerEmail,
		CustomerPhone: sub.CustomerPhone,
		Metadata:      sub.Metadata,
	})
	if err != nil {
		return s.fail(sub.Channel, err)
	}
	s.metrics.RecordIngest(sub.Channel, "created")
	return &IngestResult{Ticket: ticket, Assignee: assignee}, nil
}

// seenBefore marks the delivery key in Redis and reports whether it already
// existed. Without Redis, dedup is disabled and every delivery is fresh.
func (s *IngestService) seenBefore(ctx context.Context, channel, key string) (bool, error) {
	if key == "" || s.dedup == nil || s.dedup.Client == nil || s.dedupTTL <= 0 {
		return false, nil
	}
	set, err := s.dedup.Client.SetNX(ctx, "ingest:dedup:"+channel+":"+key, 1, s.dedupTTL).Result()
	if err != nil {
		s.logger.Debug("webhook dedup unavailable", zap.Error(err))
		return false, err
	}
	return !set, nil
}

func (s *IngestService) fail(channel string, err error) (*IngestResult, error) {
	s.metrics.RecordIngest(channel, "rejected")
	return nil, err
}

func hintsFrom(sub *ingest.Submission) ResolutionHints {
	return ResolutionHints{
		TenantID:       sub.TenantID,
		PhoneNumbers:   sub.PhoneCandidates,
		TelegramHandle: sub.TelegramHandle,
		Email:          sub.Email,
	}
}

func tenantFailure(err error, message string) error {
	if errors.Is(err, ErrTenantNotFound) {
		return apperrors.NewValidationError(message, nil)
	}
	return apperrors.MapError(err)
}
