package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/persistence"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
)

// ErrTenantNotFound reports that no tenant matched the given token or
// channel identifier. It is a normal routing outcome, not a system fault.
var ErrTenantNotFound = errors.New("tenant not found")

// ResolutionHints carries every tenant signal a payload may contain. The
// resolver evaluates them in a fixed priority order.
type ResolutionHints struct {
	TenantID       string
	PhoneNumbers   []string
	TelegramHandle string
	Email          string
}

// ResolverService maps webhook tokens and channel identifiers to tenants.
type ResolverService struct {
	tenants       repository.TenantRepository
	cache         *persistence.Redis
	cacheTTL      time.Duration
	countryPrefix string
	logger        *zap.Logger
}

// ResolverDependencies bundles resolver collaborators.
type ResolverDependencies struct {
	TenantRepo    repository.TenantRepository
	Cache         *persistence.Redis
	CacheTTL      time.Duration
	CountryPrefix string
	Logger        *zap.Logger
}

// NewResolverService creates the service.
func NewResolverService(deps ResolverDependencies) *ResolverService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{
		tenants:       deps.TenantRepo,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		countryPrefix: deps.CountryPrefix,
		logger:        logger,
	}
}

// ResolveByToken returns the tenant owning the webhook token. Exact match
// only; token collisions are a provisioning-time invariant, not handled here.
func (s *ResolverService) ResolveByToken(ctx context.Context, token string) (*domain.Tenant, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTenantNotFound
	}

	if id, ok := s.cachedTenantID(ctx, token); ok {
		tenant, err := s.tenants.GetByID(ctx, id)
		if err == nil {
			return tenant, nil
		}
		// stale cache entry; fall through to the repository lookup
	}

	tenant, err := s.tenants.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	s.cacheTenantID(ctx, token, tenant.ID)
	return tenant, nil
}

// ResolveByChannel returns the tenant owning a channel identifier. Phone-like
// channels are compared after normalization, telegram handles and email
// addresses case-insensitively. Chatbot and contact-form submissions carry no
// resolvable identity and always miss.
func (s *ResolverService) ResolveByChannel(ctx context.Context, kind domain.ChannelKind, identifier string) (*domain.Tenant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrTenantNotFound
	}

	switch kind {
	case domain.ChannelWhatsApp, domain.ChannelPhone:
		return s.resolveByPhone(ctx, kind, identifier)
	case domain.ChannelTelegram:
		return s.resolveByTelegram(ctx, identifier)
	case domain.ChannelEmail:
		return s.resolveByEmail(ctx, identifier)
	default:
		return nil, ErrTenantNotFound
	}
}

// Resolve tries every available signal in priority order: explicit tenant ID,
// phone-based, telegram, then email. First success wins.
func (s *ResolverService) Resolve(ctx context.Context, hints ResolutionHints) (*domain.Tenant, error) {
	strategies := []func(context.Context, ResolutionHints) (*domain.Tenant, error){
		s.resolveExplicit,
		s.resolvePhones,
		s.resolveTelegramHint,
		s.resolveEmailHint,
	}
	for _, strategy := range strategies {
		tenant, err := strategy(ctx, hints)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
	}
	return nil, ErrTenantNotFound
}

func (s *ResolverService) resolveExplicit(ctx context.Context, hints ResolutionHints) (*domain.Tenant, error) {
	if hints.TenantID == "" {
		return nil, ErrTenantNotFound
	}
	tenant, err := s.tenants.GetByID(ctx, hints.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

func (s *ResolverService) resolvePhones(ctx context.Context, hints ResolutionHints) (*domain.Tenant, error) {
	for _, phone := range hints.PhoneNumbers {
		tenant, err := s.resolveByPhone(ctx, domain.ChannelWhatsApp, phone)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
		tenant, err = s.resolveByPhone(ctx, domain.ChannelPhone, phone)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
	}
	return nil, ErrTenantNotFound
}

func (s *ResolverService) resolveTelegramHint(ctx context.Context, hints ResolutionHints) (*domain.Tenant, error) {
	if hints.TelegramHandle == "" {
		return nil, ErrTenantNotFound
	}
	return s.resolveByTelegram(ctx, hints.TelegramHandle)
}

func (s *ResolverService) resolveEmailHint(ctx context.Context, hints ResolutionHints) (*domain.Tenant, error) {
	if hints.Email == "" {
		return nil, ErrTenantNotFound
	}
	return s.resolveByEmail(ctx, hints.Email)
}

func (s *ResolverService) resolveByPhone(ctx context.Context, kind domain.ChannelKind, identifier string) (*domain.Tenant, error) {
	normalized := NormalizePhone(identifier, s.countryPrefix)
	if normalized == "" {
		return nil, ErrTenantNotFound
	}
	tenants, err := s.tenants.ListWithChannel(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		if NormalizePhone(tenants[i].Identifier(kind), s.countryPrefix) == normalized {
			tenant := tenants[i]
			return &tenant, nil
		}
	}
	return nil, ErrTenantNotFound
}

func (s *ResolverService) resolveByTelegram(ctx context.Context, handle string) (*domain.Tenant, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, ErrTenantNotFound
	}
	tenants, err := s.tenants.ListWithChannel(ctx, domain.ChannelTelegram)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		stored := strings.TrimPrefix(tenants[i].Channels.Telegram, "@")
		if strings.EqualFold(stored, handle) {
			tenant := tenants[i]
			return &tenant, nil
		}
	}
	return nil, ErrTenantNotFound
}

func (s *ResolverService) resolveByEmail(ctx context.Context, address string) (*domain.Tenant, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return nil, ErrTenantNotFound
	}
	tenants, err := s.tenants.ListWithChannel(ctx, domain.ChannelEmail)
	if err != nil {
		return nil, err
	}
	inboundDomain := emailDomain(address)
	for i := range tenants {
		stored := strings.ToLower(tenants[i].Channels.Email)
		if stored == address {
			tenant := tenants[i]
			return &tenant, nil
		}
		if inboundDomain != "" && emailDomain(stored) == inboundDomain {
			tenant := tenants[i]
			return &tenant, nil
		}
	}
	return nil, ErrTenantNotFound
}

// NormalizePhone strips formatting characters and a leading "+", then one
// leading national prefix or a single leading zero, so stored and inbound
// numbers compare on digits alone. Numbers legitimately starting with the
// national prefix are truncated too; single-country deployments are assumed.
func NormalizePhone(raw, countryPrefix string) string {
	s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	if countryPrefix != "" && strings.HasPrefix(s, countryPrefix) && len(s) > len(countryPrefix) {
		return s[len(countryPrefix):]
	}
	if strings.HasPrefix(s, "0") && len(s) > 1 {
		return s[1:]
	}
	return s
}

func emailDomain(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return ""
}

func (s *ResolverService) cachedTenantID(ctx context.Context, token string) (string, bool) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return "", false
	}
	id, err := s.cache.Client.Get(ctx, tokenCacheKey(token)).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *ResolverService) cacheTenantID(ctx context.Context, token, tenantID string) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Client.Set(ctx, tokenCacheKey(token), tenantID, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("resolver cache write failed", zap.Error(err))
	}
}

func tokenCacheKey(token string) string {
	return "resolver:token:" + token
}
