package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
)

func newTestResolver(t *testing.T, tenants ...*domain.Tenant) (*ResolverService, repository.TenantRepository) {
	t.Helper()
	repo := repository.NewMemoryTenantRepository()
	for _, tenant := range tenants {
		require.NoError(t, repo.Create(context.Background(), tenant))
	}
	resolver := NewResolverService(ResolverDependencies{
		TenantRepo:    repo,
		CountryPrefix: "91",
	})
	return resolver, repo
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"+91 98765-43210", "9876543210"},
		{"9876543210", "9876543210"},
		{"098765 43210", "9876543210"},
		{"(91) 98765 43210", "9876543210"},
		{"+15550199", "15550199"},
		{"15550199", "15550199"},
		{"+1 555-0100", "15550100"},
		{"", ""},
		{"0", "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.raw, "91"), "raw=%q", tc.raw)
	}
}

func TestResolveByChannelPhoneFormats(t *testing.T) {
	resolver, _ := newTestResolver(t, &domain.Tenant{
		Name:         "Acme",
		Email:        "ops@acme.test",
		WebhookToken: "tok-acme",
		Channels:     domain.ChannelIdentifiers{WhatsApp: "9876543210"},
	})

	for _, inbound := range []string{"+91 98765-43210", "9876543210", "09876543210"} {
		tenant, err := resolver.ResolveByChannel(context.Background(), domain.ChannelWhatsApp, inbound)
		require.NoError(t, err, "inbound=%q", inbound)
		assert.Equal(t, "Acme", tenant.Name)
	}

	_, err := resolver.ResolveByChannel(context.Background(), domain.ChannelWhatsApp, "5550000000")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveByChannelTelegramHandle(t *testing.T) {
	resolver, _ := newTestResolver(t, &domain.Tenant{
		Name:         "Acme",
		Email:        "ops@acme.test",
		WebhookToken: "tok-acme",
		Channels:     domain.ChannelIdentifiers{Telegram: "@AcmeSupportBot"},
	})

	for _, handle := range []string{"AcmeSupportBot", "@acmesupportbot"} {
		tenant, err := resolver.ResolveByChannel(context.Background(), domain.ChannelTelegram, handle)
		require.NoError(t, err, "handle=%q", handle)
		assert.Equal(t, "Acme", tenant.Name)
	}
}

func TestResolveByChannelUnresolvableKinds(t *testing.T) {
	resolver, _ := newTestResolver(t)
	_, err := resolver.ResolveByChannel(context.Background(), domain.ChannelChatbot, "anything")
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_, err = resolver.ResolveByChannel(context.Background(), domain.ChannelWhatsApp, "  ")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveByTokenMiss(t *testing.T) {
	resolver, _ := newTestResolver(t, &domain.Tenant{
		Name:         "Acme",
		Email:        "ops@acme.test",
		WebhookToken: "tok-acme",
	})

	tenant, err := resolver.ResolveByToken(context.Background(), "tok-acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)

	_, err = resolver.ResolveByToken(context.Background(), "tok-unknown")
	assert.ErrorIs(t, err, ErrTenantNotFound)
	_, err = resolver.ResolveByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveStrategyOrder(t *testing.T) {
	byPhone := &domain.Tenant{
		Name:         "PhoneTenant",
		Email:        "ops@phone.test",
		WebhookToken: "tok-phone",
		Channels:     domain.ChannelIdentifiers{WhatsApp: "5550101"},
	}
	byID := &domain.Tenant{
		Name:         "ExplicitTenant",
		Email:        "ops@explicit.test",
		WebhookToken: "tok-explicit",
	}
	resolver, _ := newTestResolver(t, byPhone, byID)

	// Explicit ID short-circuits even when a phone hint would match another tenant.
	tenant, err := resolver.Resolve(context.Background(), ResolutionHints{
		TenantID:     byID.ID,
		PhoneNumbers: []string{"5550101"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ExplicitTenant", tenant.Name)

	tenant, err = resolver.Resolve(context.Background(), ResolutionHints{
		PhoneNumbers: []string{"5550101"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PhoneTenant", tenant.Name)

	_, err = resolver.Resolve(context.Background(), ResolutionHints{})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveEmailByAddressAndDomain(t *testing.T) {
	resolver, _ := newTestResolver(t, &domain.Tenant{
		Name:         "Acme",
		Email:        "ops@acme.test",
		WebhookToken: "tok-acme",
		Channels:     domain.ChannelIdentifiers{Email: "support@acme.test"},
	})

	tenant, err := resolver.ResolveByChannel(context.Background(), domain.ChannelEmail, "SUPPORT@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)

	tenant, err = resolver.ResolveByChannel(context.Background(), domain.ChannelEmail, "someone@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)

	_, err = resolver.ResolveByChannel(context.Background(), domain.ChannelEmail, "someone@other.test")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
