package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenericDefaultsChannel(t *testing.T) {
	sub, err := ParseGeneric(Payload{"message": "contact form body", "email": "user@example.test"})
	require.NoError(t, err)
	assert.Equal(t, "web", sub.Channel)
	assert.Equal(t, "web", sub.Source)
	assert.Equal(t, "user@example.test", sub.CustomerName)
	assert.Equal(t, "user@example.test", sub.Email)
}

func TestParseGenericExplicitChannel(t *testing.T) {
	sub, err := ParseGeneric(Payload{"channel": "walk-in", "description": "came to the office"})
	require.NoError(t, err)
	assert.Equal(t, "walk-in", sub.Channel)
	assert.Equal(t, "came to the office", sub.Description)
}

func TestParseGenericRequiresDescription(t *testing.T) {
	_, err := ParseGeneric(Payload{"subject": "no body"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Description is required")
}

func TestParseGenericTenantHints(t *testing.T) {
	sub, err := ParseGeneric(Payload{
		"message":        "hello",
		"tenantId":       "tenant-1",
		"whatsappNumber": "5550199",
		"phone":          "5550100",
		"bot_username":   "@AcmeBot",
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", sub.TenantID)
	assert.Equal(t, []string{"5550199", "5550100"}, sub.PhoneCandidates)
	assert.Equal(t, "AcmeBot", sub.TelegramHandle)
}

func TestParseTenantChannelScopesTenant(t *testing.T) {
	sub, err := ParseTenantChannel(Payload{
		"from":    "5550100",
		"message": "hello from whatsapp",
	}, "whatsapp", "tenant-7")
	require.NoError(t, err)
	assert.Equal(t, "tenant-7", sub.TenantID)
	assert.Empty(t, sub.PhoneCandidates)
	assert.Empty(t, sub.TelegramHandle)
	assert.Equal(t, "whatsapp", sub.Channel)
}

func TestParseTenantChannelUnknownChannelFallsBack(t *testing.T) {
	sub, err := ParseTenantChannel(Payload{
		"subject": "Billing question",
		"body":    "please review my invoice",
	}, "carrier-pigeon", "tenant-7")
	require.NoError(t, err)
	assert.Equal(t, "carrier-pigeon", sub.Channel)
	assert.Equal(t, "Billing question", sub.Title)
	assert.Equal(t, "tenant-7", sub.TenantID)
}

func TestParseTenantChannelEmptyChannelUsesGeneric(t *testing.T) {
	sub, err := ParseTenantChannel(Payload{"message": "no channel given"}, "", "tenant-7")
	require.NoError(t, err)
	assert.Equal(t, "tenant-7", sub.TenantID)
	assert.Equal(t, "no channel given", sub.Description)
	assert.Equal(t, "web", sub.Channel)
}

func TestParseTenantChannelReadsChannelFromBody(t *testing.T) {
	sub, err := ParseTenantChannel(Payload{
		"channel": "whatsapp",
		"from":    "5550100",
		"message": "hello",
	}, "", "tenant-7")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", sub.Channel)
	assert.Equal(t, "hello", sub.Description)
	assert.Equal(t, "tenant-7", sub.TenantID)

	sub, err = ParseTenantChannel(Payload{
		"source":  "contact-form",
		"message": "form message",
	}, "", "tenant-7")
	require.NoError(t, err)
	assert.Equal(t, "contact-form", sub.Channel)
}

func TestPayloadStringCoercion(t *testing.T) {
	p := Payload{
		"int":    float64(42),
		"float":  float64(42.5),
		"bool":   true,
		"nested": map[string]any{"deep": "value"},
	}
	assert.Equal(t, "42", p.String("int"))
	assert.Equal(t, "42.5", p.String("float"))
	assert.Equal(t, "true", p.String("bool"))
	assert.Equal(t, "value", p.String("nested.deep"))
	assert.Equal(t, "", p.String("missing"))
	assert.Equal(t, "", p.String("nested"))
}
