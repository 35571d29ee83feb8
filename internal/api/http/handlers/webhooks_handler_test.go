package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

func TestWhatsAppWebhookCreatesCriticalTicket(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{WhatsApp: "15550199"})
	agent := env.seedAgent(t, tenant.ID, "Agent A", domain.AgentStatusOnline)

	body := env.request(t, http.MethodPost, "/webhooks/whatsapp", map[string]any{
		"from":           "+1 555-0100",
		"message":        "URGENT cannot login",
		"whatsappNumber": "+15550199",
	}, "", http.StatusCreated)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Ticket created and assigned to Agent A", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Critical", data["priority"])
	assert.Equal(t, "+1 555-0100", data["customerPhone"])
	assert.Equal(t, "whatsapp", data["source"])
	assert.Equal(t, "whatsapp", data["channel"])
	assert.Equal(t, tenant.ID, data["tenantId"])
	assert.Equal(t, agent.ID, data["assigneeId"])
	assert.Equal(t, "Open", data["status"])
}

func TestWhatsAppWebhookUnknownNumber(t *testing.T) {
	env := newTestEnv(t)

	body := env.request(t, http.MethodPost, "/webhooks/whatsapp", map[string]any{
		"from":    "+1 555-0100",
		"message": "hello",
	}, "", http.StatusBadRequest)

	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "configure the channel mapping")
}

func TestWhatsAppWebhookMissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := env.request(t, http.MethodPost, "/webhooks/whatsapp", map[string]any{
		"from": "+1 555-0100",
	}, "", http.StatusBadRequest)

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Phone number and message are required", body["error"])
}

func TestTelegramWebhookResolvesByBotUsername(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{Telegram: "AcmeSupportBot"})
	env.seedAgent(t, tenant.ID, "Agent A", domain.AgentStatusOnline)

	body := env.request(t, http.MethodPost, "/webhooks/telegram", map[string]any{
		"update_id":    8234571,
		"bot_username": "@AcmeSupportBot",
		"message": map[string]any{
			"text": "there is a problem with my invoice",
			"chat": map[string]any{"id": 99123, "username": "dana_k"},
			"from": map[string]any{"first_name": "Dana"},
		},
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, "High", data["priority"])
	assert.Equal(t, "Dana", data["customerName"])
	assert.Equal(t, "telegram", data["source"])
}

func TestChatbotWebhookRequiresTenantID(t *testing.T) {
	env := newTestEnv(t)

	body := env.request(t, http.MethodPost, "/webhooks/chatbot", map[string]any{
		"message": "hello",
	}, "", http.StatusBadRequest)

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "tenantId is required", body["error"])
}

func TestChatbotWebhookTenantFromQuery(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{})

	body := env.request(t, http.MethodPost, "/webhooks/chatbot?tenantId="+tenant.ID, map[string]any{
		"message": "how do I export my data?",
		"user":    map[string]any{"name": "Visitor"},
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Medium", data["priority"])
	assert.Equal(t, "Visitor", data["customerName"])
	assert.Equal(t, "chatbot", data["channel"])
}

func TestPhoneWebhookUnassignedWhenNoAgents(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{Phone: "5550199"})

	body := env.request(t, http.MethodPost, "/webhooks/phone", map[string]any{
		"phoneNumber":  "5550100",
		"calledNumber": "5550199",
		"transcript":   "my service is down",
	}, "", http.StatusCreated)

	assert.Equal(t, "Ticket created, awaiting agent assignment", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, tenant.ID, data["tenantId"])
	assert.Nil(t, data["assigneeId"])
}

func TestGenericWebhookExplicitTenant(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{})
	env.seedAgent(t, tenant.ID, "Agent A", domain.AgentStatusOnline)

	body := env.request(t, http.MethodPost, "/webhooks/ticket", map[string]any{
		"tenantId": tenant.ID,
		"channel":  "contact-form",
		"subject":  "Billing question",
		"message":  "please review my invoice",
		"email":    "dana@example.test",
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Billing question", data["title"])
	assert.Equal(t, "contact-form", data["channel"])
}

func TestTenantTokenEndpointInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, domain.ChannelIdentifiers{})

	body := env.request(t, http.MethodPost, "/webhooks/tenant/badtoken/whatsapp", map[string]any{
		"from":    "5550100",
		"message": "hello",
	}, "", http.StatusUnauthorized)

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid webhook token", body["error"])
}

func TestTenantTokenEndpointRoutesChannel(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{})
	env.seedAgent(t, tenant.ID, "Agent A", domain.AgentStatusOnline)

	body := env.request(t, http.MethodPost, "/webhooks/tenant/tok-acme/whatsapp", map[string]any{
		"from":    "5550100",
		"message": "the export is not working",
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, tenant.ID, data["tenantId"])
	assert.Equal(t, "High", data["priority"])
	assert.Equal(t, "whatsapp", data["channel"])
}

func TestTenantTokenEndpointChannelFromBody(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{})
	env.seedAgent(t, tenant.ID, "Agent A", domain.AgentStatusOnline)

	body := env.request(t, http.MethodPost, "/webhooks/tenant/tok-acme", map[string]any{
		"channel": "whatsapp",
		"from":    "5550100",
		"message": "hello",
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, tenant.ID, data["tenantId"])
	assert.Equal(t, "whatsapp", data["channel"])
	assert.Equal(t, "5550100", data["customerPhone"])
}

func TestTenantTokenEndpointUnknownChannelFallback(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, domain.ChannelIdentifiers{})

	body := env.request(t, http.MethodPost, "/webhooks/tenant/tok-acme/fax", map[string]any{
		"subject": "Old school",
		"body":    "please call me back",
	}, "", http.StatusCreated)

	data := body["data"].(map[string]any)
	assert.Equal(t, tenant.ID, data["tenantId"])
	assert.Equal(t, "fax", data["channel"])
}

func TestTenantTokenProbe(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, domain.ChannelIdentifiers{})

	body := env.request(t, http.MethodGet, "/webhooks/tenant/tok-acme", nil, "", http.StatusOK)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Acme", data["tenant"])
	channels := data["channels"].([]any)
	assert.Contains(t, channels, "whatsapp")
	assert.Contains(t, channels, "telegram")
}

func TestLeadWebhookCreatesLead(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, domain.ChannelIdentifiers{Phone: "5550199"})

	body := env.request(t, http.MethodPost, "/webhooks/lead", map[string]any{
		"phoneNumber":  "5550100",
		"calledNumber": "5550199",
		"callerName":   "Dana",
		"transcript":   "I want to buy the enterprise plan",
	}, "", http.StatusCreated)

	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "hot", data["interest"])
	assert.Equal(t, "new", data["status"])
	assert.Contains(t, body["message"], "hot")
}
