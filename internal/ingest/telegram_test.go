package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTelegramMessage(t *testing.T) {
	sub, err := ParseTelegram(Payload{
		"update_id":    float64(8234571),
		"bot_username": "@AcmeSupportBot",
		"message": map[string]any{
			"text": "the dashboard shows an error",
			"from": map[string]any{"first_name": "Dana", "last_name": "K"},
			"chat": map[string]any{"id": float64(99123), "username": "dana_k"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "the dashboard shows an error", sub.Description)
	assert.Equal(t, "Dana K", sub.CustomerName)
	assert.Equal(t, "AcmeSupportBot", sub.TelegramHandle)
	assert.Equal(t, "8234571", sub.DedupKey)
	assert.Equal(t, "dana_k", sub.Metadata["telegramId"])
}

func TestParseTelegramCallbackQuery(t *testing.T) {
	sub, err := ParseTelegram(Payload{
		"callback_query": map[string]any{
			"message": map[string]any{
				"caption": "see attached",
				"chat":    map[string]any{"id": float64(42)},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "see attached", sub.Description)
	assert.Equal(t, "Telegram User", sub.CustomerName)
	assert.Equal(t, "42", sub.Metadata["telegramId"])
}

func TestParseTelegramChatIDFallback(t *testing.T) {
	sub, err := ParseTelegram(Payload{
		"message": map[string]any{
			"text": "hello",
			"chat": map[string]any{"id": float64(7), "title": "Acme Group"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Group", sub.CustomerName)
	assert.Equal(t, "7", sub.Metadata["telegramId"])
}

func TestParseTelegramRequiresIdentityAndText(t *testing.T) {
	_, err := ParseTelegram(Payload{
		"message": map[string]any{"chat": map[string]any{"id": float64(7)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Telegram ID and message are required")

	_, err = ParseTelegram(Payload{"message": map[string]any{"text": "no chat"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Telegram ID and message are required")

	_, err = ParseTelegram(Payload{})
	require.Error(t, err)
}

func TestParseTelegramExplicitTenantFallback(t *testing.T) {
	sub, err := ParseTelegram(Payload{
		"tenantId": "tenant-9",
		"message": map[string]any{
			"text": "hi",
			"chat": map[string]any{"username": "someone"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant-9", sub.TenantID)
	assert.Empty(t, sub.TelegramHandle)
}
