package ingest

import (
	"fmt"
	"strings"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ParseTelegram normalizes a Telegram Bot API update.
//
// The message object is message or callback_query.message. Fallback chains:
//   - text: text -> caption
//   - customer name: from.first_name (+ last_name) -> chat.title -> chat.first_name
//   - telegram identity: chat.username -> chat.id (stringified)
//   - bot handle (tenant resolution): bot_username -> username, leading @ stripped
func ParseTelegram(p Payload) (*Submission, error) {
	sub := newSubmission(domain.ChannelTelegram)

	msg := p.Child("message")
	if msg == nil {
		msg = p.Child("callback_query.message")
	}

	text := msg.First("text", "caption")
	identity := msg.First("chat.username", "chat.id")
	if identity == "" || text == "" {
		return nil, apperrors.NewValidationError("Telegram ID and message are required", nil)
	}

	name := msg.String("from.first_name")
	if last := msg.String("from.last_name"); name != "" && last != "" {
		name = name + " " + last
	}
	if name == "" {
		name = msg.First("chat.title", "chat.first_name")
	}
	if name == "" {
		name = "Telegram User"
	}

	sub.Description = text
	sub.CustomerName = name
	sub.Title = fmt.Sprintf("Telegram message from %s", name)
	sub.Priority = explicitPriority(p.String("priority"))
	sub.TelegramHandle = strings.TrimPrefix(p.First("bot_username", "username"), "@")
	sub.TenantID = p.String("tenantId")
	sub.DedupKey = p.String("update_id")

	putMeta(sub.Metadata, "telegramId", identity)
	putMeta(sub.Metadata, "chatId", msg.String("chat.id"))
	putMeta(sub.Metadata, "chatUsername", msg.String("chat.username"))
	putMeta(sub.Metadata, "updateId", sub.DedupKey)
	return sub, nil
}
