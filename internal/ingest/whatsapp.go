package ingest

import (
	"fmt"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ParseWhatsApp normalizes a WhatsApp BSP webhook body.
//
// Fallback chains:
//   - message text: message.text -> message -> text -> body.text -> body
//   - sender phone: from -> phoneNumber -> waId
//   - business number (tenant resolution): whatsappNumber -> to -> phoneNumber -> from
//   - customer name: contactName -> name -> body.name -> body.contactName
func ParseWhatsApp(p Payload) (*Submission, error) {
	sub := newSubmission(domain.ChannelWhatsApp)

	message := p.First("message.text", "message", "text", "body.text", "body")
	senderPhone := p.First("from", "phoneNumber", "waId")
	if senderPhone == "" || message == "" {
		return nil, apperrors.NewValidationError("Phone number and message are required", nil)
	}

	sub.Description = message
	sub.CustomerPhone = senderPhone
	sub.CustomerName = p.First("contactName", "name", "body.name", "body.contactName")
	if sub.CustomerName == "" {
		sub.CustomerName = "WhatsApp User"
	}
	sub.Title = fmt.Sprintf("WhatsApp message from %s", sub.CustomerName)
	sub.Priority = explicitPriority(p.String("priority"))
	sub.PhoneCandidates = dedupeStrings(
		p.String("whatsappNumber"),
		p.String("to"),
		p.String("phoneNumber"),
		senderPhone,
	)
	sub.DedupKey = p.First("id", "message.id", "messageId")

	putMeta(sub.Metadata, "whatsappSender", senderPhone)
	putMeta(sub.Metadata, "whatsappNumber", p.String("whatsappNumber"))
	putMeta(sub.Metadata, "messageId", sub.DedupKey)
	putMeta(sub.Metadata, "timestamp", p.String("timestamp"))
	return sub, nil
}

func dedupeStrings(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, val := range values {
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		result = append(result, val)
	}
	return result
}
