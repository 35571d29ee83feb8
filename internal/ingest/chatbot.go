package ingest

import (
	"fmt"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// ParseChatbot normalizes a web chatbot widget submission. Chatbot traffic
// carries no channel identity, so the tenant must arrive explicitly: query
// string, body, or body.metadata, first non-empty wins.
func ParseChatbot(p Payload, queryTenantID string) (*Submission, error) {
	sub := newSubmission(domain.ChannelChatbot)

	tenantID := queryTenantID
	if tenantID == "" {
		tenantID = p.First("tenantId", "metadata.tenantId")
	}
	if tenantID == "" {
		return nil, apperrors.NewValidationError("tenantId is required", nil)
	}

	message := p.First("message", "text", "body")
	if message == "" {
		return nil, apperrors.NewValidationError("Message is required", nil)
	}

	name := p.First("user.name", "visitor.name", "customer.name", "user.email", "visitor.email")
	if name == "" {
		name = "Chatbot User"
	}

	sub.TenantID = tenantID
	sub.Description = message
	sub.CustomerName = name
	sub.CustomerEmail = p.First("user.email", "visitor.email", "customer.email")
	sub.Title = fmt.Sprintf("Chatbot conversation with %s", name)
	sub.Priority = explicitPriority(p.String("priority"))
	sub.DedupKey = p.String("messageId")

	putMeta(sub.Metadata, "sessionId", p.String("sessionId"))
	putMeta(sub.Metadata, "conversationId", p.String("conversationId"))
	putMeta(sub.Metadata, "pageUrl", p.String("pageUrl"))
	return sub, nil
}
