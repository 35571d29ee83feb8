package events

import (
	"time"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventLeadCreated    EventType = "lead_created"
	EventLeadConverted  EventType = "lead_converted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID    string                `json:"ticket_id"`
	ExternalKey string                `json:"external_key"`
	Channel     string                `json:"channel"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID  string  `json:"ticket_id"`
	AgentID   *string `json:"agent_id,omitempty"`
	AgentName string  `json:"agent_name,omitempty"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	LeadID   string              `json:"lead_id"`
	Phone    string              `json:"phone"`
	Interest domain.LeadInterest `json:"interest"`
}

// LeadConvertedPayload payload.
type LeadConvertedPayload struct {
	LeadID   string `json:"lead_id"`
	TicketID string `json:"ticket_id"`
}
