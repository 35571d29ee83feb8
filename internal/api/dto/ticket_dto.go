package dto

import (
	"time"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// TicketResponse is the ticket representation returned by webhook and
// dashboard endpoints.
type TicketResponse struct {
	ID            string                `json:"id"`
	ExternalKey   string                `json:"externalKey"`
	TenantID      string                `json:"tenantId"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Category      string                `json:"category"`
	Source        string                `json:"source"`
	Channel       string                `json:"channel"`
	CustomerName  string                `json:"customerName"`
	CustomerEmail string                `json:"customerEmail,omitempty"`
	CustomerPhone string                `json:"customerPhone,omitempty"`
	AssigneeID    *string               `json:"assigneeId"`
	Status        domain.TicketStatus   `json:"status"`
	Responses     int                   `json:"responses"`
	Metadata      map[string]any        `json:"metadata,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// TicketFromDomain converts a domain ticket.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		ExternalKey:   t.ExternalKey,
		TenantID:      t.TenantID,
		Title:         t.Title,
		Description:   t.Description,
		Priority:      t.Priority,
		Category:      t.Category,
		Source:        t.Source,
		Channel:       t.Channel,
		CustomerName:  t.CustomerName,
		CustomerEmail: t.CustomerEmail,
		CustomerPhone: t.CustomerPhone,
		AssigneeID:    t.AssigneeID,
		Status:        t.Status,
		Responses:     t.Responses,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
