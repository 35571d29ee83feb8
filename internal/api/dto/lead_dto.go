package dto

import (
	"time"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// LeadResponse representation.
type LeadResponse struct {
	ID         string              `json:"id"`
	TenantID   string              `json:"tenantId"`
	CallerName string              `json:"callerName,omitempty"`
	Phone      string              `json:"phone"`
	Transcript string              `json:"transcript,omitempty"`
	Interest   domain.LeadInterest `json:"interest"`
	Status     domain.LeadStatus   `json:"status"`
	TicketID   *string             `json:"ticketId"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// LeadFromDomain converts a domain lead.
func LeadFromDomain(l *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		TenantID:   l.TenantID,
		CallerName: l.CallerName,
		Phone:      l.Phone,
		Transcript: l.Transcript,
		Interest:   l.Interest,
		Status:     l.Status,
		TicketID:   l.TicketID,
		CreatedAt:  l.CreatedAt,
	}
}
