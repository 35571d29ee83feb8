package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Ticket is the unit of work produced by channel ingestion.
type Ticket struct {
	ID            string
	ExternalKey   string
	TenantID      string
	Title         string
	Description   string
	Priority      TicketPriority
	Category      string
	Source        string
	Channel       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	AssigneeID    *string
	Status        TicketStatus
	Responses     int
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CountsAsLoad reports whether the ticket contributes to an agent's open
// workload for load-balanced assignment.
func (t *Ticket) CountsAsLoad() bool {
	return t.Status != TicketStatusResolved && t.Status != TicketStatusClosed
}
