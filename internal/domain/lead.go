package domain

import "time"

// LeadInterest grades how promising an inbound call looks.
type LeadInterest string

const (
	LeadInterestHot  LeadInterest = "hot"
	LeadInterestWarm LeadInterest = "warm"
	LeadInterestCold LeadInterest = "cold"
)

// LeadStatus tracks the lead pipeline state.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusDiscarded LeadStatus = "discarded"
)

// Lead captures an inbound call classified before optional ticket conversion.
type Lead struct {
	ID         string
	TenantID   string
	CallerName string
	Phone      string
	Transcript string
	Interest   LeadInterest
	Status     LeadStatus
	TicketID   *string
	Metadata   map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
