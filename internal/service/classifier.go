package service

import (
	"strings"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// One canonical keyword set is applied across all channels. Matching is
// case-insensitive substring, first tier wins. Low never results from
// classification; it only appears when a caller sets it explicitly.
var (
	criticalKeywords = []string{"urgent", "emergency", "critical", "asap", "immediately"}
	highKeywords     = []string{"important", "problem", "issue", "not working", "error"}

	hotLeadKeywords  = []string{"buy", "purchase", "price", "quote", "demo", "upgrade"}
	warmLeadKeywords = []string{"interested", "interest", "information", "details", "callback"}
)

// ClassifyPriority infers ticket priority from free-text message content.
func ClassifyPriority(message string) domain.TicketPriority {
	lowered := strings.ToLower(message)
	for _, keyword := range criticalKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.TicketPriorityCritical
		}
	}
	for _, keyword := range highKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.TicketPriorityHigh
		}
	}
	return domain.TicketPriorityMedium
}

// ClassifyLeadInterest grades an inbound call transcript for the leads
// pipeline before optional ticket conversion.
func ClassifyLeadInterest(transcript string) domain.LeadInterest {
	lowered := strings.ToLower(transcript)
	for _, keyword := range hotLeadKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.LeadInterestHot
		}
	}
	for _, keyword := range warmLeadKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.LeadInterestWarm
		}
	}
	return domain.LeadInterestCold
}
