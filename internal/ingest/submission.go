package ingest

import "github.com/support-kit/helpdesk-ingest/internal/domain"

// Submission is the channel-neutral result of parsing one inbound payload.
// Tenant hints carry every identity signal the payload exposed; the resolver
// decides which one wins.
type Submission struct {
	// Tenant hints, in the order resolution will try them.
	TenantID        string
	PhoneCandidates []string
	TelegramHandle  string
	Email           string

	Title         string
	Description   string
	Priority      domain.TicketPriority
	Category      string
	Source        string
	Channel       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Metadata      map[string]any

	// DedupKey is the provider's delivery identifier, when one exists.
	DedupKey string
}

func newSubmission(channel domain.ChannelKind) *Submission {
	return &Submission{
		Source:   string(channel),
		Channel:  string(channel),
		Metadata: map[string]any{},
	}
}

// explicitPriority maps a caller-supplied priority value onto the known
// levels; anything unrecognized is dropped so classification applies.
func explicitPriority(raw string) domain.TicketPriority {
	switch raw {
	case string(domain.TicketPriorityLow):
		return domain.TicketPriorityLow
	case string(domain.TicketPriorityMedium):
		return domain.TicketPriorityMedium
	case string(domain.TicketPriorityHigh):
		return domain.TicketPriorityHigh
	case string(domain.TicketPriorityCritical):
		return domain.TicketPriorityCritical
	default:
		return ""
	}
}

func putMeta(meta map[string]any, key, value string) {
	if value != "" {
		meta[key] = value
	}
}
