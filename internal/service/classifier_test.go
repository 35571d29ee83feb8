package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    domain.TicketPriority
	}{
		{"critical keyword", "URGENT cannot login", domain.TicketPriorityCritical},
		{"critical beats high", "urgent problem with billing", domain.TicketPriorityCritical},
		{"critical mid-sentence", "please fix this asap thanks", domain.TicketPriorityCritical},
		{"high keyword", "there is a problem with my invoice", domain.TicketPriorityHigh},
		{"high keyword uppercase", "IMPORTANT: renewal question", domain.TicketPriorityHigh},
		{"compound high keyword", "the app is not working on my phone", domain.TicketPriorityHigh},
		{"no keyword", "how do I change my avatar?", domain.TicketPriorityMedium},
		{"empty message", "", domain.TicketPriorityMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyPriority(tc.message))
		})
	}
}

func TestClassifyPriorityNeverLow(t *testing.T) {
	for _, message := range []string{"low", "minor nitpick", "whenever you get a chance"} {
		assert.NotEqual(t, domain.TicketPriorityLow, ClassifyPriority(message))
	}
}

func TestClassifyLeadInterest(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       domain.LeadInterest
	}{
		{"hot keyword", "I want to buy the enterprise plan", domain.LeadInterestHot},
		{"hot beats warm", "interested in a price quote", domain.LeadInterestHot},
		{"warm keyword", "send me more information please", domain.LeadInterestWarm},
		{"no keyword", "wrong number, sorry", domain.LeadInterestCold},
		{"empty transcript", "", domain.LeadInterestCold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyLeadInterest(tc.transcript))
		})
	}
}
