package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/events"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
)

func newTicketFixture() (*TicketService, repository.AgentRepository, repository.TicketRepository, events.Dispatcher) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		Assigner:   NewAssignmentService(agents, tickets),
		Dispatcher: dispatcher,
	})
	return svc, agents, tickets, dispatcher
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	ticket, assignee, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		TenantID:    "tenant-1",
		Description: "my report export hangs at 50 percent",
	})
	require.NoError(t, err)
	assert.Nil(t, assignee)
	assert.True(t, strings.HasPrefix(ticket.ExternalKey, "TKT-"))
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, "General", ticket.Category)
	assert.Equal(t, "web", ticket.Source)
	assert.Equal(t, "web", ticket.Channel)
	assert.Equal(t, "my report export hangs at 50 percent", ticket.Title)
	assert.Equal(t, 0, ticket.Responses)
	assert.NotNil(t, ticket.Metadata)
	assert.Nil(t, ticket.AssigneeID)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	_, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{Description: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenantId is required")

	_, _, err = svc.CreateTicket(context.Background(), TicketCreateInput{TenantID: "tenant-1", Description: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Description is required")
}

func TestCreateTicketAutoAssigns(t *testing.T) {
	svc, agents, _, _ := newTicketFixture()
	agent := seedAgent(t, agents, "tenant-1", "Agent A", domain.AgentStatusOnline)

	ticket, assignee, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		TenantID:    "tenant-1",
		Description: "cannot log in",
	})
	require.NoError(t, err)
	require.NotNil(t, assignee)
	assert.Equal(t, agent.ID, assignee.ID)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, agent.ID, *ticket.AssigneeID)
}

func TestCreateTicketKeepsExplicitAssignee(t *testing.T) {
	svc, agents, _, _ := newTicketFixture()
	seedAgent(t, agents, "tenant-1", "Agent A", domain.AgentStatusOnline)
	preassigned := "agent-external"

	ticket, assignee, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		TenantID:    "tenant-1",
		Description: "escalated from email",
		AssigneeID:  &preassigned,
	})
	require.NoError(t, err)
	assert.Nil(t, assignee)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, preassigned, *ticket.AssigneeID)
}

func TestCreateTicketPublishesEvents(t *testing.T) {
	svc, agents, _, dispatcher := newTicketFixture()
	seedAgent(t, agents, "tenant-1", "Agent A", domain.AgentStatusOnline)

	var (
		mu    sync.Mutex
		types []events.EventType
	)
	record := func(ctx context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, event.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketAssigned, record)

	_, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		TenantID:    "tenant-1",
		Description: "printer on fire",
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, types, events.EventTicketCreated)
	assert.Contains(t, types, events.EventTicketAssigned)
}

func TestCreateTicketTitlePreview(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	long := strings.Repeat("a", 100)
	ticket, _, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		TenantID:    "tenant-1",
		Description: long,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ticket.Title), 63)
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(ticket.Title, "...")))
}
