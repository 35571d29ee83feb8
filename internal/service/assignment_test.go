package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
)

func seedAgent(t *testing.T, repo repository.AgentRepository, tenantID, name string, status domain.AgentStatus) *domain.Agent {
	t.Helper()
	agent := &domain.Agent{TenantID: tenantID, Name: name, Status: status}
	require.NoError(t, repo.Create(context.Background(), agent))
	return agent
}

func seedOpenTicket(t *testing.T, repo repository.TicketRepository, tenantID string, assigneeID string) {
	t.Helper()
	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		TenantID:    tenantID,
		Title:       "seed",
		Description: "seed",
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusOpen,
		AssigneeID:  &assigneeID,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
}

func TestSelectAgentLeastLoaded(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)
	tenantID := "tenant-1"

	a := seedAgent(t, agents, tenantID, "Agent A", domain.AgentStatusOnline)
	b := seedAgent(t, agents, tenantID, "Agent B", domain.AgentStatusOnline)
	seedAgent(t, agents, tenantID, "Agent C", domain.AgentStatusOffline)

	seedOpenTicket(t, tickets, tenantID, a.ID)
	seedOpenTicket(t, tickets, tenantID, a.ID)

	selected, err := assigner.SelectAgent(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, b.ID, selected.ID)
}

func TestSelectAgentResolvedTicketsDoNotCount(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)
	tenantID := "tenant-1"

	a := seedAgent(t, agents, tenantID, "Agent A", domain.AgentStatusOnline)
	b := seedAgent(t, agents, tenantID, "Agent B", domain.AgentStatusOnline)

	closed := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		TenantID:    tenantID,
		Title:       "done",
		Description: "done",
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusResolved,
		AssigneeID:  &a.ID,
	}
	require.NoError(t, tickets.Create(context.Background(), closed))
	seedOpenTicket(t, tickets, tenantID, b.ID)

	selected, err := assigner.SelectAgent(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, a.ID, selected.ID)
}

func TestSelectAgentAwayCountsAsAvailable(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)
	tenantID := "tenant-1"

	a := seedAgent(t, agents, tenantID, "Agent A", domain.AgentStatusOnline)
	away := seedAgent(t, agents, tenantID, "Agent Away", domain.AgentStatusAway)
	seedOpenTicket(t, tickets, tenantID, a.ID)

	selected, err := assigner.SelectAgent(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, away.ID, selected.ID)
}

func TestSelectAgentFallbackWhenNoneAvailable(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)
	tenantID := "tenant-1"

	first := seedAgent(t, agents, tenantID, "Agent First", domain.AgentStatusOffline)
	seedAgent(t, agents, tenantID, "Agent Second", domain.AgentStatusOffline)

	selected, err := assigner.SelectAgent(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, first.ID, selected.ID)
}

func TestSelectAgentNoAgents(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)

	selected, err := assigner.SelectAgent(context.Background(), "tenant-empty")
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func TestSelectAgentTieBreaksByStoredOrder(t *testing.T) {
	agents := repository.NewMemoryAgentRepository()
	tickets := repository.NewMemoryTicketRepository()
	assigner := NewAssignmentService(agents, tickets)
	tenantID := "tenant-1"

	first := seedAgent(t, agents, tenantID, "Agent First", domain.AgentStatusOnline)
	seedAgent(t, agents, tenantID, "Agent Second", domain.AgentStatusOnline)

	selected, err := assigner.SelectAgent(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, first.ID, selected.ID)
}
