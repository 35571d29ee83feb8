package service

import (
	"context"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
)

// AssignmentService selects an agent for newly created tickets.
type AssignmentService struct {
	agents  repository.AgentRepository
	tickets repository.TicketRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(agents repository.AgentRepository, tickets repository.TicketRepository) *AssignmentService {
	return &AssignmentService{agents: agents, tickets: tickets}
}

// SelectAgent picks the least-loaded available agent for the tenant.
//
// No agents at all yields (nil, nil): the ticket stays unassigned, which is
// a normal outcome. When no agent is available the tenant's first agent by
// stored order receives the ticket regardless of status, so a ticket always
// gets an assignee if the tenant has any agent. Among available agents the
// strictly lowest open-ticket count wins, ties broken by stored order.
func (s *AssignmentService) SelectAgent(ctx context.Context, tenantID string) (*domain.Agent, error) {
	agents, err := s.agents.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}

	available := make([]domain.Agent, 0, len(agents))
	for _, agent := range agents {
		if agent.Available() {
			available = append(available, agent)
		}
	}
	if len(available) == 0 {
		first := agents[0]
		return &first, nil
	}

	loads, err := s.tickets.CountOpenByAssignee(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	best := available[0]
	bestLoad := loads[best.ID]
	for _, candidate := range available[1:] {
		if load := loads[candidate.ID]; load < bestLoad {
			best = candidate
			bestLoad = load
		}
	}
	return &best, nil
}
