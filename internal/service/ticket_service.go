package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/events"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// TicketService coordinates ticket creation and dashboard reads.
type TicketService struct {
	tickets    repository.TicketRepository
	assigner   *AssignmentService
	dispatcher events.Dispatcher

	// tenantLocks serializes the count-then-assign step per tenant so two
	// concurrent creations cannot both pick the same least-loaded agent.
	// This only covers a single process; multi-instance deployments need a
	// shared store transaction instead.
	tenantLocks sync.Map
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Assigner   *AssignmentService
	Dispatcher events.Dispatcher
}

// TicketCreateInput is the canonical ticket-creation request every channel
// normalizer produces.
type TicketCreateInput struct {
	TenantID      string
	Title         string
	Description   string
	Priority      domain.TicketPriority
	Category      string
	Source        string
	Channel       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	AssigneeID    *string
	Metadata      map[string]any
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		assigner:   deps.Assigner,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates input, auto-assigns an agent when none is given and
// appends the ticket in one step. Either a complete ticket is stored or an
// error is returned and nothing is.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, *domain.Agent, error) {
	if input.TenantID == "" {
		return nil, nil, apperrors.NewValidationError("tenantId is required", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, nil, apperrors.NewValidationError("Description is required", nil)
	}

	ticket := &domain.Ticket{
		ExternalKey:   generateTicketKey(),
		TenantID:      input.TenantID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Priority:      input.Priority,
		Category:      input.Category,
		Source:        input.Source,
		Channel:       input.Channel,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		AssigneeID:    input.AssigneeID,
		Status:        domain.TicketStatusOpen,
		Responses:     0,
		Metadata:      input.Metadata,
	}
	if ticket.Title == "" {
		ticket.Title = apperrors.StringPreview(ticket.Description, 60)
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = "General"
	}
	if ticket.Source == "" {
		ticket.Source = string(domain.ChannelWeb)
	}
	if ticket.Channel == "" {
		ticket.Channel = string(domain.ChannelWeb)
	}
	if ticket.Metadata == nil {
		ticket.Metadata = map[string]any{}
	}

	unlock := s.lockTenant(input.TenantID)
	defer unlock()

	var assignee *domain.Agent
	if ticket.AssigneeID == nil {
		agent, err := s.assigner.SelectAgent(ctx, input.TenantID)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		if agent != nil {
			ticket.AssigneeID = &agent.ID
			assignee = agent
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TenantID: ticket.TenantID,
		Payload: events.TicketCreatedPayload{
			TicketID:    ticket.ID,
			ExternalKey: ticket.ExternalKey,
			Channel:     ticket.Channel,
			Priority:    ticket.Priority,
			Title:       ticket.Title,
		},
	})
	if assignee != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TenantID: ticket.TenantID,
			Payload: events.TicketAssignedPayload{
				TicketID:  ticket.ID,
				AgentID:   ticket.AssigneeID,
				AgentName: assignee.Name,
			},
		})
	}
	return ticket, assignee, nil
}

// GetTicket fetches one ticket by ID.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the dashboard filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) lockTenant(tenantID string) func() {
	val, _ := s.tenantLocks.LoadOrStore(tenantID, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// generateTicketKey derives an external ticket key from the current time.
func generateTicketKey() string {
	return "TKT-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
