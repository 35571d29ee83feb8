package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/events"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	apperrors "github.com/support-kit/helpdesk-ingest/pkg/util"
)

// LeadService runs the inbound-call leads pipeline: classify first, convert
// to a ticket only on demand.
type LeadService struct {
	leads      repository.LeadRepository
	tickets    *TicketService
	dispatcher events.Dispatcher
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Tickets    *TicketService
	Dispatcher events.Dispatcher
}

// LeadCreateInput describes an inbound call entering the pipeline.
type LeadCreateInput struct {
	TenantID   string
	CallerName string
	Phone      string
	Transcript string
	Metadata   map[string]any
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		leads:      deps.LeadRepo,
		tickets:    deps.Tickets,
		dispatcher: deps.Dispatcher,
	}
}

// CreateLead classifies and stores an inbound call as a lead.
func (s *LeadService) CreateLead(ctx context.Context, input LeadCreateInput) (*domain.Lead, error) {
	if input.TenantID == "" {
		return nil, apperrors.NewValidationError("tenantId is required", nil)
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.NewValidationError("Phone number is required", nil)
	}

	lead := &domain.Lead{
		TenantID:   input.TenantID,
		CallerName: strings.TrimSpace(input.CallerName),
		Phone:      strings.TrimSpace(input.Phone),
		Transcript: strings.TrimSpace(input.Transcript),
		Interest:   ClassifyLeadInterest(input.Transcript),
		Status:     domain.LeadStatusNew,
		Metadata:   input.Metadata,
	}
	if lead.Metadata == nil {
		lead.Metadata = map[string]any{}
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventLeadCreated,
		TenantID: lead.TenantID,
		Payload: events.LeadCreatedPayload{
			LeadID:   lead.ID,
			Phone:    lead.Phone,
			Interest: lead.Interest,
		},
	})
	return lead, nil
}

// ConvertLead turns a lead into a ticket through the regular creation path,
// so priority classification and agent assignment apply unchanged.
func (s *LeadService) ConvertLead(ctx context.Context, leadID string) (*domain.Lead, *domain.Ticket, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if lead.Status == domain.LeadStatusConverted {
		return nil, nil, apperrors.NewConflict("lead already converted", map[string]any{"lead_id": leadID})
	}

	description := lead.Transcript
	if description == "" {
		description = fmt.Sprintf("Phone call received from %s", lead.Phone)
	}
	ticket, _, err := s.tickets.CreateTicket(ctx, TicketCreateInput{
		TenantID:      lead.TenantID,
		Title:         fmt.Sprintf("Call from %s", callerLabel(lead)),
		Description:   description,
		Priority:      ClassifyPriority(lead.Transcript),
		Source:        string(domain.ChannelPhone),
		Channel:       string(domain.ChannelPhone),
		CustomerName:  callerLabel(lead),
		CustomerPhone: lead.Phone,
		Metadata: map[string]any{
			"leadId":       lead.ID,
			"leadInterest": string(lead.Interest),
		},
	})
	if err != nil {
		return nil, nil, err
	}

	lead.Status = domain.LeadStatusConverted
	lead.TicketID = &ticket.ID
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventLeadConverted,
		TenantID: lead.TenantID,
		Payload: events.LeadConvertedPayload{
			LeadID:   lead.ID,
			TicketID: ticket.ID,
		},
	})
	return lead, ticket, nil
}

// GetLead fetches a lead by ID.
func (s *LeadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return lead, nil
}

// ListLeads returns the tenant's leads, newest first.
func (s *LeadService) ListLeads(ctx context.Context, tenantID string, limit, offset int) ([]domain.Lead, error) {
	leads, err := s.leads.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leads, nil
}

func callerLabel(lead *domain.Lead) string {
	if lead.CallerName != "" {
		return lead.CallerName
	}
	return lead.Phone
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
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
