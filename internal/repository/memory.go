package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/support-kit/helpdesk-ingest/internal/domain"
)

// Memory repositories back tests and DSN-less local runs. They return
// pgx.ErrNoRows on misses so callers handle both backends identically.

func errDuplicate(field string) error {
	return fmt.Errorf("duplicate %s", field)
}

type memoryTenantRepository struct {
	mu      sync.RWMutex
	tenants []domain.Tenant
}

// NewMemoryTenantRepository returns an in-memory TenantRepository.
func NewMemoryTenantRepository() TenantRepository {
	return &memoryTenantRepository{}
}

func (r *memoryTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tenants {
		if existing.WebhookToken == tenant.WebhookToken {
			return errDuplicate("webhook_token")
		}
	}
	tenant.ID = uuid.NewString()
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	r.tenants = append(r.tenants, *tenant)
	return nil
}

func (r *memoryTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.tenants {
		if r.tenants[i].ID == id {
			tenant := r.tenants[i]
			return &tenant, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryTenantRepository) GetByToken(ctx context.Context, token string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.tenants {
		if r.tenants[i].WebhookToken == token {
			tenant := r.tenants[i]
			return &tenant, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryTenantRepository) ListWithChannel(ctx context.Context, kind domain.ChannelKind) ([]domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Tenant
	for i := range r.tenants {
		if r.tenants[i].Identifier(kind) != "" {
			result = append(result, r.tenants[i])
		}
	}
	return result, nil
}

type memoryAgentRepository struct {
	mu     sync.RWMutex
	agents []domain.Agent
}

// NewMemoryAgentRepository returns an in-memory AgentRepository.
func NewMemoryAgentRepository() AgentRepository {
	return &memoryAgentRepository{}
}

func (r *memoryAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent.ID = uuid.NewString()
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = agent.CreatedAt
	if agent.Status == "" {
		agent.Status = domain.AgentStatusOffline
	}
	r.agents = append(r.agents, *agent)
	return nil
}

func (r *memoryAgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.agents {
		if r.agents[i].ID == id {
			agent := r.agents[i]
			return &agent, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryAgentRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Agent
	for i := range r.agents {
		if r.agents[i].TenantID == tenantID {
			result = append(result, r.agents[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryAgentRepository) UpdateStatus(ctx context.Context, id string, status domain.AgentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agents {
		if r.agents[i].ID == id {
			r.agents[i].Status = status
			r.agents[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

// NewMemoryTicketRepository returns an in-memory TicketRepository.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tickets {
		if existing.ExternalKey == ticket.ExternalKey {
			return errDuplicate("external_key")
		}
	}
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryTicketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.tickets {
		if r.tickets[i].ExternalKey == key {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryTicketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Ticket
	for i := range r.tickets {
		if matchesFilter(&r.tickets[i], filter) {
			result = append(result, r.tickets[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *memoryTicketRepository) CountOpenByAssignee(ctx context.Context, tenantID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for i := range r.tickets {
		ticket := &r.tickets[i]
		if ticket.TenantID != tenantID || ticket.AssigneeID == nil || !ticket.CountsAsLoad() {
			continue
		}
		counts[*ticket.AssigneeID]++
	}
	return counts, nil
}

func matchesFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if filter.TenantID != nil && ticket.TenantID != *filter.TenantID {
		return false
	}
	if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
		return false
	}
	if filter.Channel != nil && ticket.Channel != *filter.Channel {
		return false
	}
	if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term != "" &&
			!strings.Contains(strings.ToLower(ticket.Title), term) &&
			!strings.Contains(strings.ToLower(ticket.Description), term) {
			return false
		}
	}
	return true
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == priority {
			return true
		}
	}
	return false
}

type memoryLeadRepository struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

// NewMemoryLeadRepository returns an in-memory LeadRepository.
func NewMemoryLeadRepository() LeadRepository {
	return &memoryLeadRepository{}
}

func (r *memoryLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead.ID = uuid.NewString()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	r.leads = append(r.leads, *lead)
	return nil
}

func (r *memoryLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.leads {
		if r.leads[i].ID == id {
			lead := r.leads[i]
			return &lead, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryLeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.leads {
		if r.leads[i].ID == lead.ID {
			lead.UpdatedAt = time.Now()
			r.leads[i] = *lead
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memoryLeadRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Lead
	for i := range r.leads {
		if r.leads[i].TenantID == tenantID {
			result = append(result, r.leads[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

type memoryOperatorRepository struct {
	mu        sync.RWMutex
	operators []domain.Operator
}

// NewMemoryOperatorRepository returns an in-memory OperatorRepository.
func NewMemoryOperatorRepository() OperatorRepository {
	return &memoryOperatorRepository{}
}

func (r *memoryOperatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.operators {
		if strings.EqualFold(existing.Email, operator.Email) {
			return errDuplicate("email")
		}
	}
	operator.ID = uuid.NewString()
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = operator.CreatedAt
	r.operators = append(r.operators, *operator)
	return nil
}

func (r *memoryOperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.operators {
		if r.operators[i].ID == id {
			operator := r.operators[i]
			return &operator, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryOperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.operators {
		if strings.EqualFold(r.operators[i].Email, email) {
			operator := r.operators[i]
			return &operator, nil
		}
	}
	return nil, pgx.ErrNoRows
}
