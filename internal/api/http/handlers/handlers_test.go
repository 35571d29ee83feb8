package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/support-kit/helpdesk-ingest/internal/api/http"
	"github.com/support-kit/helpdesk-ingest/internal/api/http/handlers"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/config"
	"github.com/support-kit/helpdesk-ingest/internal/domain"
	"github.com/support-kit/helpdesk-ingest/internal/events"
	"github.com/support-kit/helpdesk-ingest/internal/observability"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	"github.com/support-kit/helpdesk-ingest/internal/service"
)

// testEnv wires the whole service graph on in-memory repositories.
type testEnv struct {
	app       *fiber.App
	tenants   repository.TenantRepository
	agents    repository.AgentRepository
	tickets   repository.TicketRepository
	leads     repository.LeadRepository
	operators repository.OperatorRepository
	auth      *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tenantRepo := repository.NewMemoryTenantRepository()
	agentRepo := repository.NewMemoryAgentRepository()
	ticketRepo := repository.NewMemoryTicketRepository()
	leadRepo := repository.NewMemoryLeadRepository()
	operatorRepo := repository.NewMemoryOperatorRepository()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	resolver := service.NewResolverService(service.ResolverDependencies{
		TenantRepo:    tenantRepo,
		CountryPrefix: "91",
		Logger:        logger,
	})
	assigner := service.NewAssignmentService(agentRepo, ticketRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Assigner:   assigner,
		Dispatcher: dispatcher,
	})
	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   leadRepo,
		Tickets:    ticketService,
		Dispatcher: dispatcher,
	})
	ingestService := service.NewIngestService(service.IngestDependencies{
		Resolver:        resolver,
		Tickets:         ticketService,
		Leads:           leadService,
		DefaultCategory: "General",
		Metrics:         metrics,
		Logger:          logger,
	})
	tenantService := service.NewTenantService(tenantRepo, agentRepo, "91")
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
	}, operatorRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Webhooks:       handlers.NewWebhooksHandler(ingestService, resolver),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Tenants:        handlers.NewTenantsHandler(tenantService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), operatorRepo),
	})

	return &testEnv{
		app:       app,
		tenants:   tenantRepo,
		agents:    agentRepo,
		tickets:   ticketRepo,
		leads:     leadRepo,
		operators: operatorRepo,
		auth:      authService,
	}
}

func (env *testEnv) seedTenant(t *testing.T, channels domain.ChannelIdentifiers) *domain.Tenant {
	t.Helper()
	tenant := &domain.Tenant{
		Name:         "Acme",
		Email:        "ops@acme.test",
		WebhookToken: "tok-acme",
		Channels:     channels,
	}
	require.NoError(t, env.tenants.Create(context.Background(), tenant))
	return tenant
}

func (env *testEnv) seedAgent(t *testing.T, tenantID, name string, status domain.AgentStatus) *domain.Agent {
	t.Helper()
	agent := &domain.Agent{TenantID: tenantID, Name: name, Status: status}
	require.NoError(t, env.agents.Create(context.Background(), agent))
	return agent
}

func (env *testEnv) seedOperator(t *testing.T, role domain.OperatorRole, tenantID *string) string {
	t.Helper()
	_, err := env.auth.RegisterOperator(context.Background(), "Op", "op@example.test", "secret123", role, tenantID)
	require.NoError(t, err)
	body := env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "op@example.test",
		"password": "secret123",
	}, "", http.StatusOK)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

// request performs an HTTP call against the fiber app and decodes the
// envelope, asserting the expected status.
func (env *testEnv) request(t *testing.T, method, target string, payload any, bearer string, wantStatus int) map[string]any {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}
