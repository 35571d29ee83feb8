package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/support-kit/helpdesk-ingest/internal/api/http"
	"github.com/support-kit/helpdesk-ingest/internal/api/http/handlers"
	"github.com/support-kit/helpdesk-ingest/internal/auth"
	"github.com/support-kit/helpdesk-ingest/internal/config"
	"github.com/support-kit/helpdesk-ingest/internal/events"
	"github.com/support-kit/helpdesk-ingest/internal/observability"
	"github.com/support-kit/helpdesk-ingest/internal/persistence"
	"github.com/support-kit/helpdesk-ingest/internal/repository"
	"github.com/support-kit/helpdesk-ingest/internal/service"
	"github.com/support-kit/helpdesk-ingest/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		tenantRepo   repository.TenantRepository
		agentRepo    repository.AgentRepository
		ticketRepo   repository.TicketRepository
		leadRepo     repository.LeadRepository
		operatorRepo repository.OperatorRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		tenantRepo = repository.NewTenantRepository(pool)
		agentRepo = repository.NewAgentRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
		leadRepo = repository.NewLeadRepository(pool)
		operatorRepo = repository.NewOperatorRepository(pool)
	} else {
		tenantRepo = repository.NewMemoryTenantRepository()
		agentRepo = repository.NewMemoryAgentRepository()
		ticketRepo = repository.NewMemoryTicketRepository()
		leadRepo = repository.NewMemoryLeadRepository()
		operatorRepo = repository.NewMemoryOperatorRepository()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	resolver := service.NewResolverService(service.ResolverDependencies{
		TenantRepo:    tenantRepo,
		Cache:         redis,
		CacheTTL:      cfg.Routing.ResolverCacheTTL(),
		CountryPrefix: cfg.Routing.CountryPrefix,
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
		Dedup:           redis,
		DedupTTL:        cfg.Routing.WebhookDedupTTL(),
		DefaultCategory: cfg.Routing.DefaultTicketCategory,
		Metrics:         metrics,
		Logger:          logger,
	})
	tenantService := service.NewTenantService(tenantRepo, agentRepo, cfg.Routing.CountryPrefix)
	authService := service.NewAuthService(cfg.Auth, operatorRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), operatorRepo)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Webhooks:       handlers.NewWebhooksHandler(ingestService, resolver),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Tenants:        handlers.NewTenantsHandler(tenantService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
