package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"heyjarvis_backend/internal/activities"
	"heyjarvis_backend/internal/adapters/storage"
	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/approvals"
	"heyjarvis_backend/internal/campaigns"
	"heyjarvis_backend/internal/dashboard"
	"heyjarvis_backend/internal/email"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/generation"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/http/router"
	"heyjarvis_backend/internal/leads"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/notification/sse"
	"heyjarvis_backend/internal/notification/ws"
	"heyjarvis_backend/internal/orchestration"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scheduler"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/internal/sites"
	"heyjarvis_backend/internal/workflows"
	"heyjarvis_backend/platform/ai/moonshot"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/db"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	shutdownTimeout = 10 * time.Second
	approvalsPath   = "/approvals"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure sites bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	store, closeStore := initStore(ctx, cfg, log)
	defer closeStore()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	gens := initGenerators(cfg, log)

	var uploader storage.StorageService
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, cfg.GetMinioBucketSites())
		uploader = storageSvc
		log.Info("storage service initialized", "sitesBucket", cfg.GetMinioBucketSites())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; site content uploads disabled")
	}

	// ========================================================================
	// Notification Sink
	// ========================================================================

	mailer := notification.NewApprovalMailer(email.NewSender(cfg), cfg.GetApprovalNotifyEmail(), dashboardURL(cfg), log)
	notificationModule := notification.NewModule(sse.New(log), ws.NewHub(log, originAllowed(cfg)), mailer, log)
	defer notificationModule.Close()

	// ========================================================================
	// Orchestration Engine
	// ========================================================================

	scoringSvc := scoring.NewService(store, gens.scorer, cfg.GetAICallTimeout(), log)

	completionScheduler, bindScheduler, closeScheduler := initScheduler(cfg, log)
	defer closeScheduler()

	engine := orchestration.NewEngine(store, scoringSvc, gens.outreach, notificationModule, completionScheduler, log, orchestration.Options{
		ExternalCallTimeout: cfg.GetAICallTimeout(),
		OutreachConcurrency: cfg.GetOutreachConcurrency(),
		ABTestDelay:         cfg.GetABTestCompletionDelay(),
	})
	bindScheduler(engine)

	orchestrationModule := orchestration.NewModule(engine, val, log)
	orchestrationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(store, scoringSvc, eventBus, notificationModule, val, log)
	approvalsModule := approvals.NewModule(store, eventBus, notificationModule, val, log)
	workflowsModule := workflows.NewModule(store, engine, notificationModule, val, log)
	campaignsModule := campaigns.NewModule(store, eventBus, notificationModule, cfg, val, log)
	sitesModule := sites.NewModule(sites.Deps{
		Store:    store,
		Content:  gens.site,
		Uploader: uploader,
		Bucket:   cfg.GetMinioBucketSites(),
		Bus:      eventBus,
		Notifier: notificationModule,
	}, val, log)
	generationModule := generation.NewModule(generation.Generators{
		Outreach: gens.outreach,
		Site:     gens.site,
		Insights: gens.insights,
	}, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   store,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			notificationModule,
			orchestrationModule,
			leadsModule,
			workflowsModule,
			approvalsModule,
			activities.NewModule(store),
			campaignsModule,
			sitesModule,
			generationModule,
			dashboard.NewModule(store),
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStore opens the configured record store. The returned func releases it.
func initStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, func()) {
	if cfg.GetStoreDriver() != config.StoreDriverPostgres {
		log.Warn("using in-memory store; data is lost on restart")
		return repository.NewMemoryStore(), func() {}
	}

	pool, err := connectDB(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return repository.NewPostgresStore(pool), pool.Close
}

type generators struct {
	scorer   scoring.Scorer
	outreach orchestration.MessageGenerator
	site     generation.SiteWriter
	insights generation.InsightsWriter
}

// initGenerators builds the LLM agents, or static stand-ins when no model is
// configured. Scoring then runs on the heuristic alone.
func initGenerators(cfg *config.Config, log *logger.Logger) generators {
	static := generators{outreach: ai.StaticOutreach{}, site: ai.StaticSiteContent{}}
	if !cfg.IsLLMEnabled() {
		log.Warn("LLM_API_KEY not configured; using heuristic scoring and default content")
		return static
	}

	llm := moonshot.NewModel(moonshot.Config{
		APIKey:  cfg.GetLLMAPIKey(),
		BaseURL: cfg.GetLLMBaseURL(),
		Model:   cfg.GetLLMModel(),
	})

	newAgent := func(agentCfg ai.AgentConfig) *ai.Agent {
		a, err := ai.NewAgent(llm, agentCfg)
		if err != nil {
			log.Error("failed to initialize agent", "agent", agentCfg.Name, "error", err)
			panic("failed to initialize agent: " + err.Error())
		}
		return a
	}

	log.Info("language model configured", "model", llm.Name())
	return generators{
		scorer:   ai.NewLeadScorer(newAgent(ai.LeadScorerAgentConfig())),
		outreach: ai.NewOutreachGenerator(newAgent(ai.OutreachAgentConfig())),
		site:     ai.NewSiteContentGenerator(newAgent(ai.SiteContentAgentConfig())),
		insights: ai.NewInsightsGenerator(newAgent(ai.InsightsAgentConfig())),
	}
}

// initScheduler picks asynq when Redis is configured and in-process timers
// otherwise. The bind func attaches the engine once it exists.
func initScheduler(cfg *config.Config, log *logger.Logger) (orchestration.Scheduler, func(scheduler.WorkflowCompleter), func()) {
	if cfg.IsSchedulerEnabled() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		log.Info("deferred completions scheduled through asynq", "queue", cfg.GetAsynqQueueName())
		return client, func(scheduler.WorkflowCompleter) {}, func() { _ = client.Close() }
	}

	log.Warn("REDIS_URL not configured; deferred completions run in-process")
	local := scheduler.NewLocalScheduler(log)
	return local, local.Bind, local.Close
}

// dashboardURL is where approval mails link to: the first allowed origin.
func dashboardURL(cfg config.HTTPConfig) string {
	origins := cfg.GetCORSOrigins()
	if len(origins) == 0 {
		return ""
	}
	return strings.TrimRight(origins[0], "/") + approvalsPath
}

// originAllowed applies the CORS policy to WebSocket upgrades.
func originAllowed(cfg config.HTTPConfig) func(string) bool {
	if cfg.GetCORSAllowAll() {
		return nil
	}
	origins := cfg.GetCORSOrigins()
	return func(origin string) bool {
		return slices.Contains(origins, origin)
	}
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
