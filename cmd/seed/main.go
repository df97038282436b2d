package main

import (
	"context"
	"os"

	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/leads"
	"heyjarvis_backend/internal/orchestration"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/db"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/validator"
)

// Seeds the configured database with demo leads. The import runs through the
// lead service, so the lead-import workflow scores the batch and drafts
// outreach exactly as an API import would. Usage: seed [fixture.yaml]
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead seed")

	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	req, err := loadFixture(path)
	if err != nil {
		log.Error("failed to load fixture", "path", path, "error", err)
		panic("failed to load fixture: " + err.Error())
	}

	if cfg.GetStoreDriver() != config.StoreDriverPostgres {
		panic("seed requires STORE_DRIVER=postgres")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	store := repository.NewPostgresStore(pool)
	bus := events.NewInMemoryBus(log)
	val := validator.New()

	scoringSvc := scoring.NewService(store, nil, cfg.GetAICallTimeout(), log)
	engine := orchestration.NewEngine(store, scoringSvc, ai.StaticOutreach{}, nil, nil, log, orchestration.Options{
		ExternalCallTimeout: cfg.GetAICallTimeout(),
		OutreachConcurrency: cfg.GetOutreachConcurrency(),
	})
	orchestration.NewModule(engine, val, log).RegisterHandlers(bus)

	leadsModule := leads.NewModule(store, scoringSvc, bus, nil, val, log)
	resp, err := leadsModule.Service().Import(ctx, req)
	if err != nil {
		log.Error("lead import failed", "error", err)
		panic("lead import failed: " + err.Error())
	}

	for _, ie := range resp.ImportErrors {
		log.Warn("fixture lead rejected", "name", ie.Lead.Name, "error", ie.Error)
	}
	log.Info("lead seed complete", "imported", resp.Imported, "errors", resp.Errors, "source", req.Source)
}
