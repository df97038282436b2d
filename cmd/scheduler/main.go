package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heyjarvis_backend/internal/orchestration"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scheduler"
	"heyjarvis_backend/platform/config"
	"heyjarvis_backend/platform/db"
	"heyjarvis_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	if !cfg.IsSchedulerEnabled() {
		panic("scheduler requires REDIS_URL")
	}
	// Completions are written to the shared database; an in-memory store
	// would never see the API's workflows.
	if cfg.GetStoreDriver() != config.StoreDriverPostgres {
		panic("scheduler requires STORE_DRIVER=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)

	// Deferred completions only touch workflows and the activity log, so the
	// worker-side engine runs without scorer, writer or live notifications.
	engine := orchestration.NewEngine(store, nil, nil, nil, nil, log, orchestration.Options{
		ExternalCallTimeout: cfg.GetAICallTimeout(),
	})

	worker, err := scheduler.NewWorker(cfg, engine, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
