package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/blob"
	"github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/database"
	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/pkg/telemetry"
	"github.com/ghuser/oraclegate/pkg/workflows"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
	"github.com/ghuser/oraclegate/services/commodity/application/subscribers"
	commodityWorkflows "github.com/ghuser/oraclegate/services/commodity/application/workflows"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{Config: cfg, Logger: log}

	if app.NeedsDatabase(cfg) {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer pool.Close()
		appConfig.Db = pool
		log.Info("database pool connected")
	}

	// The worker only consumes, so the SQL bus runs without a forwarder.
	eventBus, err := events.Open(cfg, log, events.ConsumeOnly(), events.WithConsumerGroup(cfg.ServiceName+"-owner-cache"))
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck
	appConfig.EventBus = eventBus

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	appConfig.Redis = redisClient
	log.Info("redis connected")

	if eventBus.Durable() {
		if err := subscribers.Register(ctx, eventBus, cache.NewOwnerCache(redisClient), log); err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	} else {
		log.Warn("in-process event transport: notifications are consumed by the api process, not the worker")
	}

	store, err := persistence.Open(ctx, appConfig)
	if err != nil {
		log.Error("failed to open registry store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1) //nolint:gocritic
	}
	defer store.Close() //nolint:errcheck

	svcs, err := appsvcs.New(appConfig, store, appsvcs.StaticAuthenticator{Account: models.AccountID(cfg.GenesisCaller)})
	if err != nil {
		log.Error("failed to wire commodity services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	snapshots, err := blob.NewFromConfig(ctx, cfg)
	if err == nil {
		err = snapshots.EnsureBucket(ctx)
	}
	if err != nil {
		log.Warn("snapshot store unavailable, audits will not export snapshots", "error", err)
	} else {
		appConfig.Blob = snapshots
		log.Info("snapshot store ready", "bucket", snapshots.Bucket())
	}

	temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.TemporalTaskQueue, log)
	if err != nil {
		log.Error("failed to initialize temporal client", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer temporalClient.Close()
	appConfig.TemporalClient = temporalClient

	acts := &commodityWorkflows.Activities{Registry: svcs.Commodity}
	if appConfig.Blob != nil {
		acts.Blob = appConfig.Blob
	}

	w := temporalClient.NewWorker()
	commodityWorkflows.Register(w, acts)
	if err := w.Start(); err != nil {
		log.Error("failed to start temporal worker", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer w.Stop()

	params := commodityWorkflows.AuditParams{ExportSnapshot: acts.Blob != nil}
	if _, err := temporalClient.StartCron(ctx, commodityWorkflows.AuditWorkflowID, cfg.AuditCron, commodityWorkflows.AuditWorkflow, params); err != nil {
		log.Error("failed to schedule registry audit", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}
