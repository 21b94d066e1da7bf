package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/oraclegate/docs/swagger"
	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/database"
	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/httpx"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/pkg/telemetry"
	commodityApi "github.com/ghuser/oraclegate/services/commodity/application/api"
	"github.com/ghuser/oraclegate/services/commodity/application/genesis"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
	"github.com/ghuser/oraclegate/services/commodity/application/subscribers"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence"
)

// @title						OracleGate API
// @version					1.0
// @description				Commodity ownership registry: mint, burn and transfer uniquely identified items.
// @contact.name				API Support
// @license.name				MIT
// @license.url				https://opensource.org/licenses/MIT
// @host						localhost:8080
// @BasePath					/api
// @schemes					http https
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{
		Config: cfg,
		Logger: log,
		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ServiceName),
	}

	if app.NeedsDatabase(cfg) {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
		}
		defer pool.Close()
		appConfig.Db = pool
		log.Info("database pool connected")
	}

	eventBus, err := events.Open(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck
	appConfig.EventBus = eventBus

	if eventBus.Durable() {
		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	switch {
	case err == nil:
		defer redisClient.Close() //nolint:errcheck
		appConfig.Redis = redisClient
		appConfig.SessionStore = auth.NewSessionStore(
			redisClient.Client(),
			[]byte(cfg.SessionAuthKey),
			[]byte(cfg.SessionEncryptionKey),
			cfg.Environment == config.EnvProduction,
			cfg.JWTTTL,
		)
		log.Info("redis connected", "sessions", "redis", "owner_cache", true)
	case cfg.StoreBackend == config.StoreRedis:
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	default:
		log.Warn("redis unavailable, continuing with bearer tokens only and no owner cache", "error", err)
	}

	store, err := persistence.Open(ctx, appConfig)
	if err != nil {
		log.Error("failed to open registry store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1) //nolint:gocritic
	}
	defer store.Close() //nolint:errcheck
	log.Info("registry store opened", "backend", cfg.StoreBackend)

	if cfg.GenesisFile != "" {
		if err := applyGenesis(ctx, appConfig, store); err != nil {
			log.Error("failed to apply genesis", "error", err, "file", cfg.GenesisFile)
			os.Exit(1) //nolint:gocritic
		}
	}

	svcs, err := appsvcs.New(appConfig, store, appsvcs.ContextAuthenticator{})
	if err != nil {
		log.Error("failed to wire commodity services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	// Without a durable bus no worker sees our notifications; maintain the
	// owner cache in-process instead.
	if !eventBus.Durable() && appConfig.Redis != nil {
		if err := subscribers.Register(ctx, eventBus, cache.NewOwnerCache(appConfig.Redis), log); err != nil {
			log.Error("failed to register subscribers", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.IsDevelopment(),
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(log),
			Sentry:   telemetry.SentryMiddleware(),
			Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
			Logging:  logger.Middleware(log),
		},
	)

	checks := httpx.HealthChecks{"event_bus": eventBus, "redis": nil}
	if hc, ok := store.(httpx.HealthChecker); ok {
		checks["store"] = hc
	}
	if appConfig.Redis != nil {
		checks["redis"] = appConfig.Redis
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig, svcs)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	commodityApi.CommodityRoutes(r, a, svcs)
}

func applyGenesis(ctx context.Context, a *app.Application, store storage.Store) error {
	f, err := genesis.Load(a.Config.GenesisFile)
	if err != nil {
		return err
	}
	reg := registry.New(store, appsvcs.RegistryOptions(a))
	_, err = genesis.Apply(ctx, reg, f, a.Config.GenesisCaller, a.Logger)
	return err
}
