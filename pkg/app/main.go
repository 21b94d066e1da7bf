package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/pkg/blob"
	"github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/database"
	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service routes and subscriber registrations during initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "commodity minted", "item", id)
//	app.Logger.ErrorContext(ctx, "failed to mint", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Optional dependencies are nil when the selected configuration does not need
// them: Db outside the postgres backend and SQL event transport, Redis when
// nothing uses it, TemporalClient and Blob outside the worker, SessionStore
// and Tokens outside the API.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	Blob           *blob.Store
	SessionStore   sessions.Store
	Tokens         *auth.TokenManager
}

// NeedsDatabase reports whether cfg requires a PostgreSQL connection.
func NeedsDatabase(cfg *config.Config) bool {
	return cfg.StoreBackend == config.StorePostgres || cfg.EventTransport == config.TransportSQL
}
