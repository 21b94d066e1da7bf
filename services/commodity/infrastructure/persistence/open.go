// Package persistence selects the storage.Store backing the commodity registry.
package persistence

import (
	"context"
	"fmt"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/messaging"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/memory"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/postgres"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/redis"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/sqlite"
)

// Open returns the store named by a.Config.StoreBackend. Committed
// notifications go to a.EventBus when it is set.
func Open(_ context.Context, a *app.Application) (storage.Store, error) {
	var pub storage.Publisher
	if a.EventBus != nil {
		pub = messaging.NewBusPublisher(a.EventBus)
	}

	switch backend := a.Config.StoreBackend; backend {
	case config.StoreMemory:
		return memory.New(pub, a.Logger), nil
	case config.StoreRedis:
		if a.Redis == nil {
			return nil, fmt.Errorf("persistence: %s backend requires a redis client", backend)
		}
		return redis.New(a.Redis.Client(), a.Config.RedisKeyPrefix, pub, a.Logger), nil
	case config.StorePostgres:
		if a.Db == nil {
			return nil, fmt.Errorf("persistence: %s backend requires a database pool", backend)
		}
		return postgres.New(a.Db, a.EventBus, a.Logger), nil
	case config.StoreSQLite:
		return sqlite.Open(a.Config.SQLitePath, pub, a.Logger)
	default:
		return nil, fmt.Errorf("persistence: unknown store backend %q", backend)
	}
}
