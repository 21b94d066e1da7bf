// Command seed applies a genesis file to the configured registry store.
//
//	seed -file genesis.toml
//
// Entries that already exist are skipped, so seeding is safe to repeat.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/database"
	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/application/genesis"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence"
)

func main() {
	file := flag.String("file", "", "genesis TOML file (defaults to GENESIS_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	path := *file
	if path == "" {
		path = cfg.GenesisFile
	}
	if path == "" {
		log.Error("no genesis file: pass -file or set GENESIS_FILE")
		os.Exit(2)
	}

	f, err := genesis.Load(path)
	if err != nil {
		log.Error("invalid genesis file", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, log, f); err != nil {
		log.Error("seed failed", "error", err, "file", path)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, f *genesis.File) error {
	a := &app.Application{Config: cfg, Logger: log}

	if app.NeedsDatabase(cfg) {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		a.Db = pool
	}

	bus, err := events.Open(cfg, log)
	if err != nil {
		return err
	}
	defer bus.Close() //nolint:errcheck
	if bus.Durable() {
		if err := bus.StartForwarder(ctx); err != nil {
			return err
		}
	}
	a.EventBus = bus

	if cfg.StoreBackend == config.StoreRedis {
		rc, err := cache.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer rc.Close() //nolint:errcheck
		a.Redis = rc
	}

	store, err := persistence.Open(ctx, a)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	reg := registry.New(store, appsvcs.RegistryOptions(a))
	res, err := genesis.Apply(ctx, reg, f, cfg.GenesisCaller, log)
	if err != nil {
		return err
	}
	log.Info("seed complete", "minted", res.Minted, "skipped", res.Skipped, "backend", cfg.StoreBackend)
	return nil
}
