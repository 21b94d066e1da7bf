package services

import (
	"fmt"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/telemetry"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Commodity *CommodityService

	// Production masks internal error details in HTTP responses.
	Production bool
}

// New wires the commodity service onto store. authn decides who signs each
// operation: ContextAuthenticator for HTTP, StaticAuthenticator for operators.
func New(a *app.Application, store storage.Store, authn domain.Authenticator) (*Services, error) {
	reg := registry.New(store, RegistryOptions(a))

	metrics, err := telemetry.NewOperationMetrics(tracerName, "commodity")
	if err != nil {
		return nil, fmt.Errorf("commodity metrics: %w", err)
	}

	var owners OwnerReadModel
	if a.Redis != nil {
		owners = cache.NewOwnerCache(a.Redis)
	}

	return &Services{
		Commodity:  NewCommodityService(reg, authn, owners, metrics, a.Logger),
		Production: a.Config.Environment == config.EnvProduction,
	}, nil
}

// RegistryOptions derives registry options from configuration.
func RegistryOptions(a *app.Application) registry.Options {
	return registry.Options{
		StrictOwnerCheck:    a.Config.StrictOwnerCheck,
		LegacyTransferIndex: a.Config.LegacyTransferIndex,
	}
}
