package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/oraclegate/pkg/cache"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/pkg/telemetry"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
)

const tracerName = "github.com/ghuser/oraclegate/services/commodity"

// OwnerReadModel is the owner cache consulted by OwnerOf. Put must drop
// writes stamped no later than the entry it would replace; an empty owner
// marks the item as gone.
type OwnerReadModel interface {
	Get(ctx context.Context, item string) (string, error)
	Put(ctx context.Context, item, owner string, stamp time.Time) (bool, error)
}

// CommodityService exposes the registry to transports. It resolves the
// caller, traces and meters every operation, and serves owner lookups from
// the read model when one is configured.
type CommodityService struct {
	reg     *registry.Registry
	authn   domain.Authenticator
	owners  OwnerReadModel
	metrics *telemetry.OperationMetrics
	tracer  trace.Tracer
	log     logger.Logger
	now     func() time.Time
}

// NewCommodityService returns a CommodityService. owners and metrics may be nil.
func NewCommodityService(
	reg *registry.Registry,
	authn domain.Authenticator,
	owners OwnerReadModel,
	metrics *telemetry.OperationMetrics,
	log logger.Logger,
) *CommodityService {
	return &CommodityService{
		reg:     reg,
		authn:   authn,
		owners:  owners,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		log:     log,
		now:     time.Now,
	}
}

// Mint creates item for owner on behalf of the authenticated caller.
func (s *CommodityService) Mint(ctx context.Context, item models.CommodityID, owner models.AccountID) error {
	return s.observe(ctx, "mint", item, func(ctx context.Context) error {
		caller, err := s.authn.Authenticate(ctx)
		if err != nil {
			return err
		}
		if err := s.reg.Mint(ctx, caller, item, owner); err != nil {
			return err
		}
		s.log.InfoContext(ctx, "commodity minted", "item", item, "owner", owner, "caller", caller)
		return nil
	})
}

// Burn destroys item held by owner on behalf of the authenticated caller.
func (s *CommodityService) Burn(ctx context.Context, item models.CommodityID, owner models.AccountID) error {
	return s.observe(ctx, "burn", item, func(ctx context.Context) error {
		caller, err := s.authn.Authenticate(ctx)
		if err != nil {
			return err
		}
		if err := s.reg.Burn(ctx, caller, item, owner); err != nil {
			return err
		}
		s.forget(ctx, item)
		s.log.InfoContext(ctx, "commodity burned", "item", item, "owner", owner, "caller", caller)
		return nil
	})
}

// Transfer moves item from owner to dest on behalf of the authenticated caller.
func (s *CommodityService) Transfer(ctx context.Context, item models.CommodityID, owner, dest models.AccountID) error {
	return s.observe(ctx, "transfer", item, func(ctx context.Context) error {
		caller, err := s.authn.Authenticate(ctx)
		if err != nil {
			return err
		}
		if err := s.reg.Transfer(ctx, caller, item, owner, dest); err != nil {
			return err
		}
		s.forget(ctx, item)
		s.log.InfoContext(ctx, "commodity transferred", "item", item, "from", owner, "to", dest, "caller", caller)
		return nil
	})
}

// OwnerOf returns the owner of item using a read-through cache:
//  1. Check the owner read model.
//  2. On miss (or cache error), read the registry.
//  3. Store the registry answer stamped with the time the read began, so a
//     burn or transfer that commits during the read wins over the fill.
func (s *CommodityService) OwnerOf(ctx context.Context, item models.CommodityID) (models.AccountID, error) {
	var owner models.AccountID
	err := s.observe(ctx, "owner_of", item, func(ctx context.Context) error {
		if s.owners != nil {
			cached, err := s.owners.Get(ctx, item.String())
			if err == nil {
				owner = models.AccountID(cached)
				return nil
			}
			if !errors.Is(err, pkgcache.ErrCacheMiss) {
				s.log.WarnContext(ctx, "owner cache read failed", "item", item, "error", err)
			}
		}

		readAt := s.now()
		got, err := s.reg.OwnerOf(ctx, item)
		if err != nil {
			return err
		}
		owner = got

		if s.owners != nil {
			if _, err := s.owners.Put(ctx, item.String(), got.String(), readAt); err != nil {
				s.log.WarnContext(ctx, "owner cache write failed", "item", item, "error", err)
			}
		}
		return nil
	})
	return owner, err
}

// ItemsOf returns the items listed for account.
func (s *CommodityService) ItemsOf(ctx context.Context, account models.AccountID) ([]models.CommodityID, error) {
	var ids []models.CommodityID
	err := s.observe(ctx, "items_of", models.CommodityID{}, func(ctx context.Context) error {
		got, err := s.reg.ItemsOf(ctx, account)
		ids = got
		return err
	})
	return ids, err
}

// Total returns the number of live commodities.
func (s *CommodityService) Total(ctx context.Context) (uint32, error) {
	var n uint32
	err := s.observe(ctx, "total", models.CommodityID{}, func(ctx context.Context) error {
		got, err := s.reg.Total(ctx)
		n = got
		return err
	})
	return n, err
}

// Digest derives the commodity id for content.
func (s *CommodityService) Digest(content []byte) models.CommodityID {
	return models.DigestCommodityID(content)
}

// Audit checks the registry structures for consistency. Violations are
// logged at error level; the report is returned either way.
func (s *CommodityService) Audit(ctx context.Context) (*registry.AuditReport, error) {
	var report *registry.AuditReport
	err := s.observe(ctx, "audit", models.CommodityID{}, func(ctx context.Context) error {
		got, err := s.reg.Audit(ctx)
		if err != nil {
			return err
		}
		report = got
		if !got.Healthy() {
			s.log.ErrorContext(ctx, "registry audit found violations",
				"violations", len(got.Violations), "items", got.Items, "total", got.Total)
		}
		return nil
	})
	return report, err
}

// Snapshot exports the registry structures.
func (s *CommodityService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := s.observe(ctx, "snapshot", models.CommodityID{}, func(ctx context.Context) error {
		got, err := s.reg.Snapshot(ctx)
		snap = got
		return err
	})
	return snap, err
}

// forget tombstones the cached owner after a committed burn or transfer.
func (s *CommodityService) forget(ctx context.Context, item models.CommodityID) {
	if s.owners == nil {
		return
	}
	if _, err := s.owners.Put(ctx, item.String(), "", s.now()); err != nil {
		s.log.WarnContext(ctx, "owner cache invalidation failed", "item", item, "error", err)
	}
}

// observe runs fn inside a span and records its outcome. Unexpected errors
// are reported to Sentry; domain rejections are not.
func (s *CommodityService) observe(ctx context.Context, op string, item models.CommodityID, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "commodity."+op)
	defer span.End()
	if !item.IsZero() {
		span.SetAttributes(attribute.String("commodity.item", item.String()))
	}

	start := time.Now()
	err := fn(ctx)
	outcome := Classify(err)
	s.metrics.Record(ctx, op, outcome, time.Since(start))

	switch outcome {
	case telemetry.OutcomeRejected:
		span.SetAttributes(attribute.String("commodity.rejection", err.Error()))
	case telemetry.OutcomeError:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		telemetry.CaptureError(ctx, err)
		s.log.ErrorContext(ctx, "commodity operation failed", "operation", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

// Classify maps an operation error to a metrics outcome.
func Classify(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrDoesNotExist),
		errors.Is(err, domain.ErrNotTheOwner),
		errors.Is(err, domain.ErrOwnerMismatch),
		errors.Is(err, domain.ErrUnsigned),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrInvalidCommodityID):
		return telemetry.OutcomeRejected
	default:
		return telemetry.OutcomeError
	}
}
