package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	domainsvcs "github.com/ghuser/oraclegate/services/commodity/domain/services"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// AuditReport is the result of checking the registry's structures for consistency.
type AuditReport struct {
	Items      int                    `json:"items"`
	Accounts   int                    `json:"accounts"`
	Total      uint32                 `json:"total"`
	Violations []domainsvcs.Violation `json:"violations"`
}

// Healthy reports whether the audit found no violations.
func (a *AuditReport) Healthy() bool { return len(a.Violations) == 0 }

// OwnerOf returns the account currently recorded as owning item.
// Returns ErrDoesNotExist if the item is not minted.
func (r *Registry) OwnerOf(ctx context.Context, item models.CommodityID) (models.AccountID, error) {
	var owner models.AccountID
	err := r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		got, exists, err := loadOwner(ctx, txn, item)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("owner of %s: %w", item, domain.ErrDoesNotExist)
		}
		owner = got
		return nil
	})
	return owner, err
}

// ItemsOf returns account's index entry in insertion order. Accounts that
// never owned anything yield an empty slice.
func (r *Registry) ItemsOf(ctx context.Context, account models.AccountID) ([]models.CommodityID, error) {
	var ids []models.CommodityID
	err := r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		got, err := loadIndex(ctx, txn, account)
		ids = got
		return err
	})
	return ids, err
}

// Total returns the live item counter.
func (r *Registry) Total(ctx context.Context) (uint32, error) {
	var n uint32
	err := r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		raw, found, err := txn.Get(ctx, totalKey)
		if err != nil {
			return fmt.Errorf("read total: %w", err)
		}
		n, err = decodeTotal(raw, found)
		return err
	})
	return n, err
}

// Snapshot exports all three structures. The scan is not isolated from
// concurrent writers; take it from a quiescent registry when exactness matters.
func (r *Registry) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := models.NewSnapshot()
	err := r.store.Scan(ctx, KeyPrefix, func(key string, value []byte) error {
		switch {
		case key == totalKey:
			n, err := decodeTotal(value, true)
			if err != nil {
				return err
			}
			snap.Total = n
		case strings.HasPrefix(key, ownerPrefix):
			id, err := models.ParseCommodityID(strings.TrimPrefix(key, ownerPrefix))
			if err != nil {
				return fmt.Errorf("snapshot key %q: %w", key, err)
			}
			snap.Owners[id] = models.AccountID(value)
		case strings.HasPrefix(key, indexPrefix):
			ids, err := decodeIndex(value)
			if err != nil {
				return fmt.Errorf("snapshot key %q: %w", key, err)
			}
			snap.Index[models.AccountID(strings.TrimPrefix(key, indexPrefix))] = ids
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}

// Audit snapshots the registry and checks it for consistency.
func (r *Registry) Audit(ctx context.Context) (*AuditReport, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &AuditReport{
		Items:      len(snap.Owners),
		Accounts:   len(snap.Index),
		Total:      snap.Total,
		Violations: domainsvcs.CheckInvariants(snap),
	}, nil
}
