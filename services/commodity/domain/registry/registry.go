// Package registry implements the commodity ownership registry: the item owner
// map, the per-account item index and the live item counter, together with the
// mint, burn and transfer transitions that keep them consistent.
//
// Every transition runs inside a single storage transaction. Preconditions are
// checked before anything is written, and a failed transition leaves all three
// structures untouched and emits nothing.
package registry

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// Options tune validation strictness.
type Options struct {
	// StrictOwnerCheck additionally requires the owner map to name the claimed
	// owner on burn and transfer, failing with ErrOwnerMismatch otherwise.
	StrictOwnerCheck bool

	// LegacyTransferIndex re-appends a transferred item to the sender's index
	// instead of the recipient's, as the historical pallet did. The owner map
	// still moves to the recipient, so the index drifts from the owner map.
	// Only meant for replaying old behaviour.
	LegacyTransferIndex bool

	// Clock stamps notifications. Defaults to time.Now.
	Clock func() time.Time
}

// Registry is the commodity ownership registry bound to one store.
type Registry struct {
	store storage.Store
	opts  Options
}

// New returns a Registry operating on store.
func New(store storage.Store, opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Registry{store: store, opts: opts}
}

// Mint creates item and assigns it to owner.
// Returns ErrAlreadyExists if the item is already minted.
func (r *Registry) Mint(ctx context.Context, caller models.AccountID, item models.CommodityID, owner models.AccountID) error {
	if err := checkParties(caller, owner); err != nil {
		return err
	}
	return r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		_, exists, err := loadOwner(ctx, txn, item)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("mint %s: %w", item, domain.ErrAlreadyExists)
		}

		txn.Set(ownerKey(item), []byte(owner))
		if err := appendToIndex(ctx, txn, owner, item); err != nil {
			return fmt.Errorf("mint %s: %w", item, err)
		}
		if err := adjustTotal(ctx, txn, +1); err != nil {
			return fmt.Errorf("mint %s: %w", item, err)
		}

		txn.Emit(events.MintedEvent{Meta: events.NewMeta(r.opts.Clock()), Owner: owner, Item: item})
		return nil
	})
}

// Burn destroys item, which owner must currently hold.
// Returns ErrDoesNotExist or ErrNotTheOwner, checked in that order. Malformed
// parties (ErrUnsigned, ErrInvalidAccountID) are rejected before either.
func (r *Registry) Burn(ctx context.Context, caller models.AccountID, item models.CommodityID, owner models.AccountID) error {
	if err := checkParties(caller, owner); err != nil {
		return err
	}
	return r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		if err := r.ensureOwned(ctx, txn, item, owner); err != nil {
			return fmt.Errorf("burn %s: %w", item, err)
		}

		if err := adjustTotal(ctx, txn, -1); err != nil {
			return fmt.Errorf("burn %s: %w", item, err)
		}
		txn.Remove(ownerKey(item))
		if err := removeFromIndex(ctx, txn, owner, item); err != nil {
			return fmt.Errorf("burn %s: %w", item, err)
		}

		txn.Emit(events.BurnedEvent{Meta: events.NewMeta(r.opts.Clock()), Owner: owner, Item: item})
		return nil
	})
}

// Transfer reassigns item from owner to dest.
// Returns ErrDoesNotExist or ErrNotTheOwner, checked in that order. Malformed
// parties (ErrUnsigned, ErrInvalidAccountID) are rejected before either.
func (r *Registry) Transfer(ctx context.Context, caller models.AccountID, item models.CommodityID, owner, dest models.AccountID) error {
	if err := checkParties(caller, owner); err != nil {
		return err
	}
	if dest.IsZero() {
		return fmt.Errorf("%w: destination must be set", domain.ErrInvalidAccountID)
	}
	return r.store.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		if err := r.ensureOwned(ctx, txn, item, owner); err != nil {
			return fmt.Errorf("transfer %s: %w", item, err)
		}

		txn.Set(ownerKey(item), []byte(dest))
		if err := removeFromIndex(ctx, txn, owner, item); err != nil {
			return fmt.Errorf("transfer %s: %w", item, err)
		}
		recipient := dest
		if r.opts.LegacyTransferIndex {
			recipient = owner
		}
		if err := appendToIndex(ctx, txn, recipient, item); err != nil {
			return fmt.Errorf("transfer %s: %w", item, err)
		}

		txn.Emit(events.TransferredEvent{Meta: events.NewMeta(r.opts.Clock()), Item: item, From: owner, To: dest})
		return nil
	})
}

// ensureOwned checks that item exists and that owner's index lists it.
// The index is authoritative; the owner map is consulted only in strict mode.
func (r *Registry) ensureOwned(ctx context.Context, kv storage.Reader, item models.CommodityID, owner models.AccountID) error {
	recorded, exists, err := loadOwner(ctx, kv, item)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrDoesNotExist
	}

	owned, err := loadIndex(ctx, kv, owner)
	if err != nil {
		return err
	}
	if !slices.Contains(owned, item) {
		return domain.ErrNotTheOwner
	}

	if r.opts.StrictOwnerCheck && recorded != owner {
		return fmt.Errorf("%w: recorded owner is %s", domain.ErrOwnerMismatch, recorded)
	}
	return nil
}

// checkParties validates the request shape before any state is read.
func checkParties(caller, owner models.AccountID) error {
	if caller.IsZero() {
		return domain.ErrUnsigned
	}
	if owner.IsZero() {
		return fmt.Errorf("%w: owner must be set", domain.ErrInvalidAccountID)
	}
	return nil
}
