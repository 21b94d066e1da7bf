package registry_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/memory"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/sqlite"
)

type storeFactory func(t *testing.T, pub storage.Publisher) storage.Store

var backends = map[string]storeFactory{
	"memory": func(t *testing.T, pub storage.Publisher) storage.Store {
		return memory.New(pub, nil)
	},
	"sqlite": func(t *testing.T, pub storage.Publisher) storage.Store {
		s, err := sqlite.Open(filepath.Join(t.TempDir(), "registry.db"), pub, nil)
		if err != nil {
			t.Fatalf("sqlite.Open: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	},
}

// seed writes raw registry keys, bypassing the operations that keep them consistent.
func seed(t *testing.T, s storage.Store, owners map[models.CommodityID]models.AccountID, index map[models.AccountID][]models.CommodityID, total *uint32) {
	t.Helper()
	err := s.Atomic(context.Background(), func(_ context.Context, txn storage.Txn) error {
		for id, owner := range owners {
			txn.Set(registry.KeyPrefix+"owner/"+id.String(), []byte(owner))
		}
		for account, ids := range index {
			raw, err := json.Marshal(ids)
			if err != nil {
				return err
			}
			txn.Set(registry.KeyPrefix+"index/"+account.String(), raw)
		}
		if total != nil {
			txn.Set(registry.KeyPrefix+"total", []byte(strconv.FormatUint(uint64(*total), 10)))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func keyCount(t *testing.T, s storage.Store) int {
	t.Helper()
	n := 0
	if err := s.Scan(context.Background(), registry.KeyPrefix, func(string, []byte) error {
		n++
		return nil
	}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return n
}

func TestFailedOperationLeavesStateUnchanged(t *testing.T) {
	a, b := item("a"), item("b")
	maxTotal := uint32(math.MaxUint32)
	zero := uint32(0)
	one := uint32(1)

	tests := []struct {
		name    string
		owners  map[models.CommodityID]models.AccountID
		index   map[models.AccountID][]models.CommodityID
		total   *uint32
		op      func(ctx context.Context, reg *registry.Registry) error
		wantErr error
	}{
		{
			name:  "mint onto an index already listing the item",
			index: map[models.AccountID][]models.CommodityID{alice: {b}},
			total: &zero,
			op: func(ctx context.Context, reg *registry.Registry) error {
				return reg.Mint(ctx, sudo, b, alice)
			},
			wantErr: domain.ErrIndexCorrupted,
		},
		{
			name:   "transfer to an index already listing the item",
			owners: map[models.CommodityID]models.AccountID{a: alice},
			index:  map[models.AccountID][]models.CommodityID{alice: {a}, bob: {a}},
			total:  &one,
			op: func(ctx context.Context, reg *registry.Registry) error {
				return reg.Transfer(ctx, sudo, a, alice, bob)
			},
			wantErr: domain.ErrIndexCorrupted,
		},
		{
			name:  "mint at the counter ceiling",
			total: &maxTotal,
			op: func(ctx context.Context, reg *registry.Registry) error {
				return reg.Mint(ctx, sudo, a, alice)
			},
			wantErr: domain.ErrCounterOverflow,
		},
		{
			name:   "burn with the counter at zero",
			owners: map[models.CommodityID]models.AccountID{a: alice},
			index:  map[models.AccountID][]models.CommodityID{alice: {a}},
			total:  &zero,
			op: func(ctx context.Context, reg *registry.Registry) error {
				return reg.Burn(ctx, sudo, a, alice)
			},
			wantErr: domain.ErrCounterOverflow,
		},
	}

	for name, open := range backends {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				ctx := context.Background()
				rec := &recorder{}
				store := open(t, rec)
				seed(t, store, tt.owners, tt.index, tt.total)
				reg := registry.New(store, registry.Options{StrictOwnerCheck: true})

				before, err := reg.Snapshot(ctx)
				if err != nil {
					t.Fatalf("Snapshot: %v", err)
				}
				keysBefore := keyCount(t, store)

				if err := tt.op(ctx, reg); !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				after, err := reg.Snapshot(ctx)
				if err != nil {
					t.Fatalf("Snapshot: %v", err)
				}
				if !reflect.DeepEqual(before, after) {
					t.Fatalf("state changed:\nbefore %+v\nafter  %+v", before, after)
				}
				if got := keyCount(t, store); got != keysBefore {
					t.Fatalf("key count %d -> %d", keysBefore, got)
				}
				if topics := rec.topics(); len(topics) != 0 {
					t.Fatalf("expected no notifications, got %v", topics)
				}
			})
		}
	}
}
