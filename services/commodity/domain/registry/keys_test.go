package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

type mapReader map[string][]byte

func (m mapReader) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func TestRemoveFromIndex(t *testing.T) {
	a := models.DigestCommodityID([]byte("a"))
	b := models.DigestCommodityID([]byte("b"))
	c := models.DigestCommodityID([]byte("c"))

	tests := []struct {
		name    string
		index   []models.CommodityID
		remove  models.CommodityID
		want    []models.CommodityID
		wantErr error
	}{
		{name: "middle keeps order", index: []models.CommodityID{a, b, c}, remove: b, want: []models.CommodityID{a, c}},
		{name: "last leaves empty entry", index: []models.CommodityID{a}, remove: a, want: []models.CommodityID{}},
		{name: "missing item", index: []models.CommodityID{a, c}, remove: b, wantErr: domain.ErrIndexCorrupted},
		{name: "missing entry", remove: a, wantErr: domain.ErrIndexCorrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := mapReader{}
			if tt.index != nil {
				raw, err := encodeIndex(tt.index)
				if err != nil {
					t.Fatalf("encode: %v", err)
				}
				base[indexKey("alice")] = raw
			}
			stage := storage.NewStage(base)

			err := removeFromIndex(ctx, stage, "alice", tt.remove)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(stage.Writes()) != 0 {
					t.Fatalf("expected no staged writes, got %d", len(stage.Writes()))
				}
				return
			}
			if err != nil {
				t.Fatalf("removeFromIndex: %v", err)
			}
			got, err := loadIndex(ctx, stage, "alice")
			if err != nil {
				t.Fatalf("loadIndex: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("index = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("index = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestAppendToIndex_RejectsDuplicate(t *testing.T) {
	a := models.DigestCommodityID([]byte("a"))
	raw, err := encodeIndex([]models.CommodityID{a})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	stage := storage.NewStage(mapReader{indexKey("alice"): raw})

	err = appendToIndex(context.Background(), stage, "alice", a)
	if !errors.Is(err, domain.ErrIndexCorrupted) {
		t.Fatalf("expected ErrIndexCorrupted, got %v", err)
	}
	if len(stage.Writes()) != 0 {
		t.Fatalf("expected no staged writes, got %d", len(stage.Writes()))
	}
}

func TestAdjustTotal_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		delta   int
		want    string
		wantErr error
	}{
		{name: "first increment", delta: +1, want: "1"},
		{name: "decrement", stored: "2", delta: -1, want: "1"},
		{name: "overflow", stored: "4294967295", delta: +1, wantErr: domain.ErrCounterOverflow},
		{name: "underflow", stored: "0", delta: -1, wantErr: domain.ErrCounterOverflow},
		{name: "underflow on missing key", delta: -1, wantErr: domain.ErrCounterOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mapReader{}
			if tt.stored != "" {
				base[totalKey] = []byte(tt.stored)
			}
			stage := storage.NewStage(base)
			err := adjustTotal(context.Background(), stage, tt.delta)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("adjustTotal: %v", err)
			}
			got, _, _ := stage.Get(context.Background(), totalKey)
			if string(got) != tt.want {
				t.Fatalf("total = %q, want %q", got, tt.want)
			}
		})
	}
}
