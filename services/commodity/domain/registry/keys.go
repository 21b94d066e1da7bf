package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// Storage layout:
//
//	commodity/owner/<item>    -> owning account (raw bytes)
//	commodity/index/<account> -> JSON array of item ids, insertion order
//	commodity/total           -> live item count (decimal)
const (
	KeyPrefix   = "commodity/"
	ownerPrefix = KeyPrefix + "owner/"
	indexPrefix = KeyPrefix + "index/"
	totalKey    = KeyPrefix + "total"
)

func ownerKey(item models.CommodityID) string { return ownerPrefix + item.String() }

func indexKey(account models.AccountID) string { return indexPrefix + account.String() }

func loadOwner(ctx context.Context, kv storage.Reader, item models.CommodityID) (models.AccountID, bool, error) {
	raw, found, err := kv.Get(ctx, ownerKey(item))
	if err != nil {
		return "", false, fmt.Errorf("read owner of %s: %w", item, err)
	}
	return models.AccountID(raw), found, nil
}

func loadIndex(ctx context.Context, kv storage.Reader, account models.AccountID) ([]models.CommodityID, error) {
	raw, found, err := kv.Get(ctx, indexKey(account))
	if err != nil {
		return nil, fmt.Errorf("read index of %s: %w", account, err)
	}
	if !found {
		return []models.CommodityID{}, nil
	}
	return decodeIndex(raw)
}

func decodeIndex(raw []byte) ([]models.CommodityID, error) {
	ids := []models.CommodityID{}
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return ids, nil
}

func encodeIndex(ids []models.CommodityID) ([]byte, error) {
	if ids == nil {
		ids = []models.CommodityID{}
	}
	return json.Marshal(ids)
}

func decodeTotal(raw []byte, found bool) (uint32, error) {
	if !found || len(raw) == 0 {
		return 0, nil
	}
	n, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("decode total: %w", err)
	}
	return uint32(n), nil
}

// adjustTotal moves the live counter by delta (+1 or -1).
func adjustTotal(ctx context.Context, kv storage.KV, delta int) error {
	return kv.Mutate(ctx, totalKey, func(cur []byte, found bool) ([]byte, bool, error) {
		n, err := decodeTotal(cur, found)
		if err != nil {
			return nil, false, err
		}
		switch {
		case delta > 0 && n == math.MaxUint32:
			return nil, false, domain.ErrCounterOverflow
		case delta < 0 && n == 0:
			return nil, false, fmt.Errorf("%w: underflow", domain.ErrCounterOverflow)
		}
		next := int64(n) + int64(delta)
		return []byte(strconv.FormatInt(next, 10)), true, nil
	})
}

// appendToIndex adds item at the end of account's index entry.
func appendToIndex(ctx context.Context, kv storage.KV, account models.AccountID, item models.CommodityID) error {
	return kv.Mutate(ctx, indexKey(account), func(cur []byte, _ bool) ([]byte, bool, error) {
		ids, err := decodeIndex(cur)
		if err != nil {
			return nil, false, err
		}
		if slices.Contains(ids, item) {
			return nil, false, fmt.Errorf("%w: %s already listed for %s", domain.ErrIndexCorrupted, item, account)
		}
		out, err := encodeIndex(append(ids, item))
		return out, true, err
	})
}

// removeFromIndex deletes item from account's index entry by position.
// The entry itself is kept even when it becomes empty.
func removeFromIndex(ctx context.Context, kv storage.KV, account models.AccountID, item models.CommodityID) error {
	return kv.Mutate(ctx, indexKey(account), func(cur []byte, _ bool) ([]byte, bool, error) {
		ids, err := decodeIndex(cur)
		if err != nil {
			return nil, false, err
		}
		pos := slices.Index(ids, item)
		if pos < 0 {
			return nil, false, fmt.Errorf("%w: %s not listed for %s", domain.ErrIndexCorrupted, item, account)
		}
		out, err := encodeIndex(slices.Delete(ids, pos, pos+1))
		return out, true, err
	})
}
