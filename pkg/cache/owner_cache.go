package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// OwnerCacheTTL bounds how long a cached owner may outlive a missed invalidation.
	OwnerCacheTTL = 10 * time.Minute

	ownerCacheKeyPrefix = "commodity-owner"

	fieldOwner = "owner"
	fieldStamp = "stamp"

	putRetries = 5
)

var (
	// ErrCacheMiss is returned by OwnerCache.Get when no live entry exists.
	ErrCacheMiss = errors.New("cache: miss")

	errPutContended = errors.New("cache: put lost every race")
)

// OwnerCache is the read model mapping a commodity id to its current owner.
// Key format: "commodity-owner:{item}", a hash of owner and stamp.
//
// Every write carries the time its information was observed. A write older
// than the stored stamp is dropped, so a slow read-through fill or a
// reordered notification cannot bring back an owner the registry has
// already moved on from. An empty owner is a tombstone and reads as a miss.
type OwnerCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewOwnerCache creates an OwnerCache backed by the given RedisClient.
func NewOwnerCache(r *RedisClient) *OwnerCache {
	return &OwnerCache{client: r, ttl: OwnerCacheTTL}
}

// Get returns the cached owner of item, or ErrCacheMiss.
func (c *OwnerCache) Get(ctx context.Context, item string) (string, error) {
	owner, err := c.client.Client().HGet(ctx, c.key(item), fieldOwner).Result()
	if errors.Is(err, redis.Nil) || (err == nil && owner == "") {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache get owner: %w", err)
	}
	return owner, nil
}

// Put records owner for item as observed at stamp. An empty owner marks the
// item as gone. It reports whether the write was applied; a write whose
// stamp is not newer than the stored one is skipped.
func (c *OwnerCache) Put(ctx context.Context, item, owner string, stamp time.Time) (bool, error) {
	key := c.key(item)
	at := stamp.UnixNano()

	for attempt := 0; attempt < putRetries; attempt++ {
		applied := false
		err := c.client.Client().Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.HGet(ctx, key, fieldStamp).Int64()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return err
			case cur >= at:
				return nil
			}
			_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				p.HSet(ctx, key, fieldOwner, owner, fieldStamp, at)
				p.Expire(ctx, key, c.ttl)
				return nil
			})
			applied = err == nil
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("cache put owner: %w", err)
		}
		return applied, nil
	}
	return false, fmt.Errorf("cache put owner %s: %w", item, errPutContended)
}

func (c *OwnerCache) key(item string) string {
	return fmt.Sprintf("%s:%s", ownerCacheKeyPrefix, item)
}
