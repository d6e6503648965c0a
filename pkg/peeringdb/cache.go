package peeringdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// DefaultCacheTTL keeps registry responses for a day; declared counts
// change on peeringDB timescales, not minutes.
const DefaultCacheTTL = 24 * time.Hour

// Cache is a read-through Redis cache in front of a registry Source.
// Cron runs every few hours shouldn't hammer the registry for hundreds
// of peers whose declared counts rarely move. Redis being down degrades
// to direct lookups, never to failure.
type Cache struct {
	src Source
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps src with a Redis cache at addr.
func NewCache(src Source, addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		src: src,
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

func cacheKey(asn uint32) string {
	return fmt.Sprintf("maxpfx:pdb:net:%d", asn)
}

// LookupASN returns the cached counts for asn, falling back to the
// underlying source on miss or Redis error. Only successful lookups are
// cached — not-found peers are retried every run so a network appearing
// in the registry is picked up immediately.
func (c *Cache) LookupASN(ctx context.Context, asn uint32) (Counts, error) {
	data, err := c.rdb.Get(ctx, cacheKey(asn)).Bytes()
	if err == nil {
		var counts Counts
		if err := json.Unmarshal(data, &counts); err == nil {
			util.WithASN(asn).Debug("registry cache hit")
			return counts, nil
		}
		// Unreadable entry; fall through and overwrite.
	} else if err != redis.Nil {
		util.WithASN(asn).Warnf("registry cache read failed: %v", err)
	}

	counts, err := c.src.LookupASN(ctx, asn)
	if err != nil {
		return Counts{}, err
	}

	if data, err := json.Marshal(counts); err == nil {
		if err := c.rdb.Set(ctx, cacheKey(asn), data, c.ttl).Err(); err != nil {
			util.WithASN(asn).Warnf("registry cache write failed: %v", err)
		}
	}
	return counts, nil
}
