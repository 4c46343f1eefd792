// Package cache provides a short-lived Redis cache for availability
// responses. Entries live 30 seconds; the cache is an optimization only and
// is never consulted for conflict checks, so staleness is bounded and
// harmless (the booking guard re-validates against the store).
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const availabilityTTL = 30 * time.Second

type Availability struct {
	rdb *redis.Client
}

// New returns a cache backed by Redis at addr, or nil when addr is empty.
// A nil *Availability is valid and caches nothing.
func New(addr string) *Availability {
	if addr == "" {
		return nil
	}
	return &Availability{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *Availability) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("availability cache read failed", zap.Error(err))
		}
		return false
	}

	return json.Unmarshal(raw, out) == nil
}

func (c *Availability) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, availabilityTTL).Err(); err != nil {
		zap.L().Warn("availability cache write failed", zap.Error(err))
	}
}
