package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"labour/backend/internal/wage"
)

// WageCache keeps computed wage cards in redis. A nil *WageCache or one
// without a client is a no-op cache.
type WageCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *log.Logger
}

func NewWageCache(client *redis.Client, ttl time.Duration, log *log.Logger) *WageCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &WageCache{client: client, ttl: ttl, log: log}
}

// WageKey is wage:<labourID>:<YYYY-MM>:<today>. today is part of the key so a
// card for the running month is recomputed once the day rolls over.
func WageKey(labourID, year, month int, today time.Time) string {
	return fmt.Sprintf("wage:%d:%04d-%02d:%s", labourID, year, month, today.Format("2006-01-02"))
}

func labourPattern(labourID int) string {
	return fmt.Sprintf("wage:%d:*", labourID)
}

func (c *WageCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached summary. Misses and redis failures both report false.
func (c *WageCache) Get(ctx context.Context, key string) (wage.Summary, bool) {
	if !c.enabled() {
		return wage.Summary{}, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logf("cache get %s: %v", key, err)
		}
		return wage.Summary{}, false
	}

	var s wage.Summary
	if err = json.Unmarshal(data, &s); err != nil {
		c.logf("cache decode %s: %v", key, err)
		return wage.Summary{}, false
	}

	return s, true
}

func (c *WageCache) Set(ctx context.Context, key string, s wage.Summary) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		c.logf("cache encode %s: %v", key, err)
		return
	}

	if err = c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logf("cache set %s: %v", key, err)
	}
}

// InvalidateLabour drops every cached card of the labourer.
func (c *WageCache) InvalidateLabour(ctx context.Context, labourID int) {
	if !c.enabled() {
		return
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, labourPattern(labourID), 100).Result()
		if err != nil {
			c.logf("cache scan labour %d: %v", labourID, err)
			return
		}

		if len(keys) > 0 {
			if err = c.client.Del(ctx, keys...).Err(); err != nil {
				c.logf("cache del labour %d: %v", labourID, err)
				return
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (c *WageCache) logf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
