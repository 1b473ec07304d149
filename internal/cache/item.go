// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// item.go provides a Valkey-backed cache for public item reads. The JSON
// document served for an item path is stored so repeat requests skip the
// database entirely. Every cache failure degrades to a DB read.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// itemKeyPrefix is the Valkey key prefix for cached item documents.
	itemKeyPrefix = "item:"

	// DefaultItemTTL is how long a cached item document stays valid.
	DefaultItemTTL = 5 * time.Minute
)

// Key returns the cache key for an item's public path pair.
func Key(categorySlug, itemSlug string) string {
	return categorySlug + "/" + itemSlug
}

// ItemCache manages cached item documents in Valkey.
type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewItemCache creates a new item cache backed by the given Valkey client.
func NewItemCache(client *redis.Client, ttl time.Duration) *ItemCache {
	if ttl == 0 {
		ttl = DefaultItemTTL
	}
	return &ItemCache{client: client, ttl: ttl}
}

// Get retrieves a cached document. Returns false on miss or error.
func (c *ItemCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, itemKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("item cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("item cache hit", "key", key)
	return val, true
}

// Set stores a document for a key with the configured TTL.
func (c *ItemCache) Set(ctx context.Context, key string, doc []byte) {
	if err := c.client.Set(ctx, itemKeyPrefix+key, doc, c.ttl).Err(); err != nil {
		slog.Warn("item cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached document.
func (c *ItemCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, itemKeyPrefix+key).Err(); err != nil {
		slog.Warn("item cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("item cache invalidated", "key", key)
}

// InvalidateAll removes every cached document by scanning for the prefix.
// Used on category writes, since a category rename moves all of its
// items' public paths at once.
func (c *ItemCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, itemKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("item cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("item cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("item cache fully cleared", "deleted", deleted)
	}
}
