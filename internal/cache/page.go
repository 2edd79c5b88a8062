// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache. When a public
// listing or detail page is rendered, the resulting HTML is stored in
// Valkey so subsequent requests skip the file stores and templates
// entirely. Admin mutations invalidate the whole namespace: any listing
// page could be affected by any post or taxonomy change.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached. Staleness
	// within this window is acceptable: the stores themselves are
	// last-write-wins.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Key builds a cache key from a request path and raw query string, so each
// combination of page/filter/search parameters caches separately.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Called after every admin mutation.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("page cache cleared", "deleted", deleted)
}
