// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "page:"

	// generationKey holds the counter that stamps every page key. Bumping
	// it orphans all cached pages at once; they age out through their TTL.
	generationKey = pageKeyPrefix + "generation"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache stores rendered public pages in Valkey. Any page may embed a
// primary category listing, so a save invalidates every page rather than
// guessing which ones are affected. A nil *PageCache caches nothing.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache returns a cache whose entries live for ttl, or
// DefaultPageTTL when ttl is zero.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached HTML for key. Errors count as a miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	full, err := pc.key(ctx, key)
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	val, err := pc.client.Get(ctx, full).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML under key for the cache TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if pc == nil {
		return
	}
	full, err := pc.key(ctx, key)
	if err == nil {
		err = pc.client.Set(ctx, full, html, pc.ttl).Err()
	}
	if err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll makes every cached page unreachable.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	gen, err := pc.client.Incr(ctx, generationKey).Result()
	if err != nil {
		slog.Warn("page cache invalidate error", "error", err)
		return
	}
	slog.Info("page cache invalidated", "generation", gen)
}

// key stamps key with the current generation.
func (pc *PageCache) key(ctx context.Context, key string) (string, error) {
	gen, err := pc.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", fmt.Errorf("read generation: %w", err)
	}
	return fmt.Sprintf("%s%d:%s", pageKeyPrefix, gen, key), nil
}

// HomepageKey returns the cache key for the homepage.
func HomepageKey() string {
	return "_homepage"
}

// SlugKey returns the cache key for a content page.
func SlugKey(slug string) string {
	return "content:" + slug
}

// CategoryKey returns the cache key for a category listing page.
func CategoryKey(slug string) string {
	return "category:" + slug
}
