package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/salesdesk/internal/infra/metrics"
)

// identityKey never stores the raw session token.
func identityKey(token string) string {
	return "identity:" + strconv.FormatUint(xxh3.HashString(token), 16)
}

// MemoryIdentityCache keeps profiles in process.
type MemoryIdentityCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryIdentityCache(ttl time.Duration) *MemoryIdentityCache {
	return &MemoryIdentityCache{
		cache: cache.New(ttl, 2*ttl+time.Minute),
		ttl:   ttl,
	}
}

func (c *MemoryIdentityCache) Get(ctx context.Context, token string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	v, found := c.cache.Get(identityKey(token))
	metrics.RecordIdentityLookup(found)
	if !found {
		return nil, false
	}
	return v.([]byte), true
}

func (c *MemoryIdentityCache) Set(ctx context.Context, token string, profile []byte) {
	if c.ttl <= 0 {
		return
	}
	c.cache.Set(identityKey(token), append([]byte(nil), profile...), c.ttl)
}

func (c *MemoryIdentityCache) Delete(ctx context.Context, token string) {
	c.cache.Delete(identityKey(token))
}

// MemcacheIdentityCache shares profiles between proxy replicas.
type MemcacheIdentityCache struct {
	client *memcache.Client
	ttl    time.Duration
}

func NewMemcacheIdentityCache(client *memcache.Client, ttl time.Duration) *MemcacheIdentityCache {
	return &MemcacheIdentityCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *MemcacheIdentityCache) Get(ctx context.Context, token string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	item, err := c.client.Get(identityKey(token))
	if err != nil {
		if err != memcache.ErrCacheMiss {
			slog.WarnContext(
				ctx, "identity cache get failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
		metrics.RecordIdentityLookup(false)
		return nil, false
	}
	metrics.RecordIdentityLookup(true)
	return item.Value, true
}

func (c *MemcacheIdentityCache) Set(ctx context.Context, token string, profile []byte) {
	if c.ttl <= 0 {
		return
	}
	err := c.client.Set(&memcache.Item{
		Key:        identityKey(token),
		Value:      profile,
		Expiration: int32(max(c.ttl/time.Second, 1)),
	})
	if err != nil {
		slog.WarnContext(
			ctx, "identity cache set failed",
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
}

func (c *MemcacheIdentityCache) Delete(ctx context.Context, token string) {
	err := c.client.Delete(identityKey(token))
	if err != nil && err != memcache.ErrCacheMiss {
		slog.WarnContext(
			ctx, "identity cache delete failed",
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
}
