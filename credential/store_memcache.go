package credential

import (
	"context"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

const memcacheExpiration = 60 * 60 * 24

type MemcacheStore struct {
	mc     *memcache.Client
	prefix string
}

func NewMemcacheStore(mc *memcache.Client, prefix string) *MemcacheStore {
	return &MemcacheStore{mc: mc, prefix: prefix}
}

func (s *MemcacheStore) Get(_ context.Context, key string) (string, bool, error) {
	item, err := s.mc.Get(s.prefix + key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "memcache get")
	}
	return string(item.Value), true, nil
}

func (s *MemcacheStore) Set(_ context.Context, key, value string) error {
	err := s.mc.Set(&memcache.Item{
		Key:        s.prefix + key,
		Value:      []byte(value),
		Expiration: memcacheExpiration,
	})
	if err != nil {
		return errors.Wrap(err, "memcache set")
	}
	return nil
}

func (s *MemcacheStore) Delete(_ context.Context, key string) error {
	err := s.mc.Delete(s.prefix + key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "memcache delete")
	}
	return nil
}

var _ Store = (*MemcacheStore)(nil)
