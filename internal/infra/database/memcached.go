package database

import (
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

// NewMemcached connects to the given memcached servers and verifies them.
func NewMemcached(servers ...string) (*memcache.Client, error) {
	if len(servers) == 0 {
		return nil, errors.New("no memcached server given")
	}

	client := memcache.New(servers...)
	err := client.Ping()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect memcached at %v", servers)
	}
	return client, nil
}
