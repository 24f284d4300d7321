package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	c *gocache.Cache
}

// NewMemory creates an in-process store. Values are kept as encoded JSON so
// callers never share mutable state with the cache.
func NewMemory(defaultTTL time.Duration) Store {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &memoryStore{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *memoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		m.c.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, data, ttl)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.c.Delete(key)
	}
	return nil
}

// Close drops all entries. go-cache's janitor goroutine cannot be stopped.
func (m *memoryStore) Close() error {
	m.c.Flush()
	return nil
}
