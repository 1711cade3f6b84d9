package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process backend, a thin wrapper around go-cache.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: gocache.New(ttl, ttl)}
}

func (m *Memory) Get(_ context.Context, key string, dest any) bool {
	raw, ok := m.store.Get(key)
	if !ok {
		return false
	}
	data, ok := raw.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (m *Memory) Set(_ context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	m.store.Set(key, data, gocache.DefaultExpiration)
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.store.Delete(key)
}

func (m *Memory) Flush(_ context.Context) {
	m.store.Flush()
}
