package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Memory is an in-process Cache and Limiter for tests and single-node runs.
type Memory struct {
	mu      sync.Mutex
	items   map[string]memItem
	counter map[string]memItem
	now     func() time.Time
}

type memItem struct {
	raw     []byte
	n       int64
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items:   map[string]memItem{},
		counter: map[string]memItem{},
		now:     time.Now,
	}
}

func (m *Memory) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	it, ok := m.items[key]
	if ok && !it.expires.IsZero() && m.now().After(it.expires) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(it.raw, dst)
}

func (m *Memory) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memItem{raw: raw}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) Allow(_ context.Context, key string, limit int64, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	it, ok := m.counter[key]
	if !ok || now.After(it.expires) {
		it = memItem{expires: now.Add(window)}
	}
	it.n++
	m.counter[key] = it
	return it.n <= limit, nil
}
