package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory keeps entries in-process with an optional per-entry TTL.
type Memory struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemory returns an empty store. A zero ttl keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, items: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	var exp time.Time
	if m.ttl > 0 {
		exp = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.items[key] = memoryEntry{value: value, expiresAt: exp}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *Memory) Sweep(_ context.Context) (int64, error) {
	now := m.now()
	var n int64
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.items, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
