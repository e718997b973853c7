package cache

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/pmis/internal/table"
)

type entry struct {
	t       table.Table
	expires time.Time
}

// Memory is an in-process cache. A zero TTL keeps entries until Clear.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[string]entry), now: time.Now}
}

// Get returns a copy of the cached table.
func (m *Memory) Get(_ context.Context, name string) (table.Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		return table.Table{}, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, name)
		return table.Table{}, false
	}
	return e.t.Clone(), true
}

// Set stores a copy of t.
func (m *Memory) Set(_ context.Context, name string, t table.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{t: t.Clone()}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[name] = e
}

// Clear drops every entry.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	return nil
}

// Len returns the number of live or expired-but-unswept entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
