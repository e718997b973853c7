package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/pmis/internal/table"
)

// Memory is an in-process backend, used by tests and by
// "pmisctl seed --dry-run".
type Memory struct {
	name string

	mu          sync.RWMutex
	tables      map[string]table.Table
	unavailable bool
	writes      int
}

// NewMemory returns an empty in-memory backend.
func NewMemory(name string) *Memory {
	if name == "" {
		name = "memory"
	}
	return &Memory{name: name, tables: make(map[string]table.Table)}
}

// Name implements Backend.
func (m *Memory) Name() string { return m.name }

// SetUnavailable makes every subsequent call fail with ErrBackendUnavailable.
func (m *Memory) SetUnavailable(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = down
}

// Put stores t under name without counting as a write.
func (m *Memory) Put(name string, t table.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = t.Clone()
}

// Writes returns the number of successful WriteTable calls.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// ReadTable implements Backend.
func (m *Memory) ReadTable(ctx context.Context, name string) (table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, fmt.Errorf("%s: %w: %v", m.name, ErrBackendUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return table.Table{}, fmt.Errorf("%s: %w", m.name, ErrBackendUnavailable)
	}
	t, ok := m.tables[name]
	if !ok {
		return table.Table{}, fmt.Errorf("%s: sheet %q: %w", m.name, name, ErrTableNotFound)
	}
	return t.Clone(), nil
}

// WriteTable implements Backend.
func (m *Memory) WriteTable(ctx context.Context, name string, t table.Table) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %v", m.name, ErrBackendUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return fmt.Errorf("%s: %w", m.name, ErrBackendUnavailable)
	}
	m.tables[name] = t.Clone()
	m.writes++
	return nil
}
