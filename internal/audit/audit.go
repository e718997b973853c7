// Package audit records every table write the service performs.
//
// The journal is optional. Without a database it is a no-op; with one, each
// write lands as a row in write_journal along with the requester's IP and
// User-Agent taken from the request context.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of write being journaled.
type Action string

const (
	ActionWriteTasks           Action = "write_tasks"
	ActionWriteRecommendations Action = "write_recommendations"
	ActionWriteConfig          Action = "write_config"
	ActionWriteTable           Action = "write_table"
	ActionSeed                 Action = "seed"
)

// Entry is a single journaled write.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Table     string    `json:"table"`
	Rows      int       `json:"rows"`
	Backend   string    `json:"backend,omitempty"`
	OK        bool      `json:"ok"`
	FellBack  bool      `json:"fellBack,omitempty"`
	Error     string    `json:"error,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recorder persists journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 50

// NewEntry stamps an entry with a fresh ID, the current time, and the
// request metadata carried by ctx.
func NewEntry(ctx context.Context, action Action, tableName string, rows int) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Action:    action,
		Table:     tableName,
		Rows:      rows,
		IPAddress: IPAddressFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	}
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

// Memory keeps the most recent entries in process.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

// NewMemory keeps at most max entries; max <= 0 means unbounded.
func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

// Record implements Recorder.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = append([]Entry(nil), m.entries[len(m.entries)-m.max:]...)
	}
	return nil
}

// Recent returns entries newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
