// Package cache holds loaded tables between requests.
//
// Caching is opt-in. Entries are never invalidated by writes; a cached table
// stays until its TTL passes or the cache is cleared explicitly.
package cache

import (
	"context"

	"github.com/JonMunkholm/pmis/internal/table"
)

// Cache stores tables by name. Implementations are best-effort: a failing
// cache behaves like an empty one.
type Cache interface {
	Get(ctx context.Context, name string) (table.Table, bool)
	Set(ctx context.Context, name string, t table.Table)
	Clear(ctx context.Context) error
}

// Nop never holds anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (table.Table, bool) { return table.Table{}, false }
func (Nop) Set(context.Context, string, table.Table)        {}
func (Nop) Clear(context.Context) error                     { return nil }
