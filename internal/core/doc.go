// Package core is the data access facade of the dashboard.
//
// The presentation layer talks only to [Service]. It loads named tables
// through a [store.Adapter], rewrites their headers with [schema.Normalize],
// and returns canonical tables or typed entities. Edits flow back as
// whole-table overwrites; there is no row-level update.
//
// # Writes
//
// Every write replaces one named table. Two callers that load, edit and
// write the same table concurrently produce last-writer-wins: the earlier
// write is silently lost. Appending operations ([Service.WriteConfig],
// [Service.AddRecommendation]) read the table straight from the adapter,
// bypassing the cache, then append one row and overwrite.
//
// # Caching
//
// When a cache is configured, successful loads are stored whole. Writes do
// not invalidate it; [Service.Reload] clears it.
//
// # Error Handling
//
// Technical errors are mapped to user-facing notices with [MapError]:
//
//   - STO001-STO003: storage errors (backend down, table missing, write failed)
//   - VAL001: invalid form input
//   - AUTH001: wrong access code
package core
