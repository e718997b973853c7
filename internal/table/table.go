package table

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Row maps a column name to its cell. A missing key is a null cell.
type Row map[string]Value

// Get returns the cell for col, or null if the row has no such column.
func (r Row) Get(col string) Value {
	if r == nil {
		return Null()
	}
	return r[col]
}

// String is shorthand for Get(col).String().
func (r Row) String(col string) string {
	return r.Get(col).String()
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows sharing an ordered column list.
//
// Columns is the header order used when writing; a row may hold fewer
// columns than listed (sparse data) but never more after [Table.Append].
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New returns an empty table with the given header.
func New(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// FromRecords builds a table from a header and positional records.
// Records shorter than the header leave the trailing cells null; cells
// beyond the header are dropped. Columns with an empty name are skipped.
// Blank records between data rows are kept as empty rows; trailing blank
// records are dropped.
func FromRecords(header []string, records [][]Value) Table {
	t := Table{}
	keep := make([]int, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		keep = append(keep, i)
		t.Columns = append(t.Columns, h)
	}

	last := -1
	for _, rec := range records {
		row := make(Row, len(keep))
		for _, i := range keep {
			if i >= len(rec) || rec[i].IsNull() {
				continue
			}
			row[header[i]] = rec[i]
		}
		t.Rows = append(t.Rows, row)
		if len(row) > 0 {
			last = len(t.Rows) - 1
		}
	}
	t.Rows = t.Rows[:last+1]
	return t
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// HasColumn reports whether col is part of the header.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Column returns the values of col in row order.
func (t Table) Column(col string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(col)
	}
	return out
}

// Filter returns the rows for which keep is true, preserving order.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Where returns the rows whose col renders exactly as value.
func (t Table) Where(col, value string) Table {
	return t.Filter(func(r Row) bool {
		v := r.Get(col)
		return !v.IsNull() && v.String() == value
	})
}

// Append returns a copy of t with row added at the end. Columns the header
// does not know about are appended to it in name order.
func (t Table) Append(row Row) Table {
	out := t.Clone()
	var extra []string
	for k := range row {
		if !out.HasColumn(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	out.Columns = append(out.Columns, extra...)
	out.Rows = append(out.Rows, row.Clone())
	return out
}

// Update returns a copy of t with the cells of row i replaced by those in
// cells. Columns the header does not know about are appended in name order.
// It panics if i is out of range.
func (t Table) Update(i int, cells Row) Table {
	out := t.Clone()
	var extra []string
	for k, v := range cells {
		if !out.HasColumn(k) {
			extra = append(extra, k)
		}
		out.Rows[i][k] = v
	}
	sort.Strings(extra)
	out.Columns = append(out.Columns, extra...)
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = r.Clone()
		}
	}
	return out
}

// Records renders the rows positionally in header order.
func (t Table) Records() [][]Value {
	out := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]Value, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = r.Get(c)
		}
		out[i] = rec
	}
	return out
}

// Equal reports whether both tables have the same header and the same
// cells, row by row.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for _, c := range t.Columns {
			if !t.Rows[i].Get(c).Equal(o.Rows[i].Get(c)) {
				return false
			}
		}
	}
	return true
}

// String is a compact debug rendering.
func (t Table) String() string {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Sprintf("Table{%d columns, %d rows}", len(t.Columns), len(t.Rows))
	}
	return string(b)
}
