// Package importer loads CSV exports into dashboard tables.
//
// The header row is located by its identifier column, alias headers are
// renamed to canonical ones, and each data row is checked against the
// table's field types. Rows that fail are returned with a reason instead
// of aborting the import.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

// HeaderSearchRows bounds how far down the file the header row may start.
var HeaderSearchRows = 10

// ContextCheckInterval is how often (in rows) to check for cancellation.
var ContextCheckInterval = 100

// ErrNoHeader is returned when no row within HeaderSearchRows names the
// table's identifier column.
var ErrNoHeader = errors.New("header row not found")

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Date layouts accepted for date columns, tried in order. Day-first
// layouts are not listed; "05/01/2026" reads as May 1.
var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"Jan 2, 2006", "2 Jan 2006",
	"20060102",
}

// Writer is what an import needs from the service. *core.Service
// implements it.
type Writer interface {
	WriteTable(ctx context.Context, name string, t table.Table) store.WriteResult
	AppendRows(ctx context.Context, name string, rows []table.Row) (store.WriteResult, error)
}

// Failure is one CSV line that was not imported.
type Failure struct {
	Line   int      `json:"line"`
	Reason string   `json:"reason"`
	Record []string `json:"record"`
}

// Result summarizes an import.
type Result struct {
	Table    string    `json:"table"`
	Imported int       `json:"imported"`
	Failed   []Failure `json:"failed,omitempty"`
	Backend  string    `json:"backend,omitempty"`
	FellBack bool      `json:"fellBack,omitempty"`
}

// Parse reads a CSV export of spec's table. Only rows that pass
// validation are in the returned table.
func Parse(ctx context.Context, r io.Reader, spec schema.TableSpec) (table.Table, []Failure, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return table.Table{}, nil, fmt.Errorf("read csv: %w", err)
	}

	headerIdx, header, err := findHeader(records, spec)
	if err != nil {
		return table.Table{}, nil, err
	}

	out := table.New(columnsOf(header)...)
	var failed []Failure
	for i, rec := range records[headerIdx+1:] {
		line := headerIdx + i + 2

		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return table.Table{}, nil, fmt.Errorf("import cancelled at line %d: %w", line, err)
			}
		}
		if blank(rec) {
			continue
		}

		row, err := validateRow(rec, header, spec)
		if err != nil {
			failed = append(failed, Failure{Line: line, Reason: err.Error(), Record: rec})
			continue
		}
		out = out.Append(row)
	}
	return out, failed, nil
}

// Import parses r and stores the valid rows, replacing the table or
// appending to it. Nothing is written when no row is valid.
func Import(ctx context.Context, w Writer, name string, r io.Reader, appendRows bool) (Result, error) {
	spec, ok := schema.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("table %q: %w", name, store.ErrTableNotFound)
	}

	t, failed, err := Parse(ctx, r, spec)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w: %v", name, core.ErrInvalidInput, err)
	}
	res := Result{Table: spec.Name, Imported: t.Len(), Failed: failed}
	if t.Empty() {
		return res, fmt.Errorf("%s: no valid rows: %w", name, core.ErrInvalidInput)
	}

	var wr store.WriteResult
	if appendRows {
		wr, err = w.AppendRows(ctx, spec.Name, t.Rows)
		if err != nil {
			return res, err
		}
	} else {
		wr = w.WriteTable(ctx, spec.Name, t)
		if !wr.OK {
			return res, fmt.Errorf("save %s: %w: %v", spec.Name, core.ErrWriteFailed, wr.Err)
		}
	}
	res.Backend, res.FellBack = wr.Backend, wr.FellBack
	return res, nil
}

// findHeader returns the index of the first row naming the table's
// required column, with its cells cleaned and mapped to canonical names.
func findHeader(records [][]string, spec schema.TableSpec) (int, []string, error) {
	var required []string
	for _, f := range spec.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}

	limit := HeaderSearchRows
	if limit > len(records) {
		limit = len(records)
	}
	for i := 0; i < limit; i++ {
		header := make([]string, len(records[i]))
		present := make(map[string]bool, len(header))
		for j, h := range records[i] {
			header[j], _ = schema.Canonical(CleanHeader(h))
			present[header[j]] = true
		}
		found := true
		for _, col := range required {
			if !present[col] {
				found = false
				break
			}
		}
		if found {
			return i, header, nil
		}
	}
	return 0, nil, fmt.Errorf("%s: %w (want %s)", spec.Name, ErrNoHeader, strings.Join(required, ", "))
}

// CleanHeader strips a byte-order mark, spreadsheet formula prefixes and
// surrounding quotes from a header cell.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "=")
	h = strings.Trim(h, `"'`)
	return strings.TrimSpace(h)
}

// columnsOf drops blank and repeated header cells.
func columnsOf(header []string) []string {
	seen := make(map[string]bool, len(header))
	var cols []string
	for _, h := range header {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		cols = append(cols, h)
	}
	return cols
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func validateRow(rec, header []string, spec schema.TableSpec) (table.Row, error) {
	row := make(table.Row, len(header))
	for j, col := range header {
		if col == "" {
			continue
		}
		raw := ""
		if j < len(rec) {
			raw = strings.TrimSpace(rec[j])
		}

		f, known := spec.Field(col)
		if !known || raw == "" {
			if known && f.Required {
				return nil, fmt.Errorf("empty required field %q", col)
			}
			row[col] = table.Text(raw)
			continue
		}

		switch f.Type {
		case schema.FieldNumeric:
			n, ok := ParseNumber(raw)
			if !ok {
				return nil, fmt.Errorf("invalid number for %q: %q", col, raw)
			}
			row[col] = table.Number(n)
		case schema.FieldDate:
			d, ok := ParseDate(raw)
			if !ok {
				return nil, fmt.Errorf("invalid date for %q: %q", col, raw)
			}
			row[col] = table.Text(d.Format("2006-01-02"))
		case schema.FieldEnum:
			row[col] = table.Text(canonicalEnum(raw, f.EnumValues))
		default:
			row[col] = table.Text(raw)
		}
	}
	return row, nil
}

// canonicalEnum returns the suggested value matching raw case-insensitively.
// Values outside the list are kept; statuses are an open vocabulary.
func canonicalEnum(raw string, values []string) string {
	for _, v := range values {
		if strings.EqualFold(raw, v) {
			return v
		}
	}
	return raw
}

// ParseNumber reads amounts as exported by spreadsheets and accounting
// tools: thousands separators, currency marks and "(123)" negatives.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for _, mark := range []string{"$", "€", "£", "ر.س", "SAR", ","} {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ParseDate reads a calendar date in one of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
