package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/JonMunkholm/pmis/internal/table"
	"github.com/xuri/excelize/v2"
)

// Workbook is a local .xlsx file holding one sheet per table.
//
// Writes are read-modify-write of the whole file: the file is opened, the
// one target sheet is cleared and refilled, and the file is saved back. Other
// sheets are left untouched. A mutex serializes writers inside this process;
// nothing guards against another process editing the same file.
type Workbook struct {
	path string
	mu   sync.Mutex
}

// NewWorkbook returns a backend over the workbook at path. The file does not
// need to exist until the first write.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Name implements Backend.
func (w *Workbook) Name() string { return "workbook" }

// Path returns the workbook file path.
func (w *Workbook) Path() string { return w.path }

// ReadTable implements Backend. The first row of the sheet is the header.
func (w *Workbook) ReadTable(ctx context.Context, name string) (table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, fmt.Errorf("workbook: %w: %v", ErrBackendUnavailable, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return table.Table{}, fmt.Errorf("workbook: open %s: %w: %v", w.path, ErrBackendUnavailable, err)
	}
	defer f.Close()

	if !hasSheet(f, name) {
		return table.Table{}, fmt.Errorf("workbook: sheet %q: %w", name, ErrTableNotFound)
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return table.Table{}, fmt.Errorf("workbook: read sheet %q: %w: %v", name, ErrBackendUnavailable, err)
	}
	return recordsToTable(rows), nil
}

// WriteTable implements Backend.
func (w *Workbook) WriteTable(ctx context.Context, name string, t table.Table) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("workbook: %w: %v", ErrBackendUnavailable, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	switch {
	case created:
		f.SetSheetName("Sheet1", name)
	case hasSheet(f, name):
		if err := clearSheet(f, name); err != nil {
			return fmt.Errorf("workbook: clear sheet %q: %w: %v", name, ErrBackendUnavailable, err)
		}
	default:
		f.NewSheet(name)
	}

	if err := fillSheet(f, name, t); err != nil {
		return fmt.Errorf("workbook: write sheet %q: %w: %v", name, ErrBackendUnavailable, err)
	}

	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("workbook: create directory: %w: %v", ErrBackendUnavailable, err)
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("workbook: save %s: %w: %v", w.path, ErrBackendUnavailable, err)
	}
	return nil
}

// open opens the workbook, or starts a new one when the file does not exist.
func (w *Workbook) open() (f *excelize.File, created bool, err error) {
	f, err = excelize.OpenFile(w.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("workbook: open %s: %w: %v", w.path, ErrBackendUnavailable, err)
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// clearSheet removes every populated row, bottom-up so indices stay valid.
func clearSheet(f *excelize.File, name string) error {
	rows, err := f.GetRows(name)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(name, i); err != nil {
			return err
		}
	}
	return nil
}

func fillSheet(f *excelize.File, name string, t table.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, rec := range t.Records() {
		for j, v := range rec {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v.Any()); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordsToTable converts raw sheet rows (header first) into a table.
// Workbook cells come back as text; numeric access parses them on demand.
func recordsToTable(rows [][]string) table.Table {
	if len(rows) == 0 {
		return table.Table{}
	}
	records := make([][]table.Value, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := make([]table.Value, len(r))
		for i, cell := range r {
			rec[i] = table.Text(cell)
		}
		records = append(records, rec)
	}
	return table.FromRecords(rows[0], records)
}
