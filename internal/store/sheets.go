package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/pmis/internal/table"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetsTimeout bounds a single spreadsheet API call when the caller
// does not configure one.
const DefaultSheetsTimeout = 20 * time.Second

// NewSheetsService creates an authenticated spreadsheet API client from a
// Google credentials JSON file (service account or authorized user).
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s: %w", credentialsFile, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials file: %w", err)
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	return srv, nil
}

// Sheets is a spreadsheet backend where each worksheet is a table.
type Sheets struct {
	srv           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewSheets returns a backend over one spreadsheet.
func NewSheets(srv *sheets.Service, spreadsheetID string, timeout time.Duration) *Sheets {
	if timeout <= 0 {
		timeout = DefaultSheetsTimeout
	}
	return &Sheets{srv: srv, spreadsheetID: spreadsheetID, timeout: timeout}
}

// Name implements Backend.
func (s *Sheets) Name() string { return "sheets" }

// URL returns the spreadsheet's browser URL for display.
func (s *Sheets) URL() string {
	return SpreadsheetURL(s.spreadsheetID)
}

// SpreadsheetURL returns the browser URL for a spreadsheet ID.
func SpreadsheetURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://docs.google.com/spreadsheets/d/" + id
}

// ReadTable implements Backend. Cells are fetched unformatted so numbers
// arrive as numbers.
func (s *Sheets) ReadTable(ctx context.Context, name string) (table.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(name)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return table.Table{}, classifySheetsError(name, err)
	}
	return valuesToTable(resp.Values), nil
}

// WriteTable implements Backend. The worksheet is cleared and rewritten in
// two calls; a reader between them sees an empty sheet. A missing worksheet
// is created.
func (s *Sheets) WriteTable(ctx context.Context, name string, t table.Table) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rng := quoteSheet(name)
	_, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		err = classifySheetsError(name, err)
		if !errors.Is(err, ErrTableNotFound) {
			return err
		}
		if err := s.addSheet(ctx, name); err != nil {
			return err
		}
	}

	if len(t.Columns) == 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: tableToValues(t)}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classifySheetsError(name, err)
	}
	return nil
}

func (s *Sheets) addSheet(ctx context.Context, name string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: add sheet %q: %w: %v", name, ErrBackendUnavailable, err)
	}
	return nil
}

// quoteSheet renders a worksheet name as an A1 range covering the sheet.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// classifySheetsError maps API errors onto the store sentinels. The API
// reports a missing worksheet as a 400 "Unable to parse range".
func classifySheetsError(name string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range") {
			return fmt.Errorf("sheets: sheet %q: %w", name, ErrTableNotFound)
		}
		return fmt.Errorf("sheets: %w: %d %s", ErrBackendUnavailable, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("sheets: %w: %v", ErrBackendUnavailable, err)
}

// valuesToTable converts an API value grid (header first) into a table.
func valuesToTable(values [][]interface{}) table.Table {
	if len(values) == 0 {
		return table.Table{}
	}
	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = table.FromAny(h).String()
	}
	records := make([][]table.Value, 0, len(values)-1)
	for _, r := range values[1:] {
		rec := make([]table.Value, len(r))
		for i, cell := range r {
			rec[i] = table.FromAny(cell)
		}
		records = append(records, rec)
	}
	return table.FromRecords(header, records)
}

// tableToValues converts a table into an API value grid, header first.
func tableToValues(t table.Table) [][]interface{} {
	out := make([][]interface{}, 0, t.Len()+1)
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	out = append(out, header)
	for _, rec := range t.Records() {
		row := make([]interface{}, len(rec))
		for i, v := range rec {
			row[i] = v.Any()
		}
		out = append(out, row)
	}
	return out
}
