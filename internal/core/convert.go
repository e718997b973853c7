package core

// convert.go turns loosely typed cells into the typed values the views use.
//
// Spreadsheet cells arrive as text or numbers depending on backend:
//   - Dates may be ISO, slash-separated, or Excel serial day numbers
//   - Quantities may carry thousands separators, or be blank or garbage
//
// Garbage numbers decode as 0 and never fail a load.

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/pmis/internal/table"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// ParseDate interprets a cell as a calendar date.
func ParseDate(v table.Value) (time.Time, bool) {
	if v.IsNull() {
		return time.Time{}, false
	}
	if v.Kind() == table.KindNumber {
		return fromExcelSerial(v.FloatOrZero())
	}

	s := strings.TrimSpace(v.String())
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromExcelSerial(f)
	}
	return time.Time{}, false
}

func fromExcelSerial(f float64) (time.Time, bool) {
	if f < 1 || f > maxExcelSerial {
		return time.Time{}, false
	}
	days := math.Floor(f)
	secs := math.Round((f - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
}

// round1 rounds to one decimal place, halves to even on the decimal
// representation.
func round1(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	if err != nil {
		return 0
	}
	return r
}

// percent returns 100*part/whole rounded to one decimal, or 0 when whole
// is not positive.
func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(part / whole * 100)
}

// numbers decodes numeric cells and counts the malformed ones.
type numbers struct {
	malformed int
}

func (n *numbers) get(r table.Row, col string) float64 {
	v := r.Get(col)
	if v.IsNull() {
		return 0
	}
	f, ok := v.Float()
	if !ok {
		n.malformed++
		return 0
	}
	return f
}
