// Package table provides the in-memory representation of a named sheet:
// an ordered sequence of rows over a loose, optional column schema.
//
// Cells are held as [Value], which is either null, text, or a number.
// Backends differ in how they hand cells back (the spreadsheet API returns
// typed JSON values, a workbook returns strings), so equality and numeric
// access are defined on the rendered text rather than the stored kind.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the stored type of a cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a single optional cell value.
// The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text returns a text value. Empty or whitespace-only input yields null,
// since spreadsheets do not distinguish an empty cell from an empty string.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Number returns a numeric value. NaN yields null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// FromAny converts a decoded cell (as returned by JSON or the spreadsheet
// API) into a Value.
func FromAny(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case string:
		return Text(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return Number(f)
		}
		return Text(v.String())
	case bool:
		if v {
			return Text("TRUE")
		}
		return Text("FALSE")
	default:
		return Text(fmt.Sprint(v))
	}
}

// Kind reports the stored kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is absent or empty.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String renders the value as it would appear in a plain cell.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric interpretation of the value.
// Text is parsed after trimming whitespace and thousands separators.
// ok is false for null or non-numeric text.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		s := strings.ReplaceAll(strings.TrimSpace(v.text), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOrZero returns Float, or 0 for null and malformed values.
func (v Value) FloatOrZero() float64 {
	f, _ := v.Float()
	return f
}

// Any returns the value in the form backends accept for writing:
// float64 for numbers, string for text, and "" for null.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Equal compares two values by their rendered text.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() == o.IsNull()
	}
	return v.String() == o.String()
}

// MarshalJSON encodes null as null, numbers as JSON numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers, strings and booleans.
func (v *Value) UnmarshalJSON(b []byte) error {
	var x any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return fmt.Errorf("decode cell: %w", err)
	}
	switch x.(type) {
	case map[string]any, []any:
		return fmt.Errorf("decode cell: unsupported value %s", string(b))
	}
	*v = FromAny(x)
	return nil
}
