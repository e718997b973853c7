// Package schema holds the canonical names of the dashboard's tables and
// columns, the alternate headers each canonical column may arrive under,
// and the bilingual status vocabulary.
package schema

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldURL
)

// FieldSpec describes a single canonical column.
type FieldSpec struct {
	Name       string    // Canonical column header
	Type       FieldType // Expected data type
	Required   bool      // Identifier columns; rows without it are still kept
	EnumValues []string  // Suggested values for FieldEnum
}

// TableSpec describes a named table and its canonical columns.
type TableSpec struct {
	Name   string
	Label  string
	Fields []FieldSpec
}

// Columns returns the canonical header in declaration order.
func (t TableSpec) Columns() []string {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Field returns the spec for the named column.
func (t TableSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
