package schema

import (
	"strings"

	"github.com/JonMunkholm/pmis/internal/table"
)

// ColumnAliases maps alternate headers (English variants and Arabic
// headers) onto canonical column names. Backends populated with either
// naming convention must load identically.
var ColumnAliases = map[string]string{
	"Task_Name":     ColTask,
	"القسم":         ColTask,
	"المهمة":        ColSubTask,
	"Task_Category": ColCategory,
}

// Canonical returns the canonical name for a header, and whether the header
// was a known alias. Surrounding whitespace is ignored for the lookup only.
func Canonical(header string) (string, bool) {
	if c, ok := ColumnAliases[strings.TrimSpace(header)]; ok {
		return c, true
	}
	return header, false
}

// Normalize returns a copy of t with alias headers renamed to their
// canonical names. Unrecognized columns pass through unchanged and row
// order is preserved. The input is not modified.
//
// When both an alias and its canonical column are present, the canonical
// column keeps its position and a row's alias value fills in only where the
// canonical cell is null. Normalize is idempotent.
func Normalize(t table.Table) table.Table {
	rename := make(map[string]string)
	for _, c := range t.Columns {
		if canon, ok := Canonical(c); ok && canon != c {
			rename[c] = canon
		}
	}
	if len(rename) == 0 {
		return t.Clone()
	}

	// An alias takes the header slot of its first occurrence unless the
	// canonical column is already further left.
	var cols []string
	placed := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		name := c
		if canon, ok := rename[c]; ok {
			name = canon
		}
		if !placed[name] {
			placed[name] = true
			cols = append(cols, name)
		}
	}

	out := table.Table{Columns: cols}
	if t.Rows != nil {
		out.Rows = make([]table.Row, len(t.Rows))
	}
	for i, r := range t.Rows {
		nr := make(table.Row, len(r))
		for k, v := range r {
			if _, isAlias := rename[k]; !isAlias {
				nr[k] = v
			}
		}
		for _, c := range t.Columns {
			canon, isAlias := rename[c]
			if !isAlias {
				continue
			}
			if v := r.Get(c); !v.IsNull() && nr.Get(canon).IsNull() {
				nr[canon] = v
			}
		}
		out.Rows[i] = nr
	}
	return out
}
