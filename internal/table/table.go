// Package table defines the in-memory tabular model shared by every
// component of the engine: an ordered set of named columns plus rows
// addressed by a synthetic, load-time row identifier.
//
// Cell values are heterogeneous (string, float64, int, bool, time.Time or
// nil). Source workbooks are loosely schematized, so typing is resolved
// lazily at read time via the As* helpers in value.go rather than enforced
// at load time.
package table

// RowIDColumn is the reserved name of the synthetic row identifier.
// It is never a real cell; rows carry their ID as a struct field. The name
// exists so the mutation API can reject edits that target it.
const RowIDColumn = "_row_id"

// Row is a single record. ID is assigned once at load time, 0-based and
// stable for the lifetime of the session; edits never renumber rows.
type Row struct {
	ID    int
	Cells map[string]any
}

// Table is an ordered sequence of named columns and rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// New builds a table from column names and records given in column order.
// Row IDs are assigned sequentially starting at 0.
func New(columns []string, records ...[]any) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	for i, rec := range records {
		cells := make(map[string]any, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				cells[col] = rec[j]
			}
		}
		t.Rows = append(t.Rows, Row{ID: i, Cells: cells})
	}
	return t
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Resolve returns the first candidate that exists as a column, absorbing
// heterogeneous source schemas ("Policy No" vs "PolicyNo"). The second
// return is false when none of the candidates is present; callers must
// degrade gracefully rather than fail.
func (t *Table) Resolve(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the table. Used to snapshot the original
// copy at load time and to restore the working copy on reset.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		cells := make(map[string]any, len(r.Cells))
		for k, v := range r.Cells {
			cells[k] = v
		}
		out.Rows[i] = Row{ID: r.ID, Cells: cells}
	}
	return out
}

// Subset returns a derived table containing only the rows at the given
// indices. The rows share cell maps with the parent; the subset is a
// non-owning view and must not be mutated.
func (t *Table) Subset(indices []int) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, 0, len(indices))
	for _, i := range indices {
		out.Rows = append(out.Rows, t.Rows[i])
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Get returns the value of a cell, or nil when the column is absent.
func (r Row) Get(column string) any { return r.Cells[column] }
