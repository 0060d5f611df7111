package analytics

import (
	"sort"
	"strings"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/table"
)

// RawPage is one page of a raw table view. Rows carry the internal row
// id so callers can address cells for editing; Columns lists the visible
// column set without it.
type RawPage struct {
	Rows    []map[string]any `json:"rows"`
	Columns []string         `json:"columns"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Pages   int              `json:"pages"`
	Limit   int              `json:"limit"`
}

// RawQuery shapes a RawData request.
type RawQuery struct {
	Table   string
	Page    int
	Limit   int
	Filters filter.Spec
	SortBy  string
	SortDir string // "asc" or "desc"; anything else means asc
}

// DefaultRawLimit is the page size when the caller passes 0.
const DefaultRawLimit = 100

// RawData returns one page of the filtered working table. Pages is at
// least 1 even for an empty result; an out-of-range page is clamped into
// [1, pages] rather than erroring. Sorting compares numerically when both
// cells parse as numbers, else case-insensitively as strings. An unknown
// table name yields an empty page.
func (s *Session) RawData(q RawQuery) RawPage {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultRawLimit
	}
	empty := RawPage{Rows: []map[string]any{}, Page: 1, Pages: 1, Limit: limit}

	t, ok := s.Working(q.Table)
	if !ok {
		return empty
	}
	desc, _ := s.store.Descriptor(q.Table)
	filtered := filter.Apply(t, q.Filters, desc).Table

	rows := make([]table.Row, len(filtered.Rows))
	copy(rows, filtered.Rows)
	if q.SortBy != "" && filtered.HasColumn(q.SortBy) {
		sortRows(rows, q.SortBy, strings.EqualFold(q.SortDir, "desc"))
	}

	total := len(rows)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]map[string]any, 0, end-start)
	for _, row := range rows[start:end] {
		out = append(out, renderRecord(filtered.Columns, row, true))
	}

	columns := make([]string, 0, len(filtered.Columns))
	for _, c := range filtered.Columns {
		if c != table.RowIDColumn {
			columns = append(columns, c)
		}
	}
	return RawPage{
		Rows:    out,
		Columns: columns,
		Total:   total,
		Page:    page,
		Pages:   pages,
		Limit:   limit,
	}
}

// sortRows orders rows by one column. When both cells parse numerically
// the comparison is numeric; otherwise string, case-insensitive. Ties
// keep input order.
func sortRows(rows []table.Row, column string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		return cellLess(rows[i].Get(column), rows[j].Get(column))
	})
}

func cellLess(a, b any) bool {
	fa, okA := table.AsFloat(a)
	fb, okB := table.AsFloat(b)
	if okA && okB {
		return fa < fb
	}
	return strings.ToLower(table.AsString(a)) < strings.ToLower(table.AsString(b))
}
