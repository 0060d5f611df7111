// Package filter applies a declarative filter specification to a table,
// producing a derived, non-owning subset. Predicates run in a fixed order
// and compose conjunctively: a row survives only if it matches every
// active dimension.
//
// Dimensions degrade instead of failing: an equality dimension whose
// column is absent, or a date bound that does not parse, is skipped and
// recorded as an explicit outcome rather than raised as an error.
package filter

import (
	"strings"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

// All is the sentinel meaning "no constraint on this dimension".
const All = "All"

// Spec is an immutable set of filter dimensions. The zero value matches
// every row. Empty strings and the All sentinel both mean "unconstrained".
type Spec struct {
	Dealer      string
	Product     string
	Year        string
	Month       string
	Make        string
	DateFrom    string
	DateTo      string
	Search      string
	ClaimStatus string
}

// IsZero reports whether no dimension is active.
func (s Spec) IsZero() bool {
	return len(s.Pairs()) == 0
}

// Pairs returns the active dimensions as sorted (dimension, value) pairs.
// Sorting makes the result independent of construction order, so two
// semantically identical specs canonicalize to the same cache key.
func (s Spec) Pairs() [][2]string {
	all := [][2]string{
		{"claim_status", s.ClaimStatus},
		{"date_from", s.DateFrom},
		{"date_to", s.DateTo},
		{"dealer", s.Dealer},
		{"make", s.Make},
		{"month", s.Month},
		{"product", s.Product},
		{"search", s.Search},
		{"year", s.Year},
	}
	var out [][2]string
	for _, p := range all {
		if active(p[1]) {
			out = append(out, p)
		}
	}
	return out
}

func active(v string) bool {
	return v != "" && v != All
}

// Outcome records how one dimension was handled: applied, or skipped with
// a reason. Skips are the auditable face of the fail-open policy.
type Outcome struct {
	Dimension string
	Applied   bool
	Reason    string
}

// Result is a filtered subset plus the per-dimension outcomes.
type Result struct {
	Table    *table.Table
	Outcomes []Outcome
}

// Applied reports whether the named dimension was applied.
func (r Result) Applied(dimension string) bool {
	for _, o := range r.Outcomes {
		if o.Dimension == dimension {
			return o.Applied
		}
	}
	return false
}

// Apply filters a table against the spec using the descriptor to resolve
// dimension columns. The input table is never mutated. Dimension order is
// fixed: dealer, product, year, month, make, date-from, date-to, search,
// claim status. Free-text search is O(rows x columns) over the string
// rendering of every cell, the most expensive dimension by far.
func Apply(t *table.Table, spec Spec, desc *schema.Descriptor) Result {
	res := Result{Table: t}

	res.equality("dealer", spec.Dealer, desc, "Dealer")
	res.equality("product", spec.Product, desc, "Product")
	res.numericEquality("year", spec.Year, desc, "Year")
	res.numericEquality("month", spec.Month, desc, "Month")
	res.equality("make", spec.Make, desc, "Make")
	res.dateBound("date_from", spec.DateFrom, desc, false)
	res.dateBound("date_to", spec.DateTo, desc, true)
	res.search(spec.Search)
	res.equality("claim_status", spec.ClaimStatus, desc, "Claim Status")

	return res
}

func (r *Result) applied(dimension string) {
	r.Outcomes = append(r.Outcomes, Outcome{Dimension: dimension, Applied: true})
}

func (r *Result) skipped(dimension, reason string) {
	r.Outcomes = append(r.Outcomes, Outcome{Dimension: dimension, Reason: reason})
}

func (r *Result) keep(pred func(table.Row) bool) {
	var indices []int
	for i, row := range r.Table.Rows {
		if pred(row) {
			indices = append(indices, i)
		}
	}
	r.Table = r.Table.Subset(indices)
}

// equality keeps rows whose resolved column renders equal to the wanted
// value. Skipped when the column cannot be resolved.
func (r *Result) equality(dimension, want string, desc *schema.Descriptor, field string) {
	if !active(want) {
		return
	}
	col, ok := desc.Resolve(r.Table, field)
	if !ok {
		r.skipped(dimension, "column not present")
		return
	}
	r.applied(dimension)
	r.keep(func(row table.Row) bool {
		return table.AsString(row.Get(col)) == want
	})
}

// numericEquality compares year/month dimensions numerically so "3"
// matches 3.0 cells. Skipped when the filter value is not a number.
func (r *Result) numericEquality(dimension, want string, desc *schema.Descriptor, field string) {
	if !active(want) {
		return
	}
	wantN, ok := table.AsFloat(want)
	if !ok {
		r.skipped(dimension, "value is not numeric")
		return
	}
	col, ok := desc.Resolve(r.Table, field)
	if !ok {
		r.skipped(dimension, "column not present")
		return
	}
	r.applied(dimension)
	r.keep(func(row table.Row) bool {
		v, ok := table.AsFloat(row.Get(col))
		return ok && v == wantN
	})
}

// dateBound keeps rows whose resolved date column falls on the right side
// of the bound. Fails open: an unparseable bound skips the dimension, and
// a row whose date does not parse survives the bound.
func (r *Result) dateBound(dimension, bound string, desc *schema.Descriptor, upper bool) {
	if !active(bound) {
		return
	}
	boundT, ok := table.AsTime(bound)
	if !ok {
		r.skipped(dimension, "bound is not a date")
		return
	}
	col, ok := desc.ResolveRole(r.Table, schema.RoleDate)
	if !ok {
		r.skipped(dimension, "no date column present")
		return
	}
	r.applied(dimension)
	r.keep(func(row table.Row) bool {
		v, ok := table.AsTime(row.Get(col))
		if !ok {
			return true
		}
		if upper {
			return !v.After(boundT)
		}
		return !v.Before(boundT)
	})
}

// search keeps rows where the term appears, case-insensitively, in the
// string rendering of any cell. The All sentinel is unconstrained here
// like on every other dimension; Pairs excludes it from cache keys, so
// treating it as a literal term would alias distinct results.
func (r *Result) search(term string) {
	if !active(term) {
		return
	}
	needle := strings.ToLower(term)
	r.applied("search")
	r.keep(func(row table.Row) bool {
		for _, col := range r.Table.Columns {
			if strings.Contains(strings.ToLower(table.AsString(row.Get(col))), needle) {
				return true
			}
		}
		return false
	})
}
