package analytics

// aggregate.go holds the shared grouping and arithmetic helpers behind
// the aggregation operations. Groups preserve first-seen order; rows with
// a missing group key are dropped, matching how the source system treated
// null keys.

import (
	"math"
	"sort"

	"github.com/claimlens/claimlens/internal/table"
)

type group struct {
	key  string
	rows []table.Row
}

// groupBy buckets rows by the string rendering of one column, preserving
// first-seen order. Rows with a missing key are skipped.
func groupBy(t *table.Table, column string) []group {
	index := make(map[string]int)
	var groups []group
	for _, row := range t.Rows {
		v := row.Get(column)
		if table.IsMissing(v) {
			continue
		}
		key := table.AsString(v)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

type ymGroup struct {
	year  int
	month int
	rows  []table.Row
}

// groupByYearMonth buckets rows by (year, month), sorted ascending.
// Rows whose year or month does not parse numerically are skipped.
func groupByYearMonth(t *table.Table, yearCol, monthCol string) []ymGroup {
	type ym struct{ y, m int }
	index := make(map[ym]int)
	var groups []ymGroup
	for _, row := range t.Rows {
		y, okY := table.AsInt(row.Get(yearCol))
		m, okM := table.AsInt(row.Get(monthCol))
		if !okY || !okM {
			continue
		}
		k := ym{y, m}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, ymGroup{year: y, month: m})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].year != groups[j].year {
			return groups[i].year < groups[j].year
		}
		return groups[i].month < groups[j].month
	})
	return groups
}

// sumColumn sums the numeric values of one column over rows. Cells that
// do not parse are skipped; an empty column name sums to 0 so callers can
// pass an unresolved column straight through.
func sumColumn(rows []table.Row, column string) float64 {
	if column == "" {
		return 0
	}
	var total float64
	for _, row := range rows {
		if f, ok := table.AsFloat(row.Get(column)); ok {
			total += f
		}
	}
	return total
}

// countTrue counts rows whose column holds a truthy value.
func countTrue(rows []table.Row, column string) int {
	n := 0
	for _, row := range rows {
		switch v := row.Get(column).(type) {
		case bool:
			if v {
				n++
			}
		default:
			if f, ok := table.AsFloat(v); ok && f > 0 {
				n++
			}
		}
	}
	return n
}

// distinct returns the sorted set of distinct non-missing string values
// of one column.
func distinct(t *table.Table, column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v := row.Get(column)
		if table.IsMissing(v) {
			continue
		}
		s := table.AsString(v)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// distinctInts returns the sorted set of distinct integer values of one
// column, skipping non-numeric cells.
func distinctInts(t *table.Table, column string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, row := range t.Rows {
		v := row.Get(column)
		if table.IsMissing(v) {
			continue
		}
		if n, ok := table.AsInt(v); ok && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// round2 rounds to 2 decimals (monetary figures).
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// round1 rounds to 1 decimal (rates and ratios).
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// pct returns num/den*100 rounded to 1 decimal, 0 when den is 0.
func pct(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return round1(num / den * 100)
}

// safeDiv returns num/den, 0 when den is 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
