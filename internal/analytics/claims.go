package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

// StatusRow is one claim status bucket. Color carries the display hex
// used by every frontend of this data.
type StatusRow struct {
	Status      string  `json:"status"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	Color       string  `json:"color"`
}

var statusColors = map[string]string{
	"Approved": "#10b981",
	"Rejected": "#ef4444",
	"Reversed": "#f59e0b",
	"Pending":  "#3b82f6",
}

const defaultStatusColor = "#64748b"

// ClaimsStatus breaks the filtered claims down by status, first-seen
// order. Returns nil when no status column resolves.
func (s *Session) ClaimsStatus(spec filter.Spec) []StatusRow {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("claims_status", spec, func() any {
		return s.computeClaimsStatus(spec)
	})
	return v.([]StatusRow)
}

func (s *Session) computeClaimsStatus(spec filter.Spec) []StatusRow {
	claims := s.filteredClaims(spec)
	desc, _ := s.store.Descriptor(store.TableClaims)

	statusCol, ok := desc.Resolve(claims, "Claim Status")
	if !ok {
		return nil
	}
	amountCol, _ := desc.Resolve(claims, "Total Auth Amount")

	var out []StatusRow
	for _, g := range groupBy(claims, statusCol) {
		color, ok := statusColors[g.key]
		if !ok {
			color = defaultStatusColor
		}
		out = append(out, StatusRow{
			Status:      g.key,
			Count:       len(g.rows),
			TotalAmount: round2(sumColumn(g.rows, amountCol)),
			Color:       color,
		})
	}
	return out
}

// PartRow is one failed-part bucket.
type PartRow struct {
	PartType    string  `json:"partType"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	AvgCost     float64 `json:"avgCost"`
}

// ClaimsParts breaks the filtered claims down by part type, sorted by
// count descending. Returns nil when no part column resolves.
func (s *Session) ClaimsParts(spec filter.Spec) []PartRow {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("claims_parts", spec, func() any {
		return s.computeClaimsParts(spec)
	})
	return v.([]PartRow)
}

func (s *Session) computeClaimsParts(spec filter.Spec) []PartRow {
	claims := s.filteredClaims(spec)
	desc, _ := s.store.Descriptor(store.TableClaims)

	partCol, ok := desc.Resolve(claims, "Part Type")
	if !ok {
		return nil
	}
	amountCol, _ := desc.Resolve(claims, "Total Auth Amount")

	var out []PartRow
	for _, g := range groupBy(claims, partCol) {
		total := sumColumn(g.rows, amountCol)
		out = append(out, PartRow{
			PartType:    g.key,
			Count:       len(g.rows),
			TotalAmount: round2(total),
			AvgCost:     round2(safeDiv(total, float64(len(g.rows)))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// TrendPoint is one (year, month) bucket of the claims trend, with the
// labor/parts cost split alongside the total.
type TrendPoint struct {
	Period      string  `json:"period"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	LaborCost   float64 `json:"laborCost"`
	PartsCost   float64 `json:"partsCost"`
}

// ClaimsTrends breaks the filtered claims down by (year, month),
// ascending. Returns nil when the year/month columns are absent.
func (s *Session) ClaimsTrends(spec filter.Spec) []TrendPoint {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("claims_trends", spec, func() any {
		return s.computeClaimsTrends(spec)
	})
	return v.([]TrendPoint)
}

func (s *Session) computeClaimsTrends(spec filter.Spec) []TrendPoint {
	claims := s.filteredClaims(spec)
	desc, _ := s.store.Descriptor(store.TableClaims)

	yearCol, okY := desc.Resolve(claims, "Year")
	monthCol, okM := desc.Resolve(claims, "Month")
	if !okY || !okM {
		return nil
	}
	amountCol, _ := desc.Resolve(claims, "Total Auth Amount")
	laborCol, _ := desc.Resolve(claims, "Labor")
	partsCol, _ := desc.Resolve(claims, "Parts")

	var out []TrendPoint
	for _, g := range groupByYearMonth(claims, yearCol, monthCol) {
		out = append(out, TrendPoint{
			Period:      fmt.Sprintf("%d-%02d", g.year, g.month),
			Year:        g.year,
			Month:       g.month,
			Count:       len(g.rows),
			TotalAmount: round2(sumColumn(g.rows, amountCol)),
			LaborCost:   round2(sumColumn(g.rows, laborCol)),
			PartsCost:   round2(sumColumn(g.rows, partsCol)),
		})
	}
	return out
}

// DefaultRecentLimit caps ClaimsRecent when the caller passes 0.
const DefaultRecentLimit = 50

// ClaimsRecent returns the most recent filtered claims, newest first by
// the resolved date column, capped at limit. Rows are rendered as plain
// records: dates formatted YYYY-MM-DD, the internal row id column
// excluded. When no date column resolves the input order is kept.
func (s *Session) ClaimsRecent(spec filter.Spec, limit int) []map[string]any {
	if !s.Loaded() {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	// The limit is part of the cache identity: the same spec at two
	// limits is two entries.
	op := fmt.Sprintf("claims_recent_%d", limit)
	v := s.cache.GetOrCompute(op, spec, func() any {
		return s.computeClaimsRecent(spec, limit)
	})
	return v.([]map[string]any)
}

func (s *Session) computeClaimsRecent(spec filter.Spec, limit int) []map[string]any {
	claims := s.filteredClaims(spec)
	desc, _ := s.store.Descriptor(store.TableClaims)

	rows := make([]table.Row, len(claims.Rows))
	copy(rows, claims.Rows)

	if dateCol, ok := desc.Resolve(claims, "Failure Date"); ok {
		sortRowsByDateDesc(rows, dateCol)
	} else if dateCol, ok := desc.Resolve(claims, "Authorized Date"); ok {
		sortRowsByDateDesc(rows, dateCol)
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, renderRecord(claims.Columns, row, false))
	}
	return out
}

// sortRowsByDateDesc orders rows newest first; rows whose date cell does
// not parse sink to the end, keeping their relative order.
func sortRowsByDateDesc(rows []table.Row, dateCol string) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, oki := table.AsTime(rows[i].Get(dateCol))
		tj, okj := table.AsTime(rows[j].Get(dateCol))
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		return ti.After(tj)
	})
}

// renderRecord flattens a row into a plain record with dates formatted
// YYYY-MM-DD. withID controls whether the row id travels along under the
// reserved column name.
func renderRecord(columns []string, row table.Row, withID bool) map[string]any {
	rec := make(map[string]any, len(columns)+1)
	for _, col := range columns {
		if col == table.RowIDColumn {
			continue
		}
		v := row.Get(col)
		if t, ok := v.(time.Time); ok {
			rec[col] = t.Format(table.DateLayout)
			continue
		}
		rec[col] = v
	}
	if withID {
		rec[table.RowIDColumn] = row.ID
	}
	return rec
}
