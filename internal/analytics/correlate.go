package analytics

import (
	"sort"
	"strconv"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/merge"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

// CorrelationRow relates exposure to claim outcome for one label of a
// dimension (a dealer, a product, a make, a year).
type CorrelationRow struct {
	Label            string  `json:"label"`
	Policies         int     `json:"policies"`
	WithClaims       int     `json:"withClaims"`
	TotalPremium     float64 `json:"totalPremium"`
	TotalClaimAmount float64 `json:"totalClaimAmount"`
	ClaimRate        float64 `json:"claimRate"`
	LossRatio        float64 `json:"lossRatio"`
}

// Correlations groups the sales-to-claims correlation tables. A nil
// slice means the dimension's column is absent from the data.
type Correlations struct {
	ByDealer  []CorrelationRow `json:"byDealer,omitempty"`
	ByProduct []CorrelationRow `json:"byProduct,omitempty"`
	ByMake    []CorrelationRow `json:"byMake,omitempty"`
	ByYear    []CorrelationRow `json:"byYear,omitempty"`
}

const makeTopN = 15

// Correlations computes claim rate and loss ratio per dealer, product,
// make (top 15 by policy count) and year over the filtered merged view.
func (s *Session) Correlations(spec filter.Spec) Correlations {
	if !s.Loaded() {
		return Correlations{}
	}
	v := s.cache.GetOrCompute("correlations", spec, func() any {
		return s.computeCorrelations(spec)
	})
	return v.(Correlations)
}

func (s *Session) computeCorrelations(spec filter.Spec) Correlations {
	merged := s.filteredMerged(spec)
	desc, _ := s.store.Descriptor(store.TableSales)
	premiumCol, _ := desc.Resolve(merged, "Gross Premium")

	var out Correlations
	if col, ok := desc.Resolve(merged, "Dealer"); ok {
		out.ByDealer = correlate(merged, col, premiumCol)
	}
	if col, ok := desc.Resolve(merged, "Product"); ok {
		out.ByProduct = correlate(merged, col, premiumCol)
	}
	if col, ok := desc.Resolve(merged, "Make"); ok {
		byMake := correlate(merged, col, premiumCol)
		sort.SliceStable(byMake, func(i, j int) bool {
			return byMake[i].Policies > byMake[j].Policies
		})
		if len(byMake) > makeTopN {
			byMake = byMake[:makeTopN]
		}
		out.ByMake = byMake
	}
	if col, ok := desc.Resolve(merged, "Year"); ok {
		byYear := correlate(merged, col, premiumCol)
		sort.SliceStable(byYear, func(i, j int) bool {
			return yearLess(byYear[i].Label, byYear[j].Label)
		})
		out.ByYear = byYear
	}
	return out
}

func correlate(merged *table.Table, groupCol, premiumCol string) []CorrelationRow {
	var out []CorrelationRow
	for _, g := range groupBy(merged, groupCol) {
		premium := sumColumn(g.rows, premiumCol)
		claimAmount := sumColumn(g.rows, merge.ColTotalClaimAmount)
		withClaims := countTrue(g.rows, merge.ColHasClaim)
		out = append(out, CorrelationRow{
			Label:            g.key,
			Policies:         len(g.rows),
			WithClaims:       withClaims,
			TotalPremium:     round2(premium),
			TotalClaimAmount: round2(claimAmount),
			ClaimRate:        pct(float64(withClaims), float64(len(g.rows))),
			LossRatio:        pct(claimAmount, premium),
		})
	}
	return out
}

// yearLess orders year labels numerically, falling back to string order
// for labels that do not parse.
func yearLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
