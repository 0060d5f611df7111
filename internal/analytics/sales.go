package analytics

import (
	"fmt"
	"sort"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/merge"
	"github.com/claimlens/claimlens/internal/store"
)

// MonthlyPoint is one (year, month) bucket of the sales trend.
type MonthlyPoint struct {
	Period      string  `json:"period"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Policies    int     `json:"policies"`
	Premium     float64 `json:"premium"`
	RiskPremium float64 `json:"riskPremium"`
}

// SalesMonthly breaks the filtered sales rows down by (year, month),
// ascending. Rows lacking a numeric year or month are excluded. Returns
// nil when the year/month columns are absent.
func (s *Session) SalesMonthly(spec filter.Spec) []MonthlyPoint {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("sales_monthly", spec, func() any {
		return s.computeSalesMonthly(spec)
	})
	return v.([]MonthlyPoint)
}

func (s *Session) computeSalesMonthly(spec filter.Spec) []MonthlyPoint {
	sales := s.filteredSales(spec)
	desc, _ := s.store.Descriptor(store.TableSales)

	yearCol, okY := desc.Resolve(sales, "Year")
	monthCol, okM := desc.Resolve(sales, "Month")
	if !okY || !okM {
		return nil
	}
	premiumCol, _ := desc.Resolve(sales, "Gross Premium")
	riskCol, _ := desc.Resolve(sales, "Risk Premium")

	var out []MonthlyPoint
	for _, g := range groupByYearMonth(sales, yearCol, monthCol) {
		out = append(out, MonthlyPoint{
			Period:      fmt.Sprintf("%d-%02d", g.year, g.month),
			Year:        g.year,
			Month:       g.month,
			Policies:    len(g.rows),
			Premium:     round2(sumColumn(g.rows, premiumCol)),
			RiskPremium: round2(sumColumn(g.rows, riskCol)),
		})
	}
	return out
}

// DealerRow is one dealer's slice of the book, with claim figures joined
// in from the merged view.
type DealerRow struct {
	Dealer           string  `json:"dealer"`
	Policies         int     `json:"policies"`
	Premium          float64 `json:"premium"`
	RiskPremium      float64 `json:"riskPremium"`
	ClaimsCount      int     `json:"claimsCount"`
	TotalClaimAmount float64 `json:"totalClaimAmount"`
	ClaimRate        float64 `json:"claimRate"`
	LossRatio        float64 `json:"lossRatio"`
}

// SalesDealers breaks the filtered sales rows down by dealer, first-seen
// order, with per-dealer claim counts and loss ratios from the merged
// view. Returns nil when no dealer column resolves.
func (s *Session) SalesDealers(spec filter.Spec) []DealerRow {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("sales_dealers", spec, func() any {
		return s.computeSalesDealers(spec)
	})
	return v.([]DealerRow)
}

func (s *Session) computeSalesDealers(spec filter.Spec) []DealerRow {
	sales := s.filteredSales(spec)
	desc, _ := s.store.Descriptor(store.TableSales)

	dealerCol, ok := desc.Resolve(sales, "Dealer")
	if !ok {
		return nil
	}
	premiumCol, _ := desc.Resolve(sales, "Gross Premium")
	riskCol, _ := desc.Resolve(sales, "Risk Premium")

	var out []DealerRow
	index := make(map[string]int)
	for _, g := range groupBy(sales, dealerCol) {
		index[g.key] = len(out)
		out = append(out, DealerRow{
			Dealer:      g.key,
			Policies:    len(g.rows),
			Premium:     round2(sumColumn(g.rows, premiumCol)),
			RiskPremium: round2(sumColumn(g.rows, riskCol)),
		})
	}

	merged := s.filteredMerged(spec)
	for _, g := range groupBy(merged, dealerCol) {
		i, ok := index[g.key]
		if !ok {
			continue
		}
		out[i].ClaimsCount = countTrue(g.rows, merge.ColHasClaim)
		out[i].TotalClaimAmount = round2(sumColumn(g.rows, merge.ColTotalClaimAmount))
	}
	for i := range out {
		out[i].ClaimRate = pct(float64(out[i].ClaimsCount), float64(out[i].Policies))
		out[i].LossRatio = pct(out[i].TotalClaimAmount, out[i].Premium)
	}
	return out
}

// ProductRow is one product's slice of the book.
type ProductRow struct {
	Product     string  `json:"product"`
	Count       int     `json:"count"`
	Premium     float64 `json:"premium"`
	RiskPremium float64 `json:"riskPremium"`
}

// SalesProducts breaks the filtered sales rows down by product,
// first-seen order. Returns nil when no product column resolves.
func (s *Session) SalesProducts(spec filter.Spec) []ProductRow {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("sales_products", spec, func() any {
		return s.computeSalesProducts(spec)
	})
	return v.([]ProductRow)
}

func (s *Session) computeSalesProducts(spec filter.Spec) []ProductRow {
	sales := s.filteredSales(spec)
	desc, _ := s.store.Descriptor(store.TableSales)

	prodCol, ok := desc.Resolve(sales, "Product")
	if !ok {
		return nil
	}
	premiumCol, _ := desc.Resolve(sales, "Gross Premium")
	riskCol, _ := desc.Resolve(sales, "Risk Premium")

	var out []ProductRow
	for _, g := range groupBy(sales, prodCol) {
		out = append(out, ProductRow{
			Product:     g.key,
			Count:       len(g.rows),
			Premium:     round2(sumColumn(g.rows, premiumCol)),
			RiskPremium: round2(sumColumn(g.rows, riskCol)),
		})
	}
	return out
}

// MakeRow is one vehicle make's slice of the book.
type MakeRow struct {
	Make    string  `json:"make"`
	Count   int     `json:"count"`
	Premium float64 `json:"premium"`
}

const vehicleTopN = 20

// SalesVehicles breaks the filtered sales rows down by vehicle make,
// keeping the top 20 makes by policy count, descending. Returns nil when
// no make column resolves.
func (s *Session) SalesVehicles(spec filter.Spec) []MakeRow {
	if !s.Loaded() {
		return nil
	}
	v := s.cache.GetOrCompute("sales_vehicles", spec, func() any {
		return s.computeSalesVehicles(spec)
	})
	return v.([]MakeRow)
}

func (s *Session) computeSalesVehicles(spec filter.Spec) []MakeRow {
	sales := s.filteredSales(spec)
	desc, _ := s.store.Descriptor(store.TableSales)

	makeCol, ok := desc.Resolve(sales, "Make")
	if !ok {
		return nil
	}
	premiumCol, _ := desc.Resolve(sales, "Gross Premium")

	var out []MakeRow
	for _, g := range groupBy(sales, makeCol) {
		out = append(out, MakeRow{
			Make:    g.key,
			Count:   len(g.rows),
			Premium: round2(sumColumn(g.rows, premiumCol)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > vehicleTopN {
		out = out[:vehicleTopN]
	}
	return out
}
