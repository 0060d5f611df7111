package analytics

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/merge"
	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

// Summary is the overall KPI set. Monetary figures are rounded to 2
// decimals, rates to 1.
type Summary struct {
	TotalPremium       float64 `json:"totalPremium"`
	TotalRiskPremium   float64 `json:"totalRiskPremium"`
	TotalClaimsAmount  float64 `json:"totalClaimsAmount"`
	TotalPolicies      int     `json:"totalPolicies"`
	TotalClaims        int     `json:"totalClaims"`
	ClaimRate          float64 `json:"claimRate"`
	LossRatio          float64 `json:"lossRatio"`
	AvgClaimCost       float64 `json:"avgClaimCost"`
	AvgPremium         float64 `json:"avgPremium"`
	PoliciesWithClaims int     `json:"policiesWithClaims"`
	UniqueDealers      int     `json:"uniqueDealers"`
	UniqueMakes        int     `json:"uniqueMakes"`
}

// Summary computes the KPI set over the filtered working tables.
// Missing columns contribute zero; divisions are zero-guarded (a zero
// premium yields lossRatio 0, never a division error).
func (s *Session) Summary(spec filter.Spec) Summary {
	if !s.Loaded() {
		return Summary{}
	}
	v := s.cache.GetOrCompute("summary", spec, func() any {
		return s.computeSummary(spec)
	})
	return v.(Summary)
}

func (s *Session) computeSummary(spec filter.Spec) Summary {
	sales := s.filteredSales(spec)
	claims := s.filteredClaims(spec)
	salesDesc, _ := s.store.Descriptor(store.TableSales)
	claimsDesc, _ := s.store.Descriptor(store.TableClaims)

	premiumCol, _ := salesDesc.Resolve(sales, "Gross Premium")
	riskCol, _ := salesDesc.Resolve(sales, "Risk Premium")
	amountCol, _ := claimsDesc.Resolve(claims, "Total Auth Amount")

	totalPremium := sumColumn(sales.Rows, premiumCol)
	totalRisk := sumColumn(sales.Rows, riskCol)
	totalClaimsAmount := sumColumn(claims.Rows, amountCol)
	totalPolicies := sales.Len()
	totalClaims := claims.Len()

	merged := s.filteredMerged(spec)
	policiesWithClaims := countTrue(merged.Rows, merge.ColHasClaim)

	sum := Summary{
		TotalPremium:       round2(totalPremium),
		TotalRiskPremium:   round2(totalRisk),
		TotalClaimsAmount:  round2(totalClaimsAmount),
		TotalPolicies:      totalPolicies,
		TotalClaims:        totalClaims,
		ClaimRate:          pct(float64(policiesWithClaims), float64(totalPolicies)),
		LossRatio:          pct(totalClaimsAmount, totalPremium),
		AvgClaimCost:       round2(safeDiv(totalClaimsAmount, float64(totalClaims))),
		AvgPremium:         round2(safeDiv(totalPremium, float64(totalPolicies))),
		PoliciesWithClaims: policiesWithClaims,
	}
	if col, ok := salesDesc.Resolve(sales, "Dealer"); ok {
		sum.UniqueDealers = len(distinct(sales, col))
	}
	if col, ok := salesDesc.Resolve(sales, "Make"); ok {
		sum.UniqueMakes = len(distinct(sales, col))
	}
	return sum
}

// Options lists, for each dimension column present in the data, the
// sorted distinct non-missing values, plus the bounds of the resolved
// date column formatted YYYY-MM-DD. Absent columns yield nil slices.
type Options struct {
	Dealers       []string `json:"dealers,omitempty"`
	Products      []string `json:"products,omitempty"`
	Years         []int    `json:"years,omitempty"`
	Months        []int    `json:"months,omitempty"`
	Makes         []string `json:"makes,omitempty"`
	Countries     []string `json:"countries,omitempty"`
	Coverages     []string `json:"coverages,omitempty"`
	VehicleTypes  []string `json:"vehicleTypes,omitempty"`
	BodyTypes     []string `json:"bodyTypes,omitempty"`
	ClaimStatuses []string `json:"claimStatuses,omitempty"`
	PartTypes     []string `json:"partTypes,omitempty"`
	MinDate       string   `json:"minDate,omitempty"`
	MaxDate       string   `json:"maxDate,omitempty"`
}

// FilterOptions returns the available filter values in the working data.
func (s *Session) FilterOptions() Options {
	if !s.Loaded() {
		return Options{}
	}
	sales, _ := s.store.Working(store.TableSales)
	claims, _ := s.store.Working(store.TableClaims)
	salesDesc, _ := s.store.Descriptor(store.TableSales)

	opts := Options{}
	if sales.HasColumn("Dealer") {
		opts.Dealers = distinct(sales, "Dealer")
	}
	if sales.HasColumn("Product") {
		opts.Products = distinct(sales, "Product")
	}
	if sales.HasColumn("Year") {
		opts.Years = distinctInts(sales, "Year")
	}
	if sales.HasColumn("Month") {
		opts.Months = distinctInts(sales, "Month")
	}
	if sales.HasColumn("Make") {
		opts.Makes = distinct(sales, "Make")
	}
	if sales.HasColumn("Country Name") {
		opts.Countries = distinct(sales, "Country Name")
	}
	if sales.HasColumn("Coverage") {
		opts.Coverages = distinct(sales, "Coverage")
	}
	if sales.HasColumn("Vehicle Type") {
		opts.VehicleTypes = distinct(sales, "Vehicle Type")
	}
	if sales.HasColumn("Body Type") {
		opts.BodyTypes = distinct(sales, "Body Type")
	}
	if claims.HasColumn("Claim Status") {
		opts.ClaimStatuses = distinct(claims, "Claim Status")
	}
	if claims.HasColumn("Part Type") {
		opts.PartTypes = distinct(claims, "Part Type")
	}

	if dateCol, ok := salesDesc.ResolveRole(sales, schema.RoleDate); ok {
		var minT, maxT time.Time
		for _, row := range sales.Rows {
			t, ok := table.AsTime(row.Get(dateCol))
			if !ok {
				continue
			}
			if minT.IsZero() || t.Before(minT) {
				minT = t
			}
			if maxT.IsZero() || t.After(maxT) {
				maxT = t
			}
		}
		if !minT.IsZero() {
			opts.MinDate = minT.Format(table.DateLayout)
			opts.MaxDate = maxT.Format(table.DateLayout)
		}
	}
	return opts
}

// SummaryText renders a plain-text digest of the current summary and
// dimensions, sized for handing to an external assistant as context.
func (s *Session) SummaryText(spec filter.Spec) string {
	if !s.Loaded() {
		return "No data loaded."
	}
	sum := s.Summary(spec)
	opts := s.FilterOptions()
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("INSURANCE DATA SUMMARY:\n")
	p.Fprintf(&b, "- Total Policies: %d\n", sum.TotalPolicies)
	p.Fprintf(&b, "- Total Gross Premium: %.2f\n", sum.TotalPremium)
	p.Fprintf(&b, "- Total Claims: %d\n", sum.TotalClaims)
	p.Fprintf(&b, "- Total Claims Amount: %.2f\n", sum.TotalClaimsAmount)
	p.Fprintf(&b, "- Claim Rate: %.1f%%\n", sum.ClaimRate)
	p.Fprintf(&b, "- Loss Ratio: %.1f%%\n", sum.LossRatio)
	p.Fprintf(&b, "- Average Claim Cost: %.2f\n", sum.AvgClaimCost)
	p.Fprintf(&b, "- Average Premium: %.2f\n", sum.AvgPremium)
	p.Fprintf(&b, "- Unique Dealers: %d\n", sum.UniqueDealers)
	p.Fprintf(&b, "- Unique Vehicle Makes: %d\n", sum.UniqueMakes)
	b.WriteString("\nAVAILABLE DATA DIMENSIONS:\n")
	b.WriteString("- Dealers: " + strings.Join(opts.Dealers, ", ") + "\n")
	b.WriteString("- Products: " + strings.Join(opts.Products, ", ") + "\n")
	b.WriteString("- Years: " + joinInts(opts.Years) + "\n")
	b.WriteString("- Claim Statuses: " + strings.Join(opts.ClaimStatuses, ", ") + "\n")
	b.WriteString("- Part Types: " + strings.Join(head(opts.PartTypes, 10), ", ") + "\n")
	b.WriteString("- Top Makes: " + strings.Join(head(opts.Makes, 15), ", ") + "\n")
	return b.String()
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func head(ss []string, n int) []string {
	if len(ss) <= n {
		return ss
	}
	return ss[:n]
}
