package analytics

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

func TestSummary_KPIs(t *testing.T) {
	s := newLoadedSession(t)
	sum := s.Summary(filter.Spec{})

	assert.Equal(t, 6000.0, sum.TotalPremium)
	assert.Equal(t, 4800.0, sum.TotalRiskPremium)
	assert.Equal(t, 150.0, sum.TotalClaimsAmount)
	assert.Equal(t, 3, sum.TotalPolicies)
	assert.Equal(t, 2, sum.TotalClaims)
	assert.Equal(t, 1, sum.PoliciesWithClaims)
	assert.Equal(t, 33.3, sum.ClaimRate)
	assert.Equal(t, 2.5, sum.LossRatio)
	assert.Equal(t, 75.0, sum.AvgClaimCost)
	assert.Equal(t, 2000.0, sum.AvgPremium)
	assert.Equal(t, 2, sum.UniqueDealers)
	assert.Equal(t, 2, sum.UniqueMakes)
}

// A zero-premium book must report a zero loss ratio, not a division
// error or infinity.
func TestSummary_ZeroPremiumLossRatio(t *testing.T) {
	sales := table.New(
		[]string{"Policy No", "Dealer", "Gross Premium"},
		[]any{"A", "Alpha Motors", 0.0},
	)
	claims := table.New(
		[]string{"Policy No", "Claim Status", "Total Auth Amount"},
		[]any{"A", "Approved", 500.0},
	)
	s := New()
	require.NoError(t, s.Load(sales, claims))

	sum := s.Summary(filter.Spec{})
	assert.Equal(t, 0.0, sum.LossRatio)
	assert.Equal(t, 500.0, sum.TotalClaimsAmount)
}

func TestSummary_FilteredByDealer(t *testing.T) {
	s := newLoadedSession(t)
	sum := s.Summary(filter.Spec{Dealer: "Alpha Motors"})

	assert.Equal(t, 3000.0, sum.TotalPremium)
	assert.Equal(t, 2, sum.TotalPolicies)
	// Claims carry no dealer column here, so the dealer dimension is
	// skipped fail-open on the claims side.
	assert.Equal(t, 2, sum.TotalClaims)
	assert.Equal(t, 1, sum.PoliciesWithClaims)
}

func TestSalesMonthly_SortedPeriods(t *testing.T) {
	s := newLoadedSession(t)
	monthly := s.SalesMonthly(filter.Spec{})

	require.Len(t, monthly, 3)
	assert.Equal(t, "2024-01", monthly[0].Period)
	assert.Equal(t, "2024-02", monthly[1].Period)
	assert.Equal(t, "2024-03", monthly[2].Period)
	assert.Equal(t, 1000.0, monthly[0].Premium)
	assert.Equal(t, 1, monthly[0].Policies)
}

func TestSalesDealers_JoinsClaimFigures(t *testing.T) {
	s := newLoadedSession(t)
	dealers := s.SalesDealers(filter.Spec{})

	require.Len(t, dealers, 2)
	alpha := dealers[0]
	assert.Equal(t, "Alpha Motors", alpha.Dealer)
	assert.Equal(t, 2, alpha.Policies)
	assert.Equal(t, 3000.0, alpha.Premium)
	assert.Equal(t, 1, alpha.ClaimsCount)
	assert.Equal(t, 150.0, alpha.TotalClaimAmount)
	assert.Equal(t, 50.0, alpha.ClaimRate)
	assert.Equal(t, 5.0, alpha.LossRatio)

	beta := dealers[1]
	assert.Equal(t, "Beta Cars", beta.Dealer)
	assert.Equal(t, 0, beta.ClaimsCount)
	assert.Equal(t, 0.0, beta.LossRatio)
}

func TestSalesProducts(t *testing.T) {
	s := newLoadedSession(t)
	products := s.SalesProducts(filter.Spec{})

	require.Len(t, products, 2)
	assert.Equal(t, "Extended Warranty", products[0].Product)
	assert.Equal(t, 2, products[0].Count)
	assert.Equal(t, 3000.0, products[0].Premium)
}

func TestSalesVehicles_TopNByCount(t *testing.T) {
	cols := []string{"Policy No", "Dealer", "Make", "Gross Premium"}
	rows := make([][]any, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, []any{fmt.Sprintf("P-%d", i), "Alpha Motors", fmt.Sprintf("Make-%02d", i%22), 100.0})
	}
	s := New()
	require.NoError(t, s.Load(table.New(cols, rows...), table.New([]string{"Policy No", "Claim Status"})))

	vehicles := s.SalesVehicles(filter.Spec{})
	require.Len(t, vehicles, 20)
	// Makes 00..02 appear twice, the rest once; the doubles lead.
	assert.Equal(t, 2, vehicles[0].Count)
	assert.Equal(t, 2, vehicles[2].Count)
	assert.Equal(t, 1, vehicles[3].Count)
}

func TestClaimsStatus_Colors(t *testing.T) {
	s := newLoadedSession(t)
	statuses := s.ClaimsStatus(filter.Spec{})

	require.Len(t, statuses, 2)
	assert.Equal(t, "Approved", statuses[0].Status)
	assert.Equal(t, "#10b981", statuses[0].Color)
	assert.Equal(t, 100.0, statuses[0].TotalAmount)
	assert.Equal(t, "Rejected", statuses[1].Status)
	assert.Equal(t, "#ef4444", statuses[1].Color)
}

func TestClaimsParts_SortedByCountDesc(t *testing.T) {
	s := newLoadedSession(t)
	parts := s.ClaimsParts(filter.Spec{})

	require.Len(t, parts, 2)
	assert.Equal(t, "Engine", parts[0].PartType)
	assert.Equal(t, 1, parts[0].Count)
	assert.Equal(t, 100.0, parts[0].TotalAmount)
	assert.Equal(t, 100.0, parts[0].AvgCost)
}

func TestClaimsTrends(t *testing.T) {
	s := newLoadedSession(t)
	trends := s.ClaimsTrends(filter.Spec{})

	require.Len(t, trends, 2)
	assert.Equal(t, "2024-02", trends[0].Period)
	assert.Equal(t, 100.0, trends[0].TotalAmount)
	assert.Equal(t, 60.0, trends[0].LaborCost)
	assert.Equal(t, 40.0, trends[0].PartsCost)
	assert.Equal(t, "2024-03", trends[1].Period)
}

func TestClaimsRecent_NewestFirstAndRendered(t *testing.T) {
	s := newLoadedSession(t)
	recent := s.ClaimsRecent(filter.Spec{}, 0)

	require.Len(t, recent, 2)
	assert.Equal(t, "2024-03-01", recent[0]["Failure Date"])
	assert.Equal(t, "2024-02-01", recent[1]["Failure Date"])
	assert.NotContains(t, recent[0], table.RowIDColumn)

	limited := s.ClaimsRecent(filter.Spec{}, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "Rejected", limited[0]["Claim Status"])
}

func TestCorrelations(t *testing.T) {
	s := newLoadedSession(t)
	c := s.Correlations(filter.Spec{})

	require.Len(t, c.ByDealer, 2)
	assert.Equal(t, "Alpha Motors", c.ByDealer[0].Label)
	assert.Equal(t, 2, c.ByDealer[0].Policies)
	assert.Equal(t, 1, c.ByDealer[0].WithClaims)
	assert.Equal(t, 50.0, c.ByDealer[0].ClaimRate)
	assert.Equal(t, 5.0, c.ByDealer[0].LossRatio)

	require.Len(t, c.ByYear, 1)
	assert.Equal(t, "2024", c.ByYear[0].Label)
	assert.Equal(t, 3, c.ByYear[0].Policies)
}

func TestRawData_Pagination(t *testing.T) {
	cols := []string{"Policy No", "Dealer", "Gross Premium"}
	rows := make([][]any, 0, 101)
	for i := 0; i < 101; i++ {
		rows = append(rows, []any{fmt.Sprintf("P-%03d", i), "Alpha Motors", 100.0})
	}
	s := New()
	require.NoError(t, s.Load(table.New(cols, rows...), table.New([]string{"Policy No", "Claim Status"})))

	// 101 rows at limit 100 is two pages; a request far past the end is
	// clamped onto the last page, not errored.
	page := s.RawData(RawQuery{Table: store.TableSales, Page: 99, Limit: 100})
	assert.Equal(t, 101, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "P-100", page.Rows[0]["Policy No"])

	first := s.RawData(RawQuery{Table: store.TableSales, Page: 0, Limit: 100})
	assert.Equal(t, 1, first.Page)
	assert.Len(t, first.Rows, 100)
}

func TestRawData_EmptyAndUnknownTable(t *testing.T) {
	s := newLoadedSession(t)

	empty := s.RawData(RawQuery{Table: store.TableSales, Filters: filter.Spec{Dealer: "Nobody"}})
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 1, empty.Pages)
	assert.Equal(t, 1, empty.Page)
	assert.Empty(t, empty.Rows)

	unknown := s.RawData(RawQuery{Table: "inventory"})
	assert.Equal(t, 0, unknown.Total)
	assert.Equal(t, 1, unknown.Pages)
}

func TestRawData_SortNumericAndRowIDs(t *testing.T) {
	s := newLoadedSession(t)

	page := s.RawData(RawQuery{Table: store.TableSales, SortBy: "Gross Premium", SortDir: "desc"})
	require.Len(t, page.Rows, 3)
	assert.Equal(t, "C", page.Rows[0]["Policy No"])
	assert.Equal(t, "A", page.Rows[2]["Policy No"])

	// Rows carry the internal row id for edit addressing; the visible
	// column list does not.
	assert.Equal(t, 2, page.Rows[0][table.RowIDColumn])
	assert.NotContains(t, page.Columns, table.RowIDColumn)
}

func TestFilterOptions(t *testing.T) {
	s := newLoadedSession(t)
	opts := s.FilterOptions()

	assert.Equal(t, []string{"Alpha Motors", "Beta Cars"}, opts.Dealers)
	assert.Equal(t, []string{"Basic Cover", "Extended Warranty"}, opts.Products)
	assert.Equal(t, []int{2024}, opts.Years)
	assert.Equal(t, []int{1, 2, 3}, opts.Months)
	assert.Equal(t, []string{"Approved", "Rejected"}, opts.ClaimStatuses)
	assert.Equal(t, []string{"Engine", "Gearbox"}, opts.PartTypes)
	assert.Equal(t, "2024-01-15", opts.MinDate)
	assert.Equal(t, "2024-03-05", opts.MaxDate)
}

func TestInsights_HealthyBookWithForecast(t *testing.T) {
	s := newLoadedSession(t)
	insights := s.Insights(filter.Spec{})

	require.NotEmpty(t, insights)
	assert.Equal(t, InsightSuccess, insights[0].Type)
	assert.Equal(t, "Healthy Performance", insights[0].Title)

	// Monthly premiums 1000, 2000, 3000: +100% then +50% growth, so the
	// projection is 3000 * 1.75.
	last := insights[len(insights)-1]
	assert.Equal(t, InsightForecast, last.Type)
	assert.Equal(t, "5,250", last.Metric)
	assert.Equal(t, TrendUp, last.Trend)
}

func TestInsights_CriticalLossRatio(t *testing.T) {
	sales := table.New(
		[]string{"Policy No", "Dealer", "Gross Premium"},
		[]any{"A", "Alpha Motors", 100.0},
	)
	claims := table.New(
		[]string{"Policy No", "Claim Status", "Total Auth Amount"},
		[]any{"A", "Approved", 90.0},
	)
	s := New()
	require.NoError(t, s.Load(sales, claims))

	insights := s.Insights(filter.Spec{})
	require.NotEmpty(t, insights)
	assert.Equal(t, InsightWarning, insights[0].Type)
	assert.Equal(t, "High Loss Ratio Alert", insights[0].Title)
	assert.Equal(t, "90%", insights[0].Metric)
}

func TestValidate_CleanData(t *testing.T) {
	s := newLoadedSession(t)
	report := s.Validate()

	assert.Equal(t, StatusValid, report.Status)
	assert.Empty(t, report.Issues)
}

func TestValidate_DuplicatesAndMissingColumns(t *testing.T) {
	sales := table.New(
		[]string{"Policy No", "Dealer", "Product", "Year", "Month", "Gross Premium"},
		[]any{"A", "Alpha Motors", "Basic Cover", 2024.0, 1.0, 100.0},
		[]any{"A", "Alpha Motors", "Basic Cover", 2024.0, 2.0, 200.0},
	)
	claims := table.New(
		[]string{"Policy No", "Claim Status"}, // Total Auth Amount missing
		[]any{"A", "Approved"},
	)
	s := New()
	require.NoError(t, s.Load(sales, claims))

	report := s.Validate()
	assert.Equal(t, StatusError, report.Status)
	require.Len(t, report.Issues, 2)
	assert.Contains(t, report.Issues[0].Message, "Total Auth Amount")
	assert.Contains(t, report.Issues[1].Message, "duplicate Policy Numbers")
}

func TestValidate_NonNumericPremiumWarns(t *testing.T) {
	sales := table.New(
		[]string{"Policy No", "Dealer", "Product", "Year", "Month", "Gross Premium"},
		[]any{"A", "Alpha Motors", "Basic Cover", 2024.0, 1.0, "n/a"},
		[]any{"B", "Alpha Motors", "Basic Cover", 2024.0, 2.0, 200.0},
	)
	claims := table.New(
		[]string{"Policy No", "Claim Status", "Total Auth Amount"},
		[]any{"A", "Approved", 50.0},
	)
	s := New()
	require.NoError(t, s.Load(sales, claims))

	report := s.Validate()
	assert.Equal(t, StatusWarning, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Message, "non-numeric")
}

func TestSummaryText_Golden(t *testing.T) {
	s := newLoadedSession(t)
	text := s.SummaryText(filter.Spec{})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "summary_text", []byte(text))
}

func TestCorrelations_Golden(t *testing.T) {
	s := newLoadedSession(t)
	data, err := json.MarshalIndent(s.Correlations(filter.Spec{}), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "correlations", data)
}
