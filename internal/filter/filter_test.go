package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

func fixture() *table.Table {
	return table.New(
		[]string{"Policy No", "Dealer", "Product", "Year", "Month", "Make", "Policy Sold Date", "Gross Premium"},
		[]any{"P-1", "Alpha", "Gold", 2023.0, 1.0, "Toyota", "2023-01-10", 100.0},
		[]any{"P-2", "Alpha", "Silver", 2023.0, 2.0, "Honda", "2023-02-05", 200.0},
		[]any{"P-3", "Beta", "Gold", 2024.0, 1.0, "Toyota", "2024-01-20", 300.0},
		[]any{"P-4", "Beta", "Gold", 2024.0, 3.0, "Ford", "not-a-date", 400.0},
		[]any{"P-5", "Gamma", "Bronze", 2024.0, 3.0, "Toyota", "2024-03-02", 500.0},
	)
}

func ids(t *table.Table) []int {
	var out []int
	for _, r := range t.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_EqualityDimensions(t *testing.T) {
	res := Apply(fixture(), Spec{Dealer: "Alpha"}, schema.Sales())
	assert.Equal(t, []int{0, 1}, ids(res.Table))
	assert.True(t, res.Applied("dealer"))

	res = Apply(fixture(), Spec{Product: "Gold", Make: "Toyota"}, schema.Sales())
	assert.Equal(t, []int{0, 2}, ids(res.Table))

	res = Apply(fixture(), Spec{Year: "2024", Month: "3"}, schema.Sales())
	assert.Equal(t, []int{3, 4}, ids(res.Table))
}

func TestApply_AllSentinelMeansUnconstrained(t *testing.T) {
	res := Apply(fixture(), Spec{Dealer: All, Product: ""}, schema.Sales())
	assert.Equal(t, 5, res.Table.Len())
	assert.Empty(t, res.Outcomes)

	// Search honors the sentinel too; no cell contains "all", so a
	// literal reading would filter everything out.
	res = Apply(fixture(), Spec{Search: All}, schema.Sales())
	assert.Equal(t, 5, res.Table.Len())
	assert.Empty(t, res.Outcomes)
}

func TestApply_ProductResolvesCoverageAlias(t *testing.T) {
	tbl := table.New(
		[]string{"Coverage"},
		[]any{"Gold"},
		[]any{"Silver"},
	)
	res := Apply(tbl, Spec{Product: "Gold"}, schema.Sales())
	assert.Equal(t, []int{0}, ids(res.Table))
}

func TestApply_MissingColumnSkipsDimension(t *testing.T) {
	tbl := table.New([]string{"Policy No"}, []any{"P-1"}, []any{"P-2"})

	res := Apply(tbl, Spec{Dealer: "Alpha"}, schema.Sales())
	assert.Equal(t, 2, res.Table.Len())
	require.Len(t, res.Outcomes, 1)
	assert.False(t, res.Outcomes[0].Applied)
	assert.Equal(t, "column not present", res.Outcomes[0].Reason)
}

func TestApply_DateRange(t *testing.T) {
	res := Apply(fixture(), Spec{DateFrom: "2024-01-01"}, schema.Sales())
	// P-4's unparseable date fails open and survives the bound.
	assert.Equal(t, []int{2, 3, 4}, ids(res.Table))

	res = Apply(fixture(), Spec{DateFrom: "2023-02-01", DateTo: "2024-01-31"}, schema.Sales())
	assert.Equal(t, []int{1, 2, 3}, ids(res.Table))
}

func TestApply_UnparseableBoundFailsOpen(t *testing.T) {
	base := Apply(fixture(), Spec{}, schema.Sales())
	res := Apply(fixture(), Spec{DateFrom: "sometime last year"}, schema.Sales())

	// Same row set as no date filter at all.
	assert.Equal(t, ids(base.Table), ids(res.Table))
	require.Len(t, res.Outcomes, 1)
	assert.False(t, res.Outcomes[0].Applied)
	assert.Equal(t, "bound is not a date", res.Outcomes[0].Reason)
}

func TestApply_SearchMatchesAnyCell(t *testing.T) {
	res := Apply(fixture(), Spec{Search: "toyota"}, schema.Sales())
	assert.Equal(t, []int{0, 2, 4}, ids(res.Table))

	// Numeric cells are searched through their string rendering.
	res = Apply(fixture(), Spec{Search: "500"}, schema.Sales())
	assert.Equal(t, []int{4}, ids(res.Table))

	res = Apply(fixture(), Spec{Search: "no such thing"}, schema.Sales())
	assert.Equal(t, 0, res.Table.Len())
}

func TestApply_ConjunctiveComposition(t *testing.T) {
	res := Apply(fixture(), Spec{Dealer: "Beta", Product: "Gold", Year: "2024"}, schema.Sales())
	assert.Equal(t, []int{2, 3}, ids(res.Table))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tbl := fixture()
	_ = Apply(tbl, Spec{Dealer: "Alpha", Search: "toyota"}, schema.Sales())
	assert.Equal(t, 5, tbl.Len())
}

func TestPairs_CanonicalOrder(t *testing.T) {
	a := Spec{Dealer: "Alpha", Year: "2024"}
	b := Spec{Year: "2024", Dealer: "Alpha", Product: All}

	assert.Equal(t, a.Pairs(), b.Pairs())
	assert.Equal(t, [][2]string{{"dealer", "Alpha"}, {"year", "2024"}}, a.Pairs())
	assert.True(t, Spec{}.IsZero())
	assert.True(t, Spec{Dealer: All}.IsZero())
}
