package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

func TestBuild_PerPolicyAggregates(t *testing.T) {
	sales := table.New(
		[]string{"Policy No", "Dealer"},
		[]any{"A", "Alpha"},
		[]any{"B", "Beta"},
		[]any{"C", "Gamma"},
	)
	claims := table.New(
		[]string{"Policy No", "Total Auth Amount", "Labor", "Parts"},
		[]any{"A", 100.0, 60.0, 40.0},
		[]any{"A", 50.0, 20.0, 30.0},
	)

	v := Build(sales, claims, schema.Sales(), schema.Claims())
	require.False(t, v.Degraded)
	require.Equal(t, 3, v.Len())
	assert.Empty(t, v.MissingAmounts)

	a := v.Rows[0]
	assert.Equal(t, true, a.Get(ColHasClaim))
	assert.Equal(t, 2.0, a.Get(ColClaimCount))
	assert.Equal(t, 150.0, a.Get(ColTotalClaimAmount))
	assert.Equal(t, 80.0, a.Get(ColTotalLabor))
	assert.Equal(t, 70.0, a.Get(ColTotalParts))

	for _, row := range v.Rows[1:] {
		assert.Equal(t, false, row.Get(ColHasClaim))
		assert.Equal(t, 0.0, row.Get(ColClaimCount))
		assert.Equal(t, 0.0, row.Get(ColTotalClaimAmount))
	}
}

func TestBuild_ResolvesPolicyAliases(t *testing.T) {
	sales := table.New([]string{"PolicyNo"}, []any{"A"})
	claims := table.New(
		[]string{"Policy Number", "Total Auth Amount"},
		[]any{"A", 75.0},
	)

	v := Build(sales, claims, schema.Sales(), schema.Claims())
	require.False(t, v.Degraded)
	assert.Equal(t, 75.0, v.Rows[0].Get(ColTotalClaimAmount))
}

func TestBuild_DegradedWhenJoinKeyMissing(t *testing.T) {
	sales := table.New([]string{"Dealer"}, []any{"Alpha"}, []any{"Beta"})
	claims := table.New([]string{"Policy No", "Total Auth Amount"}, []any{"A", 100.0})

	v := Build(sales, claims, schema.Sales(), schema.Claims())
	require.True(t, v.Degraded)
	for _, row := range v.Rows {
		assert.Equal(t, false, row.Get(ColHasClaim))
		assert.Equal(t, 0.0, row.Get(ColClaimCount))
		assert.Equal(t, 0.0, row.Get(ColTotalClaimAmount))
	}
}

func TestBuild_MissingAmountColumnZeroFills(t *testing.T) {
	sales := table.New([]string{"Policy No"}, []any{"A"})
	claims := table.New([]string{"Policy No"}, []any{"A"}, []any{"A"})

	v := Build(sales, claims, schema.Sales(), schema.Claims())
	require.False(t, v.Degraded)
	assert.ElementsMatch(t, []string{"Total Auth Amount", "Labor", "Parts"}, v.MissingAmounts)

	// Counts still aggregate; amounts stay zero rather than becoming counts.
	assert.Equal(t, 2.0, v.Rows[0].Get(ColClaimCount))
	assert.Equal(t, 0.0, v.Rows[0].Get(ColTotalClaimAmount))
}

func TestBuild_DoesNotMutateSales(t *testing.T) {
	sales := table.New([]string{"Policy No"}, []any{"A"})
	claims := table.New([]string{"Policy No", "Total Auth Amount"}, []any{"A", 10.0})

	_ = Build(sales, claims, schema.Sales(), schema.Claims())
	assert.Equal(t, []string{"Policy No"}, sales.Columns)
	assert.Nil(t, sales.Rows[0].Get(ColHasClaim))
}
