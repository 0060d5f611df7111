// Package merge derives the joined view of the sales ledger enriched with
// per-policy claim aggregates. The view is always a pure function of the
// current working tables: it is rebuilt, never patched, after a mutation.
package merge

import (
	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

// Columns added to the sales rows by the builder.
const (
	ColHasClaim         = "has_claim"
	ColClaimCount       = "claim_count"
	ColTotalClaimAmount = "total_claim_amount"
	ColTotalLabor       = "total_labor"
	ColTotalParts       = "total_parts"
)

// View is the merged sales view. Degraded is true when the policy column
// could not be resolved on either side: every row then carries zero claim
// aggregates and callers must not read claim metrics as meaningful.
type View struct {
	*table.Table
	Degraded bool

	// MissingAmounts lists claims amount columns that were absent from the
	// claims ledger. Their aggregates are zero-filled; counts are never
	// substituted for amounts, so the units stay monetary.
	MissingAmounts []string
}

type policyAgg struct {
	count  int
	amount float64
	labor  float64
	parts  float64
}

// Build computes the merged view from the working sales and claims tables.
// It never fails: when the join key is unresolvable on either side the
// result is the degraded all-zero view.
func Build(sales, claims *table.Table, salesDesc, claimsDesc *schema.Descriptor) *View {
	salesPolicy, okSales := salesDesc.ResolveRole(sales, schema.RoleIdentifier)
	claimsPolicy, okClaims := claimsDesc.ResolveRole(claims, schema.RoleIdentifier)

	view := &View{Table: sales.Clone()}
	view.Columns = append(view.Columns,
		ColHasClaim, ColClaimCount, ColTotalClaimAmount, ColTotalLabor, ColTotalParts)

	if !okSales || !okClaims {
		view.Degraded = true
		for i := range view.Rows {
			zeroFill(&view.Rows[i])
		}
		return view
	}

	amountCol, okAmount := claimsDesc.Resolve(claims, "Total Auth Amount")
	laborCol, okLabor := claimsDesc.Resolve(claims, "Labor")
	partsCol, okParts := claimsDesc.Resolve(claims, "Parts")
	if !okAmount {
		view.MissingAmounts = append(view.MissingAmounts, "Total Auth Amount")
	}
	if !okLabor {
		view.MissingAmounts = append(view.MissingAmounts, "Labor")
	}
	if !okParts {
		view.MissingAmounts = append(view.MissingAmounts, "Parts")
	}

	aggs := make(map[string]*policyAgg)
	for _, row := range claims.Rows {
		policy := table.AsString(row.Get(claimsPolicy))
		if policy == "" {
			continue
		}
		agg, ok := aggs[policy]
		if !ok {
			agg = &policyAgg{}
			aggs[policy] = agg
		}
		agg.count++
		if okAmount {
			if f, ok := table.AsFloat(row.Get(amountCol)); ok {
				agg.amount += f
			}
		}
		if okLabor {
			if f, ok := table.AsFloat(row.Get(laborCol)); ok {
				agg.labor += f
			}
		}
		if okParts {
			if f, ok := table.AsFloat(row.Get(partsCol)); ok {
				agg.parts += f
			}
		}
	}

	for i := range view.Rows {
		policy := table.AsString(view.Rows[i].Get(salesPolicy))
		agg, ok := aggs[policy]
		if !ok || policy == "" {
			zeroFill(&view.Rows[i])
			continue
		}
		cells := view.Rows[i].Cells
		cells[ColHasClaim] = agg.count > 0
		cells[ColClaimCount] = float64(agg.count)
		cells[ColTotalClaimAmount] = agg.amount
		cells[ColTotalLabor] = agg.labor
		cells[ColTotalParts] = agg.parts
	}
	return view
}

func zeroFill(r *table.Row) {
	r.Cells[ColHasClaim] = false
	r.Cells[ColClaimCount] = 0.0
	r.Cells[ColTotalClaimAmount] = 0.0
	r.Cells[ColTotalLabor] = 0.0
	r.Cells[ColTotalParts] = 0.0
}
