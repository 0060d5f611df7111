// Package testutil provides the shared deterministic fixtures used by
// tests across packages: a ticking clock for stable timestamps and a
// canonical small dataset pair.
package testutil

import "github.com/claimlens/claimlens/internal/table"

// SalesTable returns the canonical three-policy sales fixture: two
// dealers, two products, three months of 2024, policy A holding the
// claims in ClaimsTable.
func SalesTable() *table.Table {
	return table.New(
		[]string{"Policy No", "Dealer", "Product", "Year", "Month", "Gross Premium", "Risk Premium", "Make", "Policy Sold Date"},
		[]any{"A", "Alpha Motors", "Extended Warranty", 2024.0, 1.0, 1000.0, 800.0, "Toyota", "2024-01-15"},
		[]any{"B", "Alpha Motors", "Extended Warranty", 2024.0, 2.0, 2000.0, 1500.0, "Honda", "2024-02-10"},
		[]any{"C", "Beta Cars", "Basic Cover", 2024.0, 3.0, 3000.0, 2500.0, "Toyota", "2024-03-05"},
	)
}

// ClaimsTable returns the canonical claims fixture: two claims against
// policy A, one approved and one rejected, totalling 150.
func ClaimsTable() *table.Table {
	return table.New(
		[]string{"Policy No", "Claim Status", "Total Auth Amount", "Labor", "Parts", "Failure Date", "Year", "Month", "Part Type"},
		[]any{"A", "Approved", 100.0, 60.0, 40.0, "2024-02-01", 2024.0, 2.0, "Engine"},
		[]any{"A", "Rejected", 50.0, 20.0, 30.0, "2024-03-01", 2024.0, 3.0, "Gearbox"},
	)
}
