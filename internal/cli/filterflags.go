package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/filter"
)

// filterFlags binds the filter dimensions to command flags.
type filterFlags struct {
	dealer      string
	product     string
	year        string
	month       string
	make        string
	dateFrom    string
	dateTo      string
	search      string
	claimStatus string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.dealer, "dealer", "", "filter by dealer")
	fs.StringVar(&f.product, "product", "", "filter by product")
	fs.StringVar(&f.year, "year", "", "filter by year")
	fs.StringVar(&f.month, "month", "", "filter by month")
	fs.StringVar(&f.make, "make", "", "filter by vehicle make")
	fs.StringVar(&f.dateFrom, "from", "", "filter from date (YYYY-MM-DD)")
	fs.StringVar(&f.dateTo, "to", "", "filter to date (YYYY-MM-DD)")
	fs.StringVar(&f.search, "search", "", "substring search over all columns")
	fs.StringVar(&f.claimStatus, "status", "", "filter by claim status")
}

func (f *filterFlags) spec() filter.Spec {
	return filter.Spec{
		Dealer:      f.dealer,
		Product:     f.product,
		Year:        f.year,
		Month:       f.month,
		Make:        f.make,
		DateFrom:    f.dateFrom,
		DateTo:      f.dateTo,
		Search:      f.search,
		ClaimStatus: f.claimStatus,
	}
}
