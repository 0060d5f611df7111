package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/analytics"
)

// NewCorrelationsCommand creates the correlations command.
func NewCorrelationsCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:           "correlations",
		Short:         "Relate exposure to claim outcome per dealer, product, make and year",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelations(rootOpts, filters, cmd)
		},
	}
	filters.register(cmd)
	return cmd
}

func runCorrelations(opts *RootOptions, filters *filterFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	c := session.Correlations(filters.spec())
	if opts.Format == "json" {
		return formatter.JSON(c)
	}

	w := formatter.Writer
	printCorrelation(w, "BY DEALER", c.ByDealer)
	printCorrelation(w, "BY PRODUCT", c.ByProduct)
	printCorrelation(w, "BY MAKE", c.ByMake)
	printCorrelation(w, "BY YEAR", c.ByYear)
	return nil
}

func printCorrelation(w io.Writer, title string, rows []analytics.CorrelationRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  %-28s %9s %8s %14s %14s %11s %10s\n",
		"LABEL", "POLICIES", "CLAIMS", "PREMIUM", "CLAIM AMOUNT", "CLAIM RATE", "LOSS RATIO")
	for _, r := range rows {
		fmt.Fprintf(w, "  %-28s %9d %8d %14.2f %14.2f %10.1f%% %9.1f%%\n",
			r.Label, r.Policies, r.WithClaims, r.TotalPremium, r.TotalClaimAmount, r.ClaimRate, r.LossRatio)
	}
}
