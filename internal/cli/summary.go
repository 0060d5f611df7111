package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Overall KPIs for the filtered book",
		Long: `Compute the headline KPI set over the filtered dataset: premium and
claims totals, claim rate, loss ratio and averages.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, filters, cmd)
		},
	}
	filters.register(cmd)
	return cmd
}

func runSummary(opts *RootOptions, filters *filterFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	sum := session.Summary(filters.spec())
	if opts.Format == "json" {
		return formatter.JSON(sum)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Policies:            %d\n", sum.TotalPolicies)
	fmt.Fprintf(w, "Gross premium:       %.2f\n", sum.TotalPremium)
	fmt.Fprintf(w, "Risk premium:        %.2f\n", sum.TotalRiskPremium)
	fmt.Fprintf(w, "Claims:              %d\n", sum.TotalClaims)
	fmt.Fprintf(w, "Claims amount:       %.2f\n", sum.TotalClaimsAmount)
	fmt.Fprintf(w, "Policies w/ claims:  %d\n", sum.PoliciesWithClaims)
	fmt.Fprintf(w, "Claim rate:          %.1f%%\n", sum.ClaimRate)
	fmt.Fprintf(w, "Loss ratio:          %.1f%%\n", sum.LossRatio)
	fmt.Fprintf(w, "Avg claim cost:      %.2f\n", sum.AvgClaimCost)
	fmt.Fprintf(w, "Avg premium:         %.2f\n", sum.AvgPremium)
	fmt.Fprintf(w, "Dealers:             %d\n", sum.UniqueDealers)
	fmt.Fprintf(w, "Makes:               %d\n", sum.UniqueMakes)
	return nil
}
