package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Breakdown dimensions accepted by --by.
var breakdownDims = []string{"dealer", "product", "make", "monthly", "status", "part", "claims-monthly"}

// NewBreakdownCommand creates the breakdown command.
func NewBreakdownCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}
	var by string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Break the filtered book down by one dimension",
		Long: `Aggregate the filtered dataset by one dimension:

  dealer, product, make, monthly     over the sales ledger
  status, part, claims-monthly       over the claims ledger`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBreakdown(rootOpts, filters, by, cmd)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&by, "by", "dealer", fmt.Sprintf("dimension %v", breakdownDims))
	return cmd
}

func runBreakdown(opts *RootOptions, filters *filterFlags, by string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}
	spec := filters.spec()
	w := formatter.Writer

	switch by {
	case "dealer":
		rows := session.SalesDealers(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-30s %9s %14s %8s %11s %10s\n", "DEALER", "POLICIES", "PREMIUM", "CLAIMS", "CLAIM RATE", "LOSS RATIO")
		for _, r := range rows {
			fmt.Fprintf(w, "%-30s %9d %14.2f %8d %10.1f%% %9.1f%%\n",
				r.Dealer, r.Policies, r.Premium, r.ClaimsCount, r.ClaimRate, r.LossRatio)
		}
	case "product":
		rows := session.SalesProducts(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-30s %9s %14s\n", "PRODUCT", "POLICIES", "PREMIUM")
		for _, r := range rows {
			fmt.Fprintf(w, "%-30s %9d %14.2f\n", r.Product, r.Count, r.Premium)
		}
	case "make":
		rows := session.SalesVehicles(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-30s %9s %14s\n", "MAKE", "POLICIES", "PREMIUM")
		for _, r := range rows {
			fmt.Fprintf(w, "%-30s %9d %14.2f\n", r.Make, r.Count, r.Premium)
		}
	case "monthly":
		rows := session.SalesMonthly(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-8s %9s %14s %14s\n", "PERIOD", "POLICIES", "PREMIUM", "RISK PREMIUM")
		for _, r := range rows {
			fmt.Fprintf(w, "%-8s %9d %14.2f %14.2f\n", r.Period, r.Policies, r.Premium, r.RiskPremium)
		}
	case "status":
		rows := session.ClaimsStatus(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-12s %8s %14s %8s\n", "STATUS", "COUNT", "AMOUNT", "COLOR")
		for _, r := range rows {
			fmt.Fprintf(w, "%-12s %8d %14.2f %8s\n", r.Status, r.Count, r.TotalAmount, r.Color)
		}
	case "part":
		rows := session.ClaimsParts(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-24s %8s %14s %12s\n", "PART TYPE", "COUNT", "AMOUNT", "AVG COST")
		for _, r := range rows {
			fmt.Fprintf(w, "%-24s %8d %14.2f %12.2f\n", r.PartType, r.Count, r.TotalAmount, r.AvgCost)
		}
	case "claims-monthly":
		rows := session.ClaimsTrends(spec)
		if opts.Format == "json" {
			return formatter.JSON(rows)
		}
		fmt.Fprintf(w, "%-8s %8s %14s %12s %12s\n", "PERIOD", "COUNT", "AMOUNT", "LABOR", "PARTS")
		for _, r := range rows {
			fmt.Fprintf(w, "%-8s %8d %14.2f %12.2f %12.2f\n", r.Period, r.Count, r.TotalAmount, r.LaborCost, r.PartsCost)
		}
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown dimension %q: must be one of %v", by, breakdownDims))
	}
	return nil
}
