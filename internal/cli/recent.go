package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/analytics"
)

// NewRecentCommand creates the recent command.
func NewRecentCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}
	var limit int

	cmd := &cobra.Command{
		Use:           "recent",
		Short:         "Show the most recent claims, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(rootOpts, filters, limit, cmd)
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", analytics.DefaultRecentLimit, "maximum claims to show")
	return cmd
}

func runRecent(opts *RootOptions, filters *filterFlags, limit int, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	rows := session.ClaimsRecent(filters.spec(), limit)
	if opts.Format == "json" {
		return formatter.JSON(rows)
	}

	w := formatter.Writer
	for _, row := range rows {
		fmt.Fprintf(w, "%v  %v  %v  %v\n",
			row["Failure Date"], row["Policy No"], row["Claim Status"], row["Total Auth Amount"])
	}
	return nil
}
