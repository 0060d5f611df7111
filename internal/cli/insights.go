package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInsightsCommand creates the insights command.
func NewInsightsCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:           "insights",
		Short:         "Generate findings and a premium forecast",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(rootOpts, filters, cmd)
		},
	}
	filters.register(cmd)
	return cmd
}

func runInsights(opts *RootOptions, filters *filterFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	insights := session.Insights(filters.spec())
	if opts.Format == "json" {
		return formatter.JSON(insights)
	}

	w := formatter.Writer
	for _, in := range insights {
		fmt.Fprintf(w, "[%s] %s (%s, trend %s)\n", in.Type, in.Title, in.Metric, in.Trend)
		fmt.Fprintf(w, "    %s\n", in.Description)
	}
	return nil
}
