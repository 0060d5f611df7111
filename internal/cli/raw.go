package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/analytics"
	"github.com/claimlens/claimlens/internal/table"
)

// NewRawCommand creates the raw command.
func NewRawCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}
	var (
		page    int
		limit   int
		sortBy  string
		sortDir string
	)

	cmd := &cobra.Command{
		Use:   "raw <sales|claims>",
		Short: "Page through the raw rows of one ledger",
		Long: `Show one page of the filtered working table. Rows carry the internal
row id used to address cells in the edit command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRaw(rootOpts, filters, args[0], page, limit, sortBy, sortDir, cmd)
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number (clamped into range)")
	cmd.Flags().IntVar(&limit, "limit", analytics.DefaultRawLimit, "rows per page")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "column to sort by")
	cmd.Flags().StringVar(&sortDir, "sort-dir", "asc", "sort direction (asc|desc)")
	return cmd
}

func runRaw(opts *RootOptions, filters *filterFlags, tableName string, page, limit int, sortBy, sortDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	name, err := tableArg(tableName)
	if err != nil {
		return WrapExitError(ExitCommandError, "raw", err)
	}
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	result := session.RawData(analytics.RawQuery{
		Table:   name,
		Page:    page,
		Limit:   limit,
		Filters: filters.spec(),
		SortBy:  sortBy,
		SortDir: sortDir,
	})
	if opts.Format == "json" {
		return formatter.JSON(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "page %d/%d, %d rows total\n", result.Page, result.Pages, result.Total)
	for _, row := range result.Rows {
		fmt.Fprintf(w, "[%v]", row[table.RowIDColumn])
		for _, col := range result.Columns {
			fmt.Fprintf(w, " %s=%v", col, row[col])
		}
		fmt.Fprintln(w)
	}
	return nil
}
