package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Workbook is the xlsx file holding the sales and claims sheets.
	Workbook string

	// Optional schema descriptor files overriding the built-ins.
	SalesSchema  string
	ClaimsSchema string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the claimlens CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "claimlens",
		Short: "Analytics over warranty sales and claims ledgers",
		Long: "claimlens loads a two-sheet workbook (sales and claims ledgers joined\n" +
			"by policy number) and answers KPI, breakdown, correlation and insight\n" +
			"queries over it, with audited inline editing.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Workbook, "workbook", "w", "", "path to the xlsx workbook")
	cmd.PersistentFlags().StringVar(&opts.SalesSchema, "sales-schema", "", "YAML schema descriptor for the sales ledger")
	cmd.PersistentFlags().StringVar(&opts.ClaimsSchema, "claims-schema", "", "YAML schema descriptor for the claims ledger")

	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewBreakdownCommand(opts))
	cmd.AddCommand(NewCorrelationsCommand(opts))
	cmd.AddCommand(NewRecentCommand(opts))
	cmd.AddCommand(NewRawCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewInsightsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewDigestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
