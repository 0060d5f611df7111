package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/auditdb"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the durable audit trail",
		Long: `List the change entries mirrored into an audit database by earlier
edit runs, in insertion order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, db, cmd)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "audit database path (required)")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runAudit(opts *RootOptions, db string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	mirror, err := auditdb.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "open audit db", err)
	}
	defer mirror.Close()

	entries, err := mirror.Entries(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "read audit db", err)
	}

	if opts.Format == "json" {
		return formatter.JSON(entries)
	}

	w := formatter.Writer
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %s row %d %s: %v -> %v\n",
			e.Timestamp.Format(time.RFC3339), e.ID, e.Table, e.RowID, e.Column, e.OldValue, e.NewValue)
	}
	return nil
}
