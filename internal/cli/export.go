package cli

import (
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the working dataset to a new workbook",
		Long: `Write both working ledgers to a new xlsx workbook. The internal row
id column is not exported, so the output loads cleanly as a fresh
dataset.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, out, cmd)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output workbook path (required)")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(opts *RootOptions, out string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	if err := exportWorkbook(session, out); err != nil {
		return WrapExitError(ExitCommandError, "export", err)
	}
	formatter.VerboseLog("wrote %s", out)
	if opts.Format == "json" {
		return formatter.JSON(map[string]string{"path": out})
	}
	return nil
}
