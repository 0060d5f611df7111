package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/analytics"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for structural problems",
		Long: `Check the loaded dataset against its schema descriptors: required
columns, duplicate policy numbers, non-numeric premium values.
Exits non-zero when the report status is not valid.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataValidate(rootOpts, cmd)
		},
	}
}

func runDataValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	report := session.Validate()
	if opts.Format == "json" {
		if err := formatter.JSON(report); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "status: %s\n", report.Status)
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Type, issue.Message)
		}
	}

	if report.Status != analytics.StatusValid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation finished with status %s", report.Status))
	}
	return nil
}
