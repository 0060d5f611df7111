package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Render a plain-text summary for assistant context",
		Long: `Render the KPI set and the available data dimensions as a compact
text block, sized for pasting into an assistant prompt.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(rootOpts, filters, cmd)
		},
	}
	filters.register(cmd)
	return cmd
}

func runDigest(opts *RootOptions, filters *filterFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	text := session.SummaryText(filters.spec())
	if opts.Format == "json" {
		return formatter.JSON(map[string]string{"text": text})
	}
	fmt.Fprint(formatter.Writer, text)
	return nil
}
