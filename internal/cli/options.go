package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "options",
		Short:         "List the available filter values in the dataset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(rootOpts, cmd)
		},
	}
}

func runOptions(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	session, err := openSession(opts)
	if err != nil {
		return err
	}

	o := session.FilterOptions()
	if opts.Format == "json" {
		return formatter.JSON(o)
	}

	w := formatter.Writer
	printList(w, "Dealers", o.Dealers)
	printList(w, "Products", o.Products)
	printList(w, "Years", ints(o.Years))
	printList(w, "Months", ints(o.Months))
	printList(w, "Makes", o.Makes)
	printList(w, "Countries", o.Countries)
	printList(w, "Coverages", o.Coverages)
	printList(w, "Vehicle types", o.VehicleTypes)
	printList(w, "Body types", o.BodyTypes)
	printList(w, "Claim statuses", o.ClaimStatuses)
	printList(w, "Part types", o.PartTypes)
	if o.MinDate != "" {
		fmt.Fprintf(w, "Date range:     %s .. %s\n", o.MinDate, o.MaxDate)
	}
	return nil
}

func printList(w io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "%-15s %s\n", label+":", strings.Join(values, ", "))
}

func ints(ns []int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = strconv.Itoa(n)
	}
	return out
}
