package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/claimlens/claimlens/internal/analytics"
	"github.com/claimlens/claimlens/internal/auditdb"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/xlsxio"
)

// editFile is the YAML shape accepted by --file: a list of edits applied
// in order against one table.
type editFile struct {
	Table string `yaml:"table"`
	Edits []struct {
		Row    int    `yaml:"row"`
		Column string `yaml:"column"`
		Value  any    `yaml:"value"`
	} `yaml:"edits"`
}

// editOutcome is the JSON payload for one applied edit.
type editOutcome struct {
	Table    string `json:"table"`
	RowID    int    `json:"rowId"`
	Column   string `json:"column"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file     string
		auditDB  string
		exportTo string
	)

	cmd := &cobra.Command{
		Use:   "edit [<sales|claims> <row-id> <column> <value>]",
		Short: "Edit cells in the working dataset",
		Long: `Apply one cell edit given as arguments, or a batch from a YAML file
given with --file:

    table: sales
    edits:
      - {row: 0, column: Gross Premium, value: 1500}
      - {row: 3, column: Dealer, value: Beta Cars}

Batches are not atomic: edits apply in order and a rejected edit does
not roll back the ones before it. Use --export to write the edited
workbook back out, and --audit-db to mirror accepted edits durably.`,
		Args:          cobra.RangeArgs(0, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, file, auditDB, exportTo, args, cmd)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file holding a batch of edits")
	cmd.Flags().StringVar(&auditDB, "audit-db", "", "SQLite file mirroring the audit trail")
	cmd.Flags().StringVar(&exportTo, "export", "", "write the edited workbook to this path")
	return cmd
}

func runEdit(opts *RootOptions, file, auditDB, exportTo string, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	tableName, edits, err := parseEdits(file, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "edit", err)
	}

	var sessOpts []analytics.SessionOption
	if auditDB != "" {
		mirror, err := auditdb.Open(auditDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "open audit db", err)
		}
		defer mirror.Close()
		sessOpts = append(sessOpts, analytics.WithAuditSink(mirror))
	}

	session, err := openSession(opts, sessOpts...)
	if err != nil {
		return err
	}

	results, allOK := session.BulkUpdate(tableName, edits)
	outcomes := make([]editOutcome, 0, len(results))
	for _, r := range results {
		o := editOutcome{Table: tableName, RowID: r.RowID, Column: r.Column, OldValue: r.OldValue, NewValue: r.NewValue}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		outcomes = append(outcomes, o)
	}

	if exportTo != "" {
		if err := exportWorkbook(session, exportTo); err != nil {
			return WrapExitError(ExitCommandError, "export", err)
		}
		formatter.VerboseLog("wrote %s", exportTo)
	}

	if opts.Format == "json" {
		if err := formatter.JSON(outcomes); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, o := range outcomes {
			if o.Error != "" {
				fmt.Fprintf(w, "row %d %s: REJECTED: %s\n", o.RowID, o.Column, o.Error)
				continue
			}
			fmt.Fprintf(w, "row %d %s: %v -> %v\n", o.RowID, o.Column, o.OldValue, o.NewValue)
		}
	}

	if !allOK {
		return NewExitError(ExitFailure, "one or more edits were rejected")
	}
	return nil
}

// parseEdits resolves the edit batch from either positional args or the
// YAML batch file. Exactly one source must be given.
func parseEdits(file string, args []string) (string, []store.Edit, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", nil, fmt.Errorf("give either --file or positional arguments, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", nil, fmt.Errorf("read edits file: %w", err)
		}
		var ef editFile
		if err := yaml.Unmarshal(data, &ef); err != nil {
			return "", nil, fmt.Errorf("parse edits file: %w", err)
		}
		tableName, err := tableArg(ef.Table)
		if err != nil {
			return "", nil, err
		}
		if len(ef.Edits) == 0 {
			return "", nil, fmt.Errorf("edits file holds no edits")
		}
		edits := make([]store.Edit, 0, len(ef.Edits))
		for _, e := range ef.Edits {
			edits = append(edits, store.Edit{RowID: e.Row, Column: e.Column, Value: e.Value})
		}
		return tableName, edits, nil
	case len(args) == 4:
		tableName, err := tableArg(args[0])
		if err != nil {
			return "", nil, err
		}
		rowID, err := strconv.Atoi(args[1])
		if err != nil {
			return "", nil, fmt.Errorf("row id %q is not a number", args[1])
		}
		return tableName, []store.Edit{{RowID: rowID, Column: args[2], Value: args[3]}}, nil
	default:
		return "", nil, fmt.Errorf("need <table> <row-id> <column> <value> or --file")
	}
}

// exportWorkbook writes both working tables to one xlsx file.
func exportWorkbook(session *analytics.Session, path string) error {
	sales, _ := session.Working(store.TableSales)
	claims, _ := session.Working(store.TableClaims)
	data, err := xlsxio.ExportPair(sales, claims)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
