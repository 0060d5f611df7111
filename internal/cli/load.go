package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/analytics"
	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/xlsxio"
)

// newFormatter builds the per-command formatter from the root options.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the session logger; verbose enables debug records.
// Logs always go to stderr so JSON output stays parseable.
func newLogger(opts *RootOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSession loads the workbook named by the root options into a fresh
// session, applying any user schema descriptors.
func openSession(opts *RootOptions, extra ...analytics.SessionOption) (*analytics.Session, error) {
	if opts.Workbook == "" {
		return nil, NewExitError(ExitCommandError, "no workbook given: use --workbook")
	}
	wb, err := xlsxio.Load(opts.Workbook)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load workbook", err)
	}

	sessOpts := append([]analytics.SessionOption{analytics.WithLogger(newLogger(opts))}, extra...)
	session := analytics.New(sessOpts...)
	if err := session.Load(wb.Sales, wb.Claims); err != nil {
		return nil, WrapExitError(ExitCommandError, "load dataset", err)
	}

	if err := applySchemas(session, opts); err != nil {
		return nil, err
	}
	return session, nil
}

func applySchemas(session *analytics.Session, opts *RootOptions) error {
	if opts.SalesSchema != "" {
		desc, err := schema.Load(opts.SalesSchema)
		if err != nil {
			return WrapExitError(ExitCommandError, "load sales schema", err)
		}
		if err := session.SetDescriptor(store.TableSales, desc); err != nil {
			return WrapExitError(ExitCommandError, "apply sales schema", err)
		}
	}
	if opts.ClaimsSchema != "" {
		desc, err := schema.Load(opts.ClaimsSchema)
		if err != nil {
			return WrapExitError(ExitCommandError, "load claims schema", err)
		}
		if err := session.SetDescriptor(store.TableClaims, desc); err != nil {
			return WrapExitError(ExitCommandError, "apply claims schema", err)
		}
	}
	return nil
}

// tableArg maps the user-facing table names to store table names.
func tableArg(name string) (string, error) {
	switch name {
	case "sales":
		return store.TableSales, nil
	case "claims":
		return store.TableClaims, nil
	default:
		return "", fmt.Errorf("unknown table %q: must be sales or claims", name)
	}
}
