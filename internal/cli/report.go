package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/modcat/internal/engine"
	"github.com/roach88/modcat/internal/importer"
	"github.com/roach88/modcat/internal/ledger"
	"github.com/roach88/modcat/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database    string
	CommandsDir string
}

// reportResult is the JSON payload for a dry session.
type reportResult struct {
	Files      int    `json:"files"`
	Lines      int    `json:"lines"`
	Errors     int    `json:"errors"`
	Report     string `json:"report,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Preview the change report for pending command files",
		Long: `Run a dry session: load the catalog, apply every pending command
file in order, and render the change report. Nothing is saved and no
files are renamed, so the same files import unchanged afterwards.

Example:
  modcat report --db ./catalog.db --commands ./commands`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&opts.CommandsDir, "commands", "", "directory with pending command files (overrides config)")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	cfg, err := loadConfig(opts.Config, opts.Database, opts.CommandsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cat, err := st.Load(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}

	led := ledger.New()
	eng := engine.New(cat, led, engine.WithInactivityMonths(cfg.InactivityMonths))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	imp := importer.New(eng, cfg.CommandsDir,
		importer.WithDryRun(),
		importer.WithProgress(func(current, total int, message string) {
			formatter.VerboseLog("[%d/%d] %s", current, total, message)
		}))

	// The mutated catalog is discarded; only the ledger output leaves
	// this function.
	summary, runErr := imp.Run(ctx)
	if runErr != nil && summary == nil {
		return WrapExitError(ExitCommandError, "dry session failed", runErr)
	}
	eng.UpdateAuthorRetirement()

	result := reportResult{
		Files:  summary.Files,
		Lines:  summary.Lines,
		Errors: summary.Errors,
	}
	if !led.Empty() {
		result.Report = led.Report()
	}
	if opts.Verbose {
		result.Transcript = summary.Transcript
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		if result.Report != "" {
			fmt.Fprint(formatter.Writer, result.Report)
		} else {
			fmt.Fprintln(formatter.Writer, "No changes.")
		}
		if result.Errors > 0 {
			fmt.Fprintf(formatter.Writer, "\n%d command lines would be rejected.\n", result.Errors)
		}
	}

	if runErr != nil {
		return WrapExitError(ExitCommandError, "dry session interrupted", runErr)
	}
	if summary.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d command lines were rejected", summary.Errors))
	}
	return nil
}
