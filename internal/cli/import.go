package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/modcat/internal/config"
	"github.com/roach88/modcat/internal/engine"
	"github.com/roach88/modcat/internal/importer"
	"github.com/roach88/modcat/internal/ledger"
	"github.com/roach88/modcat/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database    string
	CommandsDir string
}

// importResult is the JSON payload for a finished session.
type importResult struct {
	SessionToken string `json:"session_token"`
	Files        int    `json:"files"`
	Lines        int    `json:"lines"`
	Errors       int    `json:"errors"`
	Report       string `json:"report,omitempty"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Apply pending command files to the catalog",
		Long: `Run one import session: load the catalog, apply every pending
command file in order, re-derive author retirement, and save.

Files are processed in filename order and renamed afterwards so they
are applied exactly once. The session prints a change report and
writes an audit transcript of every line.

Example:
  modcat import --db ./catalog.db --commands ./commands
  modcat import --config modcat.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&opts.CommandsDir, "commands", "", "directory with pending command files (overrides config)")

	return cmd
}

// loadConfig resolves the effective configuration from the config file
// and flag overrides. Empty overrides keep the config values.
func loadConfig(configPath, database, commandsDir string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if database != "" {
		cfg.DatabasePath = database
	}
	if commandsDir != "" {
		cfg.CommandsDir = commandsDir
	}
	return cfg, nil
}

func runImport(opts *ImportOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
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

	slog.Info("opening database", "path", cfg.DatabasePath)
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	cat, err := st.Load(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	slog.Info("catalog loaded", "mods", cat.ModCount())

	led := ledger.New()
	eng := engine.New(cat, led, engine.WithInactivityMonths(cfg.InactivityMonths))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	imp := importer.New(eng, cfg.CommandsDir,
		importer.WithProgress(func(current, total int, message string) {
			formatter.VerboseLog("[%d/%d] %s", current, total, message)
		}))

	summary, runErr := imp.Run(ctx)
	if runErr != nil && summary == nil {
		return WrapExitError(ExitCommandError, "import failed", runErr)
	}

	// Retirement is derived once per session, after all edits.
	eng.UpdateAuthorRetirement()

	if err := st.Save(ctx, cat); err != nil {
		return WrapExitError(ExitCommandError, "failed to save catalog", err)
	}
	slog.Info("catalog saved", "mods", cat.ModCount())

	if err := writeTranscript(cfg, summary); err != nil {
		return WrapExitError(ExitCommandError, "failed to write transcript", err)
	}

	result := importResult{
		SessionToken: summary.SessionToken,
		Files:        summary.Files,
		Lines:        summary.Lines,
		Errors:       summary.Errors,
	}
	if !led.Empty() {
		result.Report = led.Report()
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Session %s: %d files, %d lines, %d errors.\n",
			result.SessionToken, result.Files, result.Lines, result.Errors)
		if result.Report != "" {
			fmt.Fprintln(formatter.Writer)
			fmt.Fprint(formatter.Writer, result.Report)
		}
	}

	if runErr != nil {
		return WrapExitError(ExitCommandError, "import interrupted", runErr)
	}
	if summary.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d command lines were rejected", summary.Errors))
	}
	return nil
}

// writeTranscript stores the session transcript when a directory is
// configured.
func writeTranscript(cfg *config.Config, summary *importer.Summary) error {
	if cfg.TranscriptDir == "" || summary == nil {
		return nil
	}
	if err := os.MkdirAll(cfg.TranscriptDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.TranscriptDir, summary.SessionToken+".txt")
	return os.WriteFile(path, []byte(summary.Transcript), 0o644)
}
