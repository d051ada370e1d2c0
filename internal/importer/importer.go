// Package importer drives one command-file import session.
//
// Files are processed in lexicographic filename order so manual
// curation stays deterministic and reviewable. Every line is fed
// through the parser and the mutation engine; failures are counted and
// annotated in a combined audit transcript but never stop the session.
// Processed files are renamed so they are not reapplied next session,
// with one designated exception that is reprocessed every time.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/modcat/internal/command"
	"github.com/roach88/modcat/internal/engine"
)

const (
	// SuffixProcessed marks a file whose every line applied cleanly.
	SuffixProcessed = ".processed"
	// SuffixPartial marks a file with at least one failed line. The
	// file is renamed anyway; a human must re-submit corrected lines
	// in a new file.
	SuffixPartial = ".partially_processed"

	// SuppressedWarningsFile is exempt from renaming and is reapplied
	// every session.
	SuppressedWarningsFile = "suppressed_warnings.txt"

	// errorMarker prefixes failed lines in the audit transcript.
	errorMarker = "# [Error] "
)

// ProgressFunc receives (current, total) stage transitions and a
// free-text status message. The importer owns no UI; the callback is
// invoked once per file, between files, and never concurrently.
type ProgressFunc func(current, total int, message string)

// Summary aggregates one session's import results.
type Summary struct {
	SessionToken string
	Files        int
	Lines        int
	Errors       int
	Transcript   string
}

// Importer reads command files from one directory and applies them.
type Importer struct {
	eng      *engine.Engine
	dir      string
	progress ProgressFunc
	session  string
	dryRun   bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(imp *Importer) {
		imp.progress = fn
	}
}

// WithSessionToken overrides the generated session token.
// Used by tests that compare transcripts against golden files.
func WithSessionToken(token string) Option {
	return func(imp *Importer) {
		imp.session = token
	}
}

// WithDryRun leaves command files in place after processing. The
// caller is expected to discard the mutated catalog instead of saving
// it; the importer itself applies lines either way.
func WithDryRun() Option {
	return func(imp *Importer) {
		imp.dryRun = true
	}
}

// New creates an importer for one session. The session token defaults
// to a time-sortable UUIDv7.
func New(eng *engine.Engine, dir string, opts ...Option) *Importer {
	imp := &Importer{
		eng:     eng,
		dir:     dir,
		session: uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Run processes every pending command file in sorted order.
//
// Cancellation is cooperative: the context is checked between files,
// and whatever was applied before the cancellation stays applied.
// The returned summary is valid even on early return.
func (imp *Importer) Run(ctx context.Context) (*Summary, error) {
	files, err := imp.pendingFiles()
	if err != nil {
		return nil, fmt.Errorf("list command files: %w", err)
	}

	summary := &Summary{SessionToken: imp.session, Files: len(files)}
	var transcript strings.Builder
	fmt.Fprintf(&transcript, "# Import session %s\n", imp.session)

	for i, name := range files {
		if ctx.Err() != nil {
			slog.Info("import cancelled", "processed_files", i, "total_files", len(files))
			summary.Transcript = transcript.String()
			return summary, ctx.Err()
		}
		imp.report(i+1, len(files), "processing "+name)

		lines, errors, err := imp.processFile(name, &transcript)
		if err != nil {
			summary.Transcript = transcript.String()
			return summary, err
		}
		summary.Lines += lines
		summary.Errors += errors

		if name != SuppressedWarningsFile && !imp.dryRun {
			if err := imp.markProcessed(name, errors == 0); err != nil {
				summary.Transcript = transcript.String()
				return summary, err
			}
		}

		slog.Info("command file processed",
			"file", name,
			"lines", lines,
			"errors", errors,
		)
	}

	summary.Transcript = transcript.String()
	return summary, nil
}

// pendingFiles lists the unprocessed command files in sorted order.
func (imp *Importer) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(imp.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// processFile feeds every line of one file through the parser and the
// engine, echoing each line into the transcript. Failed lines get the
// error marker and the diagnostic; per-line failures never abort the
// file. Only an unreadable file is fatal.
func (imp *Importer) processFile(name string, transcript *strings.Builder) (lines, errorCount int, err error) {
	data, err := os.ReadFile(filepath.Join(imp.dir, name))
	if err != nil {
		return 0, 0, fmt.Errorf("read command file %s: %w", name, err)
	}

	fmt.Fprintf(transcript, "# File: %s\n", name)

	for i, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		op, parseErr := command.Parse(trimmed)
		if parseErr == nil && op == nil {
			// Comment line: echoed for the audit trail, not counted
			// as a command.
			transcript.WriteString(trimmed + "\n")
			continue
		}
		lines++
		if parseErr != nil {
			errorCount++
			fmt.Fprintf(transcript, "%s%s  ->  %v\n", errorMarker, trimmed, parseErr)
			logLineError(name, i+1, trimmed, parseErr)
			continue
		}

		if applyErr := imp.eng.Apply(op); applyErr != nil {
			errorCount++
			fmt.Fprintf(transcript, "%s%s  ->  %v\n", errorMarker, trimmed, applyErr)
			logLineError(name, i+1, trimmed, applyErr)
			continue
		}

		transcript.WriteString(trimmed + "\n")
	}

	return lines, errorCount, nil
}

// markProcessed renames a finished file so the next session skips it.
func (imp *Importer) markProcessed(name string, clean bool) error {
	suffix := SuffixProcessed
	if !clean {
		suffix = SuffixPartial
	}
	oldPath := filepath.Join(imp.dir, name)
	newPath := oldPath + suffix
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("mark %s as processed: %w", name, err)
	}
	return nil
}

func (imp *Importer) report(current, total int, message string) {
	if imp.progress != nil {
		imp.progress(current, total, message)
	}
}

// logLineError logs a failed command line with its 1-based number.
func logLineError(file string, line int, content string, err error) {
	args := []any{
		"file", file,
		"line", line,
		"content", content,
		"error", err,
	}
	var parseErr *command.ParseError
	if errors.As(err, &parseErr) {
		args = append(args, "code", parseErr.Code, "verb", parseErr.Verb)
	}
	slog.Warn("command failed", args...)
}
