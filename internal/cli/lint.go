package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/modcat/internal/command"
)

// LintOptions holds flags for the lint command.
type LintOptions struct {
	*RootOptions
}

// lintFinding is one rejected line.
type lintFinding struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Content string `json:"content"`
	Message string `json:"message"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check command files without applying them",
		Long: `Parse command files and report every malformed line with its
1-based line number. Nothing is applied; catalog-dependent checks
(unknown mod ids, duplicate records) only happen during import.

Example:
  modcat lint commands/2026-08-fixes.txt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(opts, args, cmd)
		},
	}

	return cmd
}

func runLint(opts *LintOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var findings []lintFinding
	total := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read command file", err)
		}

		for i, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			op, err := command.Parse(trimmed)
			if err == nil {
				if op != nil {
					total++
				}
				continue
			}
			total++
			finding := lintFinding{
				File:    path,
				Line:    i + 1,
				Content: trimmed,
				Message: err.Error(),
			}
			var parseErr *command.ParseError
			if pe, ok := err.(*command.ParseError); ok {
				parseErr = pe
				finding.Code = parseErr.Code
			}
			findings = append(findings, finding)
		}
	}

	if opts.Format == "json" {
		payload := map[string]interface{}{
			"commands": total,
			"findings": findings,
		}
		if err := formatter.Success(payload); err != nil {
			return err
		}
	} else {
		for _, f := range findings {
			fmt.Fprintf(formatter.Writer, "%s:%d: [%s] %s\n", f.File, f.Line, f.Code, f.Message)
		}
		fmt.Fprintf(formatter.Writer, "%d commands checked, %d rejected.\n", total, len(findings))
	}

	if len(findings) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d malformed command lines", len(findings)))
	}
	return nil
}
