package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/check"
	"github.com/aidanlsb/cite/internal/paths"
	"github.com/aidanlsb/cite/internal/ui"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check every citation in a markdown file",
	Long: `Resolves each link in the file to its target file and anchor.

Broken links are errors; links that resolve but are written in a fragile
form (bare block anchors, rendered slugs, filename-only paths) are warnings.
Exits with status 1 when any link is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	start := time.Now()

	p, err := newPipeline(args[0], overridesFrom(cmd))
	if err != nil {
		return handleError(out, ErrConfigInvalid, err, "")
	}
	res, err := p.validator.ValidateFile(cmd.Context(), args[0], p.settings.Scope)
	if err != nil {
		return handleError(out, errorCode(err), err, "")
	}

	if isJSONOutput() {
		var warnings []Warning
		if res.HasErrors() {
			warnings = append(warnings, Warning{
				Code:    ErrValidationFailed,
				Message: fmt.Sprintf("%d of %d links failed validation", res.Summary.Errors, res.Summary.Total),
			})
		}
		outputSuccessWithWarnings(out, res, warnings, &Meta{
			Count:       res.Summary.Total,
			QueryTimeMs: time.Since(start).Milliseconds(),
		})
	} else {
		printValidation(out, res)
	}

	if res.HasErrors() || (validateStrict && res.Summary.Warnings > 0) {
		return exitError{code: 1}
	}
	return nil
}

// printValidation writes the human-readable validation report.
func printValidation(w io.Writer, res *check.Result) {
	issues := res.Issues()
	display := displayPath(res.SourcePath)

	if res.Index != nil {
		hint := fmt.Sprintf("indexed %d files (%d duplicate names)", res.Index.Files, res.Index.DuplicateFilenames)
		if len(res.DuplicateNames) > 0 {
			hint += ": " + strings.Join(res.DuplicateNames, ", ")
		}
		fmt.Fprintln(w, ui.Hint(hint))
	}

	for _, issue := range issues {
		symbol := ui.SymbolWarning
		if issue.Level == check.LevelError {
			symbol = ui.SymbolError
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", symbol, ui.Location(display, issue.Line), issue.Link, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(w, "    %s\n", ui.Hint(issue.Suggestion))
		}
	}

	if len(issues) > 0 {
		fmt.Fprintln(w)
	}
	s := res.Summary
	if s.Errors == 0 && s.Warnings == 0 {
		fmt.Fprintln(w, ui.Successf("All %d %s valid in %s", s.Total, pluralize("link", s.Total), ui.FilePath(display)))
		return
	}
	fmt.Fprintf(w, "%s %d %s checked in %s %s\n",
		ui.Header("Summary:"), s.Total, pluralize("link", s.Total), ui.FilePath(display),
		ui.ErrorWarningCounts(s.Errors, s.Warnings))
}

// displayPath shortens path relative to the working directory when that
// does not climb out of it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil || !paths.Within(wd, path) {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func init() {
	addPipelineFlags(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
	rootCmd.AddCommand(validateCmd)
}
