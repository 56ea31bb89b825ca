package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/atomicfile"
	"github.com/aidanlsb/cite/internal/extract"
	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/ui"
)

var (
	extractOutput string
	extractRender bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the content cited by a markdown file",
	Long: `Validates the file's links, then pulls the sections and blocks they cite.
Identical content cited by several links is stored once.

Links with a heading or block anchor are extracted. Anchorless links pull
the whole file only with --full-files. A link followed by
%%force-extract%% is always extracted; %%stop-extract-link%% never is.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
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

	ex := extract.New(p.cache, extract.Options{
		Flags:  extract.Flags{FullFiles: p.settings.FullFiles},
		Logger: logger,
	})
	report, err := ex.Extract(cmd.Context(), res.SourcePath, res.Links)
	if err != nil {
		return handleError(out, errorCode(err), err, "")
	}

	cs := p.cache.Stats()
	logger.Debug("parse cache",
		"documents", p.cache.Len(),
		"parses", cs.Parses,
		"hits", cs.Hits,
		"shared", cs.Shared,
		"failures", cs.Failures)

	if extractOutput != "" {
		if err := atomicfile.WriteJSON(extractOutput, report); err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}
	}

	failed := countStatus(report, model.ExtractionError)

	switch {
	case isJSONOutput():
		var warnings []Warning
		if failed > 0 {
			warnings = append(warnings, Warning{
				Code:    ErrExtractionFailed,
				Message: fmt.Sprintf("%d eligible %s produced no content", failed, pluralize("link", failed)),
			})
		}
		outputSuccessWithWarnings(out, report, warnings, &Meta{
			Count:       report.Stats.UniqueContent,
			QueryTimeMs: time.Since(start).Milliseconds(),
		})
	default:
		printExtraction(out, report)
		if extractRender {
			if err := renderBlocks(out, report, ui.DetectTerminal(os.Stdout).RenderWidth()); err != nil {
				return handleError(out, ErrInternal, err, "")
			}
		}
		if extractOutput != "" {
			fmt.Fprintln(out, ui.Successf("Wrote report to %s", ui.FilePath(extractOutput)))
		}
	}

	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}

func countStatus(report *model.ExtractionReport, status model.ExtractionStatus) int {
	n := 0
	for _, r := range report.OutgoingLinksReport.ProcessedLinks {
		if r.Status == status {
			n++
		}
	}
	return n
}

// printExtraction writes one line per processed link and the stats.
func printExtraction(w io.Writer, report *model.ExtractionReport) {
	display := displayPath(report.OutgoingLinksReport.SourceFilePath)

	for _, r := range report.OutgoingLinksReport.ProcessedLinks {
		link := r.SourceLink
		detail := r.ContentID
		if r.FailureDetails != nil {
			detail = r.FailureDetails.Reason
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			ui.ExtractionSymbol(r.Status), ui.Location(display, link.Line), link.RawMatchText, ui.Hint(detail))
	}

	s := report.Stats
	if len(report.OutgoingLinksReport.ProcessedLinks) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %d %s, %d unique %s, %d %s, ~%d tokens saved (%.0f%%)\n",
		ui.Header("Extracted:"),
		s.TotalLinks, pluralize("link", s.TotalLinks),
		s.UniqueContent, pluralize("block", s.UniqueContent),
		s.DuplicateContentDetected, pluralize("duplicate", s.DuplicateContentDetected),
		s.TokensSaved, s.CompressionRatio*100)
}

// renderBlocks renders each content block in first-seen order.
func renderBlocks(w io.Writer, report *model.ExtractionReport, width int) error {
	for _, id := range report.BlockOrder {
		block := report.ExtractedContentBlocks[id]

		refs := make([]string, len(block.SourceLinks))
		for i, ref := range block.SourceLinks {
			refs[i] = ref.RawText
		}
		fmt.Fprintf(w, "\n%s %s\n", ui.AccentBold.Render(id), ui.Hint(strings.Join(refs, ", ")))

		rendered, err := ui.RenderMarkdown(block.Content, width)
		if err != nil {
			return fmt.Errorf("render block %s: %w", id, err)
		}
		fmt.Fprint(w, rendered)
	}
	return nil
}

func init() {
	addPipelineFlags(extractCmd)
	extractCmd.Flags().Bool("full-files", false, "Extract whole files for links without an anchor")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Also write the JSON report to this file")
	extractCmd.Flags().BoolVar(&extractRender, "render", false, "Render extracted content as styled markdown")
	rootCmd.AddCommand(extractCmd)
}
