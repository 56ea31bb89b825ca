// Package extract pulls the content that validated citations point to and
// stores each distinct piece of text once.
package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/aidanlsb/cite/internal/checksum"
	"github.com/aidanlsb/cite/internal/document"
	"github.com/aidanlsb/cite/internal/model"
)

// DocumentSource yields parsed documents. Share the validator's source so
// targets are not parsed twice.
type DocumentSource interface {
	Resolve(ctx context.Context, path string) (*document.Document, error)
}

// Options configures an Extractor.
type Options struct {
	Flags
	Logger *log.Logger
}

// Extractor builds extraction reports from validated links.
type Extractor struct {
	source DocumentSource
	flags  Flags
	logger *log.Logger
}

// New creates an Extractor.
func New(source DocumentSource, opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Extractor{source: source, flags: opts.Flags, logger: logger}
}

// Extract processes the links of sourcePath. Internal links are dropped;
// every other link yields exactly one result in input order.
//
// Only cancellation is returned as an error. A target that cannot be
// loaded, or that yields no content, is an error result in the report.
func (e *Extractor) Extract(ctx context.Context, sourcePath string, links []model.EnrichedLink) (*model.ExtractionReport, error) {
	report := &model.ExtractionReport{
		ExtractedContentBlocks: make(map[string]*model.ExtractedContentBlock),
		OutgoingLinksReport: model.OutgoingLinksReport{
			SourceFilePath: sourcePath,
			ProcessedLinks: []model.ExtractionResult{},
		},
		BlockOrder: []string{},
	}

	var totalLen int
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if link.IsInternal() {
			continue
		}

		result, content := e.process(ctx, link)
		if result.Status == model.ExtractionSuccess {
			totalLen += len(content)
			if block, ok := report.ExtractedContentBlocks[result.ContentID]; ok {
				block.SourceLinks = append(block.SourceLinks, sourceRef(link))
			} else {
				report.ExtractedContentBlocks[result.ContentID] = &model.ExtractedContentBlock{
					Content:       content,
					ContentLength: len(content),
					SourceLinks:   []model.SourceLinkRef{sourceRef(link)},
				}
				report.BlockOrder = append(report.BlockOrder, result.ContentID)
			}
		}
		report.OutgoingLinksReport.ProcessedLinks = append(report.OutgoingLinksReport.ProcessedLinks, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Stats = computeStats(report, totalLen)

	e.logger.Debug("extracted",
		"file", sourcePath,
		"links", report.Stats.TotalLinks,
		"blocks", report.Stats.UniqueContent,
		"duplicates", report.Stats.DuplicateContentDetected)

	return report, nil
}

// process handles one cross-document link and returns its result plus the
// extracted text on success.
func (e *Extractor) process(ctx context.Context, link model.EnrichedLink) (model.ExtractionResult, string) {
	if v, ok := link.Validation.(model.Error); ok {
		return model.ExtractionSkippedFor(link, model.EligibilityDecision{
			Reason: "validation error",
		}, "validation error: "+v.Message), ""
	}

	if link.ResolvedPath == "" {
		reason := "ambiguous target"
		if w, ok := link.Validation.(model.Warning); ok {
			reason += ": " + w.Message
		}
		return model.ExtractionSkippedFor(link, model.EligibilityDecision{Reason: reason}, reason), ""
	}

	decision := AnalyzeEligibility(link.Link, e.flags)
	if !decision.Eligible {
		return model.ExtractionSkippedFor(link, decision, decision.Reason), ""
	}

	doc, err := e.source.Resolve(ctx, link.ResolvedPath)
	if err != nil {
		e.logger.Debug("target load failed", "path", link.ResolvedPath, "err", err)
		return model.ExtractionFailed(link, decision, fmt.Sprintf("failed to load target: %v", err)), ""
	}

	content, err := retrieve(doc, link)
	if err != nil {
		return model.ExtractionFailed(link, decision, err.Error()), ""
	}
	return model.ExtractionSucceeded(link, decision, checksum.ContentID(content)), content
}

// retrieve picks the facade call that matches the link's anchor.
func retrieve(doc *document.Document, link model.EnrichedLink) (string, error) {
	fragment := anchorFragment(link)
	if fragment == "" {
		if content := doc.ExtractFullContent(); content != "" {
			return content, nil
		}
		return "", fmt.Errorf("no content in %s", doc.FilePath())
	}

	a, ok := doc.Lookup(fragment)
	if !ok {
		return "", fmt.Errorf("anchor #%s not found in %s", fragment, doc.FilePath())
	}

	var content string
	if h, isHeading := doc.HeadingForAnchor(a); isHeading && h.TopLevel {
		content, ok = doc.ExtractSection(h.Text, h.Level)
	} else {
		content, ok = doc.ExtractBlock(a.Reference())
	}
	if !ok || content == "" {
		return "", fmt.Errorf("no content for #%s in %s", fragment, doc.FilePath())
	}
	return content, nil
}

// anchorFragment returns the anchor to extract. An anchor-syntax warning
// carries the fragment that actually resolves, so that one is used.
func anchorFragment(link model.EnrichedLink) string {
	if w, ok := link.Validation.(model.Warning); ok && w.Suggestion != nil && w.Suggestion.Kind == model.ConversionAnchor {
		return w.Suggestion.Recommended
	}
	return link.AnchorValue()
}

func sourceRef(link model.EnrichedLink) model.SourceLinkRef {
	return model.SourceLinkRef{RawText: link.RawMatchText, Line: link.Line}
}

// computeStats derives the deduplication figures. totalLen is the summed
// length of every successful extraction, duplicates included.
func computeStats(report *model.ExtractionReport, totalLen int) model.ExtractionStats {
	var successes int
	for _, r := range report.OutgoingLinksReport.ProcessedLinks {
		if r.Status == model.ExtractionSuccess {
			successes++
		}
	}
	var uniqueLen int
	for _, b := range report.ExtractedContentBlocks {
		uniqueLen += b.ContentLength
	}

	stats := model.ExtractionStats{
		TotalLinks:               len(report.OutgoingLinksReport.ProcessedLinks),
		UniqueContent:            len(report.ExtractedContentBlocks),
		DuplicateContentDetected: successes - len(report.ExtractedContentBlocks),
		TokensSaved:              (totalLen - uniqueLen) / 4,
	}
	if totalLen > 0 {
		stats.CompressionRatio = 1 - float64(uniqueLen)/float64(totalLen)
	}
	return stats
}
