package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/cite/internal/cache"
	"github.com/aidanlsb/cite/internal/check"
	"github.com/aidanlsb/cite/internal/checksum"
	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/testutil"
	"github.com/aidanlsb/cite/internal/vault"
)

const spec = "# Spec\n\n## Goals\n\nShip it.\n\n## Rules\n\nLogin must work. ^FR1\n"

func run(t *testing.T, v *testutil.TestVault, rel string, flags Flags) (*model.ExtractionReport, *cache.ParsedFileCache) {
	t.Helper()
	return runScoped(t, v, rel, "", flags)
}

// runScoped validates with a filename index over scope before extracting.
func runScoped(t *testing.T, v *testutil.TestVault, rel, scope string, flags Flags) (*model.ExtractionReport, *cache.ParsedFileCache) {
	t.Helper()
	c := cache.New(vault.OSFS{})
	res, err := check.New(c, vault.OSFS{}, check.Options{}).ValidateFile(context.Background(), v.Abs(rel), scope)
	require.NoError(t, err)

	report, err := New(c, Options{Flags: flags}).Extract(context.Background(), res.SourcePath, res.Links)
	require.NoError(t, err)
	return report, c
}

func anchor(s string) *string { return &s }

func TestAnalyzeEligibility(t *testing.T) {
	fullFile := model.Link{Scope: model.ScopeCrossDocument, AnchorKind: model.AnchorNone}
	section := model.Link{
		Scope:      model.ScopeCrossDocument,
		AnchorKind: model.AnchorHeader,
		Target:     model.Target{Anchor: anchor("Goals")},
	}
	emptyFragment := model.Link{
		Scope:      model.ScopeCrossDocument,
		AnchorKind: model.AnchorNone,
		Target:     model.Target{Anchor: anchor("")},
	}
	withMarker := func(l model.Link, kind model.MarkerKind) model.Link {
		l.ExtractionMarker = &model.Marker{Kind: kind}
		return l
	}

	tests := []struct {
		name         string
		link         model.Link
		flags        Flags
		wantEligible bool
		wantStrategy Strategy
	}{
		{"full file without flag", fullFile, Flags{}, false, StrategyCLIFlag},
		{"full file with flag", fullFile, Flags{FullFiles: true}, true, StrategyCLIFlag},
		{"section link", section, Flags{}, true, StrategySectionLink},
		{"empty fragment is a full file link", emptyFragment, Flags{}, false, StrategyCLIFlag},
		{"empty fragment with flag", emptyFragment, Flags{FullFiles: true}, true, StrategyCLIFlag},
		{"force marker beats missing flag", withMarker(fullFile, model.MarkerForce), Flags{}, true, StrategyForceMarker},
		{"stop marker beats flag", withMarker(fullFile, model.MarkerStop), Flags{FullFiles: true}, false, StrategyStopMarker},
		{"stop marker beats anchor", withMarker(section, model.MarkerStop), Flags{FullFiles: true}, false, StrategyStopMarker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeEligibility(tt.link, tt.flags)
			assert.Equal(t, tt.wantEligible, got.Eligible, got.Reason)
			assert.Equal(t, string(tt.wantStrategy), got.Strategy)
			assert.NotEmpty(t, got.Reason)
		})
	}

	assert.Contains(t, AnalyzeEligibility(fullFile, Flags{}).Reason, "--full-files")
}

func TestExtractDeduplicatesSameSection(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[a](spec.md#Goals)\n[[spec#Goals|goals]]\n").
		WithFile("spec.md", spec).
		Build()

	report, c := run(t, v, "source.md", Flags{})

	const section = "## Goals\n\nShip it."
	id := checksum.ContentID(section)

	require.Len(t, report.ExtractedContentBlocks, 1)
	block := report.ExtractedContentBlocks[id]
	require.NotNil(t, block)
	assert.Equal(t, section, block.Content)
	assert.Equal(t, len(section), block.ContentLength)
	assert.Len(t, block.SourceLinks, 2)
	assert.Equal(t, []string{id}, report.BlockOrder)

	processed := report.OutgoingLinksReport.ProcessedLinks
	require.Len(t, processed, 2)
	for _, r := range processed {
		assert.Equal(t, model.ExtractionSuccess, r.Status)
		assert.Equal(t, id, r.ContentID)
	}

	assert.Equal(t, model.ExtractionStats{
		TotalLinks:               2,
		UniqueContent:            1,
		DuplicateContentDetected: 1,
		TokensSaved:              len(section) / 4,
		CompressionRatio:         0.5,
	}, report.Stats)

	// source and spec, each parsed once across validation and extraction
	assert.EqualValues(t, 2, c.Stats().Parses)
}

func TestExtractBlockAnchors(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[caret](spec.md#^FR1)\n[bare](spec.md#FR1)\n").
		WithFile("spec.md", spec).
		Build()

	report, _ := run(t, v, "source.md", Flags{})

	processed := report.OutgoingLinksReport.ProcessedLinks
	require.Len(t, processed, 2)
	assert.Equal(t, model.StatusWarning, processed[1].SourceLink.Status())
	for _, r := range processed {
		assert.Equal(t, model.ExtractionSuccess, r.Status)
	}
	require.Len(t, report.BlockOrder, 1)
	assert.Equal(t, "Login must work. ^FR1", report.ExtractedContentBlocks[report.BlockOrder[0]].Content)
}

func TestExtractFullFileLinks(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[whole](spec.md)\n").
		WithFile("spec.md", spec).
		Build()

	t.Run("without flag", func(t *testing.T) {
		report, _ := run(t, v, "source.md", Flags{})
		require.Len(t, report.OutgoingLinksReport.ProcessedLinks, 1)
		r := report.OutgoingLinksReport.ProcessedLinks[0]
		assert.Equal(t, model.ExtractionSkipped, r.Status)
		assert.False(t, r.EligibilityReason.Eligible)
		assert.Contains(t, r.FailureDetails.Reason, "--full-files")
		assert.Empty(t, r.ContentID)
		assert.Empty(t, report.ExtractedContentBlocks)
		assert.Zero(t, report.Stats.CompressionRatio)
	})

	t.Run("with flag", func(t *testing.T) {
		report, _ := run(t, v, "source.md", Flags{FullFiles: true})
		r := report.OutgoingLinksReport.ProcessedLinks[0]
		require.Equal(t, model.ExtractionSuccess, r.Status)
		assert.Equal(t, spec, report.ExtractedContentBlocks[r.ContentID].Content)
		assert.Zero(t, report.Stats.TokensSaved)
	})
}

func TestExtractStopMarkerOutranksFlag(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[whole](spec.md) %%stop-extract-link%%\n[goals](spec.md#Goals) <!-- stop-extract-link -->\n").
		WithFile("spec.md", spec).
		Build()

	report, _ := run(t, v, "source.md", Flags{FullFiles: true})
	require.Len(t, report.OutgoingLinksReport.ProcessedLinks, 2)
	for _, r := range report.OutgoingLinksReport.ProcessedLinks {
		assert.Equal(t, model.ExtractionSkipped, r.Status)
		assert.Equal(t, string(StrategyStopMarker), r.EligibilityReason.Strategy)
	}
}

func TestExtractFiltersInternalAndInvalidLinks(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "# Intro\n\n[self](#Intro)\n[gone](missing.md#X)\n[ok](spec.md#Goals)\n").
		WithFile("spec.md", spec).
		Build()

	report, _ := run(t, v, "source.md", Flags{})

	processed := report.OutgoingLinksReport.ProcessedLinks
	require.Len(t, processed, 2)

	assert.Equal(t, model.ExtractionSkipped, processed[0].Status)
	assert.Equal(t, "validation error: file not found", processed[0].FailureDetails.Reason)
	assert.Equal(t, model.ExtractionSuccess, processed[1].Status)
	assert.Equal(t, 2, report.Stats.TotalLinks)
}

func TestExtractFilenameIndexLinks(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[a](spec.md#Goals)\n[b](unique.md#Goals)\n").
		WithFile("a/spec.md", spec).
		WithFile("b/spec.md", spec).
		WithFile("b/unique.md", spec).
		Build()

	report, _ := runScoped(t, v, "source.md", v.Path, Flags{})

	processed := report.OutgoingLinksReport.ProcessedLinks
	require.Len(t, processed, 2)

	ambiguous := processed[0]
	assert.Equal(t, model.StatusWarning, ambiguous.SourceLink.Status())
	assert.Empty(t, ambiguous.SourceLink.ResolvedPath)
	assert.Equal(t, model.ExtractionSkipped, ambiguous.Status)
	assert.False(t, ambiguous.EligibilityReason.Eligible)
	assert.Contains(t, ambiguous.FailureDetails.Reason, "ambiguous target")
	assert.Empty(t, ambiguous.ContentID)

	indexed := processed[1]
	assert.Equal(t, v.Abs("b/unique.md"), indexed.SourceLink.ResolvedPath)
	require.Equal(t, model.ExtractionSuccess, indexed.Status)
	assert.Equal(t, "## Goals\n\nShip it.", report.ExtractedContentBlocks[indexed.ContentID].Content)

	for _, r := range processed {
		assert.NotEqual(t, model.ExtractionError, r.Status)
	}
}

func TestExtractReportsInconsistency(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("spec.md", spec).
		Build()

	link := model.Link{
		Kind:         model.LinkKindMarkdown,
		Scope:        model.ScopeCrossDocument,
		AnchorKind:   model.AnchorHeader,
		SourcePath:   v.Abs("source.md"),
		Target:       model.Target{RawPath: "spec.md", Anchor: anchor("Vanished")},
		RawMatchText: "[x](spec.md#Vanished)",
		Line:         1,
		Column:       1,
	}
	enriched := model.Enrich(link, v.Abs("spec.md"), model.Valid{})

	report, err := New(cache.New(vault.OSFS{}), Options{}).
		Extract(context.Background(), v.Abs("source.md"), []model.EnrichedLink{enriched})
	require.NoError(t, err)

	require.Len(t, report.OutgoingLinksReport.ProcessedLinks, 1)
	r := report.OutgoingLinksReport.ProcessedLinks[0]
	assert.Equal(t, model.ExtractionError, r.Status)
	assert.Contains(t, r.FailureDetails.Reason, "Vanished")
	assert.Empty(t, report.ExtractedContentBlocks)
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cache.New(vault.OSFS{}), Options{}).Extract(ctx, "/vault/a.md", nil)
	require.ErrorIs(t, err, context.Canceled)
}
