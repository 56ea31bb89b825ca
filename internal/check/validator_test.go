package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/cite/internal/cache"
	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/resolver"
	"github.com/aidanlsb/cite/internal/testutil"
	"github.com/aidanlsb/cite/internal/vault"
)

func validate(t *testing.T, v *testutil.TestVault, rel, scope string) *Result {
	t.Helper()
	val := New(cache.New(vault.OSFS{}), vault.OSFS{}, Options{})
	res, err := val.ValidateFile(context.Background(), v.Abs(rel), scope)
	require.NoError(t, err)
	return res
}

func TestValidateFileSummary(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "# Source\n\n[missing](nope.md)\n[bad anchor](target.md#Nowhere)\n[ok](target.md#Target)\n").
		WithFile("target.md", "# Target\n\nBody.\n").
		Build()

	res := validate(t, v, "source.md", "")

	assert.Equal(t, model.ValidationSummary{Total: 3, Valid: 1, Warnings: 0, Errors: 2}, res.Summary)
	require.Len(t, res.Links, 3)

	assert.Equal(t, model.Error{Message: "file not found"}, res.Links[0].Validation)
	assert.Empty(t, res.Links[0].ResolvedPath)

	missing, ok := res.Links[1].Validation.(model.Error)
	require.True(t, ok)
	assert.Equal(t, "anchor #Nowhere not found", missing.Message)
	assert.Equal(t, v.Abs("target.md"), res.Links[1].ResolvedPath)

	assert.Equal(t, model.Valid{}, res.Links[2].Validation)
	assert.True(t, res.HasErrors())
	assert.Len(t, res.Issues(), 2)
}

func TestValidateFileCachedAndDirectAgree(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("docs/source.md", "# Source\n\n"+
			"[a](../target.md#Target) [b](../target.md#Target) [c](../target.md#Missing)\n"+
			"[d](nope.md) [[../target#Target]] see ^nothing here\n").
		WithFile("target.md", "# Target\n\nRule. ^FR1\n").
		Build()

	cached := New(cache.New(vault.OSFS{}), vault.OSFS{}, Options{})
	direct := New(cache.NewDirect(vault.OSFS{}), vault.OSFS{}, Options{})

	a, err := cached.ValidateFile(context.Background(), v.Abs("docs/source.md"), "")
	require.NoError(t, err)
	b, err := direct.ValidateFile(context.Background(), v.Abs("docs/source.md"), "")
	require.NoError(t, err)

	assert.Equal(t, a.Summary, b.Summary)
	require.Len(t, b.Links, len(a.Links))
	for i := range a.Links {
		assert.Equal(t, a.Links[i].Status(), b.Links[i].Status(), "link %d", i)
		assert.Equal(t, a.Links[i].Validation, b.Links[i].Validation, "link %d", i)
	}
}

func TestValidateFileParsesEachTargetOnce(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[a](t.md#T) [b](t.md#T) [c](t.md) [d](u.md)\n").
		WithFile("t.md", "# T\n").
		WithFile("u.md", "# U\n").
		Build()

	c := cache.New(vault.OSFS{})
	val := New(c, vault.OSFS{}, Options{Concurrency: 2})
	_, err := val.ValidateFile(context.Background(), v.Abs("source.md"), "")
	require.NoError(t, err)

	// source, t.md, u.md
	assert.EqualValues(t, 3, c.Stats().Parses)
}

func TestValidateFileAnchorWarnings(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[block](t.md#FR1)\n[slug](t.md#goals-and-scope)\n[encoded](t.md#Goals%20and%20Scope)\n[raw](t.md#Goals and Scope)\n[caret](t.md#^FR1)\n").
		WithFile("t.md", "# Spec\n\n## Goals and Scope\n\nLogin must work. ^FR1\n").
		Build()

	res := validate(t, v, "source.md", "")
	require.Len(t, res.Links, 5)

	block, ok := res.Links[0].Validation.(model.Warning)
	require.True(t, ok, "got %#v", res.Links[0].Validation)
	require.NotNil(t, block.Suggestion)
	assert.Equal(t, model.ConversionAnchor, block.Suggestion.Kind)
	assert.Equal(t, "^FR1", block.Suggestion.Recommended)

	slug, ok := res.Links[1].Validation.(model.Warning)
	require.True(t, ok, "got %#v", res.Links[1].Validation)
	assert.Equal(t, "Goals%20and%20Scope", slug.Suggestion.Recommended)

	assert.Equal(t, model.Valid{}, res.Links[2].Validation)
	assert.Equal(t, model.Valid{}, res.Links[3].Validation)
	assert.Equal(t, model.Valid{}, res.Links[4].Validation)
	assert.Equal(t, model.ValidationSummary{Total: 5, Valid: 3, Warnings: 2}, res.Summary)
}

func TestValidateFileSuggestsSimilarAnchors(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[typo](t.md#Goals%20and%20Scop)\n").
		WithFile("t.md", "# Spec\n\n## Goals and Scope\n").
		Build()

	res := validate(t, v, "source.md", "")
	verdict, ok := res.Links[0].Validation.(model.Error)
	require.True(t, ok)
	assert.Equal(t, "did you mean #Goals%20and%20Scope?", verdict.Suggestion)
}

func TestValidateFileInternalLinks(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("source.md", "# Intro\n\nSee [intro](#Intro), [[#^FR1|rule]] and ^FR1 or ^FR9 here.\n\nRule text. ^FR1\n").
		Build()

	res := validate(t, v, "source.md", "")
	require.Len(t, res.Links, 4)

	for i, want := range []model.ValidationStatus{model.StatusValid, model.StatusValid, model.StatusValid, model.StatusError} {
		assert.Equal(t, want, res.Links[i].Status(), "link %d: %s", i, res.Links[i].RawMatchText)
	}
	assert.Equal(t, v.Abs("source.md"), res.Links[0].ResolvedPath)
}

func TestValidateFileResolutionStrategies(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("docs/deep/a.md", "[rooted](specs/auth.md#Auth)\n[wiki](../../specs/auth)\n").
		WithFile("specs/auth.md", "# Auth\n").
		Build()

	res := validate(t, v, "docs/deep/a.md", "")
	require.Len(t, res.Links, 2)
	assert.Equal(t, model.Valid{}, res.Links[0].Validation)
	assert.Equal(t, v.Abs("specs/auth.md"), res.Links[0].ResolvedPath)
	assert.Equal(t, model.Valid{}, res.Links[1].Validation)
}

func TestResolverStrategiesRecorded(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("real/a.md", "[b](b.md)\n").
		WithFile("real/b.md", "# B\n").
		WithSymlink("links/a.md", "real/a.md").
		Build()

	res := validate(t, v, "links/a.md", "")
	require.Len(t, res.Links, 1)
	assert.Equal(t, model.Valid{}, res.Links[0].Validation)
	assert.Equal(t, v.Abs("real/b.md"), res.Links[0].ResolvedPath)

	r := resolver.New(vault.OSFS{})
	got := r.Resolve(v.Abs("links/a.md"), res.Links[0].Target)
	assert.Equal(t, resolver.StrategySymlink, got.Strategy)
}

func TestValidateFileFilenameIndex(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("docs/a.md", "[short](b.md#B)\n[dup](dup.md)\n").
		WithFile("other/b.md", "# B\n").
		WithFile("x/dup.md", "# X\n").
		WithFile("y/dup.md", "# Y\n").
		Build()

	without := validate(t, v, "docs/a.md", "")
	assert.Equal(t, 2, without.Summary.Errors)
	assert.Nil(t, without.Index)

	res := validate(t, v, "docs/a.md", v.Path)
	require.NotNil(t, res.Index)
	assert.Equal(t, model.ValidationSummary{Total: 2, Warnings: 2}, res.Summary)
	assert.Equal(t, []string{"dup.md"}, res.DuplicateNames)

	short, ok := res.Links[0].Validation.(model.Warning)
	require.True(t, ok)
	require.NotNil(t, short.Suggestion)
	assert.Equal(t, model.ConversionPath, short.Suggestion.Kind)
	assert.Equal(t, "b.md", short.Suggestion.Original)
	assert.Equal(t, "../other/b.md", short.Suggestion.Recommended)
	assert.Equal(t, v.Abs("other/b.md"), res.Links[0].ResolvedPath)

	dup, ok := res.Links[1].Validation.(model.Warning)
	require.True(t, ok)
	assert.Contains(t, dup.Message, "ambiguous")
	assert.Nil(t, dup.Suggestion)
}

func TestValidateFileTargetParseFailure(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("source.md", "[bad](bad.md#X) [also](bad.md)\n").
		WithFile("bad.md", "\xff\xfe broken").
		Build()

	res := validate(t, v, "source.md", "")
	require.Len(t, res.Links, 2)
	for _, l := range res.Links {
		verdict, ok := l.Validation.(model.Error)
		require.True(t, ok)
		assert.Contains(t, verdict.Message, "failed to parse target")
	}
}

func TestValidateFileSourceFailure(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	val := New(cache.New(vault.OSFS{}), vault.OSFS{}, Options{})
	_, err := val.ValidateFile(context.Background(), v.Abs("missing.md"), "")
	require.Error(t, err)
}
