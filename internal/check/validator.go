// Package check validates the outgoing citations of a markdown file.
package check

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/cite/internal/document"
	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/paths"
	"github.com/aidanlsb/cite/internal/resolver"
	"github.com/aidanlsb/cite/internal/slugs"
	"github.com/aidanlsb/cite/internal/vault"
)

// DocumentSource yields parsed documents. The shared parse cache and the
// uncached direct source both implement it.
type DocumentSource interface {
	Resolve(ctx context.Context, path string) (*document.Document, error)
}

const (
	DefaultConcurrency    = 8
	DefaultMaxSuggestions = 5
)

// Options configures a Validator.
type Options struct {
	// Concurrency bounds concurrent target parses.
	Concurrency int
	// MaxSuggestions bounds the anchors offered for a missing anchor.
	MaxSuggestions int
	// RootMarkers override paths.DefaultRootMarkers.
	RootMarkers []string
	// Exclude holds doublestar patterns skipped by the filename index.
	Exclude []string
	Logger  *log.Logger
}

// Result is the validation output for one source file.
type Result struct {
	SourcePath string                  `json:"source_path"`
	Summary    model.ValidationSummary `json:"summary"`
	Links      []model.EnrichedLink    `json:"links"`
	Index      *vault.IndexStats       `json:"index,omitempty"`
	// DuplicateNames are the indexed filenames that resolve ambiguously.
	DuplicateNames []string `json:"duplicate_names,omitempty"`
}

// Validator resolves links and attaches verdicts.
type Validator struct {
	source DocumentSource
	fsys   vault.FS
	opts   Options
	logger *log.Logger

	mu      sync.Mutex
	indexes map[string]*vault.FilenameIndex
}

// New creates a Validator. Pass the same source to the extractor so each
// target is parsed once.
func New(source DocumentSource, fsys vault.FS, opts Options) *Validator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Validator{
		source:  source,
		fsys:    fsys,
		opts:    opts,
		logger:  logger,
		indexes: make(map[string]*vault.FilenameIndex),
	}
}

// target is one link's resolved destination.
type target struct {
	res    resolver.Resolution
	doc    *document.Document
	err    error
	parsed bool
}

// ValidateFile validates every link in path. scope, when non-empty, is the
// directory searched by bare filename when other strategies fail.
//
// Failing to parse path itself is returned as an error. Problems with
// individual links are verdicts, never errors.
func (v *Validator) ValidateFile(ctx context.Context, path, scope string) (*Result, error) {
	source, err := v.source.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	sourcePath := source.FilePath()

	result := &Result{SourcePath: sourcePath}

	var ropts []resolver.Option
	ropts = append(ropts, resolver.WithRootMarkers(v.opts.RootMarkers...), resolver.WithLogger(v.logger))
	if scope != "" {
		idx, err := v.filenameIndex(scope)
		if err != nil {
			return nil, fmt.Errorf("build filename index: %w", err)
		}
		stats := idx.Stats()
		result.Index = &stats
		for name := range idx.Duplicates() {
			result.DuplicateNames = append(result.DuplicateNames, name)
		}
		sort.Strings(result.DuplicateNames)
		ropts = append(ropts, resolver.WithFilenameIndex(idx))
	}
	res := resolver.New(v.fsys, ropts...)

	links := source.Links()
	targets := make([]*target, len(links))
	for i, link := range links {
		if link.IsInternal() {
			targets[i] = &target{
				res:    resolver.Resolution{Path: sourcePath, Strategy: resolver.StrategyDirect},
				doc:    source,
				parsed: true,
			}
			continue
		}
		targets[i] = &target{res: res.Resolve(sourcePath, link.Target)}
	}

	if err := v.prefetch(ctx, targets); err != nil {
		return nil, err
	}

	result.Links = make([]model.EnrichedLink, 0, len(links))
	for i, link := range links {
		t := targets[i]
		verdict := v.classify(link, t)
		result.Summary.Add(verdict)
		result.Links = append(result.Links, model.Enrich(link, t.res.Path, verdict))
	}

	v.logger.Debug("validated",
		"file", sourcePath,
		"total", result.Summary.Total,
		"errors", result.Summary.Errors,
		"warnings", result.Summary.Warnings)

	return result, nil
}

// prefetch parses every distinct resolved target concurrently. Parse
// failures are recorded on the targets; only cancellation is returned.
func (v *Validator) prefetch(ctx context.Context, targets []*target) error {
	byPath := make(map[string][]*target)
	for _, t := range targets {
		if t.parsed || !t.res.Found() {
			continue
		}
		byPath[t.res.Path] = append(byPath[t.res.Path], t)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Concurrency)
	for p, ts := range byPath {
		g.Go(func() error {
			doc, err := v.source.Resolve(gctx, p)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			if err != nil {
				v.logger.Debug("target parse failed", "path", p, "err", err)
			}
			for _, t := range ts {
				t.doc, t.err, t.parsed = doc, err, true
			}
			return nil
		})
	}
	return g.Wait()
}

func (v *Validator) filenameIndex(scope string) (*vault.FilenameIndex, error) {
	abs, err := filepath.Abs(scope)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if idx, ok := v.indexes[abs]; ok {
		return idx, nil
	}
	idx, err := vault.BuildFilenameIndex(abs,
		vault.WithExclude(v.opts.Exclude...),
		vault.WithIndexLogger(v.logger))
	if err != nil {
		return nil, err
	}
	v.indexes[abs] = idx
	return idx, nil
}

// classify produces the verdict for one link.
func (v *Validator) classify(link model.Link, t *target) model.Validation {
	if t.res.Ambiguous() {
		return model.Warning{
			Message: fmt.Sprintf("ambiguous filename %q matches %d files: %s",
				filepath.Base(link.Target.RawPath), len(t.res.Candidates), strings.Join(t.res.Candidates, ", ")),
		}
	}
	if !t.res.Found() {
		return model.Error{Message: "file not found"}
	}
	if t.err != nil {
		return model.Error{Message: fmt.Sprintf("failed to parse target: %v", t.err)}
	}

	pathWarning := v.pathWarning(link, t.res)

	anchor := link.AnchorValue()
	if anchor == "" {
		if pathWarning != nil {
			return *pathWarning
		}
		return model.Valid{}
	}

	verdict := v.classifyAnchor(t.doc, anchor)
	if _, ok := verdict.(model.Valid); ok && pathWarning != nil {
		return *pathWarning
	}
	return verdict
}

// pathWarning flags targets that were only found by bare filename.
func (v *Validator) pathWarning(link model.Link, res resolver.Resolution) *model.Warning {
	if res.Strategy != resolver.StrategyFilenameIndex {
		return nil
	}
	return &model.Warning{
		Message: "target found by filename only; the written path does not resolve",
		Suggestion: &model.PathConversion{
			Kind:        model.ConversionPath,
			Original:    link.Target.RawPath,
			Recommended: paths.RelativeLinkPath(link.SourcePath, res.Path),
		},
	}
}

// classifyAnchor checks anchor (as written, without '#') against doc.
func (v *Validator) classifyAnchor(doc *document.Document, anchor string) model.Validation {
	caret := strings.HasPrefix(anchor, "^")

	if a, ok := doc.Lookup(anchor); ok {
		if !caret && a.IsCaretBlock() {
			return model.Warning{
				Message: fmt.Sprintf("#%s refers to a block reference; block links need a caret", anchor),
				Suggestion: &model.PathConversion{
					Kind:        model.ConversionAnchor,
					Original:    anchor,
					Recommended: a.Reference(),
				},
			}
		}
		return model.Valid{}
	}

	if !caret {
		for _, a := range doc.Anchors() {
			if a.Kind == model.AnchorHeader && slugs.HeadingSlug(a.ID) == anchor {
				return model.Warning{
					Message: fmt.Sprintf("#%s is a rendered slug, not the heading text", anchor),
					Suggestion: &model.PathConversion{
						Kind:        model.ConversionAnchor,
						Original:    anchor,
						Recommended: a.Reference(),
					},
				}
			}
		}
	}

	verdict := model.Error{Message: fmt.Sprintf("anchor #%s not found", anchor)}
	similar := doc.FindSimilarAnchors(anchor)
	if len(similar) > v.opts.MaxSuggestions {
		similar = similar[:v.opts.MaxSuggestions]
	}
	if len(similar) > 0 {
		refs := make([]string, len(similar))
		for i, s := range similar {
			refs[i] = "#" + s
		}
		verdict.Suggestion = "did you mean " + strings.Join(refs, ", ") + "?"
	}
	return verdict
}
