// Package resolver finds the file a link target refers to.
//
// Strategies are tried in a fixed order and the first one that finds an
// existing file wins:
//  1. direct: relative to the source file's directory
//  2. vault-root: relative to the nearest directory holding a root marker
//  3. symlink: relative to the source file's real (symlink-resolved) directory
//  4. filename-index: by bare filename within the configured scope
package resolver

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/paths"
	"github.com/aidanlsb/cite/internal/vault"
)

// Strategy names a resolution strategy.
type Strategy string

const (
	StrategyDirect        Strategy = "direct"
	StrategyVaultRoot     Strategy = "vault-root"
	StrategySymlink       Strategy = "symlink"
	StrategyFilenameIndex Strategy = "filename-index"
)

// Resolution is the outcome of resolving one target.
type Resolution struct {
	// Path is the existing file found. Empty when nothing matched.
	Path     string
	Strategy Strategy

	// Candidates is set when the filename index matched several files.
	Candidates []string
}

// Found reports whether a file was resolved.
func (r Resolution) Found() bool { return r.Path != "" }

// Ambiguous reports whether the filename index matched several files.
func (r Resolution) Ambiguous() bool { return len(r.Candidates) > 1 }

// Resolver resolves link targets against the filesystem.
type Resolver struct {
	fsys    vault.FS
	index   *vault.FilenameIndex
	markers []string
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFilenameIndex enables the filename-index fallback.
func WithFilenameIndex(idx *vault.FilenameIndex) Option {
	return func(r *Resolver) { r.index = idx }
}

// WithRootMarkers overrides paths.DefaultRootMarkers.
func WithRootMarkers(markers ...string) Option {
	return func(r *Resolver) {
		if len(markers) > 0 {
			r.markers = markers
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver.
func New(fsys vault.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:    fsys,
		markers: paths.DefaultRootMarkers,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the file target points to from sourcePath.
func (r *Resolver) Resolve(sourcePath string, target model.Target) Resolution {
	rel := paths.DecodeLinkPath(target.RawPath)
	if rel == "" {
		return Resolution{}
	}
	sourceDir := filepath.Dir(sourcePath)

	if p, ok := r.existing(r.direct(sourceDir, rel, target)); ok {
		return r.found(p, StrategyDirect, target)
	}

	if root, ok := paths.FindVaultRoot(r.fsys, sourceDir, r.markers); ok {
		rooted := filepath.Join(root, strings.TrimLeft(rel, `/\`))
		if p, ok := r.existing(rooted); ok {
			return r.found(p, StrategyVaultRoot, target)
		}
	}

	if realSource, err := r.fsys.EvalSymlinks(sourcePath); err == nil {
		realDir := filepath.Dir(realSource)
		if realDir != sourceDir && !filepath.IsAbs(rel) {
			if p, ok := r.existing(filepath.Join(realDir, rel)); ok {
				return r.found(p, StrategySymlink, target)
			}
		}
	}

	if r.index != nil {
		match := r.index.Resolve(paths.WithMarkdownExt(filepath.Base(rel)))
		switch match.Status {
		case vault.Found:
			return r.found(match.Path, StrategyFilenameIndex, target)
		case vault.Ambiguous:
			r.logger.Debug("ambiguous filename", "target", target.RawPath, "candidates", len(match.Candidates))
			return Resolution{Strategy: StrategyFilenameIndex, Candidates: match.Candidates}
		}
	}

	r.logger.Debug("target not found", "source", sourcePath, "target", target.RawPath)
	return Resolution{}
}

func (r *Resolver) direct(sourceDir, rel string, target model.Target) string {
	if target.AbsolutePath != "" {
		return target.AbsolutePath
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(sourceDir, rel)
}

// existing returns p, or p with ".md" appended, if it is a file.
func (r *Resolver) existing(p string) (string, bool) {
	if vault.IsFile(r.fsys, p) {
		return p, true
	}
	if withExt := paths.WithMarkdownExt(p); withExt != p && vault.IsFile(r.fsys, withExt) {
		return withExt, true
	}
	return "", false
}

func (r *Resolver) found(p string, s Strategy, target model.Target) Resolution {
	r.logger.Debug("target resolved", "target", target.RawPath, "strategy", s, "path", p)
	return Resolution{Path: filepath.Clean(p), Strategy: s}
}
