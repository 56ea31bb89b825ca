package vault

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// IndexStats summarises a filename index build.
type IndexStats struct {
	Scope              string `json:"scope"`
	Files              int    `json:"files"`
	UniqueFilenames    int    `json:"unique_filenames"`
	DuplicateFilenames int    `json:"duplicate_filenames"`
	SymlinksResolved   int    `json:"symlinks_resolved"`
	Unreadable         int    `json:"unreadable"`
}

// MatchStatus is the outcome of a filename lookup.
type MatchStatus int

const (
	NotFound MatchStatus = iota
	Found
	Ambiguous
)

func (s MatchStatus) String() string {
	switch s {
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// FilenameMatch is the result of FilenameIndex.Resolve.
type FilenameMatch struct {
	Status MatchStatus
	// Path is set when Status is Found.
	Path string
	// Candidates is set when Status is Ambiguous, sorted.
	Candidates []string
}

// FilenameIndex maps bare filenames to absolute paths within a scope.
// It is built once and is read-only afterwards.
type FilenameIndex struct {
	byName map[string][]string
	stats  IndexStats
	logger *log.Logger
}

// IndexOption configures a FilenameIndex build.
type IndexOption func(*indexConfig)

type indexConfig struct {
	exclude []string
	logger  *log.Logger
}

// WithExclude skips files matching any doublestar pattern.
func WithExclude(patterns ...string) IndexOption {
	return func(c *indexConfig) { c.exclude = append(c.exclude, patterns...) }
}

// WithIndexLogger sets the logger used during the build.
func WithIndexLogger(logger *log.Logger) IndexOption {
	return func(c *indexConfig) { c.logger = logger }
}

// BuildFilenameIndex scans scopeDir once. Files reached through more than
// one path (symlinks) are counted once, under the first path seen.
func BuildFilenameIndex(scopeDir string, opts ...IndexOption) (*FilenameIndex, error) {
	cfg := indexConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&cfg)
	}

	absScope, err := filepath.Abs(scopeDir)
	if err != nil {
		return nil, err
	}

	idx := &FilenameIndex{
		byName: make(map[string][]string),
		stats:  IndexStats{Scope: absScope},
		logger: cfg.logger,
	}
	seenReal := make(map[string]struct{})

	err = WalkFiles(absScope, WalkOptions{Exclude: cfg.exclude}, func(r WalkResult) error {
		if r.Error != nil {
			idx.stats.Unreadable++
			cfg.logger.Debug("skipping unreadable entry", "path", r.Path, "err", r.Error)
			return nil
		}
		if r.ViaSymlink {
			idx.stats.SymlinksResolved++
		}
		if _, dup := seenReal[r.RealPath]; dup {
			return nil
		}
		seenReal[r.RealPath] = struct{}{}

		name := filepath.Base(r.Path)
		idx.byName[name] = append(idx.byName[name], r.Path)
		idx.stats.Files++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, paths := range idx.byName {
		sort.Strings(paths)
		if len(paths) > 1 {
			idx.stats.DuplicateFilenames++
		}
	}
	idx.stats.UniqueFilenames = len(idx.byName)

	cfg.logger.Debug("filename index built",
		"scope", absScope,
		"files", idx.stats.Files,
		"duplicates", idx.stats.DuplicateFilenames)

	return idx, nil
}

// Stats returns build statistics.
func (idx *FilenameIndex) Stats() IndexStats {
	return idx.stats
}

// Resolve looks up a filename. Any directory part of filename is ignored.
func (idx *FilenameIndex) Resolve(filename string) FilenameMatch {
	paths := idx.byName[filepath.Base(filename)]
	switch len(paths) {
	case 0:
		return FilenameMatch{Status: NotFound}
	case 1:
		return FilenameMatch{Status: Found, Path: paths[0]}
	default:
		return FilenameMatch{Status: Ambiguous, Candidates: append([]string(nil), paths...)}
	}
}

// Duplicates returns every filename that maps to more than one path.
func (idx *FilenameIndex) Duplicates() map[string][]string {
	out := make(map[string][]string)
	for name, paths := range idx.byName {
		if len(paths) > 1 {
			out[name] = append([]string(nil), paths...)
		}
	}
	return out
}
