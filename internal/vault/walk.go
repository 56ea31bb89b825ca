package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotDirectory is returned when a walk or index root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// WalkResult describes one file found during a walk.
type WalkResult struct {
	// Path is the file's path inside the walked tree.
	Path         string
	RelativePath string
	// RealPath is Path with symlinks resolved.
	RealPath   string
	ViaSymlink bool
	Error      error
}

// WalkOptions controls which files a walk visits.
type WalkOptions struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root, e.g. "archive/**" or "**/drafts/*.md".
	Exclude []string

	// MarkdownOnly restricts the walk to .md/.markdown files.
	MarkdownOnly bool
}

func (o WalkOptions) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range o.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidateExcludePatterns reports the first malformed pattern.
func ValidateExcludePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// skipDir reports whether a directory is never part of a vault scan.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// WalkFiles walks root and calls handler for each regular file. It:
// - skips hidden directories (.git, .obsidian, .trash, ...)
// - follows symlinked files and directories, visiting each real directory once
// - reports unreadable entries through WalkResult.Error instead of aborting
func WalkFiles(root string, opts WalkOptions, handler func(result WalkResult) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}

	w := &walker{
		root:    root,
		opts:    opts,
		handler: handler,
		visited: map[string]struct{}{realRoot: {}},
	}
	err = w.walk(realRoot, root, false)
	if errors.Is(err, filepath.SkipAll) {
		return nil
	}
	return err
}

type walker struct {
	root    string
	opts    WalkOptions
	handler func(WalkResult) error
	visited map[string]struct{}
}

// walk traverses realDir, reporting paths as if they lived under shownDir.
// realDir is always symlink-free, so paths under it are real paths.
func (w *walker) walk(realDir, shownDir string, viaSymlink bool) error {
	return filepath.WalkDir(realDir, func(realPath string, d fs.DirEntry, err error) error {
		inner, _ := filepath.Rel(realDir, realPath)
		path := filepath.Join(shownDir, inner)
		relativePath, _ := filepath.Rel(w.root, path)
		if err != nil {
			return w.handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
		}

		if d.IsDir() {
			if realPath != realDir && (skipDir(d.Name()) || w.opts.excluded(relativePath)) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.opts.excluded(relativePath) {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return w.followLink(realPath, path, relativePath)
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if w.opts.MarkdownOnly && !IsMarkdown(path) {
			return nil
		}

		return w.handler(WalkResult{
			Path:         path,
			RelativePath: relativePath,
			RealPath:     realPath,
			ViaSymlink:   viaSymlink,
		})
	})
}

func (w *walker) followLink(linkPath, path, relativePath string) error {
	realPath, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		// Dangling links are reported, not fatal.
		return w.handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
	}
	info, err := os.Stat(realPath)
	if err != nil {
		return w.handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
	}

	if info.IsDir() {
		if skipDir(filepath.Base(path)) {
			return nil
		}
		if _, seen := w.visited[realPath]; seen {
			return nil
		}
		w.visited[realPath] = struct{}{}
		return w.walk(realPath, path, true)
	}

	if !info.Mode().IsRegular() {
		return nil
	}
	if w.opts.MarkdownOnly && !IsMarkdown(path) {
		return nil
	}
	return w.handler(WalkResult{
		Path:         path,
		RelativePath: relativePath,
		RealPath:     realPath,
		ViaSymlink:   true,
	})
}
