// Package vault provides filesystem access for a documentation vault:
// reading files, checking existence, resolving symlinks, and indexing
// filenames across a directory scope.
package vault

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem surface the parser and validator depend on.
type FS interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	EvalSymlinks(path string) (string, error)
}

// OSFS implements FS on the local filesystem.
type OSFS struct{}

// ReadFile reads the named file.
func (OSFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// Stat follows symlinks.
func (OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// EvalSymlinks returns the path with all symlinks resolved.
func (OSFS) EvalSymlinks(path string) (string, error) { return filepath.EvalSymlinks(path) }

// IsFile reports whether path exists and is a regular file (after
// following symlinks).
func IsFile(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsMarkdown reports whether the path has a markdown extension.
func IsMarkdown(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return true
	}
	return false
}
