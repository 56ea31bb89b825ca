// Package testutil provides reusable test utilities for building vaults on disk.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path     string
	t        *testing.T
	files    map[string]string
	symlinks map[string]string
	dirs     []string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:        t,
		files:    make(map[string]string),
		symlinks: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithDir adds an empty directory to the vault.
func (v *TestVault) WithDir(path string) *TestVault {
	v.dirs = append(v.dirs, path)
	return v
}

// WithSymlink adds a symlink at link pointing to target. Both are relative
// to the vault root; the link is created with a relative target so the
// vault can be moved.
func (v *TestVault) WithSymlink(link, target string) *TestVault {
	v.symlinks[link] = target
	return v
}

// WithRootMarker writes an empty cite.yaml so the directory is recognised
// as a vault root.
func (v *TestVault) WithRootMarker() *TestVault {
	v.files["cite.yaml"] = ""
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	// Resolve the temp dir so tests compare real paths on systems where
	// the temp root is itself a symlink.
	dir, err := filepath.EvalSymlinks(v.t.TempDir())
	if err != nil {
		v.t.Fatalf("failed to resolve temp dir: %v", err)
	}
	v.Path = dir

	for _, d := range v.dirs {
		if err := os.MkdirAll(filepath.Join(v.Path, d), 0755); err != nil {
			v.t.Fatalf("failed to create directory %s: %v", d, err)
		}
	}

	for path, content := range v.files {
		v.writeFile(path, content)
	}

	links := make([]string, 0, len(v.symlinks))
	for link := range v.symlinks {
		links = append(links, link)
	}
	sort.Strings(links)
	for _, link := range links {
		v.symlink(link, v.symlinks[link])
	}

	return v
}

// Abs returns the absolute path of a vault-relative path.
func (v *TestVault) Abs(relPath string) string {
	return filepath.Join(v.Path, relPath)
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

func (v *TestVault) symlink(link, target string) {
	v.t.Helper()
	linkPath := filepath.Join(v.Path, link)
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		v.t.Fatalf("failed to create directory for %s: %v", link, err)
	}
	rel, err := filepath.Rel(filepath.Dir(linkPath), filepath.Join(v.Path, target))
	if err != nil {
		v.t.Fatalf("failed to compute symlink target for %s: %v", link, err)
	}
	if err := os.Symlink(rel, linkPath); err != nil {
		v.t.Skipf("symlinks not supported: %v", err)
	}
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}
