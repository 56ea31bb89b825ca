// Package paths provides canonical helpers for link target paths:
// decoding what an author wrote into a filesystem path, locating the vault
// root, and rendering paths back in link form.
package paths

import (
	"path/filepath"
	"strings"

	"github.com/aidanlsb/cite/internal/slugs"
	"github.com/aidanlsb/cite/internal/vault"
)

// DefaultRootMarkers are the entries whose presence marks a vault root.
var DefaultRootMarkers = []string{"cite.yaml", ".obsidian", ".git"}

// DecodeLinkPath turns a link path as written into an OS path:
// - undoes percent-encoding ("my%20notes.md" -> "my notes.md")
// - converts '/' to the OS separator
// - trims a leading "./"
func DecodeLinkPath(raw string) string {
	p := slugs.DecodeID(raw)
	p = strings.TrimPrefix(p, "./")
	return filepath.FromSlash(p)
}

// WithMarkdownExt appends ".md" to paths that have no extension.
func WithMarkdownExt(p string) string {
	if filepath.Ext(p) == "" {
		return p + ".md"
	}
	return p
}

// ToLinkPath renders an OS path in the form used inside links: forward
// slashes, spaces percent-encoded.
func ToLinkPath(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), " ", "%20")
}

// RelativeLinkPath returns target relative to the directory of source, in
// link form.
func RelativeLinkPath(source, target string) string {
	rel, err := filepath.Rel(filepath.Dir(source), target)
	if err != nil {
		return ToLinkPath(target)
	}
	return ToLinkPath(rel)
}

// FindVaultRoot walks up from startDir and returns the first directory
// containing one of markers.
func FindVaultRoot(fsys vault.FS, startDir string, markers []string) (string, bool) {
	if len(markers) == 0 {
		markers = DefaultRootMarkers
	}
	dir := filepath.Clean(startDir)
	for {
		for _, m := range markers {
			if _, err := fsys.Stat(filepath.Join(dir, m)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Within reports whether path is root or inside it.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
