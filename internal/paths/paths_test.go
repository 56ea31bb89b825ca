package paths

import (
	"path/filepath"
	"testing"

	"github.com/aidanlsb/cite/internal/testutil"
	"github.com/aidanlsb/cite/internal/vault"
)

func TestDecodeLinkPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.md", "a.md"},
		{"./a.md", "a.md"},
		{"my%20notes/a.md", filepath.FromSlash("my notes/a.md")},
		{"bad%zzescape.md", "bad%zzescape.md"},
		{"../up.md", filepath.FromSlash("../up.md")},
	}
	for _, tc := range tests {
		if got := DecodeLinkPath(tc.in); got != tc.want {
			t.Fatalf("DecodeLinkPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithMarkdownExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"specs/auth", "specs/auth.md"},
		{"specs/auth.md", "specs/auth.md"},
		{"img.png", "img.png"},
	}
	for _, tc := range tests {
		if got := WithMarkdownExt(tc.in); got != tc.want {
			t.Fatalf("WithMarkdownExt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRelativeLinkPath(t *testing.T) {
	source := filepath.FromSlash("/vault/docs/guide/intro.md")
	target := filepath.FromSlash("/vault/docs/my specs/auth.md")
	if got, want := RelativeLinkPath(source, target), "../my%20specs/auth.md"; got != want {
		t.Fatalf("RelativeLinkPath = %q, want %q", got, want)
	}
}

func TestFindVaultRoot(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithRootMarker().
		WithFile("docs/deep/a.md", "# A\n").
		Build()

	root, ok := FindVaultRoot(vault.OSFS{}, v.Abs("docs/deep"), nil)
	if !ok || root != v.Path {
		t.Fatalf("FindVaultRoot = %q, %v; want %q", root, ok, v.Path)
	}

	if _, ok := FindVaultRoot(vault.OSFS{}, v.Abs("docs/deep"), []string{"no-such-marker-file"}); ok {
		t.Fatal("expected no root with an unknown marker")
	}
}

func TestWithin(t *testing.T) {
	root := filepath.FromSlash("/vault")
	tests := []struct {
		path string
		want bool
	}{
		{"/vault", true},
		{"/vault/a.md", true},
		{"/vault/sub/b.md", true},
		{"/vaulted/c.md", false},
		{"/other/d.md", false},
		{"/vault/..foo/e.md", true},
	}
	for _, tc := range tests {
		if got := Within(root, filepath.FromSlash(tc.path)); got != tc.want {
			t.Errorf("Within(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
