package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/cite/internal/testutil"
	"github.com/aidanlsb/cite/internal/vault"
)

func TestLoadVaultConfig(t *testing.T) {
	t.Run("default config when file missing", func(t *testing.T) {
		cfg, err := LoadVaultConfig(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Scope != "" || cfg.FullFiles != nil || len(cfg.Exclude) != 0 {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("loads custom config", func(t *testing.T) {
		dir := t.TempDir()
		content := "scope: docs\nfull_files: true\nexclude:\n  - archive/**\nroot_markers: [.vault]\nsimilarity_threshold: 0.5\nmax_suggestions: 3\n"
		if err := os.WriteFile(filepath.Join(dir, VaultConfigFile), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadVaultConfig(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Scope != "docs" || cfg.FullFiles == nil || !*cfg.FullFiles {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "archive/**" {
			t.Errorf("exclude = %v", cfg.Exclude)
		}
		if len(cfg.RootMarkers) != 1 || cfg.RootMarkers[0] != ".vault" {
			t.Errorf("root_markers = %v", cfg.RootMarkers)
		}
		if cfg.SimilarityThreshold != 0.5 || cfg.MaxSuggestions != 3 {
			t.Errorf("unexpected suggestion settings: %+v", cfg)
		}
	})

	invalid := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "exclude: [", "failed to parse"},
		{"bad pattern", "exclude:\n  - \"archive/[\"\n", "invalid exclude pattern"},
		{"threshold out of range", "similarity_threshold: 2\n", "similarity_threshold"},
		{"negative suggestions", "max_suggestions: -1\n", "max_suggestions"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, VaultConfigFile), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			_, err := LoadVaultConfig(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile(VaultConfigFile, "scope: docs\nfull_files: false\nexclude: [\"tmp/**\"]\nmax_suggestions: 2\n").
		WithFile("docs/a.md", "").
		Build()

	global := &Config{DefaultScope: "/elsewhere", FullFiles: true, Concurrency: 3, LogLevel: "info"}

	t.Run("vault overrides global", func(t *testing.T) {
		s, err := Resolve(vault.OSFS{}, global, v.Abs("docs/a.md"), Overrides{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.VaultRoot != v.Path {
			t.Errorf("VaultRoot = %q, want %q", s.VaultRoot, v.Path)
		}
		if s.Scope != v.Abs("docs") {
			t.Errorf("Scope = %q, want %q", s.Scope, v.Abs("docs"))
		}
		if s.FullFiles {
			t.Error("vault full_files: false should override global true")
		}
		if s.Concurrency != 3 || s.LogLevel != "info" {
			t.Errorf("global values lost: %+v", s)
		}
		if s.MaxSuggestions != 2 || len(s.Exclude) != 1 {
			t.Errorf("vault values lost: %+v", s)
		}
	})

	t.Run("flags override vault", func(t *testing.T) {
		scope, full, conc := "/flag/scope", true, 1
		s, err := Resolve(vault.OSFS{}, global, v.Abs("docs/a.md"), Overrides{
			Scope:       &scope,
			FullFiles:   &full,
			Concurrency: &conc,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Scope != scope || !s.FullFiles || s.Concurrency != 1 {
			t.Errorf("flags not applied: %+v", s)
		}
	})
}

func TestResolveOutsideVault(t *testing.T) {
	v := testutil.NewTestVault(t).WithFile("a.md", "").Build()

	s, err := Resolve(vault.OSFS{}, nil, v.Abs("a.md"), Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Scope != "" || s.FullFiles {
		t.Errorf("expected zero settings, got %+v", s)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{"~/notes", filepath.Join(home, "notes")},
		{"~", home},
		{"~other/notes", "~other/notes"},
		{"/abs", "/abs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
