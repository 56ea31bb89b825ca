package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `default_scope = "/notes"
full_files = true
concurrency = 4
log_level = "debug"

[ui]
accent = "39"
code_theme = "nord"
`)
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultScope != "/notes" || !cfg.FullFiles || cfg.Concurrency != 4 || cfg.LogLevel != "debug" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.UI.Accent != "39" || cfg.UI.CodeTheme != "nord" {
			t.Errorf("unexpected ui config: %+v", cfg.UI)
		}
	})

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid toml", "default_scope = ", "failed to parse"},
		{"unknown key", "vault = \"/x\"\n", "unknown keys"},
		{"negative concurrency", "concurrency = -1\n", "concurrency"},
		{"bad log level", "log_level = \"loud\"\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadPathMissingFile(t *testing.T) {
	cfg, err := LoadPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultScope != "" || cfg.FullFiles {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("/tmp/custom.toml"); got != "/tmp/custom.toml" {
		t.Errorf("explicit path ignored: %q", got)
	}
	if got := ResolveConfigPath("  "); got != DefaultPath() {
		t.Errorf("blank path = %q, want default %q", got, DefaultPath())
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cite", "config.toml")

	created, err := CreateDefault(path)
	if err != nil || !created {
		t.Fatalf("CreateDefault = %v, %v", created, err)
	}
	if _, err := LoadFrom(path); err != nil {
		t.Fatalf("default config does not load: %v", err)
	}

	created, err = CreateDefault(path)
	if err != nil || created {
		t.Errorf("second CreateDefault = %v, %v; want false, nil", created, err)
	}
}
