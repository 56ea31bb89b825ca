package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/cite/internal/paths"
	"github.com/aidanlsb/cite/internal/vault"
)

// Settings are the effective values for one command run.
type Settings struct {
	// VaultRoot is the detected vault root, or "" outside a vault.
	VaultRoot string

	Scope               string
	FullFiles           bool
	Concurrency         int
	LogLevel            string
	Exclude             []string
	RootMarkers         []string
	SimilarityThreshold float64
	MaxSuggestions      int
	UI                  UIConfig
}

// Overrides are values given on the command line. Nil fields were not set.
type Overrides struct {
	Scope       *string
	FullFiles   *bool
	Concurrency *int
	LogLevel    *string
}

// Resolve merges the layers for a command operating on sourcePath. The
// vault config is read from the nearest root above sourcePath.
func Resolve(fsys vault.FS, global *Config, sourcePath string, flags Overrides) (*Settings, error) {
	if global == nil {
		global = &Config{}
	}
	s := &Settings{
		Scope:       expandHome(global.DefaultScope),
		FullFiles:   global.FullFiles,
		Concurrency: global.Concurrency,
		LogLevel:    global.LogLevel,
		UI:          global.UI,
	}

	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, err
	}
	if root, ok := paths.FindVaultRoot(fsys, filepath.Dir(abs), paths.DefaultRootMarkers); ok {
		s.VaultRoot = root
		vc, err := LoadVaultConfig(root)
		if err != nil {
			return nil, err
		}
		s.applyVault(vc)
	}

	if flags.Scope != nil {
		s.Scope = *flags.Scope
	}
	if flags.FullFiles != nil {
		s.FullFiles = *flags.FullFiles
	}
	if flags.Concurrency != nil {
		s.Concurrency = *flags.Concurrency
	}
	if flags.LogLevel != nil {
		s.LogLevel = *flags.LogLevel
	}
	return s, nil
}

func (s *Settings) applyVault(vc *VaultConfig) {
	if vc.Scope != "" {
		scope := filepath.FromSlash(vc.Scope)
		if !filepath.IsAbs(scope) {
			scope = filepath.Join(s.VaultRoot, scope)
		}
		s.Scope = scope
	}
	if vc.FullFiles != nil {
		s.FullFiles = *vc.FullFiles
	}
	s.Exclude = vc.Exclude
	s.RootMarkers = vc.RootMarkers
	s.SimilarityThreshold = vc.SimilarityThreshold
	s.MaxSuggestions = vc.MaxSuggestions
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
