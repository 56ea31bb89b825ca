package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/cite/internal/vault"
)

// VaultConfigFile is the vault-level config file name. Its presence also
// marks the vault root.
const VaultConfigFile = "cite.yaml"

// VaultConfig represents vault-level configuration from cite.yaml.
type VaultConfig struct {
	// Scope is the filename-index directory, relative to the vault root.
	Scope string `yaml:"scope,omitempty"`

	// FullFiles overrides the global full_files setting when set.
	FullFiles *bool `yaml:"full_files,omitempty"`

	// Exclude holds doublestar patterns, relative to the scope directory,
	// that the filename index skips (e.g. "archive/**").
	Exclude []string `yaml:"exclude,omitempty"`

	// RootMarkers replace the default vault root markers.
	RootMarkers []string `yaml:"root_markers,omitempty"`

	// SimilarityThreshold is the minimum score (0-1] for an anchor to be
	// suggested when a link's anchor is missing.
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`

	// MaxSuggestions bounds the anchors suggested for a missing anchor.
	MaxSuggestions int `yaml:"max_suggestions,omitempty"`
}

// Validate checks patterns and ranges.
func (vc *VaultConfig) Validate() error {
	if err := vault.ValidateExcludePatterns(vc.Exclude); err != nil {
		return err
	}
	if vc.SimilarityThreshold < 0 || vc.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1, got %v", vc.SimilarityThreshold)
	}
	if vc.MaxSuggestions < 0 {
		return fmt.Errorf("max_suggestions must not be negative, got %d", vc.MaxSuggestions)
	}
	return nil
}

// DefaultVaultConfig returns the default vault configuration.
func DefaultVaultConfig() *VaultConfig {
	return &VaultConfig{}
}

// LoadVaultConfig loads vault configuration from cite.yaml.
// Returns default config if file doesn't exist.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	configPath := filepath.Join(vaultPath, VaultConfigFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultVaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault config %s: %w", configPath, err)
	}

	var config VaultConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse vault config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault config %s: %w", configPath, err)
	}
	return &config, nil
}
