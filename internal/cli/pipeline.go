package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/cache"
	"github.com/aidanlsb/cite/internal/check"
	"github.com/aidanlsb/cite/internal/config"
	"github.com/aidanlsb/cite/internal/document"
	"github.com/aidanlsb/cite/internal/vault"
)

// pipeline is the parse cache and validator shared by one command run.
type pipeline struct {
	settings  *config.Settings
	cache     *cache.ParsedFileCache
	validator *check.Validator
}

func newPipeline(sourcePath string, flags config.Overrides) (*pipeline, error) {
	fsys := vault.OSFS{}
	settings, err := config.Resolve(fsys, cfg, sourcePath, flags)
	if err != nil {
		return nil, err
	}

	c := cache.New(fsys,
		cache.WithLogger(logger),
		cache.WithDocumentOptions(document.WithSimilarityThreshold(settings.SimilarityThreshold)))

	v := check.New(c, fsys, check.Options{
		Concurrency:    settings.Concurrency,
		MaxSuggestions: settings.MaxSuggestions,
		RootMarkers:    settings.RootMarkers,
		Exclude:        settings.Exclude,
		Logger:         logger,
	})

	logger.Debug("settings resolved",
		"vault", settings.VaultRoot,
		"scope", settings.Scope,
		"full_files", settings.FullFiles)

	return &pipeline{settings: settings, cache: c, validator: v}, nil
}

// overridesFrom collects the pipeline flags the user set on cmd.
func overridesFrom(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("scope") {
		if v, err := flags.GetString("scope"); err == nil {
			o.Scope = &v
		}
	}
	if flags.Lookup("full-files") != nil && flags.Changed("full-files") {
		if v, err := flags.GetBool("full-files"); err == nil {
			o.FullFiles = &v
		}
	}
	if flags.Changed("concurrency") {
		if v, err := flags.GetInt("concurrency"); err == nil {
			o.Concurrency = &v
		}
	}
	return o
}

// addPipelineFlags registers the flags read by overridesFrom.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scope", "s", "", "Directory searched by bare filename when a path does not resolve")
	cmd.Flags().Int("concurrency", check.DefaultConcurrency, "Maximum target files parsed at once")
}
