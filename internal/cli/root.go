// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/config"
	"github.com/aidanlsb/cite/internal/ui"
)

var (
	// Global flags
	configPath   string
	verbose      bool
	logLevelFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                = &config.Config{}
	logger             = log.New(io.Discard)
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cite",
	Short: "Validate and extract citations in markdown vaults",
	Long: `cite checks the links in a markdown file against the files and anchors
they point to, and extracts the cited content into a deduplicated report.

Markdown links, wiki links ([[note#Heading]]) and block references (^id)
are all understood.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			resolvedConfigPath = config.ResolveConfigPath(configPath)
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(cmd.OutOrStdout(), ErrConfigInvalid, err, "Fix or remove "+resolvedConfigPath)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevelFlag
		}
		logger, err = newLogger(os.Stderr, verbose, level)
		if err != nil {
			return handleError(cmd.OutOrStdout(), ErrInvalidInput, err, "")
		}
		return nil
	},
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintln(os.Stderr, ui.Hint("Error:"), err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level: debug, info, warn, error")
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loaded *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.LoadPath(resolvedPath)
	}
	if err != nil {
		return nil, resolvedPath, err
	}
	return loaded, resolvedPath, nil
}
