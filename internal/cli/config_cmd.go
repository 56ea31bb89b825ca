package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/config"
	"github.com/aidanlsb/cite/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the global config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(cmd.OutOrStdout(), map[string]string{"path": resolvedConfigPath}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), resolvedConfigPath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		created, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(out, ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			outputSuccess(out, map[string]any{"path": resolvedConfigPath, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Fprintln(out, ui.Successf("Created %s", ui.FilePath(resolvedConfigPath)))
		} else {
			fmt.Fprintln(out, ui.Warningf("%s already exists", ui.FilePath(resolvedConfigPath)))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
