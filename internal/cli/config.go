package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shayne/cmtr/internal/config"
	"github.com/shayne/cmtr/internal/gitctx"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cmtr configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GlobalPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		values := config.EffectiveValues(cfg)
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(os.Stdout, "%s: %v\n", key, values[key])
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one effective configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKnownKey(key) {
			fmt.Fprintf(os.Stderr, "Error: unknown config key: %s\n", key)
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		fmt.Fprintf(os.Stdout, "%v\n", config.EffectiveValues(cfg)[key])
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the global config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetGlobal(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a value from the global config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetGlobal(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Unset %s\n", args[0])
		return nil
	},
}

// loadEffectiveConfig merges config for the current repo, or without a repo
// overlay when run outside one.
func loadEffectiveConfig(cmd *cobra.Command) (config.Config, error) {
	repoRoot := ""
	if cwd, err := os.Getwd(); err == nil {
		if root, err := gitctx.ResolveRoot(cmd.Context(), cwd); err == nil {
			repoRoot = root
		}
	}
	return config.Load(repoRoot, config.Overrides{})
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
