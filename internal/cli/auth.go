package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shayne/cmtr/internal/core"
	"github.com/shayne/cmtr/internal/providers"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect backend authentication",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which backend cmtr would use and why",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		status := providers.Status()
		fmt.Fprintf(os.Stdout, "OPENAI_API_KEY: %s\n", presence(os.Getenv("OPENAI_API_KEY") != ""))
		fmt.Fprintf(os.Stdout, "codex CLI: %s\n", pathOrMissing(status.CodexPath))
		fmt.Fprintf(os.Stdout, "npx: %s\n", pathOrMissing(status.NpxPath))
		fmt.Fprintf(os.Stdout, "codex auth file: %s (%s)\n", status.AuthPath, presence(status.AuthExists))
		fmt.Fprintf(os.Stdout, "prefer_codex: %v\n", cfg.PreferCodex)

		mode := core.DescribeAuthMode(cfg)
		fmt.Fprintf(os.Stdout, "selected backend: %s (%s)\n", mode.Backend, mode.Detail)
		if mode.Backend == "none" {
			exitCode = ExitError
		}
		return nil
	},
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "not found"
}

func pathOrMissing(path string) string {
	if path == "" {
		return "not found"
	}
	return path
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}
