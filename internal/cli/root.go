package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes: success, generation or runtime failure, usage error.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitUsageError = 2
)

// Root flags
var (
	flagDryRun          bool
	flagNoEdit          bool
	flagVersion         bool
	flagModel           string
	flagMaxDiffBytes    int
	flagMaxPatchLines   int
	flagMaxLogEntries   int
	flagMaxLogPaths     int
	flagMaxLogBodyLines int
	flagTimeout         float64
	flagReasoningEffort string
	flagTextVerbosity   string
	flagBaseURL         string
	flagOrganization    string
	flagPreferCodex     bool
)

var rootCmd = &cobra.Command{
	Use:   "cmtr [-- git commit args]",
	Short: "Generate a commit message for staged changes",
	Long: "cmtr builds a budgeted context from the staged diff and recent commit\n" +
		"history, asks an OpenAI model for a commit message, and runs git commit\n" +
		"with the result. Arguments after -- are passed through to git commit.",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagVersion {
			fmt.Fprintf(os.Stdout, "cmtr version %s\n", version)
			return nil
		}
		runGenerate(cmd, args)
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&flagDryRun, "dry-run", false, "Print the generated message without committing")
	flags.BoolVar(&flagNoEdit, "no-edit", false, "Commit without opening the editor")
	flags.BoolVar(&flagVersion, "version", false, "Print cmtr version")
	flags.StringVar(&flagModel, "model", "", "Model name")
	flags.IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Maximum diff size in bytes (<=0 disables)")
	flags.IntVar(&flagMaxPatchLines, "max-patch-lines", 0, "Maximum diff size in lines (<=0 disables)")
	flags.IntVar(&flagMaxLogEntries, "max-log-entries", 0, "Maximum commit log entries per scope")
	flags.IntVar(&flagMaxLogPaths, "max-log-paths", 0, "Maximum changed paths considered for log context")
	flags.IntVar(&flagMaxLogBodyLines, "max-log-body-lines", 0, "Maximum body lines kept per log entry")
	flags.Float64Var(&flagTimeout, "timeout", 0, "Request timeout in seconds")
	flags.StringVar(&flagReasoningEffort, "reasoning-effort", "", "Reasoning effort (none, low, medium, high)")
	flags.StringVar(&flagTextVerbosity, "text-verbosity", "", "Response verbosity (low, medium, high)")
	flags.StringVar(&flagBaseURL, "base-url", "", "OpenAI-compatible API base URL")
	flags.StringVar(&flagOrganization, "organization", "", "OpenAI organization ID")
	flags.BoolVar(&flagPreferCodex, "prefer-codex", false, "Use the Codex CLI backend even when an API key is set")
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(prepareCommitMsgCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cmtr version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "cmtr version %s\n", version)
	},
}
