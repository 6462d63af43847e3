package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shayne/cmtr/internal/gitctx"
	"github.com/shayne/cmtr/internal/hook"
	"github.com/shayne/cmtr/internal/ui"
)

var hookForce bool

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git prepare-commit-msg hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install cmtr as a prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := resolveRepo(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}
		hooksDir, err := repo.HooksDir(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		refreshed := hook.Installed(hooksDir)
		hookPath, err := hook.Install(hooksDir, hookForce)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		if refreshed {
			fmt.Fprintf(os.Stdout, "Refreshed cmtr prepare-commit-msg hook at %s\n", hookPath)
		} else {
			fmt.Fprintf(os.Stdout, "Installed cmtr prepare-commit-msg hook at %s\n", hookPath)
		}
		for _, entry := range repo.HooksPathEntries(cmd.Context()) {
			fmt.Fprintf(os.Stdout, "Note: core.hooksPath = %s (%s) redirects hooks there.\n", entry.Path, entry.Origin)
		}
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the cmtr prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := resolveRepo(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}
		hooksDir, err := repo.HooksDir(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}

		removed, err := hook.Uninstall(hooksDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitError
			return nil
		}
		if !removed {
			fmt.Fprintln(os.Stdout, "No cmtr prepare-commit-msg hook found.")
			return nil
		}

		fmt.Fprintln(os.Stdout, "Removed cmtr prepare-commit-msg hook.")
		return nil
	},
}

func resolveRepo(cmd *cobra.Command) (*gitctx.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := gitctx.ResolveRoot(cmd.Context(), cwd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository")
	}
	return gitctx.New(root), nil
}

// prepareCommitMsgCmd is the hook entry point. Whatever goes wrong, it
// appends a comment to the message file and exits 0 so the commit is never
// blocked.
var prepareCommitMsgCmd = &cobra.Command{
	Use:    "prepare-commit-msg <message-file> [source] [sha]",
	Hidden: true,
	Args:   cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		messageFile := args[0]
		var source string
		if len(args) > 1 {
			source = args[1]
		}
		if !hook.ShouldGenerate(source) {
			return nil
		}

		var out, errOut nullWriter
		console := ui.NewTestConsole(out, errOut)
		result, _, err := generateMessage(cmd, console)
		if err != nil {
			if appendErr := hook.AppendFailureComment(messageFile, err.Error()); appendErr != nil {
				fmt.Fprintf(os.Stderr, "cmtr: %v\n", appendErr)
			}
			return nil
		}

		if err := hook.WriteMessage(messageFile, result.Message); err != nil {
			fmt.Fprintf(os.Stderr, "cmtr: %v\n", err)
		}
		return nil
	},
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().BoolVar(&hookForce, "force", false, "Splice into an existing hook not managed by cmtr")
}
