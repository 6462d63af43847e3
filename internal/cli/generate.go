package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shayne/cmtr/internal/config"
	"github.com/shayne/cmtr/internal/core"
	"github.com/shayne/cmtr/internal/gitctx"
	"github.com/shayne/cmtr/internal/ui"
)

// forbiddenCommitArgs are git commit flags that would supply their own
// message and fight the generated one.
var forbiddenCommitArgs = map[string]string{
	"-m":               "--message",
	"--message":        "--message",
	"-F":               "--file",
	"--file":           "--file",
	"-C":               "--reuse-message",
	"--reuse-message":  "--reuse-message",
	"-c":               "--reedit-message",
	"--reedit-message": "--reedit-message",
}

func checkCommitArgs(args []string) error {
	for _, arg := range args {
		name := arg
		if idx := strings.IndexByte(arg, '='); idx > 0 {
			name = arg[:idx]
		}
		if _, ok := forbiddenCommitArgs[name]; ok {
			return fmt.Errorf("%s conflicts with the generated message; drop it or run git commit directly", name)
		}
	}
	return nil
}

// overridesFromFlags converts changed root flags into config overrides.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	flags := cmd.Flags()
	if flags.Changed("model") {
		ov.Model = &flagModel
	}
	if flags.Changed("max-diff-bytes") {
		ov.MaxDiffBytes = &flagMaxDiffBytes
	}
	if flags.Changed("max-patch-lines") {
		ov.MaxPatchLines = &flagMaxPatchLines
	}
	if flags.Changed("max-log-entries") {
		ov.MaxLogEntries = &flagMaxLogEntries
	}
	if flags.Changed("max-log-paths") {
		ov.MaxLogPaths = &flagMaxLogPaths
	}
	if flags.Changed("max-log-body-lines") {
		ov.MaxLogBodyLines = &flagMaxLogBodyLines
	}
	if flags.Changed("timeout") {
		ov.TimeoutSeconds = &flagTimeout
	}
	if flags.Changed("reasoning-effort") {
		ov.ReasoningEffort = &flagReasoningEffort
	}
	if flags.Changed("text-verbosity") {
		ov.TextVerbosity = &flagTextVerbosity
	}
	if flags.Changed("base-url") {
		ov.BaseURL = &flagBaseURL
	}
	if flags.Changed("organization") {
		ov.Organization = &flagOrganization
	}
	if flags.Changed("prefer-codex") {
		ov.PreferCodex = &flagPreferCodex
	}
	return ov
}

// loadForRepo resolves the repo root and loads the merged config for it.
func loadForRepo(cmd *cobra.Command) (*gitctx.Repo, config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("getting working directory: %w", err)
	}
	root, err := gitctx.ResolveRoot(cmd.Context(), cwd)
	if err != nil {
		return nil, config.Config{}, core.Userf("not a git repository (run cmtr inside one)")
	}
	cfg, err := config.Load(root, overridesFromFlags(cmd))
	if err != nil {
		return nil, config.Config{}, err
	}
	return gitctx.New(root), cfg, nil
}

// generateMessage runs the full collect-prompt-generate flow for the repo.
func generateMessage(cmd *cobra.Command, console *ui.Console) (*core.Result, *gitctx.Repo, error) {
	repo, cfg, err := loadForRepo(cmd)
	if err != nil {
		return nil, nil, err
	}

	backend, err := core.SelectBackend(cfg, repo.Root())
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if cfg.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	console.Status("generating commit message with %s", backend.Name())
	defer console.Done()

	result, err := core.Generate(ctx, repo, cfg, backend)
	if err != nil {
		return nil, nil, err
	}

	if result.Payload.DiffWasFiltered || result.Payload.DiffWasTruncated {
		console.Dim("diff was reduced to fit the context budget")
	}
	return result, repo, nil
}

func runGenerate(cmd *cobra.Command, args []string) {
	console := ui.NewConsole()

	if err := checkCommitArgs(args); err != nil {
		console.Error("%v", err)
		exitCode = ExitUsageError
		return
	}

	result, repo, err := generateMessage(cmd, console)
	if err != nil {
		console.Error("%v", err)
		exitCode = ExitError
		return
	}

	if flagDryRun {
		console.Print("%s", result.Message)
		return
	}

	tmp, err := os.CreateTemp("", "cmtr-msg-*.txt")
	if err != nil {
		console.Error("creating message file: %v", err)
		exitCode = ExitError
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(result.Message + "\n"); err != nil {
		tmp.Close()
		console.Error("writing message file: %v", err)
		exitCode = ExitError
		return
	}
	tmp.Close()

	console.Done()
	code, err := repo.Commit(tmp.Name(), !flagNoEdit, args)
	if err != nil {
		console.Error("running git commit: %v", err)
		exitCode = ExitError
		return
	}
	exitCode = code
}
