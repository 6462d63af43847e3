package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shayne/cmtr/internal/commitctx"
	"github.com/shayne/cmtr/internal/config"
	"github.com/shayne/cmtr/internal/prompt"
	"github.com/shayne/cmtr/internal/providers"
)

// UserError marks a condition the user can correct themselves: nothing
// staged, missing credentials, bad arguments.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

// Userf builds a UserError from a format string.
func Userf(format string, args ...any) *UserError {
	return &UserError{msg: fmt.Sprintf(format, args...)}
}

// IsUserError reports whether err is user-correctable.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// BackendError wraps a generation backend failure.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// apiKey reads the OpenAI credential from the environment. The .env overlay
// has already run by the time this is called.
func apiKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// codexModel picks the model for the Codex backend. The chat-model default
// does not exist on Codex, so it maps to the Codex default; an explicit
// model choice is honored as-is.
func codexModel(cfg config.Config) string {
	if cfg.Model == "" || cfg.Model == config.Default().Model {
		return providers.DefaultCodexModel
	}
	return cfg.Model
}

// SelectBackend picks the generation backend for the merged config.
// prefer_codex forces Codex and fails when it is unusable; otherwise an API
// key selects the OpenAI API, with Codex as the keyless fallback.
func SelectBackend(cfg config.Config, repoRoot string) (providers.Generator, error) {
	key := apiKey()

	if cfg.PreferCodex {
		status := providers.Status()
		if status.CodexPath == "" && status.NpxPath == "" {
			return nil, Userf("prefer_codex is set but the Codex CLI is not installed: install codex (npm install -g @openai/codex)")
		}
		if !status.AuthExists {
			return nil, Userf("prefer_codex is set but Codex auth was not found at %s: run `codex login`", status.AuthPath)
		}
		return newCodex(cfg, repoRoot, key), nil
	}
	if key != "" {
		return newOpenAI(cfg, key), nil
	}
	if providers.Available() {
		return newCodex(cfg, repoRoot, key), nil
	}
	return nil, Userf("no backend available: set OPENAI_API_KEY or install and log in to the Codex CLI")
}

func newOpenAI(cfg config.Config, key string) *providers.OpenAI {
	opts := []providers.OpenAIOption{
		providers.WithTimeout(cfg.Timeout()),
		providers.WithReasoningEffort(cfg.ReasoningEffort),
		providers.WithVerbosity(cfg.TextVerbosity),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, providers.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, providers.WithOrganization(cfg.Organization))
	}
	return providers.NewOpenAI(key, cfg.Model, opts...)
}

func newCodex(cfg config.Config, repoRoot, key string) *providers.Codex {
	return providers.NewCodex(repoRoot, codexModel(cfg), key)
}

// AuthMode describes which backend a run would use and why, for
// `cmtr auth status`.
type AuthMode struct {
	Backend string
	Detail  string
}

// DescribeAuthMode reports the backend SelectBackend would choose without
// constructing it.
func DescribeAuthMode(cfg config.Config) AuthMode {
	key := apiKey()
	status := providers.Status()

	if cfg.PreferCodex {
		if status.CodexPath == "" && status.NpxPath == "" {
			return AuthMode{Backend: "none", Detail: "prefer_codex is set but the Codex CLI is not installed"}
		}
		if !status.AuthExists {
			return AuthMode{Backend: "none", Detail: "prefer_codex is set but the Codex CLI is not logged in"}
		}
		return AuthMode{Backend: "codex", Detail: "prefer_codex is set"}
	}
	if key != "" {
		return AuthMode{Backend: "openai", Detail: "OPENAI_API_KEY is set"}
	}
	if status.CodexPath != "" && status.AuthExists {
		return AuthMode{Backend: "codex", Detail: "no API key; Codex CLI is installed and logged in"}
	}
	if status.NpxPath != "" && status.AuthExists {
		return AuthMode{Backend: "codex", Detail: "no API key; Codex CLI will run through npx"}
	}
	return AuthMode{Backend: "none", Detail: "no OPENAI_API_KEY and no usable Codex CLI"}
}

// Result is one finished generation.
type Result struct {
	Message string
	Payload *commitctx.Payload
	Backend string
}

// Generate collects the staged context, builds the prompt, and asks the
// backend for a commit message.
func Generate(ctx context.Context, src commitctx.Source, cfg config.Config, backend providers.Generator) (*Result, error) {
	budgets := commitctx.Budgets{
		MaxDiffBytes:  cfg.MaxDiffBytes,
		MaxPatchLines: cfg.MaxPatchLines,
		MaxLogEntries: cfg.MaxLogEntries,
		MaxLogPaths:   cfg.MaxLogPaths,
	}
	payload, err := commitctx.Collect(ctx, src, budgets)
	if err != nil {
		if errors.Is(err, commitctx.ErrNothingStaged) {
			return nil, Userf("%s", err.Error())
		}
		return nil, fmt.Errorf("collecting staged context: %w", err)
	}

	req := providers.Request{
		System: prompt.System(),
		User: prompt.User(prompt.Context{
			Payload:         payload,
			MaxLogBodyLines: cfg.MaxLogBodyLines,
		}),
	}

	message, err := backend.Generate(ctx, req)
	if err != nil {
		return nil, &BackendError{Backend: backend.Name(), Err: err}
	}
	if message == "" {
		return nil, &BackendError{Backend: backend.Name(), Err: errors.New("empty message returned")}
	}

	return &Result{Message: message, Payload: payload, Backend: backend.Name()}, nil
}
