package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCodexModel is used when no model override is configured.
const DefaultCodexModel = "gpt-5.2-codex"

// CodexStatus reports what the Codex CLI backend has to work with.
type CodexStatus struct {
	CodexPath  string
	NpxPath    string
	AuthPath   string
	AuthExists bool
}

// Status probes the environment for the codex binary, npx, and the Codex
// auth file (CODEX_HOME aware).
func Status() CodexStatus {
	codexPath, _ := exec.LookPath("codex")
	npxPath, _ := exec.LookPath("npx")
	authPath := codexAuthPath()
	_, err := os.Stat(authPath)
	return CodexStatus{
		CodexPath:  codexPath,
		NpxPath:    npxPath,
		AuthPath:   authPath,
		AuthExists: err == nil,
	}
}

// Available reports whether the Codex backend can be selected implicitly:
// auth must exist and either the codex binary or npx must be on PATH.
func Available() bool {
	status := Status()
	if !status.AuthExists {
		return false
	}
	return status.CodexPath != "" || status.NpxPath != ""
}

func codexAuthPath() string {
	if home := os.Getenv("CODEX_HOME"); home != "" {
		return filepath.Join(home, "auth.json")
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".codex", "auth.json")
	}
	return filepath.Join(userHome, ".codex", "auth.json")
}

// Codex generates commit messages by running the Codex CLI in read-only
// sandbox mode with a JSON output schema.
type Codex struct {
	repoRoot string
	model    string
	apiKey   string
}

// NewCodex creates a Codex backend rooted at the repository. model falls
// back to [DefaultCodexModel] when empty.
func NewCodex(repoRoot, model, apiKey string) *Codex {
	if model == "" {
		model = DefaultCodexModel
	}
	return &Codex{repoRoot: repoRoot, model: model, apiKey: apiKey}
}

func (c *Codex) Name() string { return "codex" }

// messageSchema constrains codex exec output to a single JSON object with a
// message string.
const messageSchema = `{"type":"object","properties":{"message":{"type":"string"}},"required":["message"],"additionalProperties":false}`

// Generate runs `codex exec` (or npx when only auth is present) with the
// combined prompt on stdin and reads the schema-constrained output file.
func (c *Codex) Generate(ctx context.Context, req Request) (string, error) {
	status := Status()
	prefix, err := resolveCodexCommand(status)
	if err != nil {
		return "", err
	}

	schemaFile, err := os.CreateTemp("", "cmtr_schema_*.json")
	if err != nil {
		return "", fmt.Errorf("creating schema file: %w", err)
	}
	defer os.Remove(schemaFile.Name())
	if _, err := schemaFile.WriteString(messageSchema); err != nil {
		schemaFile.Close()
		return "", fmt.Errorf("writing schema file: %w", err)
	}
	schemaFile.Close()

	outputFile, err := os.CreateTemp("", "cmtr_codex_*")
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	outputFile.Close()
	defer os.Remove(outputFile.Name())

	args := append(prefix[1:],
		"exec",
		"--model", c.model,
		"--output-schema", schemaFile.Name(),
		"-o", outputFile.Name(),
		"--color", "never",
		"--sandbox", "read-only",
		"-C", c.repoRoot,
		"-",
	)
	cmd := exec.CommandContext(ctx, prefix[0], args...)
	cmd.Stdin = strings.NewReader(buildCodexPrompt(req))
	cmd.Env = codexEnv(status, c.apiKey)

	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("codex exec failed: %s", detail)
	}

	raw, err := os.ReadFile(outputFile.Name())
	if err != nil {
		return "", fmt.Errorf("reading codex output: %w", err)
	}
	message := extractCodexMessage(raw)
	if message == "" {
		return "", fmt.Errorf("codex output did not contain a commit message")
	}
	return message, nil
}

func resolveCodexCommand(status CodexStatus) ([]string, error) {
	if status.CodexPath != "" {
		return []string{status.CodexPath}, nil
	}
	if status.AuthExists && status.NpxPath != "" {
		return []string{status.NpxPath, "-y", "@openai/codex@latest"}, nil
	}
	if status.AuthExists {
		return nil, fmt.Errorf("codex CLI not found and npx is unavailable")
	}
	return nil, fmt.Errorf("codex CLI not found in PATH")
}

func codexEnv(status CodexStatus, apiKey string) []string {
	env := os.Environ()
	if apiKey != "" && !status.AuthExists && os.Getenv("CODEX_API_KEY") == "" {
		env = append(env, "CODEX_API_KEY="+apiKey)
	}
	if status.AuthExists && os.Getenv("CODEX_HOME") == "" {
		env = append(env, "CODEX_HOME="+filepath.Dir(status.AuthPath))
	}
	return env
}

// extractCodexMessage parses the schema-constrained output. Anything that is
// not a JSON object with a string message yields "".
func extractCodexMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func buildCodexPrompt(req Request) string {
	parts := []string{
		strings.TrimSpace(req.System),
		"Use ONLY the context below. Do not run any commands. Do not infer additional changes.",
		"Context:",
		strings.TrimSpace(req.User),
		`Output ONLY JSON with key "message".`,
	}
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n")
}
