package providers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Fix the bug", "Fix the bug"},
		{"surrounding whitespace", "  Fix the bug\n", "Fix the bug"},
		{"code fence", "```\nFix the bug\n```", "Fix the bug"},
		{"code fence with language", "```text\nFix the bug\n```", "Fix the bug"},
		{"double quotes", `"Fix the bug"`, "Fix the bug"},
		{"single quotes", "'Fix the bug'", "Fix the bug"},
		{"lone quote kept", `"`, `"`},
		{"multiline body survives", "Fix the bug\n\nLonger explanation.", "Fix the bug\n\nLonger explanation."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMessage(tt.in))
		})
	}
}

func TestExtractCodexMessage(t *testing.T) {
	assert.Equal(t, "Add feature", extractCodexMessage([]byte(`{"message":"Add feature"}`)))
	assert.Equal(t, "Add feature", extractCodexMessage([]byte(`{"message":"  Add feature\n"}`)))
	assert.Empty(t, extractCodexMessage([]byte(`not json`)))
	assert.Empty(t, extractCodexMessage([]byte(`{"other":"x"}`)))
	assert.Empty(t, extractCodexMessage([]byte(`{"message":""}`)))
}

func TestBuildCodexPrompt(t *testing.T) {
	got := buildCodexPrompt(Request{System: "SYS", User: "USER"})
	assert.True(t, strings.HasPrefix(got, "SYS\n"))
	assert.Contains(t, got, "Use ONLY the context below.")
	assert.Contains(t, got, "Context:\nUSER")
	assert.True(t, strings.HasSuffix(got, `Output ONLY JSON with key "message".`))
}

func TestResolveCodexCommand(t *testing.T) {
	cmd, err := resolveCodexCommand(CodexStatus{CodexPath: "/usr/bin/codex"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/codex"}, cmd)

	cmd, err = resolveCodexCommand(CodexStatus{NpxPath: "/usr/bin/npx", AuthExists: true})
	assert.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/npx", "-y", "@openai/codex@latest"}, cmd)

	_, err = resolveCodexCommand(CodexStatus{AuthExists: true})
	assert.ErrorContains(t, err, "npx is unavailable")

	_, err = resolveCodexCommand(CodexStatus{NpxPath: "/usr/bin/npx"})
	assert.ErrorContains(t, err, "not found in PATH")
}

func TestNewCodex_DefaultModel(t *testing.T) {
	c := NewCodex("/repo", "", "")
	assert.Equal(t, DefaultCodexModel, c.model)
	c = NewCodex("/repo", "custom", "")
	assert.Equal(t, "custom", c.model)
}
