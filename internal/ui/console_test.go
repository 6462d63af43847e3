package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusPlainLines(t *testing.T) {
	var out, errOut bytes.Buffer
	console := NewTestConsole(&out, &errOut)

	console.Status("collecting staged changes")
	console.Status("calling %s", "gpt-5.2")
	console.Done()

	assert.Equal(t, "collecting staged changes\ncalling gpt-5.2\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	console := NewTestConsole(&out, &errOut)

	console.Error("request timed out")

	assert.Contains(t, errOut.String(), "error: request timed out")
	assert.Empty(t, out.String())
}

func TestPrintGoesToStdout(t *testing.T) {
	var out, errOut bytes.Buffer
	console := NewTestConsole(&out, &errOut)

	console.Print("fix parser")
	console.Print("already newline\n")

	assert.Equal(t, "fix parser\nalready newline\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestDimGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	console := NewTestConsole(&out, &errOut)

	console.Dim("3 files excluded")

	assert.Equal(t, "3 files excluded\n", errOut.String())
	assert.Empty(t, out.String())
}
