package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	markerStart = "# >>> cmtr prepare-commit-msg hook >>>"
	markerEnd   = "# <<< cmtr prepare-commit-msg hook <<<"

	// HookName is the git hook cmtr installs into.
	HookName = "prepare-commit-msg"
)

// Script returns the managed hook section, markers included.
func Script() string {
	var b strings.Builder
	b.WriteString(markerStart + "\n")
	b.WriteString(`cmtr prepare-commit-msg "$1" "$2" "$3"` + "\n")
	b.WriteString(markerEnd + "\n")
	return b.String()
}

// ErrForeignHook is returned by [Install] when a hook not managed by cmtr
// already exists and force was not given.
var ErrForeignHook = fmt.Errorf("an existing %s hook was found; re-run with --force to splice the cmtr section into it", HookName)

// Install writes or updates the cmtr section of the prepare-commit-msg hook
// under hooksDir. An existing cmtr section is replaced in place. A hook
// written by something else is only touched when force is set, and then its
// content is preserved around the cmtr section.
func Install(hooksDir string, force bool) (string, error) {
	hookPath := filepath.Join(hooksDir, HookName)
	section := Script()

	existing, err := os.ReadFile(hookPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading hook file: %w", err)
	}

	var content string
	if os.IsNotExist(err) || len(existing) == 0 {
		content = "#!/bin/sh\n" + section
	} else {
		if !strings.Contains(string(existing), markerStart) && !force {
			return "", ErrForeignHook
		}
		content = replaceSection(string(existing), section)
	}

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("writing hook file: %w", err)
	}
	return hookPath, nil
}

// Uninstall removes the cmtr section from the hook under hooksDir. When only
// a shebang remains afterwards the hook file is deleted. It reports whether
// anything was removed.
func Uninstall(hooksDir string) (bool, error) {
	hookPath := filepath.Join(hooksDir, HookName)

	existing, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading hook file: %w", err)
	}
	if !strings.Contains(string(existing), markerStart) {
		return false, nil
	}

	content := removeSection(string(existing))
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
		if err := os.Remove(hookPath); err != nil {
			return false, fmt.Errorf("removing hook file: %w", err)
		}
		return true, nil
	}

	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return false, fmt.Errorf("writing hook file: %w", err)
	}
	return true, nil
}

// Installed reports whether the hook under hooksDir carries a cmtr section.
func Installed(hooksDir string) bool {
	data, err := os.ReadFile(filepath.Join(hooksDir, HookName))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), markerStart)
}

func replaceSection(existing, section string) string {
	startIdx := strings.Index(existing, markerStart)
	endIdx := strings.Index(existing, markerEnd)

	if startIdx == -1 || endIdx == -1 {
		// No existing cmtr section, append
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(markerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeSection(existing string) string {
	startIdx := strings.Index(existing, markerStart)
	endIdx := strings.Index(existing, markerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(markerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + after
}

// ShouldGenerate reports whether a prepare-commit-msg invocation with the
// given commit source should run generation. Git passes "message" for -m/-F,
// "merge", "squash", or "commit" for amend/reuse; all of those already carry
// a message.
func ShouldGenerate(source string) bool {
	switch source {
	case "message", "merge", "squash", "commit":
		return false
	}
	return true
}

// AppendFailureComment appends a comment line describing a generation failure
// to the commit message file so the user sees why no message was proposed.
func AppendFailureComment(messageFile, reason string) error {
	f, err := os.OpenFile(messageFile, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening commit message file: %w", err)
	}
	defer f.Close()

	reason = strings.ReplaceAll(reason, "\n", " ")
	if _, err := fmt.Fprintf(f, "\n# cmtr: %s\n", reason); err != nil {
		return fmt.Errorf("writing commit message file: %w", err)
	}
	return nil
}

// WriteMessage replaces the contents of the commit message file with the
// generated message, keeping the existing commented template below it.
func WriteMessage(messageFile, message string) error {
	existing, err := os.ReadFile(messageFile)
	if err != nil {
		return fmt.Errorf("reading commit message file: %w", err)
	}
	content := strings.TrimRight(message, "\n") + "\n"
	if len(existing) > 0 {
		content += string(existing)
	}
	if err := os.WriteFile(messageFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing commit message file: %w", err)
	}
	return nil
}
