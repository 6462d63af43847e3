// Package hook manages the git prepare-commit-msg hook: installing and
// removing the marker-delimited cmtr section, and the file edits the hook
// performs when it runs.
package hook
