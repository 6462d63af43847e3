// Package cli defines the cmtr command tree: the root generation flow,
// hook management, the hidden prepare-commit-msg entry point, config
// management, and auth inspection.
package cli
