// Cmtr generates a commit message for the staged change-set and commits
// with it.
//
// It assembles a budgeted context from the staged diff and recent commit
// history, asks an OpenAI model (or the Codex CLI) for a message, and runs
// git commit with the result. It can also install itself as a
// prepare-commit-msg hook so every commit starts from a generated draft.
//
// Usage:
//
//	cmtr                      # generate, then git commit -v with the message
//	cmtr --dry-run            # print the generated message only
//	cmtr -- --amend           # pass extra arguments through to git commit
//	cmtr hook install         # install the prepare-commit-msg hook
//	cmtr config list          # show the effective configuration
//	cmtr auth status          # show which backend would be used
package main
