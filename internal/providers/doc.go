// Package providers implements the generation backends behind the
// [Generator] interface: the OpenAI chat API and the Codex CLI.
package providers
