// Package gitctx queries the staged change-set of a git repository.
//
// It shells out to git for the staged file list, per-file numstat counts,
// patch text, --stat/--name-status summaries, and bounded commit-message
// history. Numstat output is parsed in -z form so renames and binary changes
// are reported structurally rather than re-derived from patch text.
//
// Every query takes a context for timeout and cancellation; a cancelled
// context aborts the in-flight git subprocess.
package gitctx
