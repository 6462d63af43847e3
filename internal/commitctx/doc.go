// Package commitctx assembles a size-bounded textual context describing the
// staged change-set, for prompt construction.
//
// The pipeline filters lock files and binary changes out of the candidate
// set, packs per-file patches under simultaneous line, byte, and estimated
// token budgets (largest changes first, deterministic order), renders an
// appendix listing everything that was left out and why, and selects
// historical commit-message exemplars scoped to the changed paths with a
// repository-wide fallback when history is thin.
//
// Each call takes a fresh snapshot through a [Source] and builds the payload
// from scratch; nothing is cached between invocations, so the same snapshot
// always produces a byte-identical [Payload].
package commitctx
