package commitctx

import (
	"context"
	"slices"
	"strings"

	"github.com/shayne/cmtr/internal/gitctx"
)

// tokenChars is the rough bytes-per-token ratio used for estimation. The
// estimate is an approximation, never a failure mode.
const tokenChars = 4

// minPerFileLineLimit floors the large-diff pre-filter so a modest
// maxPatchLines setting cannot exclude every file.
const minPerFileLineLimit = 200

// estimateTokens approximates the token count of text as ceil(bytes/4).
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + tokenChars - 1) / tokenChars
}

// tokenBudget derives the token cap from the byte cap; <= 0 disables it.
func tokenBudget(maxDiffBytes int) int {
	if maxDiffBytes <= 0 {
		return 0
	}
	return (maxDiffBytes + tokenChars - 1) / tokenChars
}

// budgetState tracks accepted patch sizes across one packing run. Counters
// only grow; a rejected patch leaves them untouched.
type budgetState struct {
	usedLines  int
	usedBytes  int
	usedTokens int
}

func (s *budgetState) wouldExceed(lines, bytes, tokens int, budgets Budgets) bool {
	if budgets.MaxPatchLines > 0 && s.usedLines+lines > budgets.MaxPatchLines {
		return true
	}
	if budgets.MaxDiffBytes > 0 && s.usedBytes+bytes > budgets.MaxDiffBytes {
		return true
	}
	if limit := tokenBudget(budgets.MaxDiffBytes); limit > 0 && s.usedTokens+tokens > limit {
		return true
	}
	return false
}

func (s *budgetState) accept(lines, bytes, tokens int) {
	s.usedLines += lines
	s.usedBytes += bytes
	s.usedTokens += tokens
}

// diffResult is the allocator output.
type diffResult struct {
	Text      string
	Filtered  bool
	Truncated bool
}

// buildDiff produces diff text fitting all three caps, preferring the files
// with the most changed lines. Files can be dropped by the lock-file/binary
// filter, the large-diff pre-filter, or the incremental budget; every drop
// is recorded and reported in the rendered appendix.
func buildDiff(ctx context.Context, src Source, budgets Budgets) (diffResult, error) {
	entries, err := src.NumStats(ctx)
	if err != nil {
		return diffResult{}, err
	}
	if len(entries) == 0 {
		// No numeric stat data at all; fall back to the raw patch with the
		// truncation pass as the only clamp.
		raw, err := src.Patch(ctx)
		if err != nil {
			return diffResult{}, err
		}
		text, truncated := Truncate(raw, budgets.MaxPatchLines, budgets.MaxDiffBytes)
		return diffResult{Text: text, Truncated: truncated}, nil
	}

	var excluded []Exclusion
	var candidates []gitctx.NumStat
	for _, entry := range entries {
		switch {
		case isLockFile(entry.Path):
			excluded = append(excluded, Exclusion{Path: entry.Path, Reason: ReasonLockFile})
		case entry.IsBinary:
			excluded = append(excluded, Exclusion{Path: entry.Path, Reason: ReasonBinary})
		default:
			candidates = append(candidates, entry)
		}
	}

	totalChangedLines := 0
	for _, entry := range candidates {
		totalChangedLines += entry.ChangedLines()
	}
	largeDiff := budgets.MaxPatchLines > 0 && totalChangedLines > budgets.MaxPatchLines

	perFileLineLimit := minPerFileLineLimit
	if budgets.MaxPatchLines > 0 {
		perFileLineLimit = max(minPerFileLineLimit, budgets.MaxPatchLines/2)
	}
	if largeDiff {
		// Drop outlier files before packing so one huge file cannot consume
		// the whole budget. This gate is independent of the incremental
		// check below; a survivor can still be rejected there.
		kept := candidates[:0]
		for _, entry := range candidates {
			if changed := entry.ChangedLines(); changed >= perFileLineLimit {
				excluded = append(excluded, Exclusion{
					Path:         entry.Path,
					Reason:       ReasonLargeDiff,
					ChangedLines: changed,
				})
				continue
			}
			kept = append(kept, entry)
		}
		candidates = kept
	}

	// Largest change first; path breaks ties so packing is reproducible.
	slices.SortStableFunc(candidates, func(a, b gitctx.NumStat) int {
		if d := b.ChangedLines() - a.ChangedLines(); d != 0 {
			return d
		}
		return strings.Compare(a.Path, b.Path)
	})

	var chunks []string
	var state budgetState
	for _, entry := range candidates {
		patch, err := src.Patch(ctx, entry.Path)
		if err != nil {
			return diffResult{}, err
		}
		patch = strings.TrimRight(patch, "\n")
		if strings.TrimSpace(patch) == "" {
			// A no-op patch: not excluded, not counted.
			continue
		}
		patchLines := len(strings.Split(patch, "\n"))
		patchBytes := len(patch)
		patchTokens := estimateTokens(patch)
		if state.wouldExceed(patchLines, patchBytes, patchTokens, budgets) {
			// Keep scanning: a smaller later file may still fit.
			excluded = append(excluded, Exclusion{
				Path:         entry.Path,
				Reason:       ReasonBudget,
				ChangedLines: entry.ChangedLines(),
			})
			continue
		}
		chunks = append(chunks, patch)
		state.accept(patchLines, patchBytes, patchTokens)
	}

	text := strings.TrimSpace(strings.Join(chunks, "\n\n"))
	if len(excluded) > 0 {
		report := renderExclusionReport(excluded)
		if text != "" {
			text = text + "\n\n" + report
		} else {
			text = report
		}
	}
	// Last-resort clamp: the report itself may push past the raw caps.
	text, truncated := Truncate(text, budgets.MaxPatchLines, budgets.MaxDiffBytes)
	return diffResult{
		Text:      text,
		Filtered:  len(excluded) > 0,
		Truncated: truncated,
	}, nil
}
