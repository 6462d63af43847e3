package commitctx

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/shayne/cmtr/internal/gitctx"
)

// RepositoryScope is the sentinel path of the repository-wide fallback scope.
const RepositoryScope = "repository"

// maxScopeEntries is a hard ceiling on exemplars per run regardless of
// configuration; more add no value and cost budget.
const maxScopeEntries = 10

// gatherLogScopes selects up to two scopes of commit-message exemplars for
// the changed paths: a primary path scope and, when it comes up short, a
// repository-wide backfill. Entries never repeat across scopes.
func gatherLogScopes(ctx context.Context, src Source, stagedFiles []string, budgets Budgets) []LogScope {
	if budgets.MaxLogPaths <= 0 || budgets.MaxLogEntries <= 0 {
		return nil
	}
	targetEntries := min(budgets.MaxLogEntries, maxScopeEntries)
	if targetEntries <= 0 || len(stagedFiles) == 0 {
		return nil
	}

	changed := changedLineMap(ctx, src, stagedFiles)
	primaryPath := selectLogPath(stagedFiles, changed)

	var scopes []LogScope
	seen := make(map[gitctx.CommitMessage]struct{})
	var primaryEntries []gitctx.CommitMessage
	if primaryPath != "" {
		primaryEntries = dedupeEntries(src.LogEntries(ctx, primaryPath, targetEntries), seen)
		if len(primaryEntries) > 0 {
			scopes = append(scopes, LogScope{Path: primaryPath, Entries: primaryEntries})
		}
	}
	if len(primaryEntries) < targetEntries {
		remaining := targetEntries - len(primaryEntries)
		repoEntries := dedupeEntries(src.LogEntries(ctx, "", budgets.MaxLogEntries), seen)
		if remaining < len(repoEntries) {
			repoEntries = repoEntries[:remaining]
		}
		if len(repoEntries) > 0 {
			scopes = append(scopes, LogScope{Path: RepositoryScope, Entries: repoEntries})
		}
	}
	return scopes
}

// changedLineMap totals added+deleted per staged path. This looks at all
// staged files, excluded or not: log relevance is about what changed, not
// what the diff text shows. A failing stat query yields an empty map.
func changedLineMap(ctx context.Context, src Source, stagedFiles []string) map[string]int {
	staged := make(map[string]struct{}, len(stagedFiles))
	for _, f := range stagedFiles {
		if f != "" {
			staged[f] = struct{}{}
		}
	}
	if len(staged) == 0 {
		return nil
	}
	entries, err := src.NumStats(ctx)
	if err != nil {
		return nil
	}
	changed := make(map[string]int)
	for _, entry := range entries {
		if _, ok := staged[entry.Path]; !ok {
			continue
		}
		changed[entry.Path] += entry.ChangedLines()
	}
	return changed
}

// selectLogPath picks the primary history scope: the longest common
// path-segment prefix of the staged files, or the best changed path when
// they share no ancestor.
func selectLogPath(stagedFiles []string, changed map[string]int) string {
	if shared := commonPrefix(stagedFiles); shared != "" {
		return shared
	}
	return bestChangedPath(stagedFiles, changed)
}

func splitSegments(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// commonPrefix returns the longest path-segment prefix shared by all paths,
// joined with "/". Empty when the paths diverge at the first segment.
func commonPrefix(paths []string) string {
	var partsList [][]string
	for _, p := range paths {
		if p != "" {
			partsList = append(partsList, splitSegments(p))
		}
	}
	if len(partsList) == 0 {
		return ""
	}
	minLen := len(partsList[0])
	for _, parts := range partsList[1:] {
		minLen = min(minLen, len(parts))
	}
	var prefix []string
	for i := 0; i < minLen; i++ {
		segment := partsList[0][i]
		matched := true
		for _, parts := range partsList[1:] {
			if parts[i] != segment {
				matched = false
				break
			}
		}
		if !matched {
			break
		}
		prefix = append(prefix, segment)
	}
	return strings.Join(prefix, "/")
}

// bestChangedPath groups changed-line totals by file (when top-level) or
// parent directory and returns the group with the highest total, preferring
// shallower paths and then lexicographic order on ties.
func bestChangedPath(stagedFiles []string, changed map[string]int) string {
	scores := make(map[string]int)
	for _, file := range stagedFiles {
		if file == "" {
			continue
		}
		key := file
		if dir := path.Dir(file); dir != "." {
			key = dir
		}
		scores[key] += changed[file]
	}
	if len(scores) == 0 {
		return ""
	}
	keys := make([]string, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if d := scores[b] - scores[a]; d != 0 {
			return d
		}
		if d := len(splitSegments(a)) - len(splitSegments(b)); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return keys[0]
}

// dedupeEntries filters entries already seen in this run and marks the rest.
// Identity is the full (subject, body) pair.
func dedupeEntries(entries []gitctx.CommitMessage, seen map[gitctx.CommitMessage]struct{}) []gitctx.CommitMessage {
	var unique []gitctx.CommitMessage
	for _, entry := range entries {
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
