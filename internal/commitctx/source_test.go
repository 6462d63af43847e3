package commitctx

import (
	"context"
	"strings"

	"github.com/shayne/cmtr/internal/gitctx"
)

// fakeSource is a fixed snapshot of version-control responses.
type fakeSource struct {
	staged     []string
	nameStatus string
	diffStat   string
	numStats   []gitctx.NumStat
	numStatErr error
	patches    map[string]string // "" holds the full staged patch
	logs       map[string][]gitctx.CommitMessage // "" holds repository-wide history
	hasCommits bool
}

func (f *fakeSource) StagedFiles(context.Context) ([]string, error) { return f.staged, nil }
func (f *fakeSource) NameStatus(context.Context) (string, error)    { return f.nameStatus, nil }
func (f *fakeSource) DiffStat(context.Context) (string, error)      { return f.diffStat, nil }
func (f *fakeSource) HasCommits(context.Context) bool               { return f.hasCommits }

func (f *fakeSource) NumStats(context.Context) ([]gitctx.NumStat, error) {
	if f.numStatErr != nil {
		return nil, f.numStatErr
	}
	return f.numStats, nil
}

func (f *fakeSource) Patch(_ context.Context, paths ...string) (string, error) {
	if len(paths) == 0 {
		return f.patches[""], nil
	}
	var parts []string
	for _, p := range paths {
		if patch := f.patches[p]; patch != "" {
			parts = append(parts, patch)
		}
	}
	return strings.Join(parts, ""), nil
}

func (f *fakeSource) LogEntries(_ context.Context, path string, max int) []gitctx.CommitMessage {
	entries := f.logs[path]
	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	return entries
}

// patchOfLines builds a synthetic patch for path with n content lines.
func patchOfLines(path string, n int) string {
	var b strings.Builder
	b.WriteString("diff --git a/" + path + " b/" + path + "\n")
	b.WriteString("--- a/" + path + "\n")
	b.WriteString("+++ b/" + path + "\n")
	for i := 0; i < n-3; i++ {
		b.WriteString("+x\n")
	}
	return b.String()
}
