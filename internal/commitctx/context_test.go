package commitctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayne/cmtr/internal/gitctx"
)

func TestCollect_NothingStaged(t *testing.T) {
	_, err := Collect(context.Background(), &fakeSource{}, Budgets{})
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestCollect_LockAndBinaryFiltered(t *testing.T) {
	// Scenario: go.sum and img.png staged alongside one text file.
	src := &fakeSource{
		staged:     []string{"go.sum", "img.png", "main.go"},
		nameStatus: "M\tgo.sum\nM\timg.png\nM\tmain.go",
		diffStat:   "3 files changed",
		numStats: []gitctx.NumStat{
			{Path: "go.sum", Added: 12, Deleted: 4},
			{Path: "img.png", Added: -1, Deleted: -1, IsBinary: true},
			{Path: "main.go", Added: 5, Deleted: 1},
		},
		patches:    map[string]string{"main.go": patchOfLines("main.go", 9)},
		hasCommits: true,
	}
	payload, err := Collect(context.Background(), src, Budgets{
		MaxDiffBytes: 12000, MaxPatchLines: 400, MaxLogEntries: 20, MaxLogPaths: 4,
	})
	require.NoError(t, err)
	assert.True(t, payload.DiffWasFiltered)
	assert.Contains(t, payload.DiffText, "- go.sum (excluded lock file)")
	assert.Contains(t, payload.DiffText, "- img.png (binary file)")
	assert.Contains(t, payload.DiffText, "+++ b/main.go")
	assert.Equal(t, []string{"go.sum", "img.png", "main.go"}, payload.StagedFiles)
}

func TestCollect_NoHistory(t *testing.T) {
	src := &fakeSource{
		staged:   []string{"a.go"},
		numStats: []gitctx.NumStat{{Path: "a.go", Added: 1, Deleted: 0}},
		patches:  map[string]string{"a.go": patchOfLines("a.go", 4)},
	}
	payload, err := Collect(context.Background(), src, Budgets{MaxLogEntries: 20, MaxLogPaths: 4})
	require.NoError(t, err)
	assert.False(t, payload.HasCommitHistory)
	assert.Empty(t, payload.LogScopes)
}

func TestCollect_PrimaryScopeIsCommonPrefix(t *testing.T) {
	// Scenario: staged files share the services/auth/ prefix.
	src := &fakeSource{
		staged: []string{"services/auth/token.go", "services/auth/session.go"},
		numStats: []gitctx.NumStat{
			{Path: "services/auth/token.go", Added: 3, Deleted: 0},
			{Path: "services/auth/session.go", Added: 2, Deleted: 0},
		},
		patches: map[string]string{
			"services/auth/token.go":   patchOfLines("services/auth/token.go", 6),
			"services/auth/session.go": patchOfLines("services/auth/session.go", 5),
		},
		logs: map[string][]gitctx.CommitMessage{
			"services/auth": {{Subject: "auth: rotate signing keys"}},
		},
		hasCommits: true,
	}
	payload, err := Collect(context.Background(), src, Budgets{MaxLogEntries: 20, MaxLogPaths: 4})
	require.NoError(t, err)
	require.NotEmpty(t, payload.LogScopes)
	assert.Equal(t, "services/auth", payload.LogScopes[0].Path)
}

func TestCollect_LockFilesDroppedFromLogPaths(t *testing.T) {
	// When the filter fired, hard-excluded paths should not steer the log
	// scope: go.sum at the root would otherwise kill the common prefix.
	src := &fakeSource{
		staged: []string{"go.sum", "pkg/store/db.go"},
		numStats: []gitctx.NumStat{
			{Path: "go.sum", Added: 20, Deleted: 20},
			{Path: "pkg/store/db.go", Added: 5, Deleted: 2},
		},
		patches: map[string]string{"pkg/store/db.go": patchOfLines("pkg/store/db.go", 8)},
		logs: map[string][]gitctx.CommitMessage{
			"pkg/store/db.go": {{Subject: "store: add migrations"}},
		},
		hasCommits: true,
	}
	payload, err := Collect(context.Background(), src, Budgets{
		MaxDiffBytes: 12000, MaxPatchLines: 400, MaxLogEntries: 20, MaxLogPaths: 4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, payload.LogScopes)
	assert.Equal(t, "pkg/store/db.go", payload.LogScopes[0].Path)
}

func TestCollect_Idempotent(t *testing.T) {
	src := &fakeSource{
		staged:     []string{"x/a.go", "x/b.go", "go.sum"},
		nameStatus: "M\tx/a.go\nM\tx/b.go\nM\tgo.sum",
		diffStat:   "3 files changed",
		numStats: []gitctx.NumStat{
			{Path: "x/a.go", Added: 8, Deleted: 2},
			{Path: "x/b.go", Added: 8, Deleted: 2},
			{Path: "go.sum", Added: 9, Deleted: 9},
		},
		patches: map[string]string{
			"x/a.go": patchOfLines("x/a.go", 12),
			"x/b.go": patchOfLines("x/b.go", 12),
		},
		logs: map[string][]gitctx.CommitMessage{
			"x": {{Subject: "x: tighten validation", Body: "Edge cases."}},
			"":  {{Subject: "repo-wide cleanup"}},
		},
		hasCommits: true,
	}
	budgets := Budgets{MaxDiffBytes: 12000, MaxPatchLines: 400, MaxLogEntries: 20, MaxLogPaths: 4}
	first, err := Collect(context.Background(), src, budgets)
	require.NoError(t, err)
	second, err := Collect(context.Background(), src, budgets)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollect_FilteredIffExclusions(t *testing.T) {
	src := &fakeSource{
		staged:   []string{"a/x.go", "a/y.go"},
		numStats: []gitctx.NumStat{
			{Path: "a/x.go", Added: 2, Deleted: 0},
			{Path: "a/y.go", Added: 1, Deleted: 0},
		},
		patches: map[string]string{
			"a/x.go": patchOfLines("a/x.go", 5),
			"a/y.go": patchOfLines("a/y.go", 4),
		},
		hasCommits: true,
	}
	payload, err := Collect(context.Background(), src, Budgets{MaxDiffBytes: 12000, MaxPatchLines: 400})
	require.NoError(t, err)
	assert.False(t, payload.DiffWasFiltered)
	assert.NotContains(t, payload.DiffText, "Excluded files")
}
