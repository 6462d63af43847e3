package commitctx

import (
	"context"
	"errors"

	"github.com/shayne/cmtr/internal/gitctx"
)

// ErrNothingStaged is returned by [Collect] when the staged change-set is
// empty. It is a user-input condition, not a collaborator failure.
var ErrNothingStaged = errors.New("no staged changes found; stage files before running cmtr")

// Source is the version-control collaborator the engine queries. *gitctx.Repo
// satisfies it; tests substitute an in-memory snapshot.
type Source interface {
	StagedFiles(ctx context.Context) ([]string, error)
	NameStatus(ctx context.Context) (string, error)
	DiffStat(ctx context.Context) (string, error)
	NumStats(ctx context.Context) ([]gitctx.NumStat, error)
	Patch(ctx context.Context, paths ...string) (string, error)
	LogEntries(ctx context.Context, path string, max int) []gitctx.CommitMessage
	HasCommits(ctx context.Context) bool
}

// Budgets carries the size caps for one collection run. A value <= 0
// disables the corresponding cap.
type Budgets struct {
	MaxDiffBytes  int
	MaxPatchLines int
	MaxLogEntries int
	MaxLogPaths   int
}

// LogScope is a path (or the repository sentinel) with the commit-message
// exemplars gathered for it.
type LogScope struct {
	Path    string
	Entries []gitctx.CommitMessage
}

// Payload is the assembled context handed to prompt construction.
type Payload struct {
	StagedFiles      []string
	NameStatus       string
	DiffStat         string
	DiffText         string
	DiffWasTruncated bool
	DiffWasFiltered  bool
	LogScopes        []LogScope
	HasCommitHistory bool
}

// Collect takes a snapshot of the staged change-set through src and builds
// the full context payload under the given budgets. It fails with
// [ErrNothingStaged] when nothing is staged; that is the only precondition.
func Collect(ctx context.Context, src Source, budgets Budgets) (*Payload, error) {
	stagedFiles, err := src.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(stagedFiles) == 0 {
		return nil, ErrNothingStaged
	}
	nameStatus, err := src.NameStatus(ctx)
	if err != nil {
		return nil, err
	}
	diffStat, err := src.DiffStat(ctx)
	if err != nil {
		return nil, err
	}
	diff, err := buildDiff(ctx, src, budgets)
	if err != nil {
		return nil, err
	}

	hasHistory := src.HasCommits(ctx)

	// Log relevance follows what changed, not what the diff shows, but
	// lock files make poor history scopes once the filter has dropped them.
	logPaths := stagedFiles
	if diff.Filtered {
		var kept []string
		for _, path := range stagedFiles {
			if !isLockFile(path) {
				kept = append(kept, path)
			}
		}
		if len(kept) > 0 {
			logPaths = kept
		}
	}
	var scopes []LogScope
	if hasHistory {
		scopes = gatherLogScopes(ctx, src, logPaths, budgets)
	}

	return &Payload{
		StagedFiles:      stagedFiles,
		NameStatus:       nameStatus,
		DiffStat:         diffStat,
		DiffText:         diff.Text,
		DiffWasTruncated: diff.Truncated,
		DiffWasFiltered:  diff.Filtered,
		LogScopes:        scopes,
		HasCommitHistory: hasHistory,
	}, nil
}
