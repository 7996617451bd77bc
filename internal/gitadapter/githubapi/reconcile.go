package githubapi

import (
	"context"
	"fmt"
)

// IsRebaseInProgress is always false: this backend resolves the
// equivalent condition synchronously inside Commit (see mutation.go),
// it never leaves a half-finished rebase state lying around to query.
func (a *Adapter) IsRebaseInProgress(ctx context.Context) (bool, error) {
	return false, nil
}

// RebaseContinue has nothing to continue: this backend never enters a
// rebase state (see IsRebaseInProgress), so calling it is a caller bug.
func (a *Adapter) RebaseContinue(ctx context.Context) (string, error) {
	return "", fmt.Errorf("githubapi: no rebase in progress")
}

func (a *Adapter) RebaseAbort(ctx context.Context) error {
	return nil
}

// GetConflictedFiles always returns nil: conflicts in this backend
// surface as a 422/409 from Commit (see githubapi.Is422), not as marked
// files in a working tree that doesn't exist.
func (a *Adapter) GetConflictedFiles(ctx context.Context) ([]string, error) {
	return nil, nil
}

// GetStagedFiles returns the paths queued by Add since the last Commit.
func (a *Adapter) GetStagedFiles(ctx context.Context) ([]string, error) {
	paths := make([]string, len(a.staged))
	for i, e := range a.staged {
		paths[i] = e.Path
	}
	return paths, nil
}

// IsWorkingTreeDirty reports whether anything is staged; there is no
// working tree to compare against an index separately from that.
func (a *Adapter) IsWorkingTreeDirty(ctx context.Context) (bool, error) {
	return len(a.staged) > 0, nil
}

func (a *Adapter) HasCommits(ctx context.Context, branch string) (bool, error) {
	exists, err := a.BranchExists(ctx, branch)
	if err != nil {
		return false, err
	}
	return exists, nil
}
