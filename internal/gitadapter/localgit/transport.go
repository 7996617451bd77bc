package localgit

import (
	"context"
	"fmt"
)

// Fetch fetches refSpec from remote. refSpec may be empty to fetch the
// remote's default set.
func (a *Adapter) Fetch(ctx context.Context, remote, refSpec string) error {
	args := []string{"fetch", remote}
	if refSpec != "" {
		args = append(args, refSpec)
	}
	if _, err := a.run(ctx, args...); err != nil {
		return fmt.Errorf("localgit: fetching %s: %w", remote, err)
	}
	return nil
}

func (a *Adapter) Push(ctx context.Context, remote, branch string) error {
	if _, err := a.run(ctx, "push", remote, branch); err != nil {
		return fmt.Errorf("localgit: pushing %s to %s: %w", branch, remote, err)
	}
	return nil
}

func (a *Adapter) PushWithUpstream(ctx context.Context, remote, branch string) error {
	if _, err := a.run(ctx, "push", "--set-upstream", remote, branch); err != nil {
		return fmt.Errorf("localgit: pushing %s to %s with upstream: %w", branch, remote, err)
	}
	return nil
}

// PullRebase fetches remote/branch and rebases the current branch onto
// it. On conflict, git leaves .git/rebase-merge in place and returns a
// non-nil error; callers should check IsRebaseInProgress afterward
// rather than treating every error as fatal.
func (a *Adapter) PullRebase(ctx context.Context, remote, branch string) error {
	_, err := a.runAllowFail(ctx, "pull", "--rebase", remote, branch)
	if err != nil {
		inProgress, ipErr := a.IsRebaseInProgress(ctx)
		if ipErr == nil && inProgress {
			return fmt.Errorf("localgit: rebase conflict pulling %s from %s: %w", branch, remote, err)
		}
		return fmt.Errorf("localgit: pulling %s from %s: %w", branch, remote, err)
	}
	return nil
}
