package localgit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// IsRebaseInProgress reports whether a rebase is mid-flight, checked
// the same way the teacher's shadow-checkpoint rewind logic checks for
// an in-progress cherry-pick: by presence of git's own state directory
// rather than by parsing porcelain output.
func (a *Adapter) IsRebaseInProgress(ctx context.Context) (bool, error) {
	gitDir, err := a.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false, err
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(a.Dir, gitDir)
	}
	for _, name := range []string{"rebase-merge", "rebase-apply"} {
		if _, statErr := os.Stat(filepath.Join(gitDir, name)); statErr == nil {
			return true, nil
		}
	}
	return false, nil
}

func (a *Adapter) RebaseContinue(ctx context.Context) (string, error) {
	if _, err := a.runAllowFail(ctx, "rebase", "--continue"); err != nil {
		inProgress, ipErr := a.IsRebaseInProgress(ctx)
		if ipErr == nil && inProgress {
			return "", fmt.Errorf("localgit: rebase still has conflicts: %w", err)
		}
		return "", fmt.Errorf("localgit: continuing rebase: %w", err)
	}
	return a.run(ctx, "rev-parse", "HEAD")
}

func (a *Adapter) RebaseAbort(ctx context.Context) error {
	if _, err := a.run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("localgit: aborting rebase: %w", err)
	}
	return nil
}

// GetConflictedFiles returns paths with unresolved merge conflicts,
// using git's own "unmerged" diff filter rather than scanning file
// contents for conflict markers.
func (a *Adapter) GetConflictedFiles(ctx context.Context) ([]string, error) {
	out, err := a.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("localgit: listing conflicted files: %w", err)
	}
	return nonEmptyLines(out), nil
}

func (a *Adapter) GetStagedFiles(ctx context.Context) ([]string, error) {
	out, err := a.run(ctx, "diff", "--name-only", "--cached")
	if err != nil {
		return nil, fmt.Errorf("localgit: listing staged files: %w", err)
	}
	return nonEmptyLines(out), nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range splitLines(s) {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
