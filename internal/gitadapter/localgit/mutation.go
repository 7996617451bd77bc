package localgit

import (
	"context"
	"fmt"
)

// Add stages paths for commit. If force is true, files matched by
// .gitignore are staged anyway (used for .gitgov/ paths that a
// project's own .gitignore might otherwise exclude).
func (a *Adapter) Add(ctx context.Context, paths []string, force bool) error {
	if len(paths) == 0 {
		return nil
	}
	args := []string{"add"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, paths...)
	if _, err := a.run(ctx, args...); err != nil {
		return fmt.Errorf("localgit: staging paths: %w", err)
	}
	return nil
}

func (a *Adapter) Remove(ctx context.Context, paths []string, force bool) error {
	if len(paths) == 0 {
		return nil
	}
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, paths...)
	if _, err := a.run(ctx, args...); err != nil {
		return fmt.Errorf("localgit: removing paths: %w", err)
	}
	return nil
}

func (a *Adapter) Reset(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"reset", "HEAD", "--"}, paths...)
	if _, err := a.run(ctx, args...); err != nil {
		return fmt.Errorf("localgit: unstaging paths: %w", err)
	}
	return nil
}

func (a *Adapter) Commit(ctx context.Context, message string) (string, error) {
	if _, err := a.run(ctx, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("localgit: committing: %w", err)
	}
	return a.run(ctx, "rev-parse", "HEAD")
}

// CommitAllowEmpty commits the current index even if there are no
// staged changes (git commit --allow-empty).
func (a *Adapter) CommitAllowEmpty(ctx context.Context, message string) (string, error) {
	if _, err := a.run(ctx, "commit", "--allow-empty", "-m", message); err != nil {
		return "", fmt.Errorf("localgit: committing (allow-empty): %w", err)
	}
	return a.run(ctx, "rev-parse", "HEAD")
}

// Stash stashes the working tree including untracked files under label,
// returning the stash ref (e.g. "stash@{0}").
func (a *Adapter) Stash(ctx context.Context, label string) (string, error) {
	if _, err := a.run(ctx, "stash", "push", "--include-untracked", "-m", label); err != nil {
		return "", fmt.Errorf("localgit: stashing: %w", err)
	}
	out, err := a.run(ctx, "stash", "list", "--format=%gd %gs")
	if err != nil {
		return "", fmt.Errorf("localgit: listing stash: %w", err)
	}
	for _, line := range splitLines(out) {
		if containsLabel(line, label) {
			return fieldsFirst(line), nil
		}
	}
	return "stash@{0}", nil
}

func (a *Adapter) StashPop(ctx context.Context, stashRef string) error {
	if _, err := a.run(ctx, "stash", "pop", stashRef); err != nil {
		return fmt.Errorf("localgit: popping stash %s: %w", stashRef, err)
	}
	return nil
}
