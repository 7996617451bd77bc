package sync

import (
	"context"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
	"github.com/gitgovernance/gitgov/internal/statebranch"
)

// Backend is the full capability set Engine is built against: a git
// adapter plus the state-branch-shaped lifecycle methods. Both the
// localgit and githubapi variants satisfy it via GitBackend below, so
// Engine's pipeline code is identical regardless of which is wired in
// (spec.md §4.9).
type Backend interface {
	gitadapter.Adapter
	EnsureStateBranch(ctx context.Context) error
	CalculateStateDelta(ctx context.Context, sourceBranch string) ([]statebranch.StateDeltaFile, error)
}

// GitBackend adapts any gitadapter.Adapter plus its statebranch.Manager
// into a Backend.
type GitBackend struct {
	gitadapter.Adapter
	StateBranch *statebranch.Manager
}

func (b *GitBackend) EnsureStateBranch(ctx context.Context) error {
	return b.StateBranch.EnsureStateBranch(ctx)
}

func (b *GitBackend) CalculateStateDelta(ctx context.Context, sourceBranch string) ([]statebranch.StateDeltaFile, error) {
	return b.StateBranch.CalculateStateDelta(ctx, sourceBranch)
}

var _ Backend = (*GitBackend)(nil)
