//go:build e2e

package e2e

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgovernance/gitgov/internal/sync"
	"github.com/gitgovernance/gitgov/internal/syncerr"
)

// TestE2E_FirstPush covers spec.md §8's first scenario: pushing from a
// repository that has never synced creates the state branch and
// publishes every syncable record in one commit.
func TestE2E_FirstPush(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := NewTestEnv(t)
	engine, identity := env.Engine("human:alice")
	env.WriteTaskRecord(identity, "task-1", "Write onboarding doc")

	t.Log("Step 1: Pushing for the first time")
	result, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err, "first push should succeed")
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.FilesSynced)
	assert.NotEmpty(t, result.CommitHash)
	assert.True(t, strings.HasPrefix(result.CommitMessage, "sync: Initial state from "+env.MainBranch),
		"commit message %q should announce the initial sync", result.CommitMessage)
	assert.False(t, result.ConflictDetected)

	t.Log("Step 2: Verifying the record landed on gitgov-state")
	published, err := env.Adapter().ReadFileAtRef(ctx, stateBranch, ".gitgov/tasks/task-1.json")
	require.NoError(t, err, "task-1.json should exist on gitgov-state")
	assert.Contains(t, published, "Write onboarding doc")

	t.Log("Step 3: Verifying the working copy still has its record")
	assert.Contains(t, env.ReadGitgovFile("tasks/task-1.json"), "Write onboarding doc")
}

// TestE2E_NoOpSecondPush covers spec.md §8's second scenario: pushing
// again with no local changes does nothing and reports zero files.
func TestE2E_NoOpSecondPush(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := NewTestEnv(t)
	engine, identity := env.Engine("human:alice")
	env.WriteTaskRecord(identity, "task-1", "Write onboarding doc")

	t.Log("Step 1: First push establishes the baseline")
	first, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err)
	require.True(t, first.Success)
	require.Equal(t, 1, first.FilesSynced)

	t.Log("Step 2: Pushing again with no changes")
	second, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err, "no-op push should still succeed")
	require.NotNil(t, second)

	assert.True(t, second.Success)
	assert.Equal(t, 0, second.FilesSynced)
	assert.Empty(t, second.CommitHash)
	assert.False(t, second.ConflictDetected)
}

// TestE2E_PushFromStateBranchRejected covers spec.md §8's third
// scenario: pushing while checked out on gitgov-state itself is rejected
// outright, without touching the repository.
func TestE2E_PushFromStateBranchRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := NewTestEnv(t)
	engine, identity := env.Engine("human:alice")
	env.WriteTaskRecord(identity, "task-1", "Write onboarding doc")

	t.Log("Step 1: First push creates gitgov-state")
	_, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err)

	t.Log("Step 2: Checking out gitgov-state directly")
	require.NoError(t, env.Adapter().CheckoutBranch(ctx, stateBranch))

	t.Log("Step 3: Pushing from gitgov-state should be rejected")
	result, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.Error(t, err)
	assert.Nil(t, result)

	var syncErr *syncerr.Error
	require.True(t, errors.As(err, &syncErr), "expected a *syncerr.Error, got %T", err)
	assert.Equal(t, syncerr.TypePushFromStateBranch, syncErr.Type)
}
