//go:build e2e

package e2e

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgovernance/gitgov/internal/sync"
)

// TestE2E_DeletePropagation covers spec.md §8's fifth scenario: removing
// a synced record locally and pushing again removes it from the state
// branch too, while an untouched sibling record survives.
func TestE2E_DeletePropagation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := NewTestEnv(t)
	engine, identity := env.Engine("human:alice")
	env.WriteTaskRecord(identity, "task-1", "Keep me")
	env.WriteTaskRecord(identity, "task-2", "Delete me")

	t.Log("Step 1: Publishing both records")
	first, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err)
	require.True(t, first.Success)
	require.Equal(t, 2, first.FilesSynced)

	t.Log("Step 2: Deleting task-2 locally")
	env.DeleteGitgovFile("tasks/task-2.json")

	t.Log("Step 3: Pushing the deletion")
	second, err := engine.Push(ctx, "human:alice", sync.PushOptions{})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.Success)
	assert.Equal(t, 1, second.FilesSynced, "only the deletion should be staged, task-1 is unchanged")
	assert.NotEmpty(t, second.CommitHash)

	t.Log("Step 4: Verifying task-2 is gone from gitgov-state, task-1 survives")
	_, err = env.Adapter().ReadFileAtRef(ctx, stateBranch, ".gitgov/tasks/task-2.json")
	assert.Error(t, err, "task-2.json should no longer exist on gitgov-state")

	kept, err := env.Adapter().ReadFileAtRef(ctx, stateBranch, ".gitgov/tasks/task-1.json")
	require.NoError(t, err, "task-1.json should still exist on gitgov-state")
	assert.Contains(t, kept, "Keep me")

	t.Log("Step 5: Verifying the working copy reflects the same state")
	assert.NoFileExists(t, env.RepoDir+"/.gitgov/tasks/task-2.json")
	assert.Contains(t, env.ReadGitgovFile("tasks/task-1.json"), "Keep me")
}
