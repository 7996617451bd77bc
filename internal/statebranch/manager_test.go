package statebranch

import (
	"context"
	"strings"
	"testing"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
	"github.com/gitgovernance/gitgov/internal/idpath"
)

// fakeAdapter embeds gitadapter.Adapter (left nil) so tests only need to
// override the methods EnsureStateBranch actually calls for a given
// scenario; any unoverridden call panics loudly instead of silently
// succeeding.
type fakeAdapter struct {
	gitadapter.Adapter

	currentBranch   string
	hasCommits      bool
	branchExists    bool
	remoteConfigured bool
	remoteBranches  []string

	checkedOutBranches []string
	orphanCreated      bool
	committed          bool
	pushedUpstream     bool
	tracked            bool
}

func (f *fakeAdapter) GetCurrentBranch(ctx context.Context) (string, error) {
	return f.currentBranch, nil
}

func (f *fakeAdapter) HasCommits(ctx context.Context, branch string) (bool, error) {
	return f.hasCommits, nil
}

func (f *fakeAdapter) BranchExists(ctx context.Context, branch string) (bool, error) {
	return f.branchExists, nil
}

func (f *fakeAdapter) IsRemoteConfigured(ctx context.Context, remote string) (bool, error) {
	return f.remoteConfigured, nil
}

func (f *fakeAdapter) ListRemoteBranches(ctx context.Context, remote string) ([]string, error) {
	return f.remoteBranches, nil
}

func (f *fakeAdapter) CheckoutOrphanBranch(ctx context.Context, branch string) error {
	f.orphanCreated = true
	f.checkedOutBranches = append(f.checkedOutBranches, branch)
	f.currentBranch = branch
	return nil
}

func (f *fakeAdapter) CheckoutBranch(ctx context.Context, branch string) error {
	f.checkedOutBranches = append(f.checkedOutBranches, branch)
	f.currentBranch = branch
	return nil
}

func (f *fakeAdapter) Add(ctx context.Context, paths []string, force bool) error {
	return nil
}

func (f *fakeAdapter) Commit(ctx context.Context, message string) (string, error) {
	f.committed = true
	return "abc123", nil
}

func (f *fakeAdapter) PushWithUpstream(ctx context.Context, remote, branch string) error {
	f.pushedUpstream = true
	return nil
}

func (f *fakeAdapter) Fetch(ctx context.Context, remote, refSpec string) error {
	return nil
}

func (f *fakeAdapter) CreateBranch(ctx context.Context, branch, fromRef string) error {
	f.tracked = true
	return nil
}

func (f *fakeAdapter) SetUpstream(ctx context.Context, branch, remote string) error {
	return nil
}

func newFakeManager(t *testing.T, adapter *fakeAdapter) *Manager {
	t.Helper()
	return New(adapter, "gitgov-state", "origin", idpath.NewDefaultPolicy(), t.TempDir())
}

func TestEnsureStateBranch_CreatesFreshWhenAbsentEverywhere(t *testing.T) {
	adapter := &fakeAdapter{currentBranch: "main", hasCommits: true, branchExists: false, remoteConfigured: false}
	m := newFakeManager(t, adapter)

	if err := m.EnsureStateBranch(context.Background()); err != nil {
		t.Fatalf("EnsureStateBranch: %v", err)
	}
	if !adapter.orphanCreated {
		t.Error("expected an orphan branch to be created")
	}
	if !adapter.committed {
		t.Error("expected an initial commit on the new state branch")
	}
	last := adapter.checkedOutBranches[len(adapter.checkedOutBranches)-1]
	if last != "main" {
		t.Errorf("expected to return to the original branch %q, last checkout was %q", "main", last)
	}
}

func TestEnsureStateBranch_TracksRemoteWhenOnlyRemoteExists(t *testing.T) {
	adapter := &fakeAdapter{
		currentBranch: "main", hasCommits: true, branchExists: false,
		remoteConfigured: true, remoteBranches: []string{"gitgov-state"},
	}
	m := newFakeManager(t, adapter)

	if err := m.EnsureStateBranch(context.Background()); err != nil {
		t.Fatalf("EnsureStateBranch: %v", err)
	}
	if !adapter.tracked {
		t.Error("expected a local tracking branch to be created")
	}
	if adapter.orphanCreated {
		t.Error("should not create an orphan branch when the remote already has one")
	}
}

func TestEnsureStateBranch_PushesUpstreamWhenOnlyLocalExists(t *testing.T) {
	adapter := &fakeAdapter{
		currentBranch: "main", hasCommits: true, branchExists: true,
		remoteConfigured: true, remoteBranches: nil,
	}
	m := newFakeManager(t, adapter)

	if err := m.EnsureStateBranch(context.Background()); err != nil {
		t.Fatalf("EnsureStateBranch: %v", err)
	}
	if !adapter.pushedUpstream {
		t.Error("expected the existing local state branch to be pushed upstream")
	}
}

func TestEnsureStateBranch_ErrorsWithNoCommitsOnOriginal(t *testing.T) {
	adapter := &fakeAdapter{currentBranch: "main", hasCommits: false}
	m := newFakeManager(t, adapter)

	if err := m.EnsureStateBranch(context.Background()); err == nil {
		t.Error("expected an error when the current branch has no commits")
	}
}

func TestGitignoreContent_IncludesLocalOnlyAndExcludedPatterns(t *testing.T) {
	adapter := &fakeAdapter{}
	m := newFakeManager(t, adapter)
	content := string(m.gitignoreContent())
	for _, name := range m.Policy.LocalOnlyFileNames() {
		if !strings.Contains(content, name) {
			t.Errorf("expected .gitignore content to mention local-only file %q", name)
		}
	}
	for _, pattern := range m.Policy.ExcludedPatternStrings() {
		if !strings.Contains(content, pattern) {
			t.Errorf("expected .gitignore content to mention excluded pattern %q", pattern)
		}
	}
}
