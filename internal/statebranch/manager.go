// Package statebranch manages the lifecycle of the dedicated orphan
// branch that carries only the governance records under .gitgov/
// (spec.md §4.4), keeping it independent of the project's own history.
package statebranch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/logging"
)

// Manager owns the create/verify lifecycle of one state branch against
// one remote, driven through a gitadapter.Adapter.
type Manager struct {
	Adapter  gitadapter.Adapter
	Branch   string
	Remote   string
	Policy   *idpath.Policy
	RepoRoot string
}

// New returns a Manager for branch/remote, using policy to generate the
// state branch's .gitignore content. repoRoot is the working copy root,
// used to resolve the .gitignore write against the right directory
// regardless of the caller's current working directory.
func New(adapter gitadapter.Adapter, branch, remote string, policy *idpath.Policy, repoRoot string) *Manager {
	return &Manager{Adapter: adapter, Branch: branch, Remote: remote, Policy: policy, RepoRoot: repoRoot}
}

// EnsureStateBranch implements the four-case idempotent table of
// spec.md §4.4. It always returns to the branch that was checked out
// when it was called, even on error.
func (m *Manager) EnsureStateBranch(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "statebranch")

	original, err := m.Adapter.GetCurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("statebranch: resolving current branch: %w", err)
	}
	if has, err := m.Adapter.HasCommits(ctx, original); err != nil {
		return fmt.Errorf("statebranch: checking commits on %s: %w", original, err)
	} else if !has {
		return fmt.Errorf("statebranch: %s has no commits, cannot ensure state branch", original)
	}

	localExists, err := m.Adapter.BranchExists(ctx, m.Branch)
	if err != nil {
		return fmt.Errorf("statebranch: checking local branch: %w", err)
	}

	hasRemote, err := m.Adapter.IsRemoteConfigured(ctx, m.Remote)
	if err != nil {
		return fmt.Errorf("statebranch: checking remote: %w", err)
	}
	var remoteExists bool
	if hasRemote {
		branches, err := m.Adapter.ListRemoteBranches(ctx, m.Remote)
		if err != nil {
			return fmt.Errorf("statebranch: listing remote branches: %w", err)
		}
		for _, b := range branches {
			if b == m.Branch {
				remoteExists = true
				break
			}
		}
	}

	switch {
	case !localExists && !remoteExists:
		err = m.createFresh(ctx)
	case !localExists && remoteExists:
		err = m.trackRemote(ctx)
	case localExists && !remoteExists:
		err = m.pushUpstream(ctx)
	default:
		err = m.verifyUpstream(ctx)
	}
	if err != nil {
		_ = m.Adapter.CheckoutBranch(ctx, original)
		return err
	}

	if curr, cerr := m.Adapter.GetCurrentBranch(ctx); cerr != nil || curr != original {
		if cerr2 := m.Adapter.CheckoutBranch(ctx, original); cerr2 != nil {
			return fmt.Errorf("statebranch: returning to %s: %w", original, cerr2)
		}
	}
	return nil
}

func (m *Manager) createFresh(ctx context.Context) error {
	logging.Info(ctx, "creating state branch", "branch", m.Branch)
	if err := m.Adapter.CheckoutOrphanBranch(ctx, m.Branch); err != nil {
		return fmt.Errorf("statebranch: creating orphan branch: %w", err)
	}
	gitignore := m.gitignoreContent()
	if err := writeFile(filepath.Join(m.RepoRoot, ".gitignore"), gitignore); err != nil {
		return fmt.Errorf("statebranch: writing .gitignore: %w", err)
	}
	if err := m.Adapter.Add(ctx, []string{".gitignore"}, true); err != nil {
		return fmt.Errorf("statebranch: staging .gitignore: %w", err)
	}
	if _, err := m.Adapter.Commit(ctx, "Initialize state branch with .gitignore"); err != nil {
		return fmt.Errorf("statebranch: committing initial state branch: %w", err)
	}
	if hasRemote, _ := m.Adapter.IsRemoteConfigured(ctx, m.Remote); hasRemote {
		if err := m.Adapter.PushWithUpstream(ctx, m.Remote, m.Branch); err != nil {
			logging.Warn(ctx, "best-effort push of new state branch failed", "error", err)
		}
	}
	return nil
}

func (m *Manager) trackRemote(ctx context.Context) error {
	if err := m.Adapter.Fetch(ctx, m.Remote, ""); err != nil {
		return fmt.Errorf("statebranch: fetching %s: %w", m.Remote, err)
	}
	if err := m.Adapter.CreateBranch(ctx, m.Branch, m.Remote+"/"+m.Branch); err != nil {
		return fmt.Errorf("statebranch: creating local tracking branch: %w", err)
	}
	if err := m.Adapter.SetUpstream(ctx, m.Branch, m.Remote); err != nil {
		logging.Warn(ctx, "setting upstream after tracking-branch create failed", "error", err)
	}
	return nil
}

func (m *Manager) pushUpstream(ctx context.Context) error {
	if err := m.Adapter.CheckoutBranch(ctx, m.Branch); err != nil {
		return fmt.Errorf("statebranch: checking out %s: %w", m.Branch, err)
	}
	if hasRemote, _ := m.Adapter.IsRemoteConfigured(ctx, m.Remote); hasRemote {
		if err := m.Adapter.PushWithUpstream(ctx, m.Remote, m.Branch); err != nil {
			return fmt.Errorf("statebranch: pushing %s upstream: %w", m.Branch, err)
		}
	}
	return nil
}

func (m *Manager) verifyUpstream(ctx context.Context) error {
	if err := m.Adapter.CheckoutBranch(ctx, m.Branch); err != nil {
		return fmt.Errorf("statebranch: checking out %s: %w", m.Branch, err)
	}
	if err := m.Adapter.SetUpstream(ctx, m.Branch, m.Remote); err != nil {
		logging.Warn(ctx, "setting upstream on existing state branch failed", "error", err)
	}
	return nil
}

// gitignoreContent builds the state branch's .gitignore from the
// policy's local-only files and excluded patterns, so it is always
// derived rather than hand-maintained.
func (m *Manager) gitignoreContent() []byte {
	var b strings.Builder
	b.WriteString("# generated by gitgov; lists local-only and excluded paths\n")
	for _, pattern := range m.Policy.LocalOnlyFileNames() {
		b.WriteString(pattern)
		b.WriteString("\n")
	}
	for _, pattern := range m.Policy.ExcludedPatternStrings() {
		b.WriteString(pattern)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
