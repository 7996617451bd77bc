package githubapi

import (
	"context"
	"fmt"
	"net/url"
)

func (a *Adapter) GetCurrentBranch(ctx context.Context) (string, error) {
	if a.branch == "" {
		return "", fmt.Errorf("githubapi: no branch checked out")
	}
	return a.branch, nil
}

// GetRepoRoot has no meaning against a remote-only backend; it returns
// Owner/Repo as the closest analogue callers use for log messages.
func (a *Adapter) GetRepoRoot(ctx context.Context) (string, error) {
	return a.Owner + "/" + a.Repo, nil
}

// IsRemoteConfigured is always true: this adapter IS the remote, there
// is no separate "configured or not" local state to check.
func (a *Adapter) IsRemoteConfigured(ctx context.Context, remote string) (bool, error) {
	return true, nil
}

func (a *Adapter) refPath(branch string) string {
	return "/git/refs/heads/" + url.PathEscape(branch)
}

func (a *Adapter) BranchExists(ctx context.Context, branch string) (bool, error) {
	var ref gitRef
	err := a.do(ctx, "GET", a.refPath(branch), nil, &ref)
	if err != nil {
		if se, ok := err.(*statusError); ok && se.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Adapter) ListRemoteBranches(ctx context.Context, remote string) ([]string, error) {
	var branches []branchListEntry
	if err := a.do(ctx, "GET", "/branches?per_page=100", nil, &branches); err != nil {
		return nil, err
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return names, nil
}

func (a *Adapter) headSHA(ctx context.Context, ref string) (string, error) {
	var r gitRef
	if err := a.do(ctx, "GET", "/git/refs/heads/"+url.PathEscape(ref), nil, &r); err != nil {
		return "", err
	}
	return r.Object.SHA, nil
}

// CreateBranch creates branch pointing at fromRef's current commit.
// fromRef must itself be an existing branch name (the atomic pipeline
// has no notion of "HEAD" outside of a checked-out branch).
func (a *Adapter) CreateBranch(ctx context.Context, branch, fromRef string) error {
	sha, err := a.headSHA(ctx, fromRef)
	if err != nil {
		return fmt.Errorf("githubapi: resolving %s: %w", fromRef, err)
	}
	body := map[string]string{"ref": "refs/heads/" + branch, "sha": sha}
	if err := a.do(ctx, "POST", "/git/refs", body, nil); err != nil {
		return fmt.Errorf("githubapi: creating branch %s: %w", branch, err)
	}
	return nil
}

// CheckoutBranch has no server-side effect: it just points subsequent
// Add/Commit/Push calls at branch. There is no working tree to switch.
func (a *Adapter) CheckoutBranch(ctx context.Context, branch string) error {
	a.branch = branch
	a.staged = nil
	return nil
}

// CheckoutOrphanBranch records that the next Commit should be created
// with no parent, rather than actually creating the ref: GitHub's
// createCommit call omits Parents entirely for a root commit, so the
// ref is created lazily on first Commit (see mutation.go).
func (a *Adapter) CheckoutOrphanBranch(ctx context.Context, branch string) error {
	a.branch = branch
	a.orphanPending = true
	a.staged = nil
	return nil
}

// SetUpstream is a no-op: GitHub branches have no local tracking
// relationship to configure.
func (a *Adapter) SetUpstream(ctx context.Context, branch, remote string) error {
	return nil
}
