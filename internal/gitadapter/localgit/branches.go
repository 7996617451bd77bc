package localgit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func refName(branch string) plumbing.ReferenceName {
	return plumbing.NewBranchReferenceName(branch)
}

func remoteRefName(remote, branch string) plumbing.ReferenceName {
	return plumbing.NewRemoteReferenceName(remote, branch)
}

func (a *Adapter) BranchExists(ctx context.Context, branch string) (bool, error) {
	repo, err := a.open()
	if err != nil {
		return false, err
	}
	_, err = repo.Reference(refName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("localgit: resolving branch %s: %w", branch, err)
	}
	return true, nil
}

// ListRemoteBranches returns the short names of branches found on remote,
// fetched via the remote's advertised refs (no network fetch into the
// local repo is performed beyond listing).
func (a *Adapter) ListRemoteBranches(ctx context.Context, remote string) ([]string, error) {
	out, err := a.run(ctx, "ls-remote", "--heads", remote)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		names = append(names, strings.TrimPrefix(fields[1], "refs/heads/"))
	}
	return names, nil
}

// CreateBranch creates a local branch pointing at fromRef's commit
// without checking it out. fromRef may be a branch name, "HEAD", or a
// commit hash.
func (a *Adapter) CreateBranch(ctx context.Context, branch, fromRef string) error {
	repo, err := a.open()
	if err != nil {
		return err
	}
	hash, err := resolveRef(repo, fromRef)
	if err != nil {
		return fmt.Errorf("localgit: resolving %s: %w", fromRef, err)
	}
	ref := plumbing.NewHashReference(refName(branch), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("localgit: creating branch %s: %w", branch, err)
	}
	return nil
}

func resolveRef(repo *git.Repository, ref string) (plumbing.Hash, error) {
	if ref == "HEAD" {
		head, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return head.Hash(), nil
	}
	h, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *h, nil
}

func (a *Adapter) CheckoutBranch(ctx context.Context, branch string) error {
	_, err := a.run(ctx, "checkout", branch)
	if err != nil {
		return fmt.Errorf("localgit: checking out %s: %w", branch, err)
	}
	return nil
}

// CheckoutOrphanBranch creates and checks out a new branch with no
// parent history and an empty index, the starting point for a fresh
// state branch (spec.md §4.4, case "no local, no remote branch").
func (a *Adapter) CheckoutOrphanBranch(ctx context.Context, branch string) error {
	if _, err := a.run(ctx, "checkout", "--orphan", branch); err != nil {
		return fmt.Errorf("localgit: creating orphan branch %s: %w", branch, err)
	}
	if _, err := a.run(ctx, "rm", "-rf", "--cached", "."); err != nil {
		return fmt.Errorf("localgit: clearing orphan index for %s: %w", branch, err)
	}
	return nil
}

func (a *Adapter) SetUpstream(ctx context.Context, branch, remote string) error {
	_, err := a.run(ctx, "branch", "--set-upstream-to="+remote+"/"+branch, branch)
	if err != nil {
		return fmt.Errorf("localgit: setting upstream for %s: %w", branch, err)
	}
	return nil
}
