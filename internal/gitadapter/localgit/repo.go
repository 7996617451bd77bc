// Package localgit implements gitadapter.Adapter against a local git
// working copy, mixing go-git for object-database reads/writes with
// exec'd git-CLI calls for porcelain operations go-git does not
// support (rebase, stash). This hybrid split mirrors the teacher's own
// strategy/common.go, which opens repositories with go-git for plumbing
// work but shells out to git for anything rebase- or stash-shaped.
package localgit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
)

// Adapter is a gitadapter.Adapter backed by a local working copy at Dir.
type Adapter struct {
	// Dir is the working copy root (the directory containing .git).
	Dir string
}

// New returns an Adapter rooted at dir. dir must contain a .git
// directory; use GetRepoRoot-style discovery beforehand if dir might be
// a subdirectory of the working copy.
func New(dir string) *Adapter {
	return &Adapter{Dir: dir}
}

var _ gitadapter.Adapter = (*Adapter)(nil)

func (a *Adapter) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(a.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("localgit: opening repository at %s: %w", a.Dir, err)
	}
	return repo, nil
}

// run execs git with args rooted at a.Dir, returning trimmed stdout.
// Used for the porcelain operations (rebase, stash, pull --rebase) that
// go-git's plumbing API does not implement.
func (a *Adapter) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("localgit: git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runAllowFail is like run but returns the combined output and raw error
// instead of wrapping it, for callers that need to inspect exit status
// (e.g. conflict detection after a rebase).
func (a *Adapter) runAllowFail(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

func (a *Adapter) GetCurrentBranch(ctx context.Context) (string, error) {
	repo, err := a.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("localgit: resolving HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("localgit: HEAD is detached")
	}
	return head.Name().Short(), nil
}

func (a *Adapter) GetRepoRoot(ctx context.Context) (string, error) {
	out, err := a.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return filepath.Clean(out), nil
}

func (a *Adapter) IsRemoteConfigured(ctx context.Context, remote string) (bool, error) {
	repo, err := a.open()
	if err != nil {
		return false, err
	}
	_, err = repo.Remote(remote)
	if err != nil {
		if err == git.ErrRemoteNotFound {
			return false, nil
		}
		return false, fmt.Errorf("localgit: looking up remote %s: %w", remote, err)
	}
	return true, nil
}

// remoteConfig is a small helper other files use to read the remote's
// configured URL without re-opening the repository.
func (a *Adapter) remoteConfig(repo *git.Repository, remote string) (*config.RemoteConfig, error) {
	r, err := repo.Remote(remote)
	if err != nil {
		return nil, err
	}
	return r.Config(), nil
}

func (a *Adapter) IsWorkingTreeDirty(ctx context.Context) (bool, error) {
	repo, err := a.open()
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("localgit: getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("localgit: getting status: %w", err)
	}
	return !status.IsClean(), nil
}

func (a *Adapter) HasCommits(ctx context.Context, branch string) (bool, error) {
	repo, err := a.open()
	if err != nil {
		return false, err
	}
	ref, err := repo.Reference(refName(branch), true)
	if err != nil {
		return false, nil //nolint:nilerr // branch has no ref yet => no commits
	}
	_, err = repo.CommitObject(ref.Hash())
	if err != nil {
		return false, nil //nolint:nilerr
	}
	return true, nil
}

// ensureDir is used by callers that need to confirm a path exists
// before shelling out against it (e.g. scratch-dir handoff).
func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("localgit: %s is not a directory", path)
	}
	return nil
}
