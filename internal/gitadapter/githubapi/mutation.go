package githubapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// Add stages local file paths for the next Commit by creating a blob
// for each one and queuing a tree entry. force is accepted for
// interface parity but has no meaning here: there is no .gitignore to
// override.
func (a *Adapter) Add(ctx context.Context, paths []string, force bool) error {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("githubapi: reading %s: %w", p, err)
		}
		var blob blobObject
		body := createBlobRequest{Content: base64.StdEncoding.EncodeToString(data), Encoding: "base64"}
		if err := a.do(ctx, "POST", "/git/blobs", body, &blob); err != nil {
			return fmt.Errorf("githubapi: creating blob for %s: %w", p, err)
		}
		a.staged = append(a.staged, treeEntry{Path: p, Mode: "100644", Type: "blob", SHA: &blob.SHA})
	}
	return nil
}

// commit performs the atomic getRef→getTree→createTree→createCommit→
// updateRef pipeline: it builds a new tree layering staged entries on
// top of the branch's current tree, creates a commit on top of the
// branch's current head (or no parent, for an orphan branch), and
// updates the branch ref without force. GitHub's updateRef returns
// 422/409 if the ref moved since headSHA was read; commit returns that
// as a wrapped error, and the sync engine's Push returns it as an
// ordinary error rather than reporting a rebase conflict.
func (a *Adapter) commit(ctx context.Context, message string, allowEmpty bool) (string, error) {
	if !allowEmpty && len(a.staged) == 0 {
		return "", fmt.Errorf("githubapi: nothing staged to commit")
	}

	var parents []string
	var baseTree string
	if !a.orphanPending {
		sha, err := a.headSHA(ctx, a.branch)
		if err != nil {
			return "", fmt.Errorf("githubapi: resolving current head of %s: %w", a.branch, err)
		}
		parents = []string{sha}
		var commit commitObject
		if err := a.do(ctx, "GET", "/git/commits/"+sha, nil, &commit); err != nil {
			return "", fmt.Errorf("githubapi: reading commit %s: %w", sha, err)
		}
		baseTree = commit.Tree.SHA
	}

	var tree treeObject
	treeReq := createTreeRequest{BaseTree: baseTree, Tree: a.staged}
	if err := a.do(ctx, "POST", "/git/trees", treeReq, &tree); err != nil {
		return "", fmt.Errorf("githubapi: creating tree: %w", err)
	}

	var newCommit commitObject
	commitReq := createCommitRequest{Message: message, Tree: tree.SHA, Parents: parents}
	if err := a.do(ctx, "POST", "/git/commits", commitReq, &newCommit); err != nil {
		return "", fmt.Errorf("githubapi: creating commit: %w", err)
	}

	updateReq := updateRefRequest{SHA: newCommit.SHA, Force: false}
	if a.orphanPending {
		createReq := map[string]string{"ref": "refs/heads/" + a.branch, "sha": newCommit.SHA}
		if err := a.do(ctx, "POST", "/git/refs", createReq, nil); err != nil {
			return "", fmt.Errorf("githubapi: creating ref for orphan branch %s: %w", a.branch, err)
		}
		a.orphanPending = false
	} else if err := a.do(ctx, "PATCH", a.refPath(a.branch), updateReq, nil); err != nil {
		return "", fmt.Errorf("githubapi: updating ref %s: %w", a.branch, err)
	}

	a.staged = nil
	return newCommit.SHA, nil
}

// Remove queues a tombstone tree entry (sha null) for each path, which
// commit's createTree call turns into a deletion when base_tree already
// has that path.
func (a *Adapter) Remove(ctx context.Context, paths []string, force bool) error {
	for _, p := range paths {
		a.staged = append(a.staged, treeEntry{Path: p, Mode: "100644", Type: "blob", SHA: nil})
	}
	return nil
}

// Reset drops paths from the staged-entries buffer; there is no index
// distinct from that buffer to unstage against.
func (a *Adapter) Reset(ctx context.Context, paths []string) error {
	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		drop[p] = true
	}
	var kept []treeEntry
	for _, e := range a.staged {
		if !drop[e.Path] {
			kept = append(kept, e)
		}
	}
	a.staged = kept
	return nil
}

func (a *Adapter) Commit(ctx context.Context, message string) (string, error) {
	return a.commit(ctx, message, false)
}

func (a *Adapter) CommitAllowEmpty(ctx context.Context, message string) (string, error) {
	return a.commit(ctx, message, true)
}

// Stash has no meaning against a backend with no working tree: staged
// entries already live in memory until Commit, so there is nothing to
// set aside and restore later.
func (a *Adapter) Stash(ctx context.Context, label string) (string, error) {
	return "", fmt.Errorf("githubapi: stash is not supported by the GitHub REST backend")
}

func (a *Adapter) StashPop(ctx context.Context, stashRef string) error {
	return fmt.Errorf("githubapi: stash is not supported by the GitHub REST backend")
}
