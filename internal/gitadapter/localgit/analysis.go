package localgit

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
)

// GetChangedFiles diffs the trees at refs a and b and returns entries
// whose path passes pathFilter (nil means accept all). Grounded on the
// teacher's object.Tree/Patch walk in checkpoint's diff rendering.
func (a *Adapter) GetChangedFiles(ctx context.Context, refA, refB string, pathFilter func(string) bool) ([]gitadapter.ChangedFile, error) {
	repo, err := a.open()
	if err != nil {
		return nil, err
	}
	treeA, err := treeForRef(repo, refA)
	if err != nil {
		return nil, fmt.Errorf("localgit: resolving tree for %s: %w", refA, err)
	}
	treeB, err := treeForRef(repo, refB)
	if err != nil {
		return nil, fmt.Errorf("localgit: resolving tree for %s: %w", refB, err)
	}

	changes, err := object.DiffTree(treeA, treeB)
	if err != nil {
		return nil, fmt.Errorf("localgit: diffing %s..%s: %w", refA, refB, err)
	}

	var out []gitadapter.ChangedFile
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, fmt.Errorf("localgit: resolving diff action: %w", err)
		}
		path := c.To.Name
		if path == "" {
			path = c.From.Name
		}
		if pathFilter != nil && !pathFilter(path) {
			continue
		}
		var status gitadapter.FileStatus
		switch action.String() {
		case "Insert":
			status = gitadapter.StatusAdded
		case "Delete":
			status = gitadapter.StatusDeleted
		default:
			status = gitadapter.StatusModified
		}
		out = append(out, gitadapter.ChangedFile{Status: status, File: path})
	}
	return out, nil
}

func treeForRef(repo *git.Repository, ref string) (*object.Tree, error) {
	hash, err := resolveRef(repo, ref)
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// GetCommitHistory walks ref's history up to max commits (0 means
// unbounded), newest first.
func (a *Adapter) GetCommitHistory(ctx context.Context, ref string, max int) ([]gitadapter.CommitInfo, error) {
	repo, err := a.open()
	if err != nil {
		return nil, err
	}
	hash, err := resolveRef(repo, ref)
	if err != nil {
		return nil, fmt.Errorf("localgit: resolving %s: %w", ref, err)
	}
	iter, err := repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, fmt.Errorf("localgit: walking history from %s: %w", ref, err)
	}
	defer iter.Close()

	var out []gitadapter.CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if max > 0 && len(out) >= max {
			return storer.ErrStop
		}
		out = append(out, gitadapter.CommitInfo{
			Hash:    c.Hash.String(),
			Author:  fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			Date:    c.Author.When.Format("2006-01-02T15:04:05Z07:00"),
			Message: strings.TrimRight(c.Message, "\n"),
		})
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, fmt.Errorf("localgit: reading history: %w", err)
	}
	return out, nil
}

// ReadFileAtRef reads path's blob content from ref's tree via git's own
// plumbing (git show), avoiding a worktree checkout.
func (a *Adapter) ReadFileAtRef(ctx context.Context, ref, path string) (string, error) {
	out, err := a.runAllowFail(ctx, "show", ref+":"+path)
	if err != nil {
		return "", fmt.Errorf("localgit: reading %s at %s: %w", path, ref, err)
	}
	return out, nil
}
