package githubapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
)

// GetChangedFiles uses GitHub's compare API (a...b), which already
// returns a file-level diff with add/modify/remove status, the same
// shape the localgit backend derives from object.DiffTree.
func (a *Adapter) GetChangedFiles(ctx context.Context, refA, refB string, pathFilter func(string) bool) ([]gitadapter.ChangedFile, error) {
	var cmp compareResponse
	path := "/compare/" + refA + "..." + refB
	if err := a.do(ctx, "GET", path, nil, &cmp); err != nil {
		return nil, fmt.Errorf("githubapi: comparing %s...%s: %w", refA, refB, err)
	}
	var out []gitadapter.ChangedFile
	for _, f := range cmp.Files {
		if pathFilter != nil && !pathFilter(f.Filename) {
			continue
		}
		var status gitadapter.FileStatus
		switch f.Status {
		case "added":
			status = gitadapter.StatusAdded
		case "removed":
			status = gitadapter.StatusDeleted
		default:
			status = gitadapter.StatusModified
		}
		out = append(out, gitadapter.ChangedFile{Status: status, File: f.Filename})
	}
	return out, nil
}

type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string         `json:"message"`
		Author  commitIdentity `json:"author"`
	} `json:"commit"`
}

func (a *Adapter) GetCommitHistory(ctx context.Context, ref string, max int) ([]gitadapter.CommitInfo, error) {
	perPage := 100
	if max > 0 && max < perPage {
		perPage = max
	}
	path := "/commits?sha=" + ref + "&per_page=" + strconv.Itoa(perPage)
	var commits []apiCommit
	if err := a.do(ctx, "GET", path, nil, &commits); err != nil {
		return nil, fmt.Errorf("githubapi: listing commits for %s: %w", ref, err)
	}
	out := make([]gitadapter.CommitInfo, 0, len(commits))
	for _, c := range commits {
		if max > 0 && len(out) >= max {
			break
		}
		out = append(out, gitadapter.CommitInfo{
			Hash:    c.SHA,
			Author:  fmt.Sprintf("%s <%s>", c.Commit.Author.Name, c.Commit.Author.Email),
			Date:    c.Commit.Author.Date,
			Message: strings.TrimRight(c.Commit.Message, "\n"),
		})
	}
	return out, nil
}

// ReadFileAtRef fetches path's content at ref via the contents API.
func (a *Adapter) ReadFileAtRef(ctx context.Context, ref, path string) (string, error) {
	var content struct {
		Content string `json:"content"`
	}
	reqPath := "/contents/" + path + "?ref=" + ref
	if err := a.do(ctx, "GET", reqPath, nil, &content); err != nil {
		return "", fmt.Errorf("githubapi: reading %s at %s: %w", path, ref, err)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("githubapi: decoding %s: %w", path, err)
	}
	return string(raw), nil
}

// CheckoutFilesFromBranch fetches paths' blob content from branch and
// writes them into the local filesystem at the same relative paths,
// the closest analogue to `git checkout <branch> -- <paths>` when
// there is no local index to update directly.
func (a *Adapter) CheckoutFilesFromBranch(ctx context.Context, branch string, paths []string) error {
	for _, p := range paths {
		var content struct {
			Content string `json:"content"`
		}
		reqPath := "/contents/" + p + "?ref=" + branch
		if err := a.do(ctx, "GET", reqPath, nil, &content); err != nil {
			return fmt.Errorf("githubapi: fetching %s from %s: %w", p, branch, err)
		}
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
		if err != nil {
			return fmt.Errorf("githubapi: decoding %s: %w", p, err)
		}
		if err := os.WriteFile(p, raw, 0o644); err != nil {
			return fmt.Errorf("githubapi: writing %s: %w", p, err)
		}
	}
	return nil
}
