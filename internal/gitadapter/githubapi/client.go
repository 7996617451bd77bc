// Package githubapi implements gitadapter.Adapter against the GitHub
// REST API directly, for the sync backend variant that needs no local
// working copy (spec.md §4.9). No GitHub SDK appears anywhere in the
// example pack, so this client is hand-rolled over net/http — see
// SPEC_FULL.md §4.9 for why that's a justified stdlib-only component
// rather than an ecosystem gap.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
)

const defaultBaseURL = "https://api.github.com"

// Adapter is a gitadapter.Adapter backed by GitHub's REST API. It holds
// no local working copy; every read and write is a blob/tree/commit/ref
// round-trip against Owner/Repo.
type Adapter struct {
	Owner string
	Repo  string
	Token string

	BaseURL    string
	HTTPClient *http.Client

	// branch, staged, and orphanPending emulate HEAD + the index for a
	// backend with no working tree: CheckoutBranch/CheckoutOrphanBranch
	// set them, Add/Commit consume them, Push is a no-op because every
	// Commit already updated the ref server-side.
	branch        string
	staged        []treeEntry
	orphanPending bool
}

var _ gitadapter.Adapter = (*Adapter)(nil)

// New returns a GitHub REST adapter for owner/repo, authenticated with
// token (a personal access token or installation token).
func New(owner, repo, token string) *Adapter {
	return &Adapter{
		Owner:      owner,
		Repo:       repo,
		Token:      token,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *Adapter) baseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return defaultBaseURL
}

// apiError is GitHub's standard error body shape.
type apiError struct {
	Message string `json:"message"`
}

// statusError wraps a non-2xx response in a single place so every
// caller gets the same, GitHub-message-enriched error text.
type statusError struct {
	Method, Path string
	StatusCode   int
	Body         string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("githubapi: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is422 reports whether the error is GitHub's optimistic-concurrency
// conflict response (stale ref update). It matches only an unwrapped
// *statusError; the wrapped errors Commit returns do not match.
func Is422(err error) bool {
	se, ok := err.(*statusError)
	return ok && (se.StatusCode == http.StatusUnprocessableEntity || se.StatusCode == http.StatusConflict)
}

func (a *Adapter) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("githubapi: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	url := a.baseURL() + "/repos/" + a.Owner + "/" + a.Repo + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("githubapi: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+a.Token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("githubapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("githubapi: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		_ = json.Unmarshal(respBody, &ae)
		msg := ae.Message
		if msg == "" {
			msg = string(respBody)
		}
		return &statusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("githubapi: decoding response for %s %s: %w", method, path, err)
		}
	}
	return nil
}
