// Package gitadapter defines the abstract git capability set the sync
// engine is built against (spec.md §4.3), and provides two
// implementations: a local git-CLI/go-git hybrid (localgit) and a
// GitHub REST API client (githubapi).
package gitadapter

import "context"

// FileStatus is the change kind of one entry in a diff (spec.md's A/M/D).
type FileStatus string

const (
	StatusAdded    FileStatus = "A"
	StatusModified FileStatus = "M"
	StatusDeleted  FileStatus = "D"
)

// ChangedFile is one entry in a filtered diff between two refs.
type ChangedFile struct {
	Status FileStatus
	File   string
}

// CommitInfo is one entry in a commit history walk.
type CommitInfo struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// Adapter is the full capability set spec.md §4.3 requires of a git
// backend. Both localgit.Adapter and githubapi.Adapter implement it;
// githubapi never reports a rebase in progress, and its RebaseContinue,
// Stash and StashPop return errors (spec.md §4.9).
type Adapter interface {
	// Pre-flight
	GetCurrentBranch(ctx context.Context) (string, error)
	GetRepoRoot(ctx context.Context) (string, error)
	IsRemoteConfigured(ctx context.Context, remote string) (bool, error)

	// Branch topology
	BranchExists(ctx context.Context, branch string) (bool, error)
	ListRemoteBranches(ctx context.Context, remote string) ([]string, error)
	CreateBranch(ctx context.Context, branch, fromRef string) error
	CheckoutBranch(ctx context.Context, branch string) error
	CheckoutOrphanBranch(ctx context.Context, branch string) error
	SetUpstream(ctx context.Context, branch, remote string) error

	// Transport
	Fetch(ctx context.Context, remote, refSpec string) error
	Push(ctx context.Context, remote, branch string) error
	PushWithUpstream(ctx context.Context, remote, branch string) error
	PullRebase(ctx context.Context, remote, branch string) error

	// Mutation
	Add(ctx context.Context, paths []string, force bool) error
	// Remove stages a deletion of paths from both the index and the
	// working tree (git rm -f).
	Remove(ctx context.Context, paths []string, force bool) error
	// Reset unstages paths (restores the index entry to HEAD's) without
	// touching the working tree, used after a selective
	// CheckoutFilesFromBranch stages files the caller doesn't want
	// committed on the current branch.
	Reset(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string) (string, error)
	CommitAllowEmpty(ctx context.Context, message string) (string, error)
	Stash(ctx context.Context, label string) (string, error)
	StashPop(ctx context.Context, stashRef string) error

	// Reconciliation
	RebaseContinue(ctx context.Context) (string, error)
	RebaseAbort(ctx context.Context) error
	IsRebaseInProgress(ctx context.Context) (bool, error)
	GetConflictedFiles(ctx context.Context) ([]string, error)
	GetStagedFiles(ctx context.Context) ([]string, error)

	// Analysis
	GetChangedFiles(ctx context.Context, a, b string, pathFilter func(string) bool) ([]ChangedFile, error)
	GetCommitHistory(ctx context.Context, ref string, max int) ([]CommitInfo, error)
	// ReadFileAtRef returns path's content as it exists at ref, without
	// touching the working tree or index.
	ReadFileAtRef(ctx context.Context, ref, path string) (string, error)

	// Selective restore
	CheckoutFilesFromBranch(ctx context.Context, branch string, paths []string) error

	// Working tree
	IsWorkingTreeDirty(ctx context.Context) (bool, error)
	HasCommits(ctx context.Context, branch string) (bool, error)
}
