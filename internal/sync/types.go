package sync

import (
	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/syncerr"
)

// ConflictInfo describes a sync failure an operator must act on,
// embedded in Push/Pull results (spec.md §4.5–§4.7).
type ConflictInfo struct {
	Type            syncerr.Type
	AffectedFiles   []string
	Detail          string
	ResolutionSteps []string
}

// ImplicitPullInfo records the files a push's reconcile-with-remote
// phase pulled in incidentally (spec.md §4.5 step 16).
type ImplicitPullInfo struct {
	HasChanges   bool
	FilesUpdated int
}

// PushOptions parameterizes Engine.Push.
type PushOptions struct {
	SourceBranch string
	DryRun       bool
}

// PushResult is the result shape of spec.md §4.5.
type PushResult struct {
	Success          bool
	FilesSynced      int
	SourceBranch     string
	CommitHash       string
	CommitMessage    string
	ConflictDetected bool
	ConflictInfo     *ConflictInfo
	ImplicitPull     *ImplicitPullInfo
	Error            error
}

// PullOptions parameterizes Engine.Pull.
type PullOptions struct {
	ForceReindex bool
	Force        bool
}

// PullResult is the result shape of spec.md §4.6.
type PullResult struct {
	Success          bool
	HasChanges       bool
	FilesUpdated     int
	Reindexed        bool
	ConflictDetected bool
	ConflictInfo     *ConflictInfo
	ForcedOverwrites []string
	Error            error
}

// ResolveResult is the result shape of spec.md §4.7.
type ResolveResult struct {
	Success       bool
	CommitHash    string
	FilesResolved int
	Error         error
}

// AuditOptions parameterizes Engine.Audit.
type AuditOptions struct {
	Scope               collab.LintScope
	VerifySignatures    bool
	VerifyChecksums     bool
	VerifyExpectedFiles bool
	ExpectedFilesScope  collab.LintScope
}

// IntegrityViolation is a rebase commit not immediately followed by a
// resolution commit (spec.md §4.8, check 1).
type IntegrityViolation struct {
	RebaseCommitHash string
	CommitMessage    string
	Timestamp        string
	Author           string
}

// AuditReport is the result shape of spec.md §4.8.
type AuditReport struct {
	Passed              bool
	Scope               string
	TotalCommits        int
	RebaseCommits       int
	ResolutionCommits   int
	IntegrityViolations []IntegrityViolation
	LintReport          *collab.LintReport
	Summary             string
}
