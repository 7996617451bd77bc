package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/logging"
)

// Audit runs the two checks of spec.md §4.8: integrity of the
// state-branch's resolution history, and structural/cryptographic
// validity of record files, delegated to the external linter.
func (e *Engine) Audit(ctx context.Context, opts AuditOptions) (*AuditReport, error) {
	ctx = logging.WithComponent(ctx, "sync.audit")

	report := &AuditReport{Scope: opts.Scope.String(), Passed: true}

	if opts.Scope == collab.ScopeStateBranch || opts.Scope == collab.ScopeAll {
		violations, total, rebaseCount, resolutionCount, err := auditResolutionHistory(ctx, e.Backend, e.StateBranchName)
		if err != nil {
			return nil, fmt.Errorf("sync: auditing resolution history: %w", err)
		}
		report.TotalCommits = total
		report.RebaseCommits = rebaseCount
		report.ResolutionCommits = resolutionCount
		report.IntegrityViolations = violations
		if len(violations) > 0 {
			report.Passed = false
		}
	}

	lintReport, err := e.Linter.Lint(ctx, e.RepoRoot, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("sync: linting: %w", err)
	}
	report.LintReport = &lintReport
	if !lintReport.Passed {
		report.Passed = false
	}

	report.Summary = buildAuditSummary(report)
	return report, nil
}

// auditResolutionHistory walks ref's commit history (up to 1000
// commits) looking for a rebase commit at index i not immediately
// followed by a resolution commit at index i+1 (spec.md §4.8, check 1).
func auditResolutionHistory(ctx context.Context, backend Backend, ref string) ([]IntegrityViolation, int, int, int, error) {
	const maxCommits = 1000

	exists, err := backend.BranchExists(ctx, ref)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if !exists {
		return nil, 0, 0, 0, nil
	}

	commits, err := backend.GetCommitHistory(ctx, ref, maxCommits)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	var violations []IntegrityViolation
	rebaseCount, resolutionCount := 0, 0
	for i, c := range commits {
		subject := commitSubject(c.Message)
		switch {
		case isResolutionCommit(subject):
			resolutionCount++
		case isRebaseCommit(subject):
			rebaseCount++
			followedByResolution := i+1 < len(commits) && isResolutionCommit(commitSubject(commits[i+1].Message))
			if !followedByResolution {
				violations = append(violations, IntegrityViolation{
					RebaseCommitHash: c.Hash,
					CommitMessage:    c.Message,
					Timestamp:        c.Date,
					Author:           c.Author,
				})
			}
		}
	}
	return violations, len(commits), rebaseCount, resolutionCount, nil
}

func commitSubject(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

func isResolutionCommit(subject string) bool {
	return strings.HasPrefix(subject, "resolution:")
}

func isSyncCommit(subject string) bool {
	return strings.HasPrefix(subject, "sync:")
}

// isRebaseCommit reports whether subject carries an explicit rebase
// marker ("rebase", "pick ") and isn't itself a sync: or resolution:
// commit (those lexemes can legitimately appear inside a rebased
// commit's own message).
func isRebaseCommit(subject string) bool {
	if isSyncCommit(subject) || isResolutionCommit(subject) {
		return false
	}
	lower := strings.ToLower(subject)
	return strings.Contains(lower, "rebase") || strings.Contains(lower, "pick ")
}

func buildAuditSummary(report *AuditReport) string {
	if report.Passed {
		return fmt.Sprintf("audit passed: %s commits scanned (%s rebase, %s resolution)",
			humanize.Comma(int64(report.TotalCommits)), humanize.Comma(int64(report.RebaseCommits)), humanize.Comma(int64(report.ResolutionCommits)))
	}
	var parts []string
	if n := len(report.IntegrityViolations); n > 0 {
		detail := fmt.Sprintf("%d unresolved rebase commit(s)", n)
		if oldest := oldestViolationTimestamp(report.IntegrityViolations); oldest != nil {
			detail += fmt.Sprintf(", oldest %s", humanize.Time(*oldest))
		}
		parts = append(parts, detail)
	}
	if report.LintReport != nil {
		if n := len(report.LintReport.ChecksumMismatches); n > 0 {
			parts = append(parts, fmt.Sprintf("%d checksum mismatch(es)", n))
		}
		if n := len(report.LintReport.InvalidSignatures); n > 0 {
			parts = append(parts, fmt.Sprintf("%d invalid signature(s)", n))
		}
		if n := len(report.LintReport.StructuralErrors); n > 0 {
			parts = append(parts, fmt.Sprintf("%d structural error(s)", n))
		}
	}
	return "audit failed: " + strings.Join(parts, ", ")
}

// oldestViolationTimestamp returns the earliest parseable commit
// timestamp among violations, or nil if none parse.
func oldestViolationTimestamp(violations []IntegrityViolation) *time.Time {
	var oldest *time.Time
	for _, v := range violations {
		t, err := time.Parse(time.RFC3339, v.Timestamp)
		if err != nil {
			continue
		}
		if oldest == nil || t.Before(*oldest) {
			oldest = &t
		}
	}
	return oldest
}
