package sync

import (
	"testing"
	"time"
)

func TestCommitSubject_FirstLineOnly(t *testing.T) {
	if got := commitSubject("sync: Publish state\nActor: human:alice\n"); got != "sync: Publish state" {
		t.Errorf("commitSubject = %q", got)
	}
	if got := commitSubject("single line"); got != "single line" {
		t.Errorf("commitSubject = %q", got)
	}
}

func TestIsResolutionCommit_And_IsSyncCommit(t *testing.T) {
	if !isResolutionCommit("resolution: conflict resolved by human:alice") {
		t.Error("expected resolution: prefix to be recognized")
	}
	if isResolutionCommit("sync: Publish state") {
		t.Error("a sync: commit should not be a resolution commit")
	}
	if !isSyncCommit("sync: Publish state") {
		t.Error("expected sync: prefix to be recognized")
	}
}

func TestIsRebaseCommit_DetectsMarkersButNotOwnCommits(t *testing.T) {
	if !isRebaseCommit("rebase onto gitgov-state") {
		t.Error("expected a commit mentioning 'rebase' to be flagged")
	}
	if !isRebaseCommit("pick abc123 some message") {
		t.Error("expected a 'pick ' marker to be flagged")
	}
	if isRebaseCommit("sync: Publish state") {
		t.Error("a sync: commit should never be classified as a rebase commit")
	}
	if isRebaseCommit("resolution: conflict resolved by human:alice") {
		t.Error("a resolution: commit should never be classified as a rebase commit")
	}
	if isRebaseCommit("Add a new task") {
		t.Error("an ordinary commit message should not be flagged as a rebase commit")
	}
}

func TestOldestViolationTimestamp_PicksEarliest(t *testing.T) {
	violations := []IntegrityViolation{
		{Timestamp: "2026-02-01T00:00:00Z"},
		{Timestamp: "2026-01-01T00:00:00Z"},
		{Timestamp: "not-a-timestamp"},
	}
	oldest := oldestViolationTimestamp(violations)
	if oldest == nil {
		t.Fatal("expected a non-nil oldest timestamp")
	}
	want, _ := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	if !oldest.Equal(want) {
		t.Errorf("oldest = %v, want %v", oldest, want)
	}
}

func TestOldestViolationTimestamp_NoneParseable(t *testing.T) {
	violations := []IntegrityViolation{{Timestamp: "garbage"}}
	if oldestViolationTimestamp(violations) != nil {
		t.Error("expected nil when no timestamps parse")
	}
}

func TestBuildAuditSummary_Passed(t *testing.T) {
	report := &AuditReport{Passed: true, TotalCommits: 1200, RebaseCommits: 3, ResolutionCommits: 3}
	summary := buildAuditSummary(report)
	if summary == "" {
		t.Error("expected a non-empty summary")
	}
}

func TestBuildAuditSummary_Failed(t *testing.T) {
	report := &AuditReport{
		Passed: false,
		IntegrityViolations: []IntegrityViolation{
			{RebaseCommitHash: "abc", Timestamp: "2026-01-01T00:00:00Z"},
		},
	}
	summary := buildAuditSummary(report)
	if summary == "" {
		t.Error("expected a non-empty failure summary")
	}
}
