package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/gitadapter"
	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/logging"
	"github.com/gitgovernance/gitgov/internal/syncerr"
	"github.com/gitgovernance/gitgov/internal/syncfs"
)

// Push runs the full pre-flight/reconciliation/publication/cleanup
// pipeline of spec.md §4.5.
func (e *Engine) Push(ctx context.Context, actorID string, opts PushOptions) (*PushResult, error) {
	ctx = logging.WithComponent(ctx, "sync.push")
	ctx = logging.WithActor(ctx, actorID)

	sourceBranch := opts.SourceBranch
	if sourceBranch == "" {
		cur, err := e.Backend.GetCurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("sync: resolving current branch: %w", err)
		}
		sourceBranch = cur
	}
	if sourceBranch == e.StateBranchName {
		return nil, syncerr.New(syncerr.TypePushFromStateBranch,
			fmt.Sprintf("cannot push from %s itself", e.StateBranchName))
	}

	authActor, err := e.Identity.AuthenticatedActorID(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: resolving authenticated actor: %w", err)
	}
	if authActor != actorID {
		return nil, syncerr.New(syncerr.TypeActorIdentityMismatch,
			fmt.Sprintf("authenticated actor %s does not match requested actor %s", authActor, actorID))
	}

	hasRemote, err := e.Backend.IsRemoteConfigured(ctx, e.Remote)
	if err != nil {
		return nil, fmt.Errorf("sync: checking remote: %w", err)
	}
	if !hasRemote {
		return nil, syncerr.New(syncerr.TypeNoRemoteConfigured, "no remote configured")
	}
	hasCommits, err := e.Backend.HasCommits(ctx, sourceBranch)
	if err != nil {
		return nil, fmt.Errorf("sync: checking commits on %s: %w", sourceBranch, err)
	}
	if !hasCommits {
		return nil, syncerr.New(syncerr.TypeNoCommitsOnBranch,
			fmt.Sprintf("%s has no commits", sourceBranch))
	}

	report, err := e.Audit(ctx, AuditOptions{Scope: collab.ScopeCurrent})
	if err != nil {
		return nil, fmt.Errorf("sync: pre-push audit: %w", err)
	}
	if !report.Passed {
		files := violationFiles(report)
		return &PushResult{
			Success:          false,
			SourceBranch:     sourceBranch,
			ConflictDetected: true,
			ConflictInfo: &ConflictInfo{
				Type:          syncerr.TypeIntegrityViolation,
				AffectedFiles: files,
				Detail:        report.Summary,
				ResolutionSteps: []string{
					"run `gitgov sync audit` for full detail",
					"resolve flagged records, then retry push",
				},
			},
		}, nil
	}

	result := &PushResult{SourceBranch: sourceBranch}

	if err := e.Backend.EnsureStateBranch(ctx); err != nil {
		return nil, fmt.Errorf("sync: ensuring state branch: %w", err)
	}

	var scratch *syncfs.ScratchDir
	hadGitgov := gitgovExists(e.RepoRoot)
	if hadGitgov {
		scratch, err = syncfs.New()
		if err != nil {
			return nil, fmt.Errorf("sync: creating scratch dir: %w", err)
		}
		defer scratch.Close()
		if err := scratch.CopyTree(ctx, filepath.Join(e.RepoRoot, idpath.GitgovDir)); err != nil {
			return nil, fmt.Errorf("sync: preserving .gitgov: %w", err)
		}
	}

	dirty, err := e.Backend.IsWorkingTreeDirty(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: checking working tree: %w", err)
	}
	var stashRef string
	if dirty {
		ref, err := e.Backend.Stash(ctx, "gitgov-sync-push")
		if err != nil {
			return nil, fmt.Errorf("sync: stashing local changes: %w", err)
		}
		stashRef = ref
	}

	if err := e.Backend.CheckoutBranch(ctx, e.StateBranchName); err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, fmt.Errorf("sync: checking out %s: %w", e.StateBranchName, err))
	}

	firstPush := !gitgovExists(e.RepoRoot)

	filesBeforeChanges, err := listSyncableGitgovFiles(e.RepoRoot, e.Policy)
	if err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}

	var deltaFiles []string
	if !firstPush {
		delta, err := e.Backend.CalculateStateDelta(ctx, sourceBranch)
		if err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
		for _, d := range delta {
			deltaFiles = append(deltaFiles, d.File)
		}
		if len(delta) == 0 {
			result.Success = true
			result.FilesSynced = 0
			return result, e.pushCleanup(ctx, sourceBranch, scratch, stashRef, false)
		}
	}

	var filesToScan []string
	if scratch != nil {
		syncable, err := listSyncableGitgovFiles(scratch.Root(), e.Policy)
		if err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
		if err := overlaySyncableFiles(scratch.Root(), e.RepoRoot, syncable); err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
		if err := pruneOverlayExtras(e.RepoRoot, e.Policy, syncable); err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
		filesToScan = syncable
	} else {
		var paths []string
		if firstPush {
			paths = filesBeforeChanges
		} else {
			paths = deltaFiles
		}
		if len(paths) > 0 {
			if err := e.Backend.CheckoutFilesFromBranch(ctx, sourceBranch, prefixGitgov(paths)); err != nil {
				return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
			}
		}
		filesToScan = paths
	}

	if conflict, err := e.scanForSecrets(ctx, filesToScan); err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	} else if conflict != nil {
		result.ConflictDetected = true
		result.ConflictInfo = conflict
		return result, e.pushCleanup(ctx, sourceBranch, scratch, stashRef, false)
	}

	if err := e.Backend.Add(ctx, []string{idpath.GitgovDir}, true); err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}

	staged, err := e.Backend.GetStagedFiles(ctx)
	if err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}
	var nonSyncable []string
	for _, f := range staged {
		if !e.Policy.ShouldSync(f) {
			nonSyncable = append(nonSyncable, f)
		}
	}
	if len(nonSyncable) > 0 {
		if err := e.Backend.Remove(ctx, nonSyncable, true); err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
	}

	currentSyncable, err := listSyncableGitgovFiles(e.RepoRoot, e.Policy)
	if err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}
	currentSet := stringSet(currentSyncable)
	var deletions []string
	for _, f := range filesBeforeChanges {
		if !currentSet[f] {
			deletions = append(deletions, f)
		}
	}
	if len(deletions) > 0 {
		if err := e.Backend.Remove(ctx, deletions, true); err != nil {
			return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
		}
	}

	staged, err = e.Backend.GetStagedFiles(ctx)
	if err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}
	if len(staged) == 0 {
		result.Success = true
		result.FilesSynced = 0
		return result, e.pushCleanup(ctx, sourceBranch, scratch, stashRef, false)
	}

	message := buildSyncCommitMessage(firstPush, sourceBranch, actorID, staged)
	result.FilesSynced = len(staged)
	result.CommitMessage = message

	if opts.DryRun {
		result.Success = true
		return result, e.pushCleanup(ctx, sourceBranch, scratch, stashRef, false)
	}

	commitHash, err := e.Backend.Commit(ctx, message)
	if err != nil {
		return nil, e.pushFailCleanup(ctx, sourceBranch, scratch, stashRef, false, err)
	}
	result.CommitHash = commitHash

	hashBeforePull := commitHash
	var implicitPull *ImplicitPullInfo
	if err := e.Backend.PullRebase(ctx, e.Remote, e.StateBranchName); err != nil {
		inProgress, _ := e.Backend.IsRebaseInProgress(ctx)
		conflicted, _ := e.Backend.GetConflictedFiles(ctx)
		if inProgress || len(conflicted) > 0 {
			result.ConflictDetected = true
			result.ConflictInfo = &ConflictInfo{
				Type:          syncerr.TypeRebaseConflict,
				AffectedFiles: conflicted,
				Detail:        "pulling the remote state branch produced conflicts",
				ResolutionSteps: []string{
					"edit the conflicted files",
					"git add the resolved files",
					"run `gitgov sync resolve`",
				},
			}
			return result, nil
		}
		logging.Warn(ctx, "pull-rebase of state branch produced a benign error", "error", err)
	} else {
		newHead, _ := currentHeadHash(ctx, e.Backend)
		if newHead != "" && newHead != hashBeforePull {
			changed, cerr := e.Backend.GetChangedFiles(ctx, hashBeforePull, newHead, e.Policy.ShouldSync)
			if cerr == nil {
				implicitPull = &ImplicitPullInfo{HasChanges: len(changed) > 0, FilesUpdated: len(changed)}
			}
		}
	}
	result.ImplicitPull = implicitPull

	if err := e.Backend.Push(ctx, e.Remote, e.StateBranchName); err != nil {
		logging.Warn(ctx, "push to remote state branch failed (tolerated, retry on next sync)", "error", err)
	}

	result.Success = true
	return result, e.pushCleanup(ctx, sourceBranch, scratch, stashRef, implicitPull != nil && implicitPull.HasChanges)
}

// currentHeadHash returns the current HEAD commit hash via a trivial
// single-entry history walk, reused by both backends' Adapter.
func currentHeadHash(ctx context.Context, a gitadapter.Adapter) (string, error) {
	hist, err := a.GetCommitHistory(ctx, "HEAD", 1)
	if err != nil || len(hist) == 0 {
		return "", err
	}
	return hist[0].Hash, nil
}

// pushCleanup implements spec.md §4.5 steps 18–22 on a successful or
// no-op path.
func (e *Engine) pushCleanup(ctx context.Context, sourceBranch string, scratch *syncfs.ScratchDir, stashRef string, implicitPull bool) error {
	if err := e.Backend.CheckoutBranch(ctx, sourceBranch); err != nil {
		return fmt.Errorf("sync: returning to %s: %w", sourceBranch, err)
	}
	if stashRef != "" {
		if err := e.Backend.StashPop(ctx, stashRef); err != nil {
			logging.Warn(ctx, "restoring stashed changes failed, inspect `git stash list`", "error", err)
		}
	}
	if scratch != nil {
		if implicitPull {
			syncablePaths, err := listSyncableGitgovFiles(e.RepoRoot, e.Policy)
			if err == nil && len(syncablePaths) > 0 {
				if err := e.Backend.CheckoutFilesFromBranch(ctx, e.StateBranchName, prefixGitgov(syncablePaths)); err == nil {
					_ = e.Backend.Reset(ctx, prefixGitgov(syncablePaths))
				}
			}
		}
		if err := scratch.RestoreTree(ctx, e.RepoRoot); err != nil {
			return fmt.Errorf("sync: restoring preserved .gitgov files: %w", err)
		}
	}
	_ = e.Backend.Reset(ctx, []string{idpath.GitgovDir})

	if implicitPull {
		if err := e.Projector.Reindex(ctx, e.RepoRoot); err != nil {
			logging.Warn(ctx, "projector reindex after implicit pull failed", "error", err)
		}
	}
	e.Telemetry.Track(ctx, "sync.push", map[string]any{"sourceBranch": sourceBranch})
	return nil
}

func (e *Engine) pushFailCleanup(ctx context.Context, sourceBranch string, scratch *syncfs.ScratchDir, stashRef string, implicitPull bool, cause error) error {
	if cleanupErr := e.pushCleanup(ctx, sourceBranch, scratch, stashRef, implicitPull); cleanupErr != nil {
		logging.Error(ctx, "cleanup after push failure also failed", "cleanupError", cleanupErr, "cause", cause)
	}
	return cause
}

func buildSyncCommitMessage(firstPush bool, sourceBranch, actorID string, files []string) string {
	var b strings.Builder
	verb := "Publish state"
	suffix := "changed"
	if firstPush {
		verb = "Initial state"
		suffix = "synced (initial)"
	}
	fmt.Fprintf(&b, "sync: %s from %s\n", verb, sourceBranch)
	fmt.Fprintf(&b, "Actor: %s\n", actorID)
	fmt.Fprintf(&b, "Timestamp: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Files: %d file(s) %s\n\n", len(files), suffix)
	for _, f := range files {
		fmt.Fprintf(&b, "M %s\n", f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func prefixGitgov(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, idpath.GitgovDir+"/") {
			out[i] = p
		} else {
			out[i] = idpath.GitgovDir + "/" + p
		}
	}
	return out
}

func overlaySyncableFiles(srcRoot, dstRoot string, relPaths []string) error {
	for _, rel := range relPaths {
		src := filepath.Join(srcRoot, rel)
		dst := filepath.Join(dstRoot, rel)
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("sync: reading %s: %w", src, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("sync: writing %s: %w", dst, err)
		}
	}
	return nil
}

func violationFiles(report *AuditReport) []string {
	var files []string
	if report.LintReport != nil {
		for _, v := range report.LintReport.ChecksumMismatches {
			files = append(files, v.File)
		}
		for _, v := range report.LintReport.InvalidSignatures {
			files = append(files, v.File)
		}
		for _, v := range report.LintReport.StructuralErrors {
			files = append(files, v.File)
		}
	}
	for _, v := range report.IntegrityViolations {
		files = append(files, v.RebaseCommitHash)
	}
	return files
}
