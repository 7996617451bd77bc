package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/logging"
	"github.com/gitgovernance/gitgov/internal/syncerr"
)

// Pull runs the pipeline of spec.md §4.6: fetch the state branch,
// detect local-vs-remote conflicts, rebase, and selectively restore
// syncable files onto the source branch.
func (e *Engine) Pull(ctx context.Context, opts PullOptions) (*PullResult, error) {
	ctx = logging.WithComponent(ctx, "sync.pull")

	hasRemote, err := e.Backend.IsRemoteConfigured(ctx, e.Remote)
	if err != nil {
		return nil, fmt.Errorf("sync: checking remote: %w", err)
	}
	if !hasRemote {
		return nil, syncerr.New(syncerr.TypeNoRemoteConfigured, "no remote configured")
	}

	localExists, err := e.Backend.BranchExists(ctx, e.StateBranchName)
	if err != nil {
		return nil, fmt.Errorf("sync: checking local state branch: %w", err)
	}
	remoteExists, err := remoteBranchExists(ctx, e.Backend, e.Remote, e.StateBranchName)
	if err != nil {
		return nil, fmt.Errorf("sync: checking remote state branch: %w", err)
	}
	switch {
	case !localExists && remoteExists:
		if err := e.Backend.Fetch(ctx, e.Remote, ""); err != nil {
			return nil, fmt.Errorf("sync: fetching %s: %w", e.Remote, err)
		}
		if err := e.Backend.CreateBranch(ctx, e.StateBranchName, e.Remote+"/"+e.StateBranchName); err != nil {
			return nil, fmt.Errorf("sync: creating local tracking branch: %w", err)
		}
	case !localExists && !remoteExists:
		if gitgovExists(e.RepoRoot) {
			return nil, syncerr.New(syncerr.TypeStateBranchSetup, "no state branch yet; run `gitgov sync push` first")
		}
		return nil, syncerr.New(syncerr.TypeStateBranchSetup, "no state branch yet; run `gitgov init` then `gitgov sync push`")
	case localExists && !remoteExists:
		return &PullResult{Success: true}, nil
	}

	sourceBranch, err := e.Backend.GetCurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: resolving current branch: %w", err)
	}

	savedSyncable, err := readFileContents(e.RepoRoot, mustList(listSyncableGitgovFiles(e.RepoRoot, e.Policy)))
	if err != nil {
		return nil, err
	}
	localOnlyPaths, err := listGitgovFiles(e.RepoRoot)
	if err != nil {
		return nil, err
	}
	var localOnly []string
	for _, f := range localOnlyPaths {
		if !e.Policy.ShouldSync(f) {
			localOnly = append(localOnly, f)
		}
	}
	savedLocalOnly, err := readFileContents(e.RepoRoot, localOnly)
	if err != nil {
		return nil, err
	}

	if err := e.Backend.CheckoutBranch(ctx, e.StateBranchName); err != nil {
		return nil, fmt.Errorf("sync: checking out %s: %w", e.StateBranchName, err)
	}

	if err := e.Backend.Fetch(ctx, e.Remote, ""); err != nil {
		return nil, fmt.Errorf("sync: fetching %s: %w", e.Remote, err)
	}
	remoteChanged, err := e.Backend.GetChangedFiles(ctx, e.StateBranchName, e.Remote+"/"+e.StateBranchName, e.Policy.ShouldSync)
	if err != nil {
		return nil, fmt.Errorf("sync: computing remote changes: %w", err)
	}

	var overlapping []string
	var overlapDetail []string
	for _, c := range remoteChanged {
		local, hasLocal := savedSyncable[c.File]
		lastSynced, lastErr := readHeadBlob(ctx, e.Backend, e.StateBranchName, c.File)
		if !hasLocal || lastErr != nil {
			continue
		}
		if local != lastSynced {
			overlapping = append(overlapping, c.File)
			overlapDetail = append(overlapDetail, conflictDetailLine(c.File, local, lastSynced))
		}
	}

	result := &PullResult{}
	if len(overlapping) > 0 && !opts.Force {
		if err := restoreContents(e.RepoRoot, savedSyncable); err != nil {
			return nil, err
		}
		if err := restoreContents(e.RepoRoot, savedLocalOnly); err != nil {
			return nil, err
		}
		result.ConflictDetected = true
		result.ConflictInfo = &ConflictInfo{
			Type:          syncerr.TypeLocalChangesConflict,
			AffectedFiles: overlapping,
			Detail:        "local edits overlap with files the remote also changed: " + strings.Join(overlapDetail, ", "),
			ResolutionSteps: []string{
				"run `gitgov sync push` to resolve via rebase",
				"or run `gitgov sync pull --force` to overwrite local edits",
			},
		}
		if err := e.Backend.CheckoutBranch(ctx, sourceBranch); err != nil {
			return nil, fmt.Errorf("sync: returning to %s: %w", sourceBranch, err)
		}
		return result, nil
	}
	if len(overlapping) > 0 {
		result.ForcedOverwrites = overlapping
	}

	if err := e.Backend.PullRebase(ctx, e.Remote, e.StateBranchName); err != nil {
		inProgress, _ := e.Backend.IsRebaseInProgress(ctx)
		conflicted, _ := e.Backend.GetConflictedFiles(ctx)
		if inProgress || len(conflicted) > 0 {
			result.ConflictDetected = true
			result.ConflictInfo = &ConflictInfo{
				Type:          syncerr.TypeRebaseConflict,
				AffectedFiles: conflicted,
				Detail:        "rebasing onto the remote state branch produced conflicts",
				ResolutionSteps: []string{
					"edit the conflicted files",
					"git add the resolved files",
					"run `gitgov sync resolve`",
				},
			}
			return result, nil
		}
		logging.Warn(ctx, "pull-rebase produced a benign error", "error", err)
	}

	result.HasChanges = len(remoteChanged) > 0
	result.FilesUpdated = len(remoteChanged)

	indexMissing := !fileExists(filepath.Join(e.RepoRoot, idpath.GitgovDir, "index.json"))
	shouldReindex := result.HasChanges || opts.ForceReindex || indexMissing

	if err := e.Backend.CheckoutBranch(ctx, sourceBranch); err != nil {
		return nil, fmt.Errorf("sync: returning to %s: %w", sourceBranch, err)
	}

	syncDirsAndRoot, err := listSyncableGitgovFiles(e.RepoRoot, e.Policy)
	if err != nil {
		return nil, err
	}
	if len(syncDirsAndRoot) > 0 {
		if err := e.Backend.CheckoutFilesFromBranch(ctx, e.StateBranchName, prefixGitgov(syncDirsAndRoot)); err != nil {
			return nil, fmt.Errorf("sync: restoring syncable files onto %s: %w", sourceBranch, err)
		}
		_ = e.Backend.Reset(ctx, prefixGitgov(syncDirsAndRoot))
	}
	if err := restoreContents(e.RepoRoot, savedLocalOnly); err != nil {
		return nil, err
	}

	if shouldReindex {
		if err := e.Projector.Reindex(ctx, e.RepoRoot); err != nil {
			logging.Warn(ctx, "projector reindex failed", "error", err)
		} else {
			result.Reindexed = true
		}
	}

	result.Success = true
	e.Telemetry.Track(ctx, "sync.pull", map[string]any{"hasChanges": result.HasChanges})
	return result, nil
}

func remoteBranchExists(ctx context.Context, backend Backend, remote, branch string) (bool, error) {
	branches, err := backend.ListRemoteBranches(ctx, remote)
	if err != nil {
		return false, err
	}
	for _, b := range branches {
		if b == branch {
			return true, nil
		}
	}
	return false, nil
}

func readHeadBlob(ctx context.Context, backend Backend, ref, relPath string) (string, error) {
	return backend.ReadFileAtRef(ctx, ref, relPath)
}

func mustList(files []string, err error) []string {
	if err != nil {
		return nil
	}
	return files
}

func readFileContents(repoRoot string, relPaths []string) (map[string]string, error) {
	out := make(map[string]string, len(relPaths))
	for _, rel := range relPaths {
		data, err := os.ReadFile(filepath.Join(repoRoot, rel))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("sync: reading %s: %w", rel, err)
		}
		out[rel] = string(data)
	}
	return out, nil
}

func restoreContents(repoRoot string, contents map[string]string) error {
	for rel, data := range contents {
		full := filepath.Join(repoRoot, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			return fmt.Errorf("sync: restoring %s: %w", rel, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
