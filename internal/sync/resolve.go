package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/logging"
	"github.com/gitgovernance/gitgov/internal/record"
	"github.com/gitgovernance/gitgov/internal/syncerr"
	"github.com/gitgovernance/gitgov/internal/syncfs"
)

var conflictMarkers = []string{"<<<<<<<", "=======", ">>>>>>>"}

// Resolve completes a paused rebase (spec.md §4.7): it finalizes the
// git-level rebase, re-signs every conflicted record the caller staged,
// and publishes a resolution commit.
func (e *Engine) Resolve(ctx context.Context, actorID, reason string) (*ResolveResult, error) {
	ctx = logging.WithComponent(ctx, "sync.resolve")
	ctx = logging.WithActor(ctx, actorID)

	inProgress, err := e.Backend.IsRebaseInProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: checking rebase state: %w", err)
	}
	if !inProgress {
		return nil, syncerr.New(syncerr.TypeNoRebaseInProgress, "no rebase in progress to resolve")
	}

	authActor, err := e.Identity.AuthenticatedActorID(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: resolving authenticated actor: %w", err)
	}
	if authActor != actorID {
		return nil, syncerr.New(syncerr.TypeActorIdentityMismatch,
			fmt.Sprintf("authenticated actor %s does not match requested actor %s", authActor, actorID))
	}

	staged, err := e.Backend.GetStagedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: reading staged files: %w", err)
	}
	var resolvedRecords []string
	for _, f := range staged {
		if strings.HasPrefix(f, idpath.GitgovDir+"/") && strings.HasSuffix(f, ".json") {
			resolvedRecords = append(resolvedRecords, f)
		}
	}

	if violating := filesWithConflictMarkers(e.RepoRoot, resolvedRecords); len(violating) > 0 {
		return nil, syncerr.New(syncerr.TypeConflictMarkers,
			"unresolved conflict markers remain").WithFiles(violating).WithSteps([]string{
			"remove the <<<<<<< / ======= / >>>>>>> markers",
			"stage the resolved files and retry `gitgov sync resolve`",
		})
	}

	rebaseCommitHash, err := e.Backend.RebaseContinue(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: continuing rebase: %w", err)
	}

	sourceBranch, err := e.Backend.GetCurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: resolving current branch: %w", err)
	}

	resigned := 0
	for _, f := range resolvedRecords {
		full := filepath.Join(e.RepoRoot, f)
		data, err := os.ReadFile(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("sync: reading %s: %w", f, err)
		}
		env, err := record.Unmarshal(data)
		if err != nil {
			// Not a valid envelope (legacy file, .gitkeep, stray JSON):
			// skip without failing the whole resolution.
			continue
		}
		resigned, err = e.resignOne(ctx, full, env, actorID, reason, resigned)
		if err != nil {
			return nil, err
		}
	}

	if err := e.Backend.Add(ctx, []string{idpath.GitgovDir}, true); err != nil {
		return nil, fmt.Errorf("sync: staging resolved records: %w", err)
	}

	message := buildResolutionCommitMessage(actorID, reason, resigned)
	commitHash, err := e.Backend.Commit(ctx, message)
	if err != nil {
		if strings.Contains(err.Error(), "nothing to commit") {
			commitHash = rebaseCommitHash
		} else {
			return nil, fmt.Errorf("sync: creating resolution commit: %w", err)
		}
	}

	if err := e.Backend.Push(ctx, e.Remote, e.StateBranchName); err != nil {
		logging.Warn(ctx, "push of resolution commit failed (tolerated, retry on next sync)", "error", err)
	}

	result := &ResolveResult{Success: true, CommitHash: commitHash, FilesResolved: resigned}

	if err := e.returnFromStateBranch(ctx, sourceBranch); err != nil {
		return result, err
	}

	if err := e.Projector.Reindex(ctx, e.RepoRoot); err != nil {
		logging.Warn(ctx, "projector reindex after resolve failed", "error", err)
	}
	e.Telemetry.Track(ctx, "sync.resolve", map[string]any{"actor": actorID, "filesResolved": resigned})
	return result, nil
}

// resignOne re-signs a single resolved record in place, recomputing its
// checksum through Identity.Sign, and writes the updated envelope back.
func (e *Engine) resignOne(ctx context.Context, path string, env *record.Envelope, actorID, reason string, resigned int) (int, error) {
	notes := fmt.Sprintf("Conflict resolved: %s", reason)
	signed, err := e.Identity.Sign(ctx, env, "resolver", notes)
	if err != nil {
		return resigned, fmt.Errorf("sync: re-signing %s: %w", path, err)
	}
	out, err := signed.Marshal()
	if err != nil {
		return resigned, fmt.Errorf("sync: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return resigned, fmt.Errorf("sync: writing %s: %w", path, err)
	}
	return resigned + 1, nil
}

// returnFromStateBranch restores sourceBranch after a resolution
// commit, mirroring push's cleanup: preserved local-only/excluded files
// round-trip through a scratch dir, syncable files are selectively
// restored rather than checking out the whole .gitgov/ tree.
func (e *Engine) returnFromStateBranch(ctx context.Context, sourceBranch string) error {
	var scratch *syncfs.ScratchDir
	if gitgovExists(e.RepoRoot) {
		s, err := syncfs.New()
		if err != nil {
			return fmt.Errorf("sync: creating scratch dir: %w", err)
		}
		scratch = s
		defer scratch.Close()
		if err := scratch.CopyTree(ctx, filepath.Join(e.RepoRoot, idpath.GitgovDir)); err != nil {
			return fmt.Errorf("sync: preserving .gitgov: %w", err)
		}
	}

	if err := e.Backend.CheckoutBranch(ctx, sourceBranch); err != nil {
		return fmt.Errorf("sync: returning to %s: %w", sourceBranch, err)
	}

	syncable, err := listSyncableGitgovFiles(e.RepoRoot, e.Policy)
	if err != nil {
		return err
	}
	if len(syncable) > 0 {
		if err := e.Backend.CheckoutFilesFromBranch(ctx, e.StateBranchName, prefixGitgov(syncable)); err != nil {
			return fmt.Errorf("sync: restoring syncable files onto %s: %w", sourceBranch, err)
		}
		_ = e.Backend.Reset(ctx, prefixGitgov(syncable))
	}

	if scratch != nil {
		if err := scratch.RestoreTree(ctx, e.RepoRoot); err != nil {
			return fmt.Errorf("sync: restoring preserved .gitgov files: %w", err)
		}
	}
	return nil
}

func filesWithConflictMarkers(repoRoot string, files []string) []string {
	var violating []string
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(repoRoot, f))
		if err != nil {
			continue
		}
		content := string(data)
		for _, marker := range conflictMarkers {
			if strings.Contains(content, marker) {
				violating = append(violating, f)
				break
			}
		}
	}
	return violating
}

func buildResolutionCommitMessage(actorID, reason string, filesResolved int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolution: conflict resolved by %s\n", actorID)
	fmt.Fprintf(&b, "Actor: %s\n", actorID)
	fmt.Fprintf(&b, "Timestamp: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Reason: %s\n", reason)
	fmt.Fprintf(&b, "Files: %d\n", filesResolved)
	fmt.Fprintf(&b, "Signed-off-by: %s\n", actorID)
	return strings.TrimRight(b.String(), "\n")
}
