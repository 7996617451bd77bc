package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/sync"
	"github.com/gitgovernance/gitgov/internal/synclock"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push, pull, resolve, or audit governance records against the state branch",
	}
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncResolveCmd())
	cmd.AddCommand(newSyncAuditCmd())
	return cmd
}

func newSyncPushCmd() *cobra.Command {
	var actorID, sourceBranch string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Publish .gitgov/ changes to the state branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if actorID == "" {
				return fmt.Errorf("gitgov: --actor is required")
			}
			s, unlock, err := openSession(actorID)
			if err != nil {
				return err
			}
			defer unlock()
			defer s.Close()

			result, err := s.Engine.Push(cmd.Context(), actorID, sync.PushOptions{SourceBranch: sourceBranch, DryRun: dryRun})
			if err != nil {
				return err
			}
			printPushResult(cmd, result)
			if result.ConflictDetected {
				return NewSilentError(errors.New("push produced a conflict, see above"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actorID, "actor", "", "the pushing actor's id")
	cmd.Flags().StringVar(&sourceBranch, "source-branch", "", "branch to publish from (defaults to the current branch)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the sync without committing or pushing")
	return cmd
}

func newSyncPullCmd() *cobra.Command {
	var force, forceReindex bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch and reconcile state-branch changes onto the current branch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, unlock, err := openSession("")
			if err != nil {
				return err
			}
			defer unlock()
			defer s.Close()

			result, err := s.Engine.Pull(cmd.Context(), sync.PullOptions{Force: force, ForceReindex: forceReindex})
			if err != nil {
				return err
			}
			printPullResult(cmd, result)
			if result.ConflictDetected {
				return NewSilentError(errors.New("pull produced a conflict, see above"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite local edits that overlap with remote changes")
	cmd.Flags().BoolVar(&forceReindex, "force-reindex", false, "rebuild the derived index even if nothing changed")
	return cmd
}

func newSyncResolveCmd() *cobra.Command {
	var actorID, reason string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Finalize a paused rebase after staging the resolved records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if actorID == "" {
				return fmt.Errorf("gitgov: --actor is required")
			}
			if reason == "" {
				r, err := promptResolveReason()
				if err != nil {
					return err
				}
				reason = r
			}
			if reason == "" {
				return fmt.Errorf("gitgov: a resolution reason is required (--reason)")
			}

			s, unlock, err := openSession(actorID)
			if err != nil {
				return err
			}
			defer unlock()
			defer s.Close()

			result, err := s.Engine.Resolve(cmd.Context(), actorID, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved %d file(s), commit %s\n", result.FilesResolved, result.CommitHash)
			return nil
		},
	}
	cmd.Flags().StringVar(&actorID, "actor", "", "the resolving actor's id")
	cmd.Flags().StringVar(&reason, "reason", "", "why the conflict was resolved this way")
	return cmd
}

func newSyncAuditCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check resolution-history integrity and record structural validity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, unlock, err := openSession("")
			if err != nil {
				return err
			}
			defer unlock()
			defer s.Close()

			report, err := s.Engine.Audit(cmd.Context(), sync.AuditOptions{Scope: parseLintScope(scope)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary)
			if !report.Passed {
				return NewSilentError(errors.New("audit failed, see above"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "current", "one of: current, state-branch, all")
	return cmd
}

// openSession builds a session and takes the local sync-session lock,
// returning an unlock func the caller must defer.
func openSession(actorID string) (*session, func(), error) {
	s, err := newSession(actorID)
	if err != nil {
		return nil, nil, err
	}
	lock, err := synclock.Acquire(s.RepoRoot)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, func() { _ = lock.Unlock() }, nil
}

func parseLintScope(s string) collab.LintScope {
	switch s {
	case "state-branch":
		return collab.ScopeStateBranch
	case "all":
		return collab.ScopeAll
	default:
		return collab.ScopeCurrent
	}
}

func promptResolveReason() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	var reason string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Why was this conflict resolved this way?").
				Value(&reason),
		),
	).WithAccessible(os.Getenv("ACCESSIBLE") != "")
	if err := form.Run(); err != nil {
		//nolint:nilerr // user cancelled the prompt, fall through to the required-flag error
		return "", nil
	}
	return reason, nil
}

func printPushResult(cmd *cobra.Command, r *sync.PushResult) {
	w := cmd.OutOrStdout()
	if r.ConflictDetected {
		fmt.Fprintf(w, "conflict (%s): %s\n", r.ConflictInfo.Type, r.ConflictInfo.Detail)
		for _, f := range r.ConflictInfo.AffectedFiles {
			fmt.Fprintf(w, "  - %s\n", f)
		}
		for _, step := range r.ConflictInfo.ResolutionSteps {
			fmt.Fprintf(w, "  > %s\n", step)
		}
		return
	}
	fmt.Fprintf(w, "synced %d file(s) from %s\n", r.FilesSynced, r.SourceBranch)
	if r.CommitHash != "" {
		fmt.Fprintf(w, "commit: %s\n", r.CommitHash)
	}
	if r.ImplicitPull != nil && r.ImplicitPull.HasChanges {
		fmt.Fprintf(w, "also pulled %d file(s) published by others since your last sync\n", r.ImplicitPull.FilesUpdated)
	}
}

func printPullResult(cmd *cobra.Command, r *sync.PullResult) {
	w := cmd.OutOrStdout()
	if r.ConflictDetected {
		fmt.Fprintf(w, "conflict (%s): %s\n", r.ConflictInfo.Type, r.ConflictInfo.Detail)
		for _, f := range r.ConflictInfo.AffectedFiles {
			fmt.Fprintf(w, "  - %s\n", f)
		}
		for _, step := range r.ConflictInfo.ResolutionSteps {
			fmt.Fprintf(w, "  > %s\n", step)
		}
		return
	}
	if !r.HasChanges {
		fmt.Fprintln(w, "already up to date")
		return
	}
	fmt.Fprintf(w, "updated %d file(s)\n", r.FilesUpdated)
	if len(r.ForcedOverwrites) > 0 {
		fmt.Fprintf(w, "overwrote %d locally edited file(s): %v\n", len(r.ForcedOverwrites), r.ForcedOverwrites)
	}
	if r.Reindexed {
		fmt.Fprintln(w, "reindexed derived index")
	}
}
