package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitgovernance/gitgov/internal/config"
	"github.com/gitgovernance/gitgov/internal/idpath"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show gitgov state for the current repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, w io.Writer) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		fmt.Fprintln(w, "not a git repository")
		return nil //nolint:nilerr // not being in a repo is a valid status, not a command failure
	}

	if _, err := os.Stat(filepath.Join(repoRoot, idpath.GitgovDir)); os.IsNotExist(err) {
		fmt.Fprintln(w, "not set up (run `gitgov init` to get started)")
		return nil
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return fmt.Errorf("gitgov: loading config: %w", err)
	}

	backend, err := newBackend(repoRoot, cfg)
	if err != nil {
		return err
	}

	branch, err := backend.GetCurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("gitgov: resolving current branch: %w", err)
	}
	stateExists, err := backend.BranchExists(ctx, cfg.StateBranch)
	if err != nil {
		return fmt.Errorf("gitgov: checking %s: %w", cfg.StateBranch, err)
	}
	inRebase, err := backend.IsRebaseInProgress(ctx)
	if err != nil {
		return fmt.Errorf("gitgov: checking rebase state: %w", err)
	}

	fmt.Fprintf(w, "branch: %s\n", branch)
	fmt.Fprintf(w, "state branch (%s): %s\n", cfg.StateBranch, presence(stateExists))
	if inRebase {
		fmt.Fprintln(w, "rebase: IN PROGRESS — run `gitgov sync resolve` after staging resolved files")
	} else {
		fmt.Fprintln(w, "rebase: none")
	}

	if stateExists {
		delta, err := backend.CalculateStateDelta(ctx, branch)
		if err == nil {
			fmt.Fprintf(w, "pending changes: %d file(s) differ from %s\n", len(delta), cfg.StateBranch)
		}
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
