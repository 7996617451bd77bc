package sync

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gitgovernance/gitgov/internal/idpath"
)

// listGitgovFiles walks repoRoot/.gitgov and returns every regular
// file's path relative to repoRoot (e.g. ".gitgov/tasks/x.json"). It
// returns an empty slice, not an error, if .gitgov doesn't exist.
func listGitgovFiles(repoRoot string) ([]string, error) {
	root := filepath.Join(repoRoot, idpath.GitgovDir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(repoRoot, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// listSyncableGitgovFiles is listGitgovFiles filtered by policy.ShouldSync.
func listSyncableGitgovFiles(repoRoot string, policy *idpath.Policy) ([]string, error) {
	all, err := listGitgovFiles(repoRoot)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range all {
		if policy.ShouldSync(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// pruneOverlayExtras removes syncable files physically present under
// repoRoot that are not in keep. It is used after overlaying a
// preserved .gitgov snapshot onto a freshly checked-out state branch
// tree: the checkout brings back whatever the state branch's last
// commit had, including files the source branch has since deleted;
// overlaySyncableFiles only copies files that still exist, so without
// this step a locally deleted record would never disappear from disk
// (and therefore never get git-rm'd or detected as a deletion below).
func pruneOverlayExtras(repoRoot string, policy *idpath.Policy, keep []string) error {
	current, err := listSyncableGitgovFiles(repoRoot, policy)
	if err != nil {
		return err
	}
	keepSet := stringSet(keep)
	for _, f := range current {
		if keepSet[f] {
			continue
		}
		if err := os.Remove(filepath.Join(repoRoot, f)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sync: removing stale %s: %w", f, err)
		}
	}
	return nil
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func gitgovExists(repoRoot string) bool {
	_, err := os.Stat(filepath.Join(repoRoot, idpath.GitgovDir))
	return err == nil
}
