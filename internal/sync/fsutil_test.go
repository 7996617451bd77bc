package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gitgovernance/gitgov/internal/idpath"
)

func TestListGitgovFiles_NoGitgovDir(t *testing.T) {
	dir := t.TempDir()
	files, err := listGitgovFiles(dir)
	if err != nil {
		t.Fatalf("listGitgovFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestListGitgovFiles_WalksTree(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".gitgov", "tasks", "1700000000-task-a.json"), `{}`)
	mustWrite(t, filepath.Join(dir, ".gitgov", "index.json"), `{}`)

	files, err := listGitgovFiles(dir)
	if err != nil {
		t.Fatalf("listGitgovFiles: %v", err)
	}
	set := stringSet(files)
	if !set[".gitgov/tasks/1700000000-task-a.json"] {
		t.Errorf("expected task file in listing, got %v", files)
	}
	if !set[".gitgov/index.json"] {
		t.Errorf("expected index.json in listing, got %v", files)
	}
}

func TestListSyncableGitgovFiles_FiltersByPolicy(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".gitgov", "tasks", "1700000000-task-a.json"), `{}`)
	mustWrite(t, filepath.Join(dir, ".gitgov", "index.json"), `{}`)
	mustWrite(t, filepath.Join(dir, ".gitgov", ".keys", "human-alice.key"), `secret`)

	policy := idpath.NewDefaultPolicy()
	files, err := listSyncableGitgovFiles(dir, policy)
	if err != nil {
		t.Fatalf("listSyncableGitgovFiles: %v", err)
	}
	set := stringSet(files)
	if !set[".gitgov/tasks/1700000000-task-a.json"] {
		t.Errorf("expected syncable task record, got %v", files)
	}
	if set[".gitgov/index.json"] {
		t.Error("index.json is local-only and should not be syncable")
	}
	if set[".gitgov/.keys/human-alice.key"] {
		t.Error("key files are excluded and should not be syncable")
	}
}

func TestStringSet_Membership(t *testing.T) {
	set := stringSet([]string{"a", "b", "a"})
	if !set["a"] || !set["b"] {
		t.Error("expected both items present in set")
	}
	if set["c"] {
		t.Error("unexpected member in set")
	}
}

func TestGitgovExists(t *testing.T) {
	dir := t.TempDir()
	if gitgovExists(dir) {
		t.Error("expected gitgovExists to be false before .gitgov is created")
	}
	mustWrite(t, filepath.Join(dir, ".gitgov", "config.json"), `{}`)
	if !gitgovExists(dir) {
		t.Error("expected gitgovExists to be true after .gitgov is created")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
