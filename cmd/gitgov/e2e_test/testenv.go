//go:build e2e

// Package e2e exercises sync.Engine's push/pull/resolve pipeline end to
// end against real go-git repositories on disk, mirroring the CLI's own
// wiring (internal/collab/fileidentity, internal/gitadapter/localgit,
// internal/statebranch) instead of stubs. Scenarios follow spec.md §8.
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/gitgovernance/gitgov/internal/collab/fileidentity"
	"github.com/gitgovernance/gitgov/internal/gitadapter/localgit"
	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/record"
	"github.com/gitgovernance/gitgov/internal/statebranch"
	"github.com/gitgovernance/gitgov/internal/sync"
)

const (
	remoteName  = "origin"
	stateBranch = "gitgov-state"
)

// TestEnv is one git working copy, paired with a shared bare remote that
// other TestEnv values (CloneMachine) can also push to and pull from.
type TestEnv struct {
	T          *testing.T
	OriginDir  string
	RepoDir    string
	MainBranch string
	Policy     *idpath.Policy
}

// NewTestEnv creates a bare "origin" remote and one working clone of it,
// with an initial commit on the repo's default branch and the remote
// wired up under remoteName.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	originDir := t.TempDir()
	if _, err := git.PlainInit(originDir, true); err != nil {
		t.Fatalf("init bare origin: %v", err)
	}

	repoDir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(repoDir); err == nil {
		repoDir = resolved
	}

	env := &TestEnv{T: t, OriginDir: originDir, RepoDir: repoDir, Policy: idpath.NewDefaultPolicy()}
	env.initRepo()
	env.WriteFile("README.md", "# gitgov e2e fixture\n")
	env.GitAdd("README.md")
	env.GitCommit("Initial commit")

	branch, err := localgit.New(env.RepoDir).GetCurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("resolving default branch: %v", err)
	}
	env.MainBranch = branch

	env.addRemote(originDir)
	env.runGit("push", "-u", remoteName, branch)

	return env
}

// CloneMachine clones env's shared origin into a second, independent
// working copy ("another machine" against the same remote), with its
// own actor keys under its own .gitgov/.keys.
func (env *TestEnv) CloneMachine(t *testing.T) *TestEnv {
	t.Helper()

	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if _, err := git.PlainClone(dir, false, &git.CloneOptions{URL: env.OriginDir}); err != nil {
		t.Fatalf("cloning origin: %v", err)
	}
	clone := &TestEnv{T: t, OriginDir: env.OriginDir, RepoDir: dir, MainBranch: env.MainBranch, Policy: env.Policy}
	clone.configureUser()
	return clone
}

func (env *TestEnv) initRepo() {
	repo, err := git.PlainInit(env.RepoDir, false)
	if err != nil {
		env.T.Fatalf("init repo: %v", err)
	}
	setTestUser(env.T, repo)
}

func (env *TestEnv) configureUser() {
	repo, err := git.PlainOpen(env.RepoDir)
	if err != nil {
		env.T.Fatalf("open repo: %v", err)
	}
	setTestUser(env.T, repo)
}

func setTestUser(t *testing.T, repo *git.Repository) {
	t.Helper()
	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("repo config: %v", err)
	}
	cfg.User.Name = "gitgov e2e"
	cfg.User.Email = "e2e@example.com"
	if cfg.Raw == nil {
		cfg.Raw = config.New()
	}
	cfg.Raw.Section("commit").SetOption("gpgsign", "false")
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("set repo config: %v", err)
	}
}

func (env *TestEnv) addRemote(url string) {
	repo, err := git.PlainOpen(env.RepoDir)
	if err != nil {
		env.T.Fatalf("open repo: %v", err)
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: remoteName, URLs: []string{url}})
	if err != nil {
		env.T.Fatalf("create remote: %v", err)
	}
}

// runGit shells out for porcelain operations (push/clone plumbing this
// fixture doesn't otherwise need go-git for), matching the hybrid style
// localgit.Adapter itself uses for rebase/stash.
func (env *TestEnv) runGit(args ...string) string {
	env.T.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = env.RepoDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		env.T.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return string(out)
}

// Adapter returns a fresh localgit.Adapter rooted at env.RepoDir.
func (env *TestEnv) Adapter() *localgit.Adapter {
	return localgit.New(env.RepoDir)
}

// Engine builds a sync.Engine for actorID, loading (or generating) that
// actor's signing key under env.RepoDir/.gitgov/.keys, exactly as the
// CLI does via fileidentity.Load.
func (env *TestEnv) Engine(actorID string) (*sync.Engine, *fileidentity.Adapter) {
	env.T.Helper()
	adapter := env.Adapter()
	identity, err := fileidentity.Load(env.RepoDir, actorID, "")
	if err != nil {
		env.T.Fatalf("loading identity for %s: %v", actorID, err)
	}
	mgr := statebranch.New(adapter, stateBranch, remoteName, env.Policy, env.RepoDir)
	backend := &sync.GitBackend{Adapter: adapter, StateBranch: mgr}
	engine := sync.New(backend, identity, nil, nil, nil, env.Policy, env.RepoDir, remoteName, stateBranch)
	return engine, identity
}

// WriteFile writes content at path (relative to RepoDir), creating
// parent directories as needed.
func (env *TestEnv) WriteFile(path, content string) {
	env.T.Helper()
	full := filepath.Join(env.RepoDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		env.T.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		env.T.Fatalf("writing %s: %v", path, err)
	}
}

// ReadGitgovFile reads a file under .gitgov/, relative to that directory
// (e.g. "tasks/task-1.json").
func (env *TestEnv) ReadGitgovFile(rel string) string {
	env.T.Helper()
	data, err := os.ReadFile(filepath.Join(env.RepoDir, idpath.GitgovDir, rel))
	if err != nil {
		env.T.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func (env *TestEnv) GitAdd(paths ...string) {
	env.T.Helper()
	repo, err := git.PlainOpen(env.RepoDir)
	if err != nil {
		env.T.Fatalf("open repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		env.T.Fatalf("worktree: %v", err)
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			env.T.Fatalf("git add %s: %v", p, err)
		}
	}
}

func (env *TestEnv) GitCommit(message string) {
	env.T.Helper()
	repo, err := git.PlainOpen(env.RepoDir)
	if err != nil {
		env.T.Fatalf("open repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		env.T.Fatalf("worktree: %v", err)
	}
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "gitgov e2e", Email: "e2e@example.com", When: time.Now()},
	})
	if err != nil {
		env.T.Fatalf("commit: %v", err)
	}
}

// taskRecord builds a minimal, validly-checksummed (but unsigned)
// envelope around an opaque task payload. Sync treats payloads as
// opaque JSON, so a handful of fields are enough to exercise the
// pipeline without depending on payload.Task's full schema.
func taskRecord(id, title string) (*record.Envelope, error) {
	payload, err := json.Marshal(map[string]any{"id": id, "title": title, "status": "todo"})
	if err != nil {
		return nil, err
	}
	return record.NewEnvelope(record.KindTask, payload)
}

// WriteTaskRecord signs and writes a new task record at
// .gitgov/tasks/<id>.json, as the author identity would at creation time.
func (env *TestEnv) WriteTaskRecord(identity *fileidentity.Adapter, id, title string) {
	env.T.Helper()
	env.writeSignedTask(identity, id, title, "author", "created")
}

// ModifyTaskRecord overwrites an existing task record's title and
// re-signs it, simulating a local edit.
func (env *TestEnv) ModifyTaskRecord(identity *fileidentity.Adapter, id, title string) {
	env.T.Helper()
	env.writeSignedTask(identity, id, title, "author", "edited")
}

func (env *TestEnv) writeSignedTask(identity *fileidentity.Adapter, id, title, role, notes string) {
	env.T.Helper()
	base, err := taskRecord(id, title)
	if err != nil {
		env.T.Fatalf("building task record: %v", err)
	}
	signed, err := identity.Sign(context.Background(), base, role, notes)
	if err != nil {
		env.T.Fatalf("signing task record: %v", err)
	}
	data, err := signed.Marshal()
	if err != nil {
		env.T.Fatalf("marshaling task record: %v", err)
	}
	env.WriteFile(filepath.Join(idpath.GitgovDir, "tasks", id+".json"), string(data))
}

// DeleteGitgovFile removes a file under .gitgov/ from disk, relative to
// that directory (e.g. "tasks/task-2.json").
func (env *TestEnv) DeleteGitgovFile(rel string) {
	env.T.Helper()
	if err := os.Remove(filepath.Join(env.RepoDir, idpath.GitgovDir, rel)); err != nil {
		env.T.Fatalf("deleting %s: %v", rel, err)
	}
}

// ResolveConflictedFile overwrites a task record left mid-rebase with
// conflict markers with a fresh, valid (but unsigned) envelope for it,
// then stages it -- what an operator does by hand before `gitgov sync
// resolve` re-signs it.
func (env *TestEnv) ResolveConflictedFile(id, title string) {
	env.T.Helper()
	base, err := taskRecord(id, title)
	if err != nil {
		env.T.Fatalf("building resolved task record: %v", err)
	}
	data, err := base.Marshal()
	if err != nil {
		env.T.Fatalf("marshaling resolved task record: %v", err)
	}
	rel := filepath.ToSlash(filepath.Join("tasks", id+".json"))
	env.WriteFile(filepath.Join(idpath.GitgovDir, "tasks", id+".json"), string(data))
	if err := env.Adapter().Add(context.Background(), []string{idpath.GitgovDir + "/" + rel}, true); err != nil {
		env.T.Fatalf("staging resolved %s: %v", rel, err)
	}
}
