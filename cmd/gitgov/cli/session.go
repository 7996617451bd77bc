package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/collab/fileidentity"
	"github.com/gitgovernance/gitgov/internal/config"
	"github.com/gitgovernance/gitgov/internal/gitadapter"
	"github.com/gitgovernance/gitgov/internal/gitadapter/githubapi"
	"github.com/gitgovernance/gitgov/internal/gitadapter/localgit"
	"github.com/gitgovernance/gitgov/internal/logging"
	"github.com/gitgovernance/gitgov/internal/statebranch"
	"github.com/gitgovernance/gitgov/internal/sync"
)

// GithubTokenEnvVar authenticates the githubapi backend when
// GITGOV_BACKEND=github is selected.
const GithubTokenEnvVar = "GITGOV_GITHUB_TOKEN"

// BackendEnvVar selects between the local-git (default) and GitHub REST
// backend variants (spec.md §4.9).
const BackendEnvVar = "GITGOV_BACKEND"

// session bundles everything a sync subcommand needs: the resolved repo
// root, loaded config, and a constructed Engine.
type session struct {
	RepoRoot  string
	Config    *config.Config
	Engine    *sync.Engine
	Identity  *fileidentity.Adapter
	telemetry *postHogTelemetry
}

// Close flushes telemetry and closes the session log file. Callers
// should defer it immediately after newSession succeeds.
func (s *session) Close() {
	s.telemetry.Close()
	logging.Close()
}

// newSession resolves the repo root, loads .gitgov/config.json, and
// constructs a sync.Engine against the selected backend. actorID
// identifies the local operator signing any records this session
// writes.
func newSession(actorID string) (*session, error) {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("gitgov: loading config: %w", err)
	}
	if err := logging.Init(repoRoot, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("gitgov: initializing logging: %w", err)
	}

	backend, err := newBackend(repoRoot, cfg)
	if err != nil {
		return nil, err
	}

	identity, err := fileidentity.Load(repoRoot, actorID, "")
	if err != nil {
		return nil, fmt.Errorf("gitgov: loading identity: %w", err)
	}

	linter := collab.AlwaysPassLinter{}
	projector := collab.NoOpProjector{}
	telemetry := newTelemetryClient(cfg)

	engine := sync.New(backend, identity, projector, linter, telemetry, cfg.Policy(), repoRoot, cfg.Remote, cfg.StateBranch)

	return &session{RepoRoot: repoRoot, Config: cfg, Engine: engine, Identity: identity, telemetry: telemetry}, nil
}

func resolveRepoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("gitgov: resolving working directory: %w", err)
	}
	root, err := localgit.New(cwd).GetRepoRoot(context.Background())
	if err != nil {
		return "", fmt.Errorf("gitgov: not a git repository: %w", err)
	}
	return root, nil
}

func newBackend(repoRoot string, cfg *config.Config) (sync.Backend, error) {
	var adapter gitadapter.Adapter
	switch os.Getenv(BackendEnvVar) {
	case "github":
		owner, repo, err := githubOwnerRepo()
		if err != nil {
			return nil, err
		}
		adapter = githubapi.New(owner, repo, os.Getenv(GithubTokenEnvVar))
	default:
		adapter = localgit.New(repoRoot)
	}

	mgr := statebranch.New(adapter, cfg.StateBranch, cfg.Remote, cfg.Policy(), repoRoot)
	return &sync.GitBackend{Adapter: adapter, StateBranch: mgr}, nil
}

func githubOwnerRepo() (owner, repo string, err error) {
	slug := os.Getenv("GITGOV_GITHUB_REPO")
	if slug == "" {
		return "", "", fmt.Errorf("gitgov: GITGOV_GITHUB_REPO=owner/repo is required for the github backend")
	}
	for i := range slug {
		if slug[i] == '/' {
			return slug[:i], slug[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("gitgov: GITGOV_GITHUB_REPO must be owner/repo, got %q", slug)
}
