// Package sync implements the push/pull/resolve/audit pipelines that
// move governance records between a source branch and the dedicated
// gitgov-state branch (spec.md §4.5–§4.8).
package sync

import (
	"github.com/gitgovernance/gitgov/internal/collab"
	"github.com/gitgovernance/gitgov/internal/idpath"
)

// Engine drives one repository's sync operations against a Backend and
// the external collaborators (identity, projection, linting,
// telemetry).
type Engine struct {
	Backend    Backend
	Identity   collab.IdentityAdapter
	Projector  collab.Projector
	Linter     collab.Linter
	Telemetry  collab.Telemetry
	Policy     *idpath.Policy
	RepoRoot   string
	Remote     string
	StateBranchName string
}

// New builds an Engine. Projector, Linter, and Telemetry may be the
// collab no-op/always-pass/no-op defaults.
func New(backend Backend, identity collab.IdentityAdapter, projector collab.Projector, linter collab.Linter, telemetry collab.Telemetry, policy *idpath.Policy, repoRoot, remote, stateBranch string) *Engine {
	if telemetry == nil {
		telemetry = collab.NoOpTelemetry{}
	}
	if projector == nil {
		projector = collab.NoOpProjector{}
	}
	if linter == nil {
		linter = collab.AlwaysPassLinter{}
	}
	return &Engine{
		Backend:         backend,
		Identity:        identity,
		Projector:       projector,
		Linter:          linter,
		Telemetry:       telemetry,
		Policy:          policy,
		RepoRoot:        repoRoot,
		Remote:          remote,
		StateBranchName: stateBranch,
	}
}
