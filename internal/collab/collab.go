// Package collab defines the external collaborator contracts the sync
// engine is built against: identity (signing), derived-index
// projection, structural linting, and telemetry. A
// production deployment supplies real implementations; this package
// also ships minimal defaults so internal/sync.Engine is constructible
// and runnable on its own (spec.md's record store and linter are
// explicitly external collaborators, not owned by this module).
package collab

import (
	"context"

	"github.com/gitgovernance/gitgov/internal/record"
)

// IdentityAdapter authenticates the calling actor and signs envelopes
// on their behalf. Sign must recompute the payload checksum before
// signing, matching record.Sign's contract.
type IdentityAdapter interface {
	AuthenticatedActorID(ctx context.Context) (string, error)
	Sign(ctx context.Context, env *record.Envelope, role, notes string) (*record.Envelope, error)
	PublicKeyLookup(ctx context.Context) (record.PublicKeyLookup, error)
}

// Projector rebuilds any derived indices (e.g. a local search index)
// after a sync pulls in new or changed records. Engine invokes it
// best-effort: a Projector error is logged, never fatal to the sync
// session.
type Projector interface {
	Reindex(ctx context.Context, repoRoot string) error
}

// LintScope bounds what a Linter inspects.
type LintScope int

const (
	ScopeCurrent LintScope = iota
	ScopeStateBranch
	ScopeAll
)

func (s LintScope) String() string {
	switch s {
	case ScopeCurrent:
		return "current"
	case ScopeStateBranch:
		return "state-branch"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// LintViolation is one structural or cryptographic problem found in a
// record file.
type LintViolation struct {
	File string
	Tag  string
	Detail string
}

// LintReport is the structural-integrity half of an audit (spec.md
// §4.8's "delegated to the external linter" check).
type LintReport struct {
	Passed              bool
	ChecksumMismatches  []LintViolation
	InvalidSignatures   []LintViolation
	StructuralErrors    []LintViolation
}

// Linter performs structural/cryptographic validation of record files
// in scope.
type Linter interface {
	Lint(ctx context.Context, repoRoot string, scope LintScope) (LintReport, error)
}

// Telemetry records opt-in usage events. A nil Telemetry (or the
// NoOpTelemetry default) means telemetry is disabled.
type Telemetry interface {
	Track(ctx context.Context, event string, properties map[string]any)
}
