package statebranch

import (
	"context"
	"fmt"

	"github.com/gitgovernance/gitgov/internal/gitadapter"
)

// StateDeltaFile is one entry of the filtered diff between the state
// branch and a source branch.
type StateDeltaFile struct {
	Status gitadapter.FileStatus
	File   string
}

// CalculateStateDelta diffs m.Branch against sourceBranch, scoped to
// .gitgov/ and filtered by m.Policy.ShouldSync (spec.md §4.4).
func (m *Manager) CalculateStateDelta(ctx context.Context, sourceBranch string) ([]StateDeltaFile, error) {
	changed, err := m.Adapter.GetChangedFiles(ctx, m.Branch, sourceBranch, m.Policy.ShouldSync)
	if err != nil {
		return nil, fmt.Errorf("statebranch: computing delta %s..%s: %w", m.Branch, sourceBranch, err)
	}
	out := make([]StateDeltaFile, len(changed))
	for i, c := range changed {
		out[i] = StateDeltaFile{Status: c.Status, File: c.File}
	}
	return out, nil
}
