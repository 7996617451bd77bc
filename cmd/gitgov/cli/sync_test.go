package cli

import (
	"testing"

	"github.com/gitgovernance/gitgov/internal/collab"
)

func TestParseLintScope(t *testing.T) {
	cases := map[string]collab.LintScope{
		"state-branch": collab.ScopeStateBranch,
		"all":          collab.ScopeAll,
		"current":      collab.ScopeCurrent,
		"":             collab.ScopeCurrent,
		"bogus":        collab.ScopeCurrent,
	}
	for input, want := range cases {
		if got := parseLintScope(input); got != want {
			t.Errorf("parseLintScope(%q) = %v, want %v", input, got, want)
		}
	}
}
