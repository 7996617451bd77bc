package syncerr

import (
	"errors"
	"testing"
)

func TestNew_ErrorString(t *testing.T) {
	err := New(TypeNoRemoteConfigured, "no remote configured")
	if err.Error() != "no_remote_configured: no remote configured" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNew_EmptyMessage(t *testing.T) {
	err := New(TypeNoRebaseInProgress, "")
	if err.Error() != "no_rebase_in_progress" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := errors.New("underlying git failure")
	err := Wrap(TypeRebaseConflict, "rebase failed", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestWithFiles_And_WithSteps_DoNotMutateOriginal(t *testing.T) {
	base := New(TypeConflictMarkers, "markers present")
	withFiles := base.WithFiles([]string{"a.json"})
	withSteps := withFiles.WithSteps([]string{"fix it"})

	if len(base.AffectedFiles) != 0 {
		t.Error("WithFiles should not mutate the receiver")
	}
	if len(withFiles.ResolutionSteps) != 0 {
		t.Error("WithSteps should not mutate its receiver in place")
	}
	if len(withSteps.AffectedFiles) != 1 || len(withSteps.ResolutionSteps) != 1 {
		t.Errorf("expected chained WithFiles/WithSteps to carry both, got %+v", withSteps)
	}
}
