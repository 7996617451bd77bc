package validation

import "testing"

func TestValidateActorID(t *testing.T) {
	if err := ValidateActorID("human:alice"); err != nil {
		t.Errorf("expected human:alice to be valid: %v", err)
	}
	if err := ValidateActorID(""); err == nil {
		t.Error("expected empty actor id to be invalid")
	}
	if err := ValidateActorID("human/../etc"); err == nil {
		t.Error("expected path-separator-containing actor id to be invalid")
	}
}

func TestValidateRecordID(t *testing.T) {
	if err := ValidateRecordID("1700000000-task-x"); err != nil {
		t.Errorf("expected valid record id to pass: %v", err)
	}
	if err := ValidateRecordID("../escape"); err == nil {
		t.Error("expected path traversal attempt to be rejected")
	}
	if err := ValidateRecordID(""); err == nil {
		t.Error("expected empty record id to be rejected")
	}
}

func TestValidateBranchName(t *testing.T) {
	if err := ValidateBranchName("gitgov-state"); err != nil {
		t.Errorf("expected valid branch name to pass: %v", err)
	}
	if err := ValidateBranchName(""); err == nil {
		t.Error("expected empty branch name to be rejected")
	}
	if err := ValidateBranchName("feature/../escape"); err == nil {
		t.Error("expected branch name containing .. to be rejected")
	}
	if err := ValidateBranchName("has space"); err == nil {
		t.Error("expected branch name containing whitespace to be rejected")
	}
}

func TestValidatePathSafe(t *testing.T) {
	if err := ValidatePathSafe("gitgov-sync-abc123"); err != nil {
		t.Errorf("expected alphanumeric token to pass: %v", err)
	}
	if err := ValidatePathSafe(""); err != nil {
		t.Error("expected empty string to be allowed")
	}
	if err := ValidatePathSafe("has/slash"); err == nil {
		t.Error("expected a token with a slash to be rejected")
	}
}
