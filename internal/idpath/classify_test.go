package idpath

import "testing"

func TestClassify_SyncableRecord(t *testing.T) {
	pol := NewDefaultPolicy()
	cases := []string{
		".gitgov/tasks/1700000000-task-fix-login.json",
		"/repo/.gitgov/cycles/1700000000-cycle-q1.json",
		"/tmp/scratch/.gitgov/actors/human-alice.json",
	}
	for _, p := range cases {
		if got := pol.Classify(p); got != ClassSyncableRecord {
			t.Errorf("Classify(%q) = %v, want ClassSyncableRecord", p, got)
		}
	}
}

func TestClassify_SyncableRoot(t *testing.T) {
	pol := NewDefaultPolicy()
	if got := pol.Classify(".gitgov/config.json"); got != ClassSyncableRoot {
		t.Errorf("Classify(config.json) = %v, want ClassSyncableRoot", got)
	}
}

func TestClassify_LocalOnly(t *testing.T) {
	pol := NewDefaultPolicy()
	for _, p := range []string{".gitgov/index.json", ".gitgov/.session.json"} {
		if got := pol.Classify(p); got != ClassLocalOnly {
			t.Errorf("Classify(%q) = %v, want ClassLocalOnly", p, got)
		}
	}
}

func TestClassify_Excluded(t *testing.T) {
	pol := NewDefaultPolicy()
	for _, p := range []string{".gitgov/.keys/human-alice.key", ".gitgov/tasks/t.json.backup", ".gitgov/tasks/t.json.bak"} {
		if got := pol.Classify(p); got != ClassExcluded {
			t.Errorf("Classify(%q) = %v, want ClassExcluded", p, got)
		}
	}
}

func TestClassify_Other(t *testing.T) {
	pol := NewDefaultPolicy()
	for _, p := range []string{".gitgov/tasks/README.md", ".gitgov/unknown-dir/file.json", "README.md"} {
		if got := pol.Classify(p); got != ClassOther {
			t.Errorf("Classify(%q) = %v, want ClassOther", p, got)
		}
	}
}

func TestShouldSync(t *testing.T) {
	pol := NewDefaultPolicy()
	if !pol.ShouldSync(".gitgov/tasks/1700000000-task-a.json") {
		t.Error("expected syncable record to be ShouldSync")
	}
	if pol.ShouldSync(".gitgov/.keys/human-alice.key") {
		t.Error("expected excluded file to not be ShouldSync")
	}
	if pol.ShouldSync(".gitgov/index.json") {
		t.Error("expected local-only file to not be ShouldSync")
	}
}

func TestNewPolicy_CustomExcludedPatterns(t *testing.T) {
	pol := NewPolicy(
		[]string{"tasks"},
		[]string{"config.json"},
		[]string{"index.json"},
		[]string{"*.secret"},
	)
	if pol.Classify(".gitgov/tasks/x.secret") != ClassExcluded {
		t.Error("expected custom excluded pattern to match")
	}
}

func TestLocalOnlyFileNames_And_ExcludedPatternStrings(t *testing.T) {
	pol := NewDefaultPolicy()
	names := pol.LocalOnlyFileNames()
	if len(names) != len(DefaultLocalOnlyFiles) {
		t.Fatalf("got %d local-only names, want %d", len(names), len(DefaultLocalOnlyFiles))
	}
	patterns := pol.ExcludedPatternStrings()
	if len(patterns) != len(DefaultExcludedPatterns) {
		t.Fatalf("got %d excluded patterns, want %d", len(patterns), len(DefaultExcludedPatterns))
	}
}
