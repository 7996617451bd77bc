package idpath

import "testing"

func TestGenerateID_TimestampedKind(t *testing.T) {
	id := GenerateID("task", "Fix login bug", 1700000000)
	want := "1700000000-task-fix-login-bug"
	if id != want {
		t.Errorf("GenerateID = %q, want %q", id, want)
	}
}

func TestGenerateID_IdentityKind(t *testing.T) {
	id := GenerateID("human", "Alice Smith", 1700000000)
	want := "human:alice-smith"
	if id != want {
		t.Errorf("GenerateID = %q, want %q", id, want)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Fix Login Bug!!":        "fix-login-bug",
		"  leading/trailing  ":   "leadingtrailing",
		"ALREADY-lower-case":     "already-lower-case",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify_ClipsLongSeeds(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "a"
	}
	got := Slugify(long)
	if len(got) > maxSlugLen {
		t.Errorf("Slugify produced %d chars, want <= %d", len(got), maxSlugLen)
	}
}

func TestParseID_RoundTrip(t *testing.T) {
	id := GenerateID("cycle", "Q1 Planning", 1700000001)
	parsed, err := ParseID(id)
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if parsed.Kind != "cycle" || parsed.Timestamp != 1700000001 {
		t.Errorf("ParseID = %+v, want kind=cycle timestamp=1700000001", parsed)
	}
}

func TestParseID_Identity(t *testing.T) {
	parsed, err := ParseID("agent:code-reviewer")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if parsed.Kind != "agent" || parsed.Slug != "code-reviewer" || parsed.Timestamp != 0 {
		t.Errorf("ParseID = %+v, want kind=agent slug=code-reviewer timestamp=0", parsed)
	}
}

func TestParseID_Invalid(t *testing.T) {
	if _, err := ParseID("not-a-valid-id"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestIDPatterns_MatchGeneratedIDs(t *testing.T) {
	if !TaskIDPattern.MatchString(GenerateID("task", "x", 1700000000)) {
		t.Error("TaskIDPattern should match a generated task id")
	}
	if !ActorIDPattern.MatchString(GenerateID("human", "x", 0)) {
		t.Error("ActorIDPattern should match a generated human id")
	}
}
