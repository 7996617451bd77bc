package syncfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScratchDir_CopyTree_RestoreTree_RoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "actors"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "actors", "a.json"), []byte(`{"id":"human:alice"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "index.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	scratch, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer scratch.Close()

	if err := scratch.CopyTree(context.Background(), src); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	dst := t.TempDir()
	if err := scratch.RestoreTree(context.Background(), dst); err != nil {
		t.Fatalf("RestoreTree: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "actors", "a.json"))
	if err != nil {
		t.Fatalf("reading restored file: %v", err)
	}
	if string(data) != `{"id":"human:alice"}` {
		t.Errorf("restored content mismatch: %q", data)
	}
	if _, err := os.ReadFile(filepath.Join(dst, "index.json")); err != nil {
		t.Errorf("expected index.json to be restored: %v", err)
	}
}

func TestScratchDir_Close_IsIdempotent(t *testing.T) {
	scratch, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	root := scratch.Root()
	if err := scratch.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := scratch.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("expected the scratch directory to be removed")
	}
}

func TestScratchDir_RootIsUnderTempDir(t *testing.T) {
	scratch, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer scratch.Close()
	if filepath.Dir(scratch.Root()) != filepath.Clean(os.TempDir()) {
		t.Errorf("Root() = %q, expected to live directly under %q", scratch.Root(), os.TempDir())
	}
}
