// Package syncfs provides the scoped scratch-directory resource the
// sync engine uses to preserve .gitgov/'s local-only and excluded files
// across branch switches (spec.md §9, "Temp-directory preservation").
package syncfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
)

// ScratchDir is a temp directory acquired at pipeline entry and removed
// exactly once, regardless of which exit path the caller takes.
type ScratchDir struct {
	fs   billy.Filesystem
	root string
}

// New creates a scratch directory under the OS temp dir, named
// gitgov-sync-<uuid> so a killed session leaves a recognizable,
// inspectable artifact (spec.md §5, "Cancellation / timeouts").
func New() (*ScratchDir, error) {
	root := filepath.Join(os.TempDir(), "gitgov-sync-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("syncfs: creating scratch dir: %w", err)
	}
	return &ScratchDir{fs: osfs.New(root), root: root}, nil
}

// Root is the absolute path of the scratch directory.
func (s *ScratchDir) Root() string { return s.root }

// Close removes the scratch directory and everything under it. Safe to
// call more than once.
func (s *ScratchDir) Close() error {
	if s.root == "" {
		return nil
	}
	err := os.RemoveAll(s.root)
	s.root = ""
	return err
}

// CopyTree copies srcDir into the scratch directory, preserving the
// relative layout, so it can be overlaid back after a branch switch.
func (s *ScratchDir) CopyTree(_ context.Context, srcDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			return s.fs.MkdirAll(rel, 0o750)
		}
		return copyFileInto(s.fs, path, rel)
	})
}

// RestoreTree copies everything under the scratch directory into
// dstDir, overwriting files already present there.
func (s *ScratchDir) RestoreTree(_ context.Context, dstDir string) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dstDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

func copyFileInto(dst billy.Filesystem, srcPath, relPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(relPath); dir != "." {
		if err := dst.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	f, err := dst.Create(relPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}
