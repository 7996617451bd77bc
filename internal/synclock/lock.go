// Package synclock provides the advisory session lock
// (.gitgov/.sync.lock) that enforces spec.md §5's single-session-per-
// working-tree assumption on a single machine. This is an addition
// beyond spec.md's text, which assumes exactly one session runs at a
// time but never names how that's enforced locally.
package synclock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// LockFileName is the lock file's name under .gitgov/.
const LockFileName = ".sync.lock"

// Lock holds an exclusive, non-blocking advisory lock on one
// repository's .gitgov/.sync.lock, released by Unlock.
type Lock struct {
	file *os.File
}

// Acquire takes the lock for repoRoot's .gitgov directory. It returns a
// descriptive error immediately if another session already holds it,
// rather than blocking — a hung sync session should be killed and
// inspected (spec.md §5), not waited on indefinitely.
func Acquire(repoRoot string) (*Lock, error) {
	gitgovDir := filepath.Join(repoRoot, ".gitgov")
	if err := os.MkdirAll(gitgovDir, 0o750); err != nil {
		return nil, fmt.Errorf("synclock: creating .gitgov: %w", err)
	}
	path := filepath.Join(gitgovDir, LockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o640)
	if err != nil {
		return nil, fmt.Errorf("synclock: opening lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("synclock: another sync session holds %s, wait for it to finish or remove the file if it crashed: %w", path, err)
	}
	return &Lock{file: f}, nil
}

// Unlock releases the lock and closes the underlying file. Calls after
// the first are no-ops that return nil; callers should defer it
// immediately after Acquire succeeds.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
