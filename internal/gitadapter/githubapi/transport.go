package githubapi

import "context"

// Fetch is a no-op: every read in this adapter already goes straight to
// the API, there is nothing to pre-fetch into a local object store.
func (a *Adapter) Fetch(ctx context.Context, remote, refSpec string) error {
	return nil
}

// Push is a no-op: Commit already performed the atomic
// getRef→getTree→createTree→createCommit→updateRef pipeline against
// the branch's ref, so the branch is already up to date server-side.
func (a *Adapter) Push(ctx context.Context, remote, branch string) error {
	return nil
}

func (a *Adapter) PushWithUpstream(ctx context.Context, remote, branch string) error {
	return nil
}

// PullRebase has no local working tree to rebase; this backend detects
// the equivalent condition (the branch moved since this adapter last
// read it) via updateRef's optimistic-concurrency failure inside
// Commit, returned as an error from Commit rather than as a rebase
// conflict. The sync engine does not inspect that error: Push returns
// it to its caller as-is, with no ConflictInfo.
func (a *Adapter) PullRebase(ctx context.Context, remote, branch string) error {
	return nil
}
