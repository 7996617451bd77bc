package localgit

import (
	"context"
	"fmt"
)

// CheckoutFilesFromBranch restores paths into the working tree and
// index from branch, without switching HEAD. The sync engine's push,
// pull and resolve flows use it to restore the state branch's version
// of syncable files onto the source branch.
func (a *Adapter) CheckoutFilesFromBranch(ctx context.Context, branch string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"checkout", branch, "--"}, paths...)
	if _, err := a.run(ctx, args...); err != nil {
		return fmt.Errorf("localgit: checking out paths from %s: %w", branch, err)
	}
	return nil
}
