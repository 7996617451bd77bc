package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/logging"
	"github.com/gitgovernance/gitgov/internal/record"
	"github.com/gitgovernance/gitgov/internal/secretscan"
	"github.com/gitgovernance/gitgov/internal/syncerr"
)

// scanForSecrets runs the secret pre-flight scan (spec.md §4.1.1) over
// every syncable record among files, read from e.RepoRoot. It returns a
// non-nil ConflictInfo on the first hit, naming the offending file
// without including the secret itself; a non-nil error means the scan
// itself could not run (a read failure), not that a secret was found.
func (e *Engine) scanForSecrets(ctx context.Context, files []string) (*ConflictInfo, error) {
	for _, rel := range files {
		if e.Policy.Classify(rel) != idpath.ClassSyncableRecord {
			continue
		}
		data, err := os.ReadFile(filepath.Join(e.RepoRoot, rel))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("sync: reading %s for secret scan: %w", rel, err)
		}
		env, err := record.Unmarshal(data)
		if err != nil {
			continue
		}
		findings, err := secretscan.ScanEnvelope(env)
		if err != nil {
			continue
		}
		if len(findings) > 0 {
			logging.Warn(ctx, "secret pre-flight scan flagged a record", "file", rel, "field", findings[0].FieldPath)
			return &ConflictInfo{
				Type:          syncerr.TypeIntegrityViolation,
				AffectedFiles: []string{rel},
				Detail:        fmt.Sprintf("possible secret detected in %s (field %q)", rel, findings[0].FieldPath),
				ResolutionSteps: []string{
					"remove or redact the flagged value",
					"retry push",
				},
			}, nil
		}
	}
	return nil, nil
}
