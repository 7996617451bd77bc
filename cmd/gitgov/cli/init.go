package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitgovernance/gitgov/internal/collab/fileidentity"
	"github.com/gitgovernance/gitgov/internal/config"
	"github.com/gitgovernance/gitgov/internal/idpath"
	"github.com/gitgovernance/gitgov/internal/record"
	"github.com/gitgovernance/gitgov/internal/record/payload"
)

func newInitCmd() *cobra.Command {
	var actorID, displayName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold .gitgov/ in the current repository",
		Long:  "Create .gitgov/'s default directories, a config.json, and a self-signed actor record for the given actor.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if actorID == "" {
				return fmt.Errorf("gitgov: --actor is required")
			}
			return runInit(cmd.Context(), actorID, displayName)
		},
	}
	cmd.Flags().StringVar(&actorID, "actor", "", `the initializing actor's id, e.g. "human:alice"`)
	cmd.Flags().StringVar(&displayName, "display-name", "", "human-readable name for the actor record (defaults to --actor)")
	return cmd
}

func runInit(ctx context.Context, actorID, displayName string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	if displayName == "" {
		displayName = actorID
	}

	gitgovDir := filepath.Join(repoRoot, idpath.GitgovDir)
	for _, dir := range idpath.DefaultSyncDirs {
		if err := os.MkdirAll(filepath.Join(gitgovDir, dir), 0o750); err != nil {
			return fmt.Errorf("gitgov: creating %s: %w", dir, err)
		}
	}

	if err := writeDefaultConfig(gitgovDir); err != nil {
		return err
	}

	identity, err := fileidentity.Load(repoRoot, actorID, "")
	if err != nil {
		return fmt.Errorf("gitgov: loading identity: %w", err)
	}

	actorType := payload.ActorHuman
	if strings.HasPrefix(actorID, "agent:") {
		actorType = payload.ActorAgent
	}

	actorPayload := payload.Actor{
		ID:          actorID,
		Type:        actorType,
		DisplayName: displayName,
		PublicKey:   identity.EncodedPublicKey(),
		Roles:       []string{"owner"},
	}
	rawPayload, err := json.Marshal(actorPayload)
	if err != nil {
		return fmt.Errorf("gitgov: encoding actor payload: %w", err)
	}
	env, err := record.NewEnvelope(record.KindActor, rawPayload)
	if err != nil {
		return fmt.Errorf("gitgov: building actor envelope: %w", err)
	}
	signed, err := identity.Sign(ctx, env, "owner", "Initial actor record")
	if err != nil {
		return fmt.Errorf("gitgov: signing actor record: %w", err)
	}
	out, err := signed.Marshal()
	if err != nil {
		return fmt.Errorf("gitgov: encoding envelope: %w", err)
	}
	actorPath := filepath.Join(gitgovDir, "actors", idpath.Slugify(actorID)+".json")
	if err := os.WriteFile(actorPath, out, 0o644); err != nil {
		return fmt.Errorf("gitgov: writing %s: %w", actorPath, err)
	}

	fmt.Printf("Initialized .gitgov/ and registered actor %s\n", actorID)
	fmt.Println("Run `gitgov sync push` to publish the state branch.")
	return nil
}

func writeDefaultConfig(gitgovDir string) error {
	path := filepath.Join(gitgovDir, "config.json")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	cfg := config.Config{
		StateBranch:      config.DefaultStateBranch,
		Remote:           config.DefaultRemote,
		SyncDirs:         idpath.DefaultSyncDirs,
		SyncRootFiles:    idpath.DefaultSyncRootFiles,
		LocalOnlyFiles:   idpath.DefaultLocalOnlyFiles,
		ExcludedPatterns: idpath.DefaultExcludedPatterns,
		LogLevel:         "info",
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("gitgov: encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
