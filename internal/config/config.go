// Package config loads .gitgov/config.json (a syncable root file) and
// the machine-local .gitgov/settings.local.json override, the same
// shared-then-local layering pattern the teacher CLI uses for its own
// settings.json/settings.local.json pair.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitgovernance/gitgov/internal/idpath"
)

// DefaultStateBranch is used when config.json omits stateBranch.
const DefaultStateBranch = "gitgov-state"

// DefaultRemote is used when config.json omits remote.
const DefaultRemote = "origin"

// Config is the parsed, defaulted view of .gitgov/config.json.
type Config struct {
	StateBranch      string   `json:"stateBranch,omitempty"`
	Remote           string   `json:"remote,omitempty"`
	SyncDirs         []string `json:"syncDirs,omitempty"`
	SyncRootFiles    []string `json:"syncRootFiles,omitempty"`
	LocalOnlyFiles   []string `json:"localOnlyFiles,omitempty"`
	ExcludedPatterns []string `json:"excludedPatterns,omitempty"`
	LogLevel         string   `json:"logLevel,omitempty"`
	Telemetry        *bool    `json:"telemetry,omitempty"`
}

// localOverride is the subset of fields .gitgov/settings.local.json may
// override. Only fields present in the file take effect; a present
// field applies even when its value is false or empty.
type localOverride struct {
	LogLevel  *string `json:"logLevel,omitempty"`
	Telemetry *bool   `json:"telemetry,omitempty"`
}

// Load reads .gitgov/config.json under repoRoot, applies defaults for
// every omitted field, then layers .gitgov/settings.local.json over it.
// A missing config.json is not an error — defaults are used as-is,
// matching the teacher's "no settings.json yet" behavior.
func Load(repoRoot string) (*Config, error) {
	cfg := defaults()

	configPath := filepath.Join(repoRoot, idpath.GitgovDir, "config.json")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := mergeConfigJSON(cfg, data); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}

	localPath := filepath.Join(repoRoot, idpath.GitgovDir, "settings.local.json")
	if data, err := os.ReadFile(localPath); err == nil {
		var local localOverride
		if err := json.Unmarshal(data, &local); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", localPath, err)
		}
		if local.LogLevel != nil {
			cfg.LogLevel = *local.LogLevel
		}
		if local.Telemetry != nil {
			cfg.Telemetry = local.Telemetry
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading %s: %w", localPath, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		StateBranch:      DefaultStateBranch,
		Remote:           DefaultRemote,
		SyncDirs:         append([]string(nil), idpath.DefaultSyncDirs...),
		SyncRootFiles:    append([]string(nil), idpath.DefaultSyncRootFiles...),
		LocalOnlyFiles:   append([]string(nil), idpath.DefaultLocalOnlyFiles...),
		ExcludedPatterns: append([]string(nil), idpath.DefaultExcludedPatterns...),
		LogLevel:         "info",
	}
}

// mergeConfigJSON overlays raw JSON fields onto cfg, leaving any field
// absent from the JSON at its current (default) value. excludedPatterns
// is intentionally NOT overridable down to an empty/weaker set: the
// hard safety defaults are always unioned in, never replaced, so a
// misconfigured project can never make *.key syncable.
func mergeConfigJSON(cfg *Config, data []byte) error {
	var raw struct {
		StateBranch      *string  `json:"stateBranch"`
		Remote           *string  `json:"remote"`
		SyncDirs         []string `json:"syncDirs"`
		SyncRootFiles    []string `json:"syncRootFiles"`
		LocalOnlyFiles   []string `json:"localOnlyFiles"`
		ExcludedPatterns []string `json:"excludedPatterns"`
		LogLevel         *string  `json:"logLevel"`
		Telemetry        *bool    `json:"telemetry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.StateBranch != nil && *raw.StateBranch != "" {
		cfg.StateBranch = *raw.StateBranch
	}
	if raw.Remote != nil && *raw.Remote != "" {
		cfg.Remote = *raw.Remote
	}
	if raw.SyncDirs != nil {
		cfg.SyncDirs = raw.SyncDirs
	}
	if raw.SyncRootFiles != nil {
		cfg.SyncRootFiles = raw.SyncRootFiles
	}
	if raw.LocalOnlyFiles != nil {
		cfg.LocalOnlyFiles = raw.LocalOnlyFiles
	}
	if raw.ExcludedPatterns != nil {
		cfg.ExcludedPatterns = unionStrings(idpath.DefaultExcludedPatterns, raw.ExcludedPatterns)
	}
	if raw.LogLevel != nil && *raw.LogLevel != "" {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Telemetry != nil {
		cfg.Telemetry = raw.Telemetry
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.StateBranch == "" {
		cfg.StateBranch = DefaultStateBranch
	}
	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}
}

func unionStrings(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range append(append([]string{}, base...), extra...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Policy builds the idpath.Policy that corresponds to cfg's classification
// lists.
func (cfg *Config) Policy() *idpath.Policy {
	return idpath.NewPolicy(cfg.SyncDirs, cfg.SyncRootFiles, cfg.LocalOnlyFiles, cfg.ExcludedPatterns)
}
