package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults_NoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateBranch != DefaultStateBranch || cfg.Remote != DefaultRemote {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_OverridesFromConfigJSON(t *testing.T) {
	dir := t.TempDir()
	mustMkdirAndWrite(t, filepath.Join(dir, ".gitgov", "config.json"), `{"stateBranch":"custom-state","logLevel":"debug"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateBranch != "custom-state" {
		t.Errorf("StateBranch = %q, want custom-state", cfg.StateBranch)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Remote != DefaultRemote {
		t.Errorf("Remote should still default, got %q", cfg.Remote)
	}
}

func TestLoad_ExcludedPatternsAreUnionedNotReplaced(t *testing.T) {
	dir := t.TempDir()
	mustMkdirAndWrite(t, filepath.Join(dir, ".gitgov", "config.json"), `{"excludedPatterns":["*.secret"]}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hasKey := false
	hasSecret := false
	for _, p := range cfg.ExcludedPatterns {
		if p == "*.key" {
			hasKey = true
		}
		if p == "*.secret" {
			hasSecret = true
		}
	}
	if !hasKey {
		t.Error("the hard-coded *.key default must survive a config override")
	}
	if !hasSecret {
		t.Error("the project-configured *.secret pattern should be present")
	}
}

func TestLoad_LocalSettingsOverrideLogLevelAndTelemetry(t *testing.T) {
	dir := t.TempDir()
	mustMkdirAndWrite(t, filepath.Join(dir, ".gitgov", "config.json"), `{"logLevel":"info"}`)
	mustMkdirAndWrite(t, filepath.Join(dir, ".gitgov", "settings.local.json"), `{"logLevel":"debug","telemetry":true}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug (local override)", cfg.LogLevel)
	}
	if cfg.Telemetry == nil || !*cfg.Telemetry {
		t.Error("expected telemetry enabled via local settings override")
	}
}

func TestPolicy_BuildsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pol := cfg.Policy()
	if !pol.ShouldSync(".gitgov/tasks/1700000000-task-x.json") {
		t.Error("expected the default policy to mark a task record as syncable")
	}
}

func mustMkdirAndWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
