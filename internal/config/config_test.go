package config

import (
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Provider.Name != DefaultProvider {
		t.Errorf("Provider.Name = %q, want %q", cfg.Provider.Name, DefaultProvider)
	}
	if cfg.Provider.ModelID != DefaultModelID {
		t.Errorf("Provider.ModelID = %q, want %q", cfg.Provider.ModelID, DefaultModelID)
	}
	if cfg.Provider.SynthesisModelID != DefaultSynthesisModel {
		t.Errorf("Provider.SynthesisModelID = %q, want %q", cfg.Provider.SynthesisModelID, DefaultSynthesisModel)
	}
	if cfg.Provider.ContextSize != DefaultContextSize {
		t.Errorf("Provider.ContextSize = %d, want %d", cfg.Provider.ContextSize, DefaultContextSize)
	}
	if cfg.Cache.SQLitePath != DefaultSQLitePath {
		t.Errorf("Cache.SQLitePath = %q, want %q", cfg.Cache.SQLitePath, DefaultSQLitePath)
	}
	if cfg.Summary.Boundary != DefaultBoundary {
		t.Errorf("Summary.Boundary = %q, want %q", cfg.Summary.Boundary, DefaultBoundary)
	}
	if len(cfg.Summary.TargetSizes) != len(DefaultTargetSizes) {
		t.Fatalf("Summary.TargetSizes = %v, want %v", cfg.Summary.TargetSizes, DefaultTargetSizes)
	}
	for i, size := range DefaultTargetSizes {
		if cfg.Summary.TargetSizes[i] != size {
			t.Errorf("TargetSizes[%d] = %d, want %d", i, cfg.Summary.TargetSizes[i], size)
		}
	}
}

func TestDefaultTargetSizesAreCopied(t *testing.T) {
	cfg := NewConfig()
	cfg.Summary.TargetSizes[0] = 42

	if DefaultTargetSizes[0] == 42 {
		t.Error("Mutating a config leaked into the package defaults")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath failed: %v", err)
	}
	if cfg.Provider.Name != DefaultProvider {
		t.Errorf("Provider.Name = %q, want default %q", cfg.Provider.Name, DefaultProvider)
	}
	if cfg.GetConfigPath() != path {
		t.Errorf("GetConfigPath = %q, want %q", cfg.GetConfigPath(), path)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Provider.Name = "anthropic"
	cfg.Provider.ContextSize = 200000
	cfg.Summary.Boundary = "\n"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath failed: %v", err)
	}
	if loaded.Provider.Name != "anthropic" {
		t.Errorf("Provider.Name = %q, want anthropic", loaded.Provider.Name)
	}
	if loaded.Provider.ContextSize != 200000 {
		t.Errorf("Provider.ContextSize = %d, want 200000", loaded.Provider.ContextSize)
	}
	if loaded.Summary.Boundary != "\n" {
		t.Errorf("Summary.Boundary = %q, want newline", loaded.Summary.Boundary)
	}
}
