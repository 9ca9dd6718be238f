package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/san-kum/rulial/internal/enumerate"
	"github.com/san-kum/rulial/internal/machine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Signature.States != 1 || cfg.Signature.Symbols != 2 {
		t.Errorf("expected 1x2 signature, got %s", cfg.Signature)
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Signature != (enumerate.Signature{States: 1, Symbols: 2}) {
		t.Errorf("expected 1x2, got %s", cfg.Signature)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("ring"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	p, err := cfg.TapePolicy()
	if err != nil || p != machine.PolicyWrap {
		t.Errorf("expected wrap policy, got %v (%v)", p, err)
	}

	err = cfg.ApplyPreset("missing")
	if errors.Cause(err) != ErrUnknownPreset {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsAreTractable(t *testing.T) {
	for name, p := range Presets {
		n, err := enumerate.Count(p.Signature)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if n > DefaultMaxMachines {
			t.Errorf("%s: %d machines exceeds the default limit", name, n)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero states", func(c *Config) { c.Signature.States = 0 }},
		{"zero symbols", func(c *Config) { c.Signature.Symbols = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"unknown policy", func(c *Config) { c.Policy = "extend" }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"unknown layout", func(c *Config) { c.Render.Layout = "grid" }},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rulial.yaml")
	cfg := DefaultConfig()
	cfg.Signature = enumerate.Signature{States: 2, Symbols: 1}
	cfg.Steps = 3
	cfg.Policy = "wrap"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Signature != cfg.Signature || loaded.Steps != 3 || loaded.Policy != "wrap" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("steps: 4\nsignature:\n  states: 2\n  symbols: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Steps != 4 || cfg.Signature.States != 2 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Policy != DefaultPolicy || cfg.Render.Layout != DefaultLayout {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("steps: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("ring"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if cfg.Steps != 3 {
		t.Errorf("file should override preset steps, got %d", cfg.Steps)
	}
	if cfg.Policy != "wrap" {
		t.Errorf("preset policy lost: %q", cfg.Policy)
	}
}
