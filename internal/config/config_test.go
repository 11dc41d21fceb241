package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Classifier.CriticalityThreshold != DefaultCriticalityThreshold {
		t.Errorf("expected criticality threshold %f, got %f",
			DefaultCriticalityThreshold, cfg.Classifier.CriticalityThreshold)
	}
	if cfg.Pool.Workers != DefaultPoolWorkers {
		t.Errorf("expected %d workers, got %d", DefaultPoolWorkers, cfg.Pool.Workers)
	}
	if cfg.Cache.TTLSeconds != DefaultCacheTTLSeconds {
		t.Errorf("expected TTL %d, got %d", DefaultCacheTTLSeconds, cfg.Cache.TTLSeconds)
	}
	if !cfg.Pool.Blocking {
		t.Error("expected blocking backpressure by default")
	}
	if len(cfg.Analysis.DenyList) == 0 {
		t.Error("expected a non-empty default deny list")
	}
}

func TestLoadConfig_MissingPathUsesDefaults(t *testing.T) {
	// Run from an empty directory so no project config is discovered
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool.Workers != DefaultPoolWorkers {
		t.Errorf("expected default workers, got %d", cfg.Pool.Workers)
	}
}

func TestLoadConfig_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qscan.yaml")
	content := `
pool:
  workers: 8
analysis:
  pass_threshold: 9.0
classifier:
  criticality_threshold: 0.3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Pool.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Pool.Workers)
	}
	if cfg.Analysis.PassThreshold != 9.0 {
		t.Errorf("expected pass threshold 9.0, got %f", cfg.Analysis.PassThreshold)
	}
	if cfg.Classifier.CriticalityThreshold != 0.3 {
		t.Errorf("expected criticality threshold 0.3, got %f", cfg.Classifier.CriticalityThreshold)
	}

	// Unset values keep their defaults
	if cfg.Cache.TTLSeconds != DefaultCacheTTLSeconds {
		t.Errorf("expected default TTL, got %d", cfg.Cache.TTLSeconds)
	}
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qscan.yaml")
	content := `
pool:
  workers: 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for zero workers")
	}
}

func TestLoadConfig_NonexistentFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for nonexistent config path")
	}
}

func TestLoadConfigWithTarget_DiscoversProjectConfig(t *testing.T) {
	dir := t.TempDir()
	content := "pool:\n  workers: 5\n"
	if err := os.WriteFile(filepath.Join(dir, "qscan.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	nested := filepath.Join(dir, "src", "core")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := LoadConfigWithTarget("", nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool.Workers != 5 {
		t.Errorf("expected workers from discovered config, got %d", cfg.Pool.Workers)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"criticality threshold above one", func(c *Config) { c.Classifier.CriticalityThreshold = 1.5 }},
		{"negative diff threshold", func(c *Config) { c.Classifier.DiffThreshold = -1 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTLSeconds = 0 }},
		{"negative cache entries", func(c *Config) { c.Cache.MaxEntries = -1 }},
		{"zero workers", func(c *Config) { c.Pool.Workers = 0 }},
		{"zero queue size", func(c *Config) { c.Pool.QueueSize = 0 }},
		{"zero fast timeout", func(c *Config) { c.Analysis.FastTimeoutSec = 0 }},
		{"pass threshold above ten", func(c *Config) { c.Analysis.PassThreshold = 11 }},
		{"zero method limit", func(c *Config) { c.Analysis.MaxMethodsPerClass = 0 }},
		{"negative weight", func(c *Config) { c.Analysis.Weights["lint"] = -1 }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"empty include patterns", func(c *Config) { c.Files.IncludePatterns = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qscan.yaml")

	original := DefaultConfig()
	original.Pool.Workers = 7
	original.Analysis.PassThreshold = 8.5
	original.Cache.Persist = false

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Pool.Workers != 7 {
		t.Errorf("expected 7 workers after round trip, got %d", loaded.Pool.Workers)
	}
	if loaded.Analysis.PassThreshold != 8.5 {
		t.Errorf("expected pass threshold 8.5 after round trip, got %f", loaded.Analysis.PassThreshold)
	}
	if loaded.Cache.Persist {
		t.Error("expected persist to stay disabled after round trip")
	}
}
