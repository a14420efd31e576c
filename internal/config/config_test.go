package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if *cfg != *def {
		t.Errorf("got %+v, want default %+v", cfg, def)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avrocol.yml")
	body := `registry:
  base_url: "https://schemas.example.com"
  timeout: "30s"
builder:
  capacity_hint: 4096
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.BaseURL != "https://schemas.example.com" {
		t.Errorf("base_url: got %s", cfg.Registry.BaseURL)
	}
	if cfg.Registry.Timeout != 30*time.Second {
		t.Errorf("timeout: got %s", cfg.Registry.Timeout)
	}
	if cfg.Builder.CapacityHint != 4096 {
		t.Errorf("capacity_hint: got %d", cfg.Builder.CapacityHint)
	}
}

func TestWriteDefaultThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "avrocol.yml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("round trip mismatch: got %+v", cfg)
	}
}
