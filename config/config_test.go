package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cheevos.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if problems := Validate(Default()); len(problems) != 0 {
		t.Errorf("Validate(Default()) = %v, want none", problems)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.toml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if cfg.Harness.Mode != "raw" || cfg.Harness.Frames != 5 || cfg.Log.Level != "info" {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
	}
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "DEBUG"

[harness]
mode = "mapped"
frames = 10
suites = ["a.yaml", "b.yaml"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want default %q", cfg.Log.Format, "console")
	}
	if cfg.Harness.Mode != "mapped" {
		t.Errorf("Harness.Mode = %q, want %q", cfg.Harness.Mode, "mapped")
	}
	if cfg.Harness.Frames != 10 {
		t.Errorf("Harness.Frames = %d, want 10", cfg.Harness.Frames)
	}
	if cfg.Harness.MemorySize != 0x10000 {
		t.Errorf("Harness.MemorySize = %d, want default %d", cfg.Harness.MemorySize, 0x10000)
	}
	if len(cfg.Harness.Suites) != 2 || cfg.Harness.Suites[1] != "b.yaml" {
		t.Errorf("Harness.Suites = %v, want [a.yaml b.yaml]", cfg.Harness.Suites)
	}
	if cfg.Harness.Format != "text" {
		t.Errorf("Harness.Format = %q, want default %q", cfg.Harness.Format, "text")
	}
}

func TestLoadZeroValueOverridesDefault(t *testing.T) {
	path := writeConfig(t, "[harness]\nframes = 0\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "harness.frames: 0") {
		t.Errorf("Load error = %v, want harness.frames problem", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[harness\nmode = 1", "load config"},
		{"unknown key", "[harness]\nspeed = 2\n", "unknown keys: harness.speed"},
		{"bad mode", "[harness]\nmode = \"banked\"\n", "harness.mode"},
		{"bad format", "[harness]\nformat = \"xml\"\n", "harness.format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty level", func(c *Config) { c.Log.Level = "" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"too many frames", func(c *Config) { c.Harness.Frames = 601 }, "harness.frames: 601"},
		{"memory too small", func(c *Config) { c.Harness.MemorySize = 16 }, "harness.memory_size: 16"},
		{"empty suite", func(c *Config) { c.Harness.Suites = []string{"ok.yaml", " "} }, "harness.suites[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			problems := Validate(cfg)
			if len(problems) != 1 {
				t.Fatalf("Validate = %v, want exactly one problem", problems)
			}
			if !strings.HasPrefix(problems[0], tt.want) {
				t.Errorf("problem = %q, want prefix %q", problems[0], tt.want)
			}
		})
	}
}
