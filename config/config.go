// Package config loads the cheevos-harness configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Valid option values.
var (
	LogFormats    = []string{"console", "json"}
	HarnessModes  = []string{"direct", "raw", "mapped"}
	ReportFormats = []string{"text", "json"}
)

// Config holds every setting of the harness CLI.
type Config struct {
	Log     LogConfig
	Harness HarnessConfig
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string // zerolog level name
	Format string // console or json
}

// HarnessConfig controls conformance runs.
type HarnessConfig struct {
	Mode       string   // direct, raw or mapped
	Frames     int      // settle frames before the trigger write
	MemorySize int      // synthetic memory size in bytes
	Suites     []string // YAML suite files; empty runs the standard suite
	Format     string   // report format: text or json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Harness: HarnessConfig{
			Mode:       "raw",
			Frames:     5,
			MemorySize: 0x10000,
			Format:     "text",
		},
	}
}

// fileConfig is the TOML layout of the config file.
type fileConfig struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Harness struct {
		Mode       string   `toml:"mode"`
		Frames     int      `toml:"frames"`
		MemorySize int      `toml:"memory_size"`
		Suites     []string `toml:"suites"`
		Format     string   `toml:"format"`
	} `toml:"harness"`
}

// Load reads path and overlays the keys it defines onto Default. A missing
// file yields the defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config: unknown keys: %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.TrimSpace(raw.Log.Format)
	}
	if meta.IsDefined("harness", "mode") {
		cfg.Harness.Mode = strings.TrimSpace(raw.Harness.Mode)
	}
	if meta.IsDefined("harness", "frames") {
		cfg.Harness.Frames = raw.Harness.Frames
	}
	if meta.IsDefined("harness", "memory_size") {
		cfg.Harness.MemorySize = raw.Harness.MemorySize
	}
	if meta.IsDefined("harness", "suites") {
		cfg.Harness.Suites = raw.Harness.Suites
	}
	if meta.IsDefined("harness", "format") {
		cfg.Harness.Format = strings.TrimSpace(raw.Harness.Format)
	}

	if problems := Validate(cfg); len(problems) > 0 {
		return Config{}, fmt.Errorf("load config %s: %s", path, strings.Join(problems, "; "))
	}
	return cfg, nil
}

// Validate checks every field and returns a description of each invalid
// one. An empty result means the configuration is usable.
func Validate(cfg Config) []string {
	var problems []string

	// log.level
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		problems = append(problems, fmt.Sprintf("log.level: %q (valid: trace, debug, info, warn, error, disabled)", cfg.Log.Level))
	}

	// log.format
	if !slices.Contains(LogFormats, cfg.Log.Format) {
		problems = append(problems, fmt.Sprintf("log.format: %q (valid: %v)", cfg.Log.Format, LogFormats))
	}

	// harness.mode
	if !slices.Contains(HarnessModes, cfg.Harness.Mode) {
		problems = append(problems, fmt.Sprintf("harness.mode: %q (valid: %v)", cfg.Harness.Mode, HarnessModes))
	}

	// harness.frames
	if cfg.Harness.Frames < 1 || cfg.Harness.Frames > 600 {
		problems = append(problems, fmt.Sprintf("harness.frames: %d (valid: 1-600)", cfg.Harness.Frames))
	}

	// harness.memory_size
	if cfg.Harness.MemorySize < 0x100 || cfg.Harness.MemorySize > 1<<24 {
		problems = append(problems, fmt.Sprintf("harness.memory_size: %d (valid: 256-16777216)", cfg.Harness.MemorySize))
	}

	// harness.suites
	for i, s := range cfg.Harness.Suites {
		if strings.TrimSpace(s) == "" {
			problems = append(problems, fmt.Sprintf("harness.suites[%d]: empty path", i))
		}
	}

	// harness.format
	if !slices.Contains(ReportFormats, cfg.Harness.Format) {
		problems = append(problems, fmt.Sprintf("harness.format: %q (valid: %v)", cfg.Harness.Format, ReportFormats))
	}

	return problems
}
