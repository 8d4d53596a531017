// Package config loads makegrind settings from defaults, an optional
// makegrind.toml, MAKEGRIND_* environment variables, and command-line
// flags, in increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all settings of the tool.
type Config struct {
	Trace      string   `koanf:"trace"`
	Reports    []string `koanf:"reports"`
	Format     string   `koanf:"format"`
	Callgrind  string   `koanf:"callgrind"`
	Tracing    string   `koanf:"tracing"`
	Targets    []string `koanf:"targets"`
	MaxEntries int      `koanf:"entries"`
	Children   int      `koanf:"children"`
	Prefix     string   `koanf:"prefix"`
	WebMode    bool     `koanf:"web"`
	Port       int      `koanf:"port"`
	Watch      bool     `koanf:"watch"`
	Verbosity  string   `koanf:"verbosity"`
	VerboseCnt int      `koanf:"verbose"`
}

// Load loads configuration from defaults, config file, environment
// variables, and flags. Priority: Flags > Env > Config File > Defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"trace":     ".",
		"reports":   []string{"summary"},
		"format":    "console",
		"callgrind": "",
		"tracing":   "",
		"targets":   []string{},
		"entries":   10,
		"children":  5,
		"prefix":    "",
		"web":       false,
		"port":      8080,
		"watch":     false,
		"verbosity": "",
		"verbose":   0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - makegrind.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("makegrind.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: MAKEGRIND_ (e.g., MAKEGRIND_PORT=9090)
	if err := k.Load(env.Provider("MAKEGRIND_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "MAKEGRIND_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
