// Package config holds project-wide constants and the tower.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/typesystem"
)

// Config represents the top-level tower.yaml configuration.
type Config struct {
	// Entry is the source file checked when the CLI gets no file argument.
	// Relative to the config file.
	Entry string `yaml:"entry,omitempty"`

	Diagnostics DiagnosticsConfig `yaml:"diagnostics,omitempty"`

	// Builtins are merged into the default builtin table.
	Builtins []BuiltinDecl `yaml:"builtins,omitempty"`

	Cache CacheConfig `yaml:"cache,omitempty"`

	// dir is the directory the config was loaded from; relative paths
	// resolve against it.
	dir string
}

type DiagnosticsConfig struct {
	TabWidth int    `yaml:"tab_width,omitempty"`
	Color    string `yaml:"color,omitempty"` // auto | always | never
}

// BuiltinDecl declares the signature of one builtin. Pops lists the popped
// types top of stack first, Pushes the pushed types in push order.
type BuiltinDecl struct {
	Name   string   `yaml:"name"`
	Pops   []string `yaml:"pops,omitempty"`
	Pushes []string `yaml:"pushes,omitempty"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no tower.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a tower.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig parses tower.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for tower.yaml starting from dir and walking up to
// parent directories. It returns "" and a nil error when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load finds and loads the config for dir, falling back to Default.
func Load(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := Default()
		cfg.dir = dir
		return cfg, nil
	}
	return LoadConfig(path)
}

func (c *Config) validate(path string) error {
	if c.Diagnostics.TabWidth < 0 {
		return fmt.Errorf("%s: diagnostics.tab_width must be positive, got %d", path, c.Diagnostics.TabWidth)
	}
	if _, err := diagnostics.ParseColorMode(c.Diagnostics.Color); err != nil {
		return fmt.Errorf("%s: diagnostics.color: %w", path, err)
	}
	if c.Entry != "" && filepath.Ext(c.Entry) != SourceFileExt {
		return fmt.Errorf("%s: entry %q must have the %s extension", path, c.Entry, SourceFileExt)
	}

	seen := make(map[string]bool)
	for i, b := range c.Builtins {
		if b.Name == "" {
			return fmt.Errorf("%s: builtins[%d]: name is required", path, i)
		}
		if !strings.HasPrefix(b.Name, BuiltinPrefix) || len(b.Name) == len(BuiltinPrefix) {
			return fmt.Errorf("%s: builtins[%d] (%s): name must start with %q", path, i, b.Name, BuiltinPrefix)
		}
		if seen[b.Name] {
			return fmt.Errorf("%s: builtins[%d] (%s): declared twice", path, i, b.Name)
		}
		seen[b.Name] = true
		for _, tn := range append(append([]string{}, b.Pops...), b.Pushes...) {
			if _, ok := typesystem.FromName(tn); !ok {
				return fmt.Errorf("%s: builtins[%d] (%s): unknown type %q", path, i, b.Name, tn)
			}
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Diagnostics.TabWidth == 0 {
		c.Diagnostics.TabWidth = diagnostics.DefaultTabWidth
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = string(diagnostics.ColorAuto)
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
}

// Dir is the directory relative paths in the config resolve against.
func (c *Config) Dir() string { return c.dir }

// ColorMode returns the validated colour mode.
func (c *Config) ColorMode() diagnostics.ColorMode {
	m, _ := diagnostics.ParseColorMode(c.Diagnostics.Color)
	return m
}

// EntryPath is the absolute-or-relative path of the entry file, or "".
func (c *Config) EntryPath() string {
	if c.Entry == "" {
		return ""
	}
	return c.resolve(c.Entry)
}

// CachePath is where the signature cache lives.
func (c *Config) CachePath() string {
	return c.resolve(c.Cache.Path)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
