// SPDX-License-Identifier: Apache-2.0

// Package config handles the optional launcher configuration file that can
// live next to the launcher binary. Every field has a working default, so a
// plain checkout with no launcher.yaml behaves exactly like the stock tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the well-known name of the launcher configuration file,
// resolved relative to the project root.
const ConfigFileName = "launcher.yaml"

// Mode identifies which external program the launcher dispatches to.
type Mode string

const (
	ModeGUI     Mode = "gui"
	ModeBackend Mode = "backend"
)

// Config represents the launcher configuration. All fields are optional;
// zero values fall back to the defaults below.
type Config struct {
	// Interpreters is the ordered list of interpreter command names probed
	// on PATH. Empty means the platform default list.
	Interpreters []string `yaml:"interpreters,omitempty"`

	// EnvDir is the name of the isolated environment directory, relative
	// to the project root.
	EnvDir string `yaml:"env_dir,omitempty"`

	// Manifest is the name of the dependency manifest file, relative to
	// the project root.
	Manifest string `yaml:"manifest,omitempty"`

	// BackendScript is the backend entry point, relative to the project root.
	BackendScript string `yaml:"backend_script,omitempty"`

	// GUIScript is the GUI entry point, relative to the project root.
	GUIScript string `yaml:"gui_script,omitempty"`

	// DefaultMode selects the dispatch target when no mode flag is given.
	DefaultMode Mode `yaml:"default_mode,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Interpreters:  DefaultInterpreters(),
		EnvDir:        ".venv",
		Manifest:      "requirements.txt",
		BackendScript: "umd2.py",
		GUIScript:     "gui.py",
		DefaultMode:   ModeGUI,
	}
}

// DefaultInterpreters returns the interpreter candidate names for the
// current platform, in probe order.
func DefaultInterpreters() []string {
	if runtime.GOOS == "windows" {
		return []string{"python3", "python", "py"}
	}
	return []string{"python3", "python"}
}

// Load reads the configuration file from the given project root, merging it
// over the defaults. A missing file is not an error.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.merge(overlay)

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given project root with permissions
// rw-r----- (0640).
func Save(root string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	path := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) merge(o Config) {
	if len(o.Interpreters) > 0 {
		c.Interpreters = o.Interpreters
	}
	if o.EnvDir != "" {
		c.EnvDir = o.EnvDir
	}
	if o.Manifest != "" {
		c.Manifest = o.Manifest
	}
	if o.BackendScript != "" {
		c.BackendScript = o.BackendScript
	}
	if o.GUIScript != "" {
		c.GUIScript = o.GUIScript
	}
	if o.DefaultMode != "" {
		c.DefaultMode = o.DefaultMode
	}
}

func (c Config) validate() error {
	switch c.DefaultMode {
	case ModeGUI, ModeBackend:
	default:
		return fmt.Errorf("default_mode must be %q or %q, got %q", ModeGUI, ModeBackend, c.DefaultMode)
	}
	for _, field := range []struct{ name, value string }{
		{"env_dir", c.EnvDir},
		{"manifest", c.Manifest},
		{"backend_script", c.BackendScript},
		{"gui_script", c.GUIScript},
	} {
		if filepath.IsAbs(field.value) || strings.Contains(field.value, "..") {
			return fmt.Errorf("%s must be a plain name relative to the project root, got %q", field.name, field.value)
		}
	}
	return nil
}

// ScriptFor returns the entry-point script name for the given mode.
func (c Config) ScriptFor(mode Mode) string {
	if mode == ModeBackend {
		return c.BackendScript
	}
	return c.GUIScript
}

// ResolvePath expands a leading "~/" against the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
