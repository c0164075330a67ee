// SPDX-License-Identifier: Apache-2.0

// Package project resolves the launcher's project root and the dispatch
// targets living in it. The root is derived from the launcher's own
// location, never from the caller's working directory, so invoking the
// tool from anywhere behaves identically.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"umd-launcher/internal/config"
)

// RootEnvVar overrides root resolution when set. Packagers and tests use
// it to point the launcher at a relocated project tree.
const RootEnvVar = "UMDL_ROOT"

// FindRoot resolves the project root directory: the UMDL_ROOT override if
// present, otherwise the directory containing the launcher executable
// with symlinks resolved.
func FindRoot() (string, error) {
	if override := os.Getenv(RootEnvVar); override != "" {
		override, err := config.ResolvePath(override)
		if err != nil {
			return "", err
		}
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s=%q: %w", RootEnvVar, override, err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("%s=%q is not a directory", RootEnvVar, override)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve launcher executable path %s: %w", exe, err)
	}
	return filepath.Dir(resolved), nil
}

// Target is one of the two external programs the launcher dispatches to.
type Target struct {
	Mode   config.Mode
	Script string // absolute path to the entry-point script
}

// Name returns the target's display name ("backend" or "gui").
func (t Target) Name() string {
	return string(t.Mode)
}

// Exists reports whether the target's entry-point script is on disk.
func (t Target) Exists() bool {
	info, err := os.Stat(t.Script)
	return err == nil && !info.IsDir()
}

// Targets lists both dispatch targets for the project, present or not.
func Targets(root string, cfg config.Config) []Target {
	return []Target{
		{Mode: config.ModeBackend, Script: filepath.Join(root, cfg.BackendScript)},
		{Mode: config.ModeGUI, Script: filepath.Join(root, cfg.GUIScript)},
	}
}

// ResolveTarget returns the dispatch target for mode, failing with a
// descriptive error when its entry-point script is missing.
func ResolveTarget(root string, cfg config.Config, mode config.Mode) (Target, error) {
	t := Target{Mode: mode, Script: filepath.Join(root, cfg.ScriptFor(mode))}
	if !t.Exists() {
		return Target{}, fmt.Errorf("%s entry point %s not found; is the launcher installed next to the %s program?",
			t.Name(), t.Script, t.Name())
	}
	return t, nil
}
