// SPDX-License-Identifier: Apache-2.0

// Package pyenv manages the isolated Python environment (venv) the
// launcher installs dependencies into. The environment lives at a fixed
// path relative to the project root, persists across invocations, and is
// only ever removed by an explicit force rebuild or `env clean`.
package pyenv

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"umd-launcher/internal/interp"
	"umd-launcher/internal/runner"
)

// Env is an isolated environment rooted at Dir.
type Env struct {
	// Dir is the absolute environment directory path.
	Dir string
}

// New returns the environment at <root>/<name>.
func New(root, name string) Env {
	return Env{Dir: filepath.Join(root, name)}
}

// Exists reports whether the environment directory is present.
func (e Env) Exists() bool {
	info, err := os.Stat(e.Dir)
	return err == nil && info.IsDir()
}

// Python returns the environment's interpreter path for the current
// platform.
func (e Env) Python() string {
	return pythonPath(e.Dir, runtime.GOOS)
}

// pythonPath is split out so the per-platform layout is testable.
func pythonPath(dir, goos string) string {
	if goos == "windows" {
		return filepath.Join(dir, "Scripts", "python.exe")
	}
	return filepath.Join(dir, "bin", "python")
}

// Remove deletes the environment directory. Missing is not an error.
func (e Env) Remove() error {
	if err := os.RemoveAll(e.Dir); err != nil {
		return fmt.Errorf("failed to remove environment directory %s: %w", e.Dir, err)
	}
	return nil
}

// Version runs the environment's interpreter with --version and returns
// the trimmed output. Used by status and doctor probes.
func (e Env) Version() (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(e.Python(), "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to query environment interpreter version: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

// CreateSequence builds the steps that create the environment with the
// located system interpreter.
func CreateSequence(i interp.Interpreter, e Env) []runner.Step {
	return []runner.Step{
		{
			Name:    "Create Environment",
			Command: i.Path,
			Args:    []string{"-m", "venv", e.Dir},
		},
	}
}

// InstallSequence builds the steps that sync the environment to the
// manifest: upgrade the installer itself, then install every manifest
// entry.
func InstallSequence(e Env, manifestPath string) []runner.Step {
	return []runner.Step{
		{
			Name:    "Upgrade pip",
			Command: e.Python(),
			Args:    []string{"-m", "pip", "install", "--upgrade", "pip"},
		},
		{
			Name:    "Install Dependencies",
			Command: e.Python(),
			Args:    []string{"-m", "pip", "install", "-r", manifestPath},
		},
	}
}
