// SPDX-License-Identifier: Apache-2.0

// Package launcher implements the bootstrap-then-dispatch sequence: locate
// a system interpreter, ensure the isolated environment, sync dependencies
// against the manifest fingerprint, and hand off to the selected external
// program. The flow is strictly linear; every failure surfaces immediately
// with a non-zero exit and no retry.
package launcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"umd-launcher/internal/config"
	"umd-launcher/internal/logger"
	"umd-launcher/internal/manifest"
	"umd-launcher/internal/project"
	"umd-launcher/internal/pyenv"
	"umd-launcher/internal/runner"

	"github.com/fatih/color"
)

var (
	statusColor  = color.New(color.FgCyan)
	stepColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// Options are the launcher-level knobs parsed from the leading arguments.
type Options struct {
	// Mode selects the dispatch target; empty means the configured default.
	Mode config.Mode

	// Force rebuilds the environment directory from scratch and
	// reinstalls regardless of the fingerprint.
	Force bool

	// InstallOnly stops after bootstrap without dispatching.
	InstallOnly bool

	// Args are the residual arguments forwarded verbatim to the target.
	Args []string
}

// Launcher carries the resolved project context for one invocation.
type Launcher struct {
	Root   string
	Config config.Config

	// Exec runs external processes; tests substitute a recorder.
	Exec runner.Executor

	// Out and ErrOut receive human-readable progress and diagnostics.
	Out    io.Writer
	ErrOut io.Writer
}

// New returns a Launcher for the given project root with production
// defaults.
func New(root string, cfg config.Config) *Launcher {
	return &Launcher{
		Root:   root,
		Config: cfg,
		Exec:   runner.ExecRunner{},
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

// Env returns the launcher's isolated environment.
func (l *Launcher) Env() pyenv.Env {
	return pyenv.New(l.Root, l.Config.EnvDir)
}

// ManifestPath returns the dependency manifest location.
func (l *Launcher) ManifestPath() string {
	return filepath.Join(l.Root, l.Config.Manifest)
}

// Store returns the fingerprint store inside the environment directory.
func (l *Launcher) Store() *manifest.Store {
	return manifest.NewStore(l.Env().Dir)
}

// Run performs the full launcher sequence and returns the process exit
// code: the dispatched child's code on a completed launch, 0 for
// install-only runs, or 1 with a non-nil error for launcher failures.
func (l *Launcher) Run(opts Options) (int, error) {
	if err := l.Bootstrap(opts); err != nil {
		return 1, err
	}
	if opts.InstallOnly {
		successColor.Fprintln(l.Out, "Bootstrap complete.")
		return 0, nil
	}
	return l.Dispatch(opts)
}

// Bootstrap ensures the environment exists and its packages match the
// manifest. Planning runs first, so a missing interpreter aborts before
// any filesystem mutation.
func (l *Launcher) Bootstrap(opts Options) error {
	plan, err := l.Plan(opts.Force)
	if err != nil {
		return err
	}
	statusColor.Fprintf(l.Out, "Using interpreter: %s\n", plan.Interpreter.Path)

	env := l.Env()
	if plan.RemoveEnv {
		stepColor.Fprintf(l.Out, "Force install: removing %s\n", env.Dir)
		if err := env.Remove(); err != nil {
			return err
		}
	}

	if len(plan.CreateSteps) > 0 {
		statusColor.Fprintf(l.Out, "Creating environment at %s\n", env.Dir)
		if err := l.runSequence(plan.CreateSteps); err != nil {
			return fmt.Errorf("environment creation failed: %w", err)
		}
	}

	if plan.State == manifest.StateNoManifest {
		warnColor.Fprintf(l.ErrOut, "Warning: manifest %s not found; skipping dependency install.\n", l.ManifestPath())
		logger.Warn("manifest missing", "path", l.ManifestPath())
		return nil
	}

	if len(plan.InstallSteps) == 0 {
		statusColor.Fprintln(l.Out, "Dependencies up to date; skipping install.")
		logger.Info("dependency install skipped", "state", plan.State.String())
		return nil
	}

	switch {
	case opts.Force:
		stepColor.Fprintln(l.Out, "Installing dependencies (forced)...")
	case plan.State == manifest.StateUninitialized:
		stepColor.Fprintln(l.Out, "Installing dependencies (first install)...")
	default:
		stepColor.Fprintln(l.Out, "Manifest changed; reinstalling dependencies...")
	}

	if err := l.runSequence(plan.InstallSteps); err != nil {
		// The fingerprint stays untouched so the next run retries.
		return fmt.Errorf("dependency install failed: %w", err)
	}

	if err := l.Store().Set(plan.Fingerprint); err != nil {
		return err
	}
	successColor.Fprintln(l.Out, "Dependencies installed.")
	logger.Info("dependencies installed", "fingerprint", plan.Fingerprint)
	return nil
}

// Dispatch resolves the selected target and launches it with the residual
// arguments, returning the child's exit code.
func (l *Launcher) Dispatch(opts Options) (int, error) {
	mode := opts.Mode
	if mode == "" {
		mode = l.Config.DefaultMode
	}

	target, err := project.ResolveTarget(l.Root, l.Config, mode)
	if err != nil {
		return 1, err
	}

	env := l.Env()
	statusColor.Fprintf(l.Out, "Launching %s: %s\n", target.Name(), filepath.Base(target.Script))

	step := runner.Step{
		Name:    target.Name(),
		Command: env.Python(),
		Args:    append([]string{target.Script}, opts.Args...),
		Dir:     l.Root,
	}
	code, err := l.Exec.Launch(step)
	if err != nil {
		return 1, err
	}
	if code != 0 {
		errorColor.Fprintf(l.ErrOut, "%s exited with status %d\n", target.Name(), code)
	}
	return code, nil
}

func (l *Launcher) runSequence(sequence []runner.Step) error {
	for _, step := range sequence {
		stepColor.Fprintf(l.Out, "--- %s: %s\n", step.Name, step.Render())
		if err := l.Exec.Run(step); err != nil {
			return err
		}
	}
	return nil
}
