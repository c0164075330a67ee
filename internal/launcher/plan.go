// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"umd-launcher/internal/interp"
	"umd-launcher/internal/manifest"
	"umd-launcher/internal/pyenv"
	"umd-launcher/internal/runner"
)

// Plan is the work a bootstrap run would perform, computed without any
// filesystem mutation. Both the plain CLI flow and the setup TUI execute
// plans; only execution mutates.
type Plan struct {
	Interpreter interp.Interpreter

	// RemoveEnv indicates the environment directory must be deleted
	// before CreateSteps run (force rebuild).
	RemoveEnv bool

	CreateSteps  []runner.Step
	InstallSteps []runner.Step

	// Fingerprint is the manifest digest to record after InstallSteps
	// succeed. Empty when no install is planned.
	Fingerprint string

	// State is the manifest sync state observed while planning.
	State manifest.SyncState
}

// Steps returns the full ordered step sequence.
func (p Plan) Steps() []runner.Step {
	steps := make([]runner.Step, 0, len(p.CreateSteps)+len(p.InstallSteps))
	steps = append(steps, p.CreateSteps...)
	return append(steps, p.InstallSteps...)
}

// IsNoop reports whether the plan performs no work at all.
func (p Plan) IsNoop() bool {
	return !p.RemoveEnv && len(p.CreateSteps) == 0 && len(p.InstallSteps) == 0
}

// Plan computes the bootstrap work for this invocation. Interpreter
// discovery happens here, so a missing interpreter fails planning before
// anything touches the filesystem.
func (l *Launcher) Plan(force bool) (Plan, error) {
	python, err := interp.Find(l.Config.Interpreters)
	if err != nil {
		return Plan{}, err
	}

	env := l.Env()
	plan := Plan{
		Interpreter: python,
		RemoveEnv:   force && env.Exists(),
	}
	if plan.RemoveEnv || !env.Exists() {
		plan.CreateSteps = pyenv.CreateSequence(python, env)
	}

	// The sidecar is read before any removal; with force set the result
	// only affects messaging, not the decision.
	state, fp, err := manifest.Check(l.ManifestPath(), l.Store())
	if err != nil {
		return Plan{}, err
	}
	plan.State = state

	if state != manifest.StateNoManifest && (force || state.NeedsInstall()) {
		plan.InstallSteps = pyenv.InstallSequence(env, l.ManifestPath())
		plan.Fingerprint = fp
	}
	return plan, nil
}
