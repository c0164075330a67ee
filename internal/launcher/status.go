// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"umd-launcher/internal/interp"
	"umd-launcher/internal/manifest"
	"umd-launcher/internal/project"
)

// TargetStatus is the on-disk state of one dispatch target.
type TargetStatus struct {
	Name   string `json:"name"`
	Script string `json:"script"`
	Exists bool   `json:"exists"`
}

// Status is a read-only snapshot of the launcher's world, shared by
// `env status`, `doctor` and the serve API. Collecting it never mutates
// the filesystem.
type Status struct {
	Root        string `json:"root"`
	Interpreter string `json:"interpreter,omitempty"`
	// InterpreterError is set instead of Interpreter when discovery fails.
	InterpreterError string `json:"interpreter_error,omitempty"`

	EnvDir     string `json:"env_dir"`
	EnvExists  bool   `json:"env_exists"`
	EnvVersion string `json:"env_version,omitempty"`

	ManifestPath      string `json:"manifest_path"`
	ManifestExists    bool   `json:"manifest_exists"`
	SyncState         string `json:"sync_state"`
	Fingerprint       string `json:"fingerprint,omitempty"`
	StoredFingerprint string `json:"stored_fingerprint,omitempty"`
	InstallNeeded     bool   `json:"install_needed"`

	Targets []TargetStatus `json:"targets"`
}

// Status collects the snapshot. Probe failures are recorded in the
// snapshot rather than returned, so a broken environment still renders a
// useful report.
func (l *Launcher) Status() Status {
	st := Status{
		Root:         l.Root,
		EnvDir:       l.Env().Dir,
		ManifestPath: l.ManifestPath(),
	}

	if python, err := interp.Find(l.Config.Interpreters); err != nil {
		st.InterpreterError = err.Error()
	} else {
		st.Interpreter = python.Path
	}

	env := l.Env()
	st.EnvExists = env.Exists()
	if st.EnvExists {
		if v, err := env.Version(); err == nil {
			st.EnvVersion = v
		}
	}

	store := l.Store()
	state, fp, err := manifest.Check(st.ManifestPath, store)
	if err == nil {
		st.SyncState = state.String()
		st.Fingerprint = fp
		st.ManifestExists = state != manifest.StateNoManifest
		st.InstallNeeded = state.NeedsInstall()
	} else {
		st.SyncState = "error: " + err.Error()
	}
	if stored, ok, err := store.Get(); err == nil && ok {
		st.StoredFingerprint = stored
	}

	st.Targets = make([]TargetStatus, 0, 2)
	for _, t := range project.Targets(l.Root, l.Config) {
		st.Targets = append(st.Targets, TargetStatus{
			Name:   t.Name(),
			Script: t.Script,
			Exists: t.Exists(),
		})
	}
	return st
}
