// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"umd-launcher/internal/config"
	"umd-launcher/internal/manifest"
	"umd-launcher/internal/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec records step sequences instead of spawning processes. Venv
// creation is simulated by creating the target directory so the
// fingerprint store has somewhere to live.
type fakeExec struct {
	runSteps   []runner.Step
	launched   []runner.Step
	failStep   string // name of the step whose Run should fail
	launchCode int
	launchErr  error
}

func (f *fakeExec) Run(step runner.Step) error {
	f.runSteps = append(f.runSteps, step)
	if step.Name == "Create Environment" {
		if err := os.MkdirAll(step.Args[len(step.Args)-1], 0750); err != nil {
			return err
		}
	}
	if step.Name == f.failStep {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) Launch(step runner.Step) (int, error) {
	f.launched = append(f.launched, step)
	return f.launchCode, f.launchErr
}

func (f *fakeExec) stepNames() []string {
	names := make([]string, len(f.runSteps))
	for i, s := range f.runSteps {
		names[i] = s.Name
	}
	return names
}

func newTestLauncher(t *testing.T) (*Launcher, *fakeExec) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	// "sh" stands in for the system interpreter: present on PATH in the
	// test environment, never actually executed by the fake.
	cfg.Interpreters = []string{"sh"}

	fake := &fakeExec{}
	l := New(root, cfg)
	l.Exec = fake
	l.Out = &bytes.Buffer{}
	l.ErrOut = &bytes.Buffer{}

	require.NoError(t, os.WriteFile(filepath.Join(root, "gui.py"), []byte("print('gui')\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "umd2.py"), []byte("print('backend')\n"), 0644))
	return l, fake
}

func writeManifest(t *testing.T, l *Launcher, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(l.ManifestPath(), []byte(content), 0644))
}

func TestFreshCheckoutBootstrapsAndLaunchesGUI(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")

	code, err := l.Run(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Equal(t, []string{"Create Environment", "Upgrade pip", "Install Dependencies"}, fake.stepNames())

	// Fingerprint recorded after the successful install.
	fp, ok, err := l.Store().Get()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, manifest.Fingerprint([]byte("pyserial==3.5\n")), fp)

	// Default dispatch target is the GUI, no extra arguments.
	require.Len(t, fake.launched, 1)
	assert.Equal(t, l.Env().Python(), fake.launched[0].Command)
	assert.Equal(t, []string{filepath.Join(l.Root, "gui.py")}, fake.launched[0].Args)
}

func TestSecondRunSkipsInstall(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")

	_, err := l.Run(Options{})
	require.NoError(t, err)

	fake.runSteps = nil
	out := &bytes.Buffer{}
	l.Out = out

	code, err := l.Run(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, fake.stepNames(), "unchanged manifest must not reinstall")
	assert.Contains(t, out.String(), "skipping install")
}

func TestManifestDriftTriggersExactlyOneReinstall(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")
	_, err := l.Run(Options{})
	require.NoError(t, err)

	writeManifest(t, l, "pyserial==3.5\nnumpy\n")

	fake.runSteps = nil
	_, err = l.Run(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Upgrade pip", "Install Dependencies"}, fake.stepNames())

	fp, _, err := l.Store().Get()
	require.NoError(t, err)
	assert.Equal(t, manifest.Fingerprint([]byte("pyserial==3.5\nnumpy\n")), fp)

	// And only once: the next run is a no-op again.
	fake.runSteps = nil
	_, err = l.Run(Options{})
	require.NoError(t, err)
	assert.Empty(t, fake.stepNames())
}

func TestForceRebuildsEnvironmentAndReinstalls(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")
	_, err := l.Run(Options{})
	require.NoError(t, err)

	marker := filepath.Join(l.Env().Dir, "stale-marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	fake.runSteps = nil
	_, err = l.Run(Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Create Environment", "Upgrade pip", "Install Dependencies"}, fake.stepNames())
	assert.NoFileExists(t, marker, "force must rebuild the environment directory from scratch")
}

func TestMissingManifestWarnsAndStillDispatches(t *testing.T) {
	l, fake := newTestLauncher(t)

	errOut := &bytes.Buffer{}
	l.ErrOut = errOut

	code, err := l.Run(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut.String(), "Warning")
	assert.Equal(t, []string{"Create Environment"}, fake.stepNames(), "no install without a manifest")
	assert.Len(t, fake.launched, 1)
}

func TestNoInterpreterFailsBeforeAnyMutation(t *testing.T) {
	l, fake := newTestLauncher(t)
	l.Config.Interpreters = []string{"umdl-test-no-such-interpreter"}
	writeManifest(t, l, "pyserial==3.5\n")

	code, err := l.Run(Options{})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, fake.runSteps)
	assert.Empty(t, fake.launched)
	assert.False(t, l.Env().Exists(), "no filesystem mutation on interpreter failure")
}

func TestInstallOnlySkipsDispatch(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")

	code, err := l.Run(Options{InstallOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, fake.launched)
}

func TestFailedInstallLeavesFingerprintForRetry(t *testing.T) {
	l, fake := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")
	fake.failStep = "Install Dependencies"

	code, err := l.Run(Options{})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, fake.launched, "no dispatch after a failed install")

	_, ok, err := l.Store().Get()
	require.NoError(t, err)
	assert.False(t, ok, "fingerprint must not be written on install failure")

	// Self-healing: the next run triggers the install again.
	fake.failStep = ""
	fake.runSteps = nil
	_, err = l.Run(Options{})
	require.NoError(t, err)
	assert.Contains(t, fake.stepNames(), "Install Dependencies")
}

func TestBackendDispatchForwardsArgsVerbatim(t *testing.T) {
	l, fake := newTestLauncher(t)

	code, err := l.Run(Options{Mode: config.ModeBackend, Args: []string{"foo", "bar"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	require.Len(t, fake.launched, 1)
	step := fake.launched[0]
	assert.Equal(t, []string{filepath.Join(l.Root, "umd2.py"), "foo", "bar"}, step.Args)
}

func TestMissingTargetIsFatal(t *testing.T) {
	l, fake := newTestLauncher(t)
	require.NoError(t, os.Remove(filepath.Join(l.Root, "umd2.py")))

	code, err := l.Run(Options{Mode: config.ModeBackend})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, fake.launched)
	assert.Contains(t, err.Error(), "umd2.py")
}

func TestChildExitCodeIsPropagated(t *testing.T) {
	l, fake := newTestLauncher(t)
	fake.launchCode = 7

	code, err := l.Run(Options{})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestStatusSnapshot(t *testing.T) {
	l, _ := newTestLauncher(t)
	writeManifest(t, l, "pyserial==3.5\n")

	st := l.Status()
	assert.Equal(t, l.Root, st.Root)
	assert.False(t, st.EnvExists)
	assert.True(t, st.ManifestExists)
	assert.Equal(t, "uninitialized", st.SyncState)
	assert.True(t, st.InstallNeeded)
	require.Len(t, st.Targets, 2)
	assert.True(t, st.Targets[0].Exists)
	assert.True(t, st.Targets[1].Exists)

	// After a run the snapshot reports a fresh environment.
	_, err := l.Run(Options{InstallOnly: true})
	require.NoError(t, err)

	st = l.Status()
	assert.True(t, st.EnvExists)
	assert.Equal(t, "fresh", st.SyncState)
	assert.False(t, st.InstallNeeded)
	assert.Equal(t, st.Fingerprint, st.StoredFingerprint)
}
