// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh on PATH")
	}
	return sh
}

func TestLaunchPropagatesExitCode(t *testing.T) {
	sh := requireShell(t)
	var r ExecRunner

	code, err := r.Launch(Step{Name: "exit-3", Command: sh, Args: []string{"-c", "exit 3"}})
	require.NoError(t, err, "a child that runs and fails is not a launch error")
	assert.Equal(t, 3, code)

	code, err = r.Launch(Step{Name: "ok", Command: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestLaunchMissingBinary(t *testing.T) {
	var r ExecRunner

	_, err := r.Launch(Step{Name: "ghost", Command: "/nonexistent/umdl-test-binary"})
	assert.Error(t, err)
}

func TestRunReportsExitStatus(t *testing.T) {
	sh := requireShell(t)
	var r ExecRunner

	err := r.Run(Step{Name: "failing step", Command: sh, Args: []string{"-c", "exit 2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing step")
	assert.Contains(t, err.Error(), "status 2")

	assert.NoError(t, r.Run(Step{Name: "ok", Command: sh, Args: []string{"-c", "true"}}))
}

func TestStreamSeparatesStdoutAndStderr(t *testing.T) {
	sh := requireShell(t)

	outChan, errChan := Stream(Step{
		Name:    "mixed output",
		Command: sh,
		Args:    []string{"-c", "printf out-line; printf err-line >&2"},
	})

	var stdout, stderr strings.Builder
	for line := range outChan {
		if line.IsError {
			stderr.WriteString(line.Line)
		} else {
			stdout.WriteString(line.Line)
		}
	}
	require.NoError(t, <-errChan)

	assert.Equal(t, "out-line", stdout.String())
	assert.Equal(t, "err-line", stderr.String())
}

func TestStreamReportsFailureAfterDrainingOutput(t *testing.T) {
	sh := requireShell(t)

	outChan, errChan := Stream(Step{
		Name:    "doomed step",
		Command: sh,
		Args:    []string{"-c", "echo some progress; exit 5"},
	})

	var collected strings.Builder
	for line := range outChan {
		collected.WriteString(line.Line)
	}
	err := <-errChan

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 5")
	assert.Contains(t, collected.String(), "some progress")
}

func TestStepRender(t *testing.T) {
	step := Step{Command: "python3", Args: []string{"-m", "venv", "/tmp/my env"}}
	assert.Equal(t, "python3 -m venv '/tmp/my env'", step.Render())
}
