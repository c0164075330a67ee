// SPDX-License-Identifier: Apache-2.0

// Package runner executes the launcher's external processes: the system
// interpreter, pip, and the dispatch targets. Two output modes exist:
// attached mode inherits the launcher's stdio (plain CLI runs), and
// stream mode forwards raw output chunks over a channel (setup TUI).
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"umd-launcher/internal/logger"
	"umd-launcher/internal/util"
)

// Step is one external command in a bootstrap or dispatch sequence.
type Step struct {
	// Name is the human-readable step label used in progress and error
	// messages (e.g. "Create Environment").
	Name    string
	Command string
	Args    []string
	// Dir is the working directory; empty means inherit.
	Dir string
}

// Render returns the step's command line for display.
func (s Step) Render() string {
	return util.RenderCommand(s.Command, s.Args...)
}

// OutputLine is a chunk of child process output streamed to the TUI.
type OutputLine struct {
	Line    string
	IsError bool // true if the chunk came from stderr
}

// Executor runs steps. The launcher depends on this interface so tests
// can record sequences without spawning processes.
type Executor interface {
	// Run executes a bootstrap step with stdio attached, returning an
	// error describing the exit status on failure.
	Run(step Step) error

	// Launch executes a dispatch step with stdio attached and returns the
	// child's exit code. err is non-nil only when the child could not be
	// started at all.
	Launch(step Step) (int, error)
}

// ExecRunner is the production Executor backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(step Step) error {
	logger.Info("running step", "step", step.Name, "cmd", step.Render())

	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start step '%s' (%s): %w", step.Name, step.Render(), err)
	}
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("step '%s' exited with status %d: %w", step.Name, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}
	return nil
}

func (ExecRunner) Launch(step Step) (int, error) {
	logger.Info("dispatching", "target", step.Name, "cmd", step.Render())

	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		// Not a launcher failure: the child ran and chose its own exit
		// code, which the launcher adopts verbatim.
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to launch %s (%s): %w", step.Name, step.Render(), err)
}

// Stream executes a step and forwards its output over the returned
// channels instead of attaching stdio. Exactly one value is sent on the
// error channel (nil on success) after both pipes are drained.
func Stream(step Step) (<-chan OutputLine, <-chan error) {
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		logger.Info("running step (stream)", "step", step.Name, "cmd", step.Render())

		cmd := exec.Command(step.Command, step.Args...)
		cmd.Dir = step.Dir

		stdoutPipe, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stdout pipe for step '%s': %w", step.Name, err)
			return
		}
		stderrPipe, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("failed to get stderr pipe for step '%s': %w", step.Name, err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start step '%s' (%s): %w", step.Name, step.Render(), err)
			return
		}

		outputDone := make(chan struct{}, 2)
		go streamPipe(stdoutPipe, outChan, outputDone, false)
		go streamPipe(stderrPipe, outChan, outputDone, true)

		cmdErr := cmd.Wait()

		// Wait for pipe readers to finish after Wait returns.
		<-outputDone
		<-outputDone

		if cmdErr != nil {
			if exitErr, ok := cmdErr.(*exec.ExitError); ok {
				errChan <- fmt.Errorf("step '%s' exited with status %d: %w", step.Name, exitErr.ExitCode(), cmdErr)
			} else {
				errChan <- fmt.Errorf("step '%s' failed: %w", step.Name, cmdErr)
			}
			return
		}
		errChan <- nil
	}()

	return outChan, errChan
}

// streamPipe reads raw chunks from the pipe and sends them over outChan.
// Raw chunks (not lines) preserve pip's carriage-return progress bars.
func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF {
				logger.Warnf("pipe read error (stderr=%v): %v", isError, err)
			}
			break
		}
	}
}
