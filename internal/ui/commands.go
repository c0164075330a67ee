// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"umd-launcher/internal/runner"

	tea "github.com/charmbracelet/bubbletea"
)

// runStepCmd streams one bootstrap step. Output chunks are pushed through
// BubbleProgram as they arrive; the command itself resolves to the step's
// final result.
func runStepCmd(step runner.Step) tea.Cmd {
	return func() tea.Msg {
		outChan, errChan := runner.Stream(step)
		for line := range outChan {
			if BubbleProgram != nil {
				BubbleProgram.Send(stepOutputMsg{line: line})
			}
		}
		return stepFinishedMsg{err: <-errChan}
	}
}

// finalizeCmd runs the post-success hook (fingerprint persistence).
func finalizeCmd(onSuccess func() error) tea.Cmd {
	return func() tea.Msg {
		if onSuccess == nil {
			return finalizedMsg{}
		}
		return finalizedMsg{err: onSuccess()}
	}
}
