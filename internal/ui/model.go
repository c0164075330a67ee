// SPDX-License-Identifier: Apache-2.0

// Package ui implements the interactive bootstrap screen used by
// `umdl setup`: a step list with live pip/venv output streaming into a
// viewport while the environment is built.
package ui

import (
	"strings"

	"umd-launcher/internal/runner"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BubbleProgram is the running Bubble Tea program. Streaming commands use
// it to push output chunks into the update loop as they arrive.
var BubbleProgram *tea.Program

type state int

const (
	stateRunning state = iota
	stateDone
	stateFailed
)

// --- Messages ---

type stepOutputMsg struct {
	line runner.OutputLine
}

type stepFinishedMsg struct {
	err error
}

type finalizedMsg struct {
	err error
}

// SetupModel drives a planned bootstrap step sequence.
type SetupModel struct {
	steps   []runner.Step
	current int

	// onSuccess runs after the last step (fingerprint persistence).
	onSuccess func() error

	currentState state
	err          error

	spinner  spinner.Model
	viewport viewport.Model
	output   strings.Builder
	ready    bool
	width    int
	height   int
}

// NewSetupModel returns a model that will run the given steps in order
// and invoke onSuccess once all of them succeed. onSuccess may be nil.
func NewSetupModel(steps []runner.Step, onSuccess func() error) SetupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return SetupModel{
		steps:     steps,
		onSuccess: onSuccess,
		spinner:   s,
	}
}

// Failed reports whether the run ended in an error, for the caller's exit
// code after the program finishes.
func (m *SetupModel) Failed() bool {
	return m.currentState == stateFailed
}

func (m *SetupModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if len(m.steps) == 0 {
		cmds = append(cmds, finalizeCmd(m.onSuccess))
	} else {
		cmds = append(cmds, runStepCmd(m.steps[0]))
	}
	return tea.Batch(cmds...)
}

func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sizeViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Quitting mid-run abandons the TUI, not the child process;
			// the step keeps running to completion in the background, so
			// only offer quit once the run has settled.
			if m.currentState != stateRunning || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case "enter":
			if m.currentState != stateRunning {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepOutputMsg:
		m.output.WriteString(msg.line.Line)
		m.refreshViewport()

	case stepFinishedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentState = stateFailed
			return m, nil
		}
		m.current++
		if m.current < len(m.steps) {
			return m, runStepCmd(m.steps[m.current])
		}
		return m, finalizeCmd(m.onSuccess)

	case finalizedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentState = stateFailed
		} else {
			m.currentState = stateDone
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *SetupModel) sizeViewport() {
	// Leave room for the title, the step list and the footer.
	h := m.height - len(m.steps) - 6
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refreshViewport()
}

func (m *SetupModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.output.String())
	m.viewport.GotoBottom()
}
