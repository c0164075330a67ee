// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"

	"umd-launcher/internal/config"
	"umd-launcher/internal/launcher"
	"umd-launcher/internal/project"
	"umd-launcher/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// RunSetup plans the bootstrap and drives it through the interactive
// setup screen. Returns the process exit code.
func RunSetup(force bool) int {
	root, err := project.FindRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	l := launcher.New(root, cfg)

	plan, err := l.Plan(force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if plan.IsNoop() {
		fmt.Println("Environment already up to date; nothing to do.")
		return 0
	}

	if plan.RemoveEnv {
		if err := l.Env().Remove(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var onSuccess func() error
	if len(plan.InstallSteps) > 0 {
		store := l.Store()
		fp := plan.Fingerprint
		onSuccess = func() error { return store.Set(fp) }
	}

	m := ui.NewSetupModel(plan.Steps(), onSuccess)
	p := tea.NewProgram(&m)
	ui.BubbleProgram = p

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		return 1
	}
	if sm, ok := finalModel.(*ui.SetupModel); ok && sm.Failed() {
		return 1
	}
	return 0
}
