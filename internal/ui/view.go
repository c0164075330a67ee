// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"
)

func (m *SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UMD Launcher Setup"))
	b.WriteString("\n\n")

	for i, step := range m.steps {
		var marker, name string
		switch {
		case i < m.current:
			marker = successStyle.Render("✓")
			name = successStyle.Render(step.Name)
		case i == m.current && m.currentState == stateRunning:
			marker = m.spinner.View()
			name = stepStyle.Render(step.Name)
		case i == m.current && m.currentState == stateFailed:
			marker = errorStyle.Render("✗")
			name = errorStyle.Render(step.Name)
		default:
			marker = pendingStyle.Render("·")
			name = pendingStyle.Render(step.Name)
		}
		fmt.Fprintf(&b, " %s %s\n", marker, name)
	}

	if m.ready && m.output.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(outputBorderStyle.Render(m.viewport.View()))
		b.WriteString("\n")
	}

	switch m.currentState {
	case stateDone:
		b.WriteString("\n" + successStyle.Render("Bootstrap complete."))
		b.WriteString("\n" + m.footer("enter", "quit"))
	case stateFailed:
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Bootstrap failed: %v", m.err)))
		b.WriteString("\n" + m.footer("enter", "quit"))
	default:
		b.WriteString("\n" + statusStyle.Render("Bootstrapping..."))
		b.WriteString("\n" + m.footer("ctrl+c", "abort"))
	}
	return b.String()
}

func (m *SetupModel) footer(key, desc string) string {
	return footerKeyStyle.Render(key) + footerStyle.Render(" "+desc)
}
