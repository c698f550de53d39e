package model

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	stateStreaming = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stateIdle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stateClosed    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	stateDialing   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the TUI.
func (a App) View() string {
	if !a.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.view.View(), a.renderStatusBar())
}

func (a App) renderHeader() string {
	title := titleStyle.Render("conlog")
	if !a.connected {
		return title + " " + dimStyle.Render("connecting to "+a.socketPath) + "\n"
	}
	st := a.status
	line := fmt.Sprintf("%s %s %s  %s",
		title,
		dimStyle.Render(st.Socket),
		stateStyle(st.State).Render(st.State),
		dimStyle.Render(fmt.Sprintf("%d/%d lines, %d received", st.Lines, st.Capacity, st.Received)),
	)
	if st.LastError != "" && st.State != "streaming" {
		line += "\n" + stateClosed.Render(st.LastError)
	}
	return line + "\n"
}

func (a App) renderStatusBar() string {
	help := helpStyle.Render("q quit · space pause · ↑/↓ scroll · g/G top/bottom")
	if a.statusMsg == "" {
		return help
	}
	return help + "  " + dimStyle.Render(a.statusMsg)
}

func stateStyle(state string) lipgloss.Style {
	switch state {
	case "streaming":
		return stateStreaming
	case "connecting":
		return stateDialing
	case "closed":
		return stateClosed
	default:
		return stateIdle
	}
}
