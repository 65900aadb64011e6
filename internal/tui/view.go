package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.form.View()
	case StateConfirmRemove:
		content = m.viewConfirmRemove()
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.summary.View(),
			"",
			m.habitsModel.View(),
		)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmRemove() string {
	name := ""
	if m.pendingRemove != nil {
		name = m.pendingRemove.Name
	}
	return lipgloss.Place(m.width, max(m.height-6, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Remove "+name+" from "+m.date+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
