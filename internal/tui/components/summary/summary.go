package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/models"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(8)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	barDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barTodoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const barWidth = 20

// Model renders the header of a day: its date, mood and progress.
type Model struct {
	Date   string
	Today  bool
	Record *models.DailyRecord
}

func New() Model {
	return Model{}
}

func (m *Model) SetDay(date string, today bool, record *models.DailyRecord) {
	m.Date = date
	m.Today = today
	m.Record = record
}

func (m Model) View() string {
	title := m.Date
	if m.Today {
		title += " (today)"
	}

	lines := []string{dateStyle.Render(title)}
	if m.Record == nil {
		lines = append(lines, emptyStyle.Render("Nothing recorded yet"))
		return strings.Join(lines, "\n")
	}

	mood := m.Record.Mood
	moodText := lipgloss.NewStyle().Foreground(lipgloss.Color(mood.Color())).Render("● " + mood.Label())
	lines = append(lines, labelStyle.Render("Mood")+moodText)
	lines = append(lines, labelStyle.Render("Done")+progressBar(*m.Record)+
		fmt.Sprintf(" %d/%d", m.Record.CompletedHabits, m.Record.TotalHabits))
	return strings.Join(lines, "\n")
}

func progressBar(r models.DailyRecord) string {
	filled := int(r.CompletionRatio()*barWidth + 0.5)
	return barDoneStyle.Render(strings.Repeat("█", filled)) +
		barTodoStyle.Render(strings.Repeat("░", barWidth-filled))
}
