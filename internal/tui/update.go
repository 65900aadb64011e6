package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tui/components/habits"
	"github.com/julianstephens/habitlog/internal/utils"
)

// header and footer rows around the habit list
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitsModel.SetSize(msg.Width-h, max(msg.Height-v-chromeHeight, 1))
		return m, nil

	case dayLoadedMsg:
		m.date = msg.date
		m.today = msg.today
		m.err = nil
		m.status = msg.status
		m.habitsModel.SetItems(msg.items)
		m.summary.SetDay(msg.date, msg.date == msg.today, msg.record)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case habits.ToggleHabitMsg:
		return m, m.setCompletion(msg.ID, msg.Completed)

	case habits.RemoveHabitMsg:
		target := msg
		m.pendingRemove = &target
		m.state = StateConfirmRemove
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateForm(msg)
	case StateConfirmRemove:
		return m.updateConfirmRemove(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevDay):
		return m, m.loadDay(utils.AddDays(m.date, -1), "")
	case key.Matches(keyMsg, m.keys.NextDay):
		return m, m.loadDay(utils.AddDays(m.date, 1), "")
	case key.Matches(keyMsg, m.keys.Today):
		return m, m.loadDay(m.today, "")
	case key.Matches(keyMsg, m.keys.Mood):
		return m, m.setMood(models.Mood(keyMsg.String()[0] - '0'))
	case key.Matches(keyMsg, m.keys.Clear):
		return m, m.setMood(models.Mood(0))
	case key.Matches(keyMsg, m.keys.Add):
		m.form = m.newHabitForm()
		m.state = StateAddHabit
		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateDay
		return m, m.addHabit(m.habitForm.Name, m.habitForm.Kind)
	case huh.StateAborted:
		m.state = StateDay
		m.status = "Cancelled"
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		target := m.pendingRemove
		m.pendingRemove = nil
		m.state = StateDay
		if target == nil {
			return m, nil
		}
		return m, m.removeFromDay(*target)
	case "n", "N", "esc", "q":
		m.pendingRemove = nil
		m.state = StateDay
	}
	return m, nil
}
