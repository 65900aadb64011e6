package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/tui/components/habits"
	"github.com/julianstephens/habitlog/internal/tui/components/summary"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateAddHabit
	StateConfirmRemove
)

type HabitFormModel struct {
	Name string
	Kind models.HabitKind
}

// dayLoadedMsg carries a freshly read day. status is shown in the footer.
type dayLoadedMsg struct {
	date   string
	today  string
	items  []habits.Item
	record *models.DailyRecord
	status string
}

type errMsg struct {
	err error
}

type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker

	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habits.Model
	summary     summary.Model
	form        *huh.Form
	habitForm   *HabitFormModel

	date          string
	today         string
	pendingRemove *habits.RemoveHabitMsg
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel builds the day view starting on today. Store reads happen in
// Init so the first frame renders immediately.
func NewModel(ctx context.Context, tr *tracker.Tracker) Model {
	today, err := tr.Today()
	return Model{
		ctx:         ctx,
		tracker:     tr,
		state:       StateDay,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, 0, 0),
		summary:     summary.New(),
		date:        today,
		today:       today,
		err:         err,
	}
}

func (m Model) ShortHelp() []key.Binding {
	hk := m.habitsModel.Keys()
	return []key.Binding{m.keys.PrevDay, m.keys.NextDay, hk.Toggle, m.keys.Mood, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	hk := m.habitsModel.Keys()
	return append(m.keys.FullHelp(), []key.Binding{hk.Toggle, hk.Remove})
}

func (m Model) Init() tea.Cmd {
	if m.date == "" {
		return nil
	}
	return m.loadDay(m.date, "")
}

// Date is the day currently shown.
func (m Model) Date() string { return m.date }

func (m Model) loadDay(date, status string) tea.Cmd {
	ctx, tr := m.ctx, m.tracker
	return func() tea.Msg {
		return fetchDay(ctx, tr, date, status)
	}
}

func fetchDay(ctx context.Context, tr *tracker.Tracker, date, status string) tea.Msg {
	today, err := tr.Today()
	if err != nil {
		return errMsg{err}
	}
	list, err := tr.HabitsForDate(ctx, date)
	if err != nil {
		return errMsg{err}
	}
	items := make([]habits.Item, 0, len(list))
	for _, h := range list {
		done, err := tr.CompletionStatus(ctx, h.ID, date)
		if err != nil {
			return errMsg{err}
		}
		items = append(items, habits.Item{Habit: h, Completed: done})
	}
	record, err := tr.DailyRecord(ctx, date)
	if err != nil {
		return errMsg{err}
	}
	return dayLoadedMsg{date: date, today: today, items: items, record: record, status: status}
}

func (m Model) setCompletion(id int64, completed bool) tea.Cmd {
	ctx, tr, date := m.ctx, m.tracker, m.date
	return func() tea.Msg {
		if err := tr.SetCompletion(ctx, id, date, completed); err != nil {
			return errMsg{err}
		}
		return fetchDay(ctx, tr, date, "")
	}
}

func (m Model) setMood(mood models.Mood) tea.Cmd {
	ctx, tr, date := m.ctx, m.tracker, m.date
	return func() tea.Msg {
		if _, err := tr.SetMood(ctx, date, mood); err != nil {
			return errMsg{err}
		}
		status := "Mood: " + mood.Label()
		if !mood.IsSet() {
			status = "Mood cleared"
		}
		return fetchDay(ctx, tr, date, status)
	}
}

func (m Model) removeFromDay(target habits.RemoveHabitMsg) tea.Cmd {
	ctx, tr, date := m.ctx, m.tracker, m.date
	return func() tea.Msg {
		done, err := tr.RemoveFromDay(ctx, target.ID, date)
		if err != nil {
			return errMsg{err}
		}
		status := "Removed " + target.Name + " from " + date
		if !done {
			status = target.Name + " is not on " + date
		}
		return fetchDay(ctx, tr, date, status)
	}
}

func (m Model) addHabit(name string, kind models.HabitKind) tea.Cmd {
	ctx, tr, date := m.ctx, m.tracker, m.date
	created := ""
	if kind == models.KindDay {
		created = date
	}
	return func() tea.Msg {
		if _, err := tr.AddHabit(ctx, name, kind, created); err != nil {
			return errMsg{err}
		}
		return fetchDay(ctx, tr, date, "Added "+name)
	}
}

func (m *Model) newHabitForm() *huh.Form {
	m.habitForm = &HabitFormModel{Kind: models.KindBase}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&m.habitForm.Name).
				Validate(func(s string) error {
					if _, err := tracker.ValidateName(s); err != nil {
						return err
					}
					return nil
				}),
			huh.NewSelect[models.HabitKind]().
				Title("Repeats").
				Options(
					huh.NewOption("Every day", models.KindBase),
					huh.NewOption("Only on "+m.date, models.KindDay),
				).
				Value(&m.habitForm.Kind),
		),
	).WithTheme(huh.ThemeDracula())
}
