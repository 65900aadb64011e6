package days

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

func moodStyle(m models.Mood) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color()))
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate("")
	if err != nil {
		return err
	}
	return showDay(ctx, day)
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format, or today/yesterday/tomorrow (default: today)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	return showDay(ctx, day)
}

func showDay(ctx *cli.Context, day string) error {
	habits, err := ctx.Tracker.HabitsForDate(ctx.Ctx(), day)
	if err != nil {
		return err
	}
	record, err := ctx.Tracker.DailyRecord(ctx.Ctx(), day)
	if err != nil {
		return err
	}

	ctx.Println(headerStyle.Render(day))

	mood := models.Mood(0)
	if record != nil {
		mood = record.Mood
	}
	ctx.Printf("Mood: %s\n\n", moodStyle(mood).Render(mood.Label()))

	if len(habits) == 0 {
		ctx.Println(dimStyle.Render("No habits for this day."))
		return nil
	}

	done := 0
	for _, h := range habits {
		completed, err := ctx.Tracker.CompletionStatus(ctx.Ctx(), h.ID, day)
		if err != nil {
			return err
		}
		mark := "[ ]"
		name := h.Name
		if completed {
			done++
			mark = doneStyle.Render("[x]")
			name = doneStyle.Render(name)
		}
		suffix := ""
		if !h.IsBase() && !h.Retired() {
			suffix = dimStyle.Render(" (one-off)")
		}
		ctx.Printf("  %s %s%s\n", mark, name, suffix)
	}
	ctx.Printf("\n%d/%d done\n", done, len(habits))
	return nil
}

type MoodCmd struct {
	Level int    `arg:"" help:"Mood from 1 (very bad) to 7 (excellent), 0 to clear."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *MoodCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	record, err := ctx.Tracker.SetMood(ctx.Ctx(), day, models.Mood(c.Level))
	if err != nil {
		return err
	}
	ctx.Printf("Mood for %s: %s\n", day, moodStyle(record.Mood).Render(record.Mood.Label()))
	return nil
}

// moodScale renders the mood legend shown under the calendar.
func moodScale() string {
	parts := make([]string, 0, 7)
	for m := models.Mood(1); m <= 7; m++ {
		parts = append(parts, moodStyle(m).Render(fmt.Sprintf("%d %s", m, m.Label())))
	}
	return strings.Join(parts, "  ")
}
