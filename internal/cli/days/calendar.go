package days

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/utils"
)

type CalendarCmd struct {
	Month string `help:"Month in YYYY-MM format (default: this month)." default:""`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	year, month, err := c.resolveMonth(ctx)
	if err != nil {
		return err
	}

	summary, err := ctx.Tracker.MonthSummary(ctx.Ctx(), year, month)
	if err != nil {
		return err
	}

	ctx.Print(RenderMonth(summary))
	return nil
}

func (c *CalendarCmd) resolveMonth(ctx *cli.Context) (int, time.Month, error) {
	if c.Month != "" {
		return utils.ParseMonth(c.Month)
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return 0, 0, err
	}
	t, err := utils.ParseDate(today)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// RenderMonth draws a Monday-first month grid. Days are coloured by mood;
// days without a record are dimmed.
func RenderMonth(s tracker.MonthSummary) string {
	var b strings.Builder

	title := time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(headerStyle.Render(title) + "\n")
	b.WriteString("Mo Tu We Th Fr Sa Su\n")

	if len(s.Days) > 0 {
		first, _ := utils.ParseDate(s.Days[0])
		offset := (int(first.Weekday()) + 6) % 7
		b.WriteString(strings.Repeat("   ", offset))

		col := offset
		for i, day := range s.Days {
			cell := fmt.Sprintf("%2d", i+1)
			if r, ok := s.Records[day]; ok {
				cell = moodStyle(r.Mood).Render(cell)
			} else {
				cell = dimStyle.Render(cell)
			}
			b.WriteString(cell)

			col++
			if col == 7 {
				b.WriteString("\n")
				col = 0
			} else if i < len(s.Days)-1 {
				b.WriteString(" ")
			}
		}
		if col != 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Days filled: %d of %d\n", s.DaysFilled, s.DaysInMonth)
	if s.MoodDays > 0 {
		fmt.Fprintf(&b, "Average mood: %.1f\n", s.AverageMood)
	}
	if s.TotalHabits > 0 {
		fmt.Fprintf(&b, "Habits done: %d of %d (%.0f%%)\n", s.CompletedHabits, s.TotalHabits, s.CompletionRatio()*100)
	}
	b.WriteString(moodScale() + "\n")
	return b.String()
}
