package habits

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tracker"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a habit."`
	List   HabitListCmd   `cmd:"" help:"List active habits."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done for a day."`
	Undo   HabitUndoCmd   `cmd:"" help:"Mark a habit as not done for a day."`
	Remove HabitRemoveCmd `cmd:"" help:"Remove a habit from a single day."`
	Retire HabitRetireCmd `cmd:"" help:"Stop an every-day habit from today on, keeping its history."`
	Delete HabitDeleteCmd `cmd:"" help:"Deactivate an every-day habit or erase a one-off habit."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
	Once bool   `help:"Only track the habit on a single day."`
	Day  string `help:"Creation day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate(c.Day)
	if err != nil {
		return err
	}

	kind := models.KindBase
	if c.Once {
		kind = models.KindDay
	}

	id, err := ctx.Tracker.AddHabit(ctx.Ctx(), c.Name, kind, day)
	if errors.Is(err, tracker.ErrDuplicateName) {
		if kind == models.KindBase {
			return fmt.Errorf("a habit named %q already exists", c.Name)
		}
		return fmt.Errorf("a one-off habit named %q already exists on %s", c.Name, day)
	}
	if err != nil {
		return err
	}

	if kind == models.KindBase {
		ctx.Printf("Added habit %q (#%d), tracked every day from %s\n", c.Name, id, day)
	} else {
		ctx.Printf("Added one-off habit %q (#%d) for %s\n", c.Name, id, day)
	}
	return nil
}

type HabitListCmd struct {
	Base bool `help:"Only list every-day habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	var habits []models.Habit
	var err error
	if c.Base {
		habits, err = ctx.Tracker.BaseHabits(ctx.Ctx())
	} else {
		habits, err = ctx.Tracker.ListHabits(ctx.Ctx())
	}
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		ctx.Printf("%4d  %-30s  %s\n", h.ID, h.Name, cli.FormatKind(h))
	}
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	return setCompletion(ctx, c.Name, c.Date, true)
}

type HabitUndoCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	return setCompletion(ctx, c.Name, c.Date, false)
}

func setCompletion(ctx *cli.Context, name, date string, completed bool) error {
	day, err := ctx.ResolveDate(date)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(name, day)
	if err != nil {
		return err
	}

	habits, err := ctx.Tracker.HabitsForDate(ctx.Ctx(), day)
	if err != nil {
		return err
	}
	if !containsHabit(habits, habit.ID) {
		return fmt.Errorf("habit %q is not tracked on %s", habit.Name, day)
	}

	if err := ctx.Tracker.SetCompletion(ctx.Ctx(), habit.ID, day, completed); err != nil {
		return err
	}

	record, err := ctx.Tracker.DailyRecord(ctx.Ctx(), day)
	if err != nil {
		return err
	}
	verb := "Marked"
	if !completed {
		verb = "Unmarked"
	}
	ctx.Printf("%s %q for %s", verb, habit.Name, day)
	if record != nil {
		ctx.Printf(" (%d/%d done)", record.CompletedHabits, record.TotalHabits)
	}
	ctx.Println()
	return nil
}

func containsHabit(habits []models.Habit, id int64) bool {
	for _, h := range habits {
		if h.ID == id {
			return true
		}
	}
	return false
}

type HabitRemoveCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitRemoveCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(c.Name, day)
	if err != nil {
		return err
	}

	ok, err := ctx.Tracker.RemoveFromDay(ctx.Ctx(), habit.ID, day)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("habit %q is not tracked on %s", habit.Name, day)
	}

	ctx.Printf("Removed %q from %s\n", habit.Name, day)
	return nil
}

type HabitRetireCmd struct {
	Name string `arg:"" help:"Habit name."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitRetireCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name, "")
	if err != nil {
		return err
	}
	if !habit.IsBase() {
		return fmt.Errorf("habit %q is not an every-day habit", habit.Name)
	}

	ok, err := ctx.Ask(c.Yes,
		fmt.Sprintf("Retire %q from today on?", habit.Name),
		"Past days keep the habit. Completions recorded after today are deleted.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Retire cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	done, err := ctx.Tracker.DeactivateBaseFromFuture(ctx.Ctx(), habit.ID)
	if err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("habit %q could not be retired", habit.Name)
	}

	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	ctx.Printf("Retired %q as of %s\n", habit.Name, today)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Day of a one-off habit (default: today)." default:""`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	habit, err := ctx.FindHabit(c.Name, day)
	if err != nil {
		return err
	}

	description := "The habit is hidden from every day. Its history is kept."
	if !habit.IsBase() {
		description = "The habit and all of its completions are erased."
	}
	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Delete %q?", habit.Name), description)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	done, err := ctx.Tracker.DeleteOrDeactivate(ctx.Ctx(), habit.ID)
	if err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("habit %q could not be deleted", habit.Name)
	}

	if habit.IsBase() {
		ctx.Printf("Deactivated %q\n", habit.Name)
	} else {
		ctx.Printf("Deleted %q\n", habit.Name)
	}
	return nil
}
