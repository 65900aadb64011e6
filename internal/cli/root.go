package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/utils"
)

// ErrHabitNotFound is returned when a habit name matches no active habit.
var ErrHabitNotFound = errors.New("habit not found")

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

type Context struct {
	Store      storage.Provider
	Tracker    *tracker.Tracker
	Config     *config.Config
	ConfigPath string

	// Out receives command output; nil means stdout.
	Out io.Writer
	// Confirm defaults to a huh prompt.
	Confirm ConfirmFunc

	base context.Context
}

// NewContext wires a command context around an initialised store.
func NewContext(store storage.Provider, cfg *config.Config, configPath string) *Context {
	return &Context{
		Store:      store,
		Tracker:    tracker.New(store, tracker.WithTimezone(cfg.Timezone)),
		Config:     cfg,
		ConfigPath: configPath,
	}
}

// Ctx returns the context store calls run under.
func (c *Context) Ctx() context.Context {
	if c.base != nil {
		return c.base
	}
	return context.Background()
}

// WithContext sets the context for store calls.
func (c *Context) WithContext(ctx context.Context) *Context {
	c.base = ctx
	return c
}

func (c *Context) Writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.Writer(), args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Ask runs the confirmation prompt, skipping it when assumeYes is set.
func (c *Context) Ask(assumeYes bool, title, description string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	confirm := c.Confirm
	if confirm == nil {
		confirm = HuhConfirm
	}
	return confirm(title, description)
}

// HuhConfirm shows an interactive yes/no prompt on the terminal.
func HuhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// BackupManager returns a backup manager for the configured database.
func (c *Context) BackupManager() *backup.Manager {
	maxBackups := 0
	if c.Config != nil {
		maxBackups = c.Config.Backup.MaxBackups
	}
	return backup.NewManager(c.Store.GetConfigPath(), backup.WithMaxBackups(maxBackups))
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.Backup.Auto {
		return
	}
	if _, err := c.BackupManager().CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate turns a command line date into a day string. Empty means
// today; "yesterday" and "tomorrow" are relative to today.
func (c *Context) ResolveDate(s string) (string, error) {
	today, err := c.Tracker.Today()
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.AddDays(today, -1), nil
	case "tomorrow":
		return utils.AddDays(today, 1), nil
	}

	day, err := utils.NormalizeDate(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tracker.ErrInvalidDate, err)
	}
	return day, nil
}

// FindHabit looks a habit up by name, preferring the habits of date so that
// same-named day-scoped habits on other days do not shadow it.
func (c *Context) FindHabit(name, date string) (models.Habit, error) {
	want := strings.TrimSpace(name)

	if date != "" {
		habits, err := c.Tracker.HabitsForDate(c.Ctx(), date)
		if err != nil {
			return models.Habit{}, err
		}
		if h, ok := matchName(habits, want); ok {
			return h, nil
		}
	}

	habits, err := c.Tracker.ListHabits(c.Ctx())
	if err != nil {
		return models.Habit{}, err
	}
	if h, ok := matchName(habits, want); ok {
		return h, nil
	}
	return models.Habit{}, fmt.Errorf("%w: %q", ErrHabitNotFound, want)
}

func matchName(habits []models.Habit, name string) (models.Habit, bool) {
	for _, h := range habits {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return models.Habit{}, false
}

// FormatKind renders a habit's kind for listings.
func FormatKind(h models.Habit) string {
	switch {
	case h.Retired():
		return fmt.Sprintf("retired %s", *h.DeactivatedDate)
	case h.IsBase():
		return "every day"
	default:
		return "on " + h.CreatedDate
	}
}
