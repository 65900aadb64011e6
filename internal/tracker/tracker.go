// Package tracker is the habit store service: it resolves which habits apply
// to a day, records completions and mood, and keeps each day's summary in
// step with both.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/scheduler"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/utils"
)

var (
	ErrDuplicateName = errors.New("habit name already exists")
	ErrInvalidName   = errors.New("invalid habit name")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMood   = errors.New("invalid mood")
)

// Tracker implements the habit operations on top of a storage.Provider.
//
// Storage failures are logged and returned alongside the zero value of the
// result, so callers that only read the value see "no data" while callers
// that check the error can tell the two apart.
type Tracker struct {
	store    storage.Provider
	timezone string
	now      func() time.Time
}

type Option func(*Tracker)

// WithTimezone sets the IANA timezone used to compute "today".
func WithTimezone(tz string) Option {
	return func(t *Tracker) {
		t.timezone = tz
	}
}

// WithClock replaces time.Now. Tests use it to pin "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		timezone: constants.DefaultTimezone,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the underlying provider.
func (t *Tracker) Store() storage.Provider {
	return t.store
}

// Today returns the current day in the configured timezone.
func (t *Tracker) Today() (string, error) {
	return utils.TodayIn(t.timezone, t.now())
}

// storageError logs a failed store call and wraps it for the caller.
func storageError(op string, err error, keyvals ...interface{}) error {
	logger.Error("storage operation failed", append([]interface{}{"op", op, "err", err}, keyvals...)...)
	return fmt.Errorf("%s: %w", op, err)
}

func normalizeDate(day string) (string, error) {
	d, err := utils.NormalizeDate(day)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d, nil
}

// ValidateName trims name and checks it is non-empty and within the length
// limit, returning the trimmed form.
func ValidateName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(n) > constants.MaxHabitNameLen {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrInvalidName, constants.MaxHabitNameLen)
	}
	return n, nil
}

// ListHabits returns all active habits by name.
func (t *Tracker) ListHabits(ctx context.Context) ([]models.Habit, error) {
	habits, err := t.store.ListActiveHabits(ctx)
	if err != nil {
		return []models.Habit{}, storageError("list habits", err)
	}
	return habits, nil
}

// BaseHabits returns the active base habits by name.
func (t *Tracker) BaseHabits(ctx context.Context) ([]models.Habit, error) {
	habits, err := t.store.ListActiveBaseHabits(ctx)
	if err != nil {
		return []models.Habit{}, storageError("list base habits", err)
	}
	return habits, nil
}

// HabitsForDate returns the habits that apply to date. State is re-read on
// every call.
func (t *Tracker) HabitsForDate(ctx context.Context, date string) ([]models.Habit, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return []models.Habit{}, err
	}

	habits, err := t.store.ListActiveHabits(ctx)
	if err != nil {
		return []models.Habit{}, storageError("list habits", err, "date", day)
	}
	excluded, err := t.store.ExcludedHabitIDs(ctx, day)
	if err != nil {
		return []models.Habit{}, storageError("list exclusions", err, "date", day)
	}
	return scheduler.HabitsForDate(habits, excluded, day), nil
}

// HabitNameExists reports whether any active habit has name, ignoring case.
func (t *Tracker) HabitNameExists(ctx context.Context, name string) (bool, error) {
	habits, err := t.store.ListActiveHabits(ctx)
	if err != nil {
		return false, storageError("list habits", err)
	}
	return findByName(habits, name, func(models.Habit) bool { return true }) != nil, nil
}

// HabitNameExistsOn reports whether an active day-scoped habit created on
// day has name, ignoring case.
func (t *Tracker) HabitNameExistsOn(ctx context.Context, name, day string) (bool, error) {
	d, err := normalizeDate(day)
	if err != nil {
		return false, err
	}
	habits, err := t.store.ListActiveHabits(ctx)
	if err != nil {
		return false, storageError("list habits", err)
	}
	match := func(h models.Habit) bool { return !h.IsBase() && h.CreatedDate == d }
	return findByName(habits, name, match) != nil, nil
}

// HabitNameExistsToday is HabitNameExistsOn for today.
func (t *Tracker) HabitNameExistsToday(ctx context.Context, name string) (bool, error) {
	today, err := t.Today()
	if err != nil {
		return false, err
	}
	return t.HabitNameExistsOn(ctx, name, today)
}

func findByName(habits []models.Habit, name string, match func(models.Habit) bool) *models.Habit {
	want := strings.TrimSpace(name)
	for i := range habits {
		if strings.EqualFold(strings.TrimSpace(habits[i].Name), want) && match(habits[i]) {
			return &habits[i]
		}
	}
	return nil
}

// AddHabit creates a habit. An empty createdDate means today. Base names are
// unique across all active habits; day-scoped names only among the
// day-scoped habits of the same date.
func (t *Tracker) AddHabit(ctx context.Context, name string, kind models.HabitKind, createdDate string) (int64, error) {
	n, err := ValidateName(name)
	if err != nil {
		return 0, err
	}
	if kind != models.KindBase && kind != models.KindDay {
		return 0, fmt.Errorf("invalid habit kind %q", kind)
	}

	day := createdDate
	if day == "" {
		if day, err = t.Today(); err != nil {
			return 0, err
		}
	}
	if day, err = normalizeDate(day); err != nil {
		return 0, err
	}

	var exists bool
	if kind == models.KindBase {
		exists, err = t.HabitNameExists(ctx, n)
	} else {
		exists, err = t.HabitNameExistsOn(ctx, n, day)
	}
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, n)
	}

	habit := models.Habit{
		Name:        n,
		CreatedDate: day,
		IsActive:    true,
		Kind:        kind,
	}
	id, err := t.store.CreateHabit(ctx, habit)
	if err != nil {
		return 0, storageError("create habit", err, "name", n)
	}
	habit.ID = id
	logger.Info("Habit added", "id", id, "name", n, "kind", kind, "created", day)

	start, end := visibleSpan(habit)
	if err := t.refreshRecords(ctx, start, end); err != nil {
		return id, err
	}
	return id, nil
}

// DeleteOrDeactivate archives a base habit and erases a day-scoped one with
// its completions and exclusions. It returns false when the habit does not
// exist or is already inactive.
func (t *Tracker) DeleteOrDeactivate(ctx context.Context, id int64) (bool, error) {
	habit, ok, err := t.activeHabit(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	if habit.IsBase() {
		done, err := t.store.DeactivateBaseHabit(ctx, id)
		if err != nil {
			return false, storageError("deactivate habit", err, "id", id)
		}
		if !done {
			return false, nil
		}
		logger.Info("Habit deactivated", "id", id, "name", habit.Name)
	} else {
		if done, err := t.deleteHabit(ctx, habit); err != nil || !done {
			return false, err
		}
	}

	start, end := visibleSpan(habit)
	return true, t.refreshRecords(ctx, start, end)
}

func (t *Tracker) deleteHabit(ctx context.Context, habit models.Habit) (bool, error) {
	if _, err := t.store.RemoveAllCompletions(ctx, habit.ID); err != nil {
		return false, storageError("remove completions", err, "id", habit.ID)
	}
	if _, err := t.store.RemoveAllExclusions(ctx, habit.ID); err != nil {
		return false, storageError("remove exclusions", err, "id", habit.ID)
	}
	done, err := t.store.DeleteDayHabit(ctx, habit.ID)
	if err != nil {
		return false, storageError("delete habit", err, "id", habit.ID)
	}
	if done {
		logger.Info("Habit deleted", "id", habit.ID, "name", habit.Name)
	}
	return done, nil
}

// RemoveFromDay takes a habit off a single day. Habits that span several
// days get an exclusion for date and lose that day's completion; a habit
// that only exists on date is deleted. It returns false when the habit is
// not visible on date.
func (t *Tracker) RemoveFromDay(ctx context.Context, id int64, date string) (bool, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return false, err
	}
	habit, ok, err := t.activeHabit(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	excluded, err := t.store.ExcludedHabitIDs(ctx, day)
	if err != nil {
		return false, storageError("list exclusions", err, "date", day)
	}
	if !scheduler.Visible(habit, excluded, day) {
		return false, nil
	}

	if habit.IsBase() || habit.Retired() {
		if err := t.store.Exclude(ctx, id, day); err != nil {
			return false, storageError("exclude habit", err, "id", id, "date", day)
		}
		if _, err := t.store.RemoveCompletion(ctx, id, day); err != nil {
			return false, storageError("remove completion", err, "id", id, "date", day)
		}
		logger.Info("Habit removed from day", "id", id, "name", habit.Name, "date", day)
	} else {
		if done, err := t.deleteHabit(ctx, habit); err != nil || !done {
			return false, err
		}
	}

	return true, t.refreshRecords(ctx, day, day)
}

// DeactivateBaseFromFuture retires an active base habit as of today. The
// habit stays visible on the days before today; completions and exclusions
// after today are deleted. It returns false when id is not an active base
// habit.
func (t *Tracker) DeactivateBaseFromFuture(ctx context.Context, id int64) (bool, error) {
	habit, ok, err := t.activeHabit(ctx, id)
	if err != nil || !ok || !habit.IsBase() {
		return false, err
	}
	today, err := t.Today()
	if err != nil {
		return false, err
	}

	done, err := t.store.RetireBaseHabit(ctx, id, today)
	if err != nil {
		return false, storageError("retire habit", err, "id", id)
	}
	if !done {
		return false, nil
	}

	completions, err := t.store.RemoveFutureCompletions(ctx, id, today)
	if err != nil {
		return false, storageError("remove future completions", err, "id", id)
	}
	exclusions, err := t.store.RemoveFutureExclusions(ctx, id, today)
	if err != nil {
		return false, storageError("remove future exclusions", err, "id", id)
	}
	logger.Info("Habit retired", "id", id, "name", habit.Name, "cutoff", today,
		"completions_removed", completions, "exclusions_removed", exclusions)

	return true, t.refreshRecords(ctx, today, "")
}

// activeHabit loads id, reporting false when it is missing or inactive.
func (t *Tracker) activeHabit(ctx context.Context, id int64) (models.Habit, bool, error) {
	habit, err := t.store.GetHabit(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, false, nil
	}
	if err != nil {
		return models.Habit{}, false, storageError("get habit", err, "id", id)
	}
	return habit, habit.IsActive, nil
}

// CompletionStatus reports whether the habit was completed on date. A day
// without a completion row is not completed.
func (t *Tracker) CompletionStatus(ctx context.Context, id int64, date string) (bool, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return false, err
	}
	c, err := t.store.GetCompletion(ctx, id, day)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("get completion", err, "id", id, "date", day)
	}
	return c.IsCompleted, nil
}

// SetCompletion records the completion state and recomputes the day's
// record before returning.
func (t *Tracker) SetCompletion(ctx context.Context, id int64, date string, completed bool) error {
	day, err := normalizeDate(date)
	if err != nil {
		return err
	}
	if err := t.store.UpsertCompletion(ctx, id, day, completed); err != nil {
		return storageError("set completion", err, "id", id, "date", day)
	}
	_, err = t.RecomputeDailyStats(ctx, day)
	return err
}
