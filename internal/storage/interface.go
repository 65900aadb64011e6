package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/habitlog/internal/models"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Provider is the persistence boundary of the habit store. Dates are
// YYYY-MM-DD day strings; callers normalise them before reaching the store.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error
	GetConfigPath() string

	// Habits
	ListActiveHabits(ctx context.Context) ([]models.Habit, error)
	ListActiveBaseHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	CreateHabit(ctx context.Context, habit models.Habit) (int64, error)
	// DeactivateBaseHabit soft-deactivates an active base habit.
	DeactivateBaseHabit(ctx context.Context, id int64) (bool, error)
	// RetireBaseHabit converts an active base habit into a day-kind habit
	// deactivated as of cutoff.
	RetireBaseHabit(ctx context.Context, id int64, cutoff string) (bool, error)
	// DeleteDayHabit hard-deletes a non-base habit row.
	DeleteDayHabit(ctx context.Context, id int64) (bool, error)

	// Exclusions
	Exclude(ctx context.Context, habitID int64, date string) error
	ExcludedHabitIDs(ctx context.Context, date string) (map[int64]bool, error)
	RemoveFutureExclusions(ctx context.Context, habitID int64, afterDate string) (int64, error)
	RemoveAllExclusions(ctx context.Context, habitID int64) (int64, error)

	// Completions
	GetCompletion(ctx context.Context, habitID int64, date string) (models.HabitCompletion, error)
	UpsertCompletion(ctx context.Context, habitID int64, date string, completed bool) error
	CompletedHabitIDs(ctx context.Context, date string) (map[int64]bool, error)
	RemoveCompletion(ctx context.Context, habitID int64, date string) (int64, error)
	RemoveFutureCompletions(ctx context.Context, habitID int64, afterDate string) (int64, error)
	RemoveAllCompletions(ctx context.Context, habitID int64) (int64, error)

	// Daily records
	GetDailyRecord(ctx context.Context, date string) (models.DailyRecord, error)
	SaveDailyRecord(ctx context.Context, record models.DailyRecord) (models.DailyRecord, error)
	ListDailyRecords(ctx context.Context, startDate, endDate string) ([]models.DailyRecord, error)
}
