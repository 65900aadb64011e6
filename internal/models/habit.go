package models

import "fmt"

// HabitKind distinguishes habits that recur every day from habits that
// belong to a single date.
type HabitKind string

const (
	// KindBase habits apply to every day from their creation date on.
	KindBase HabitKind = "base"
	// KindDay habits apply only to the day they were created for.
	KindDay HabitKind = "day"
)

// ParseHabitKind accepts "base"/"day" and a few aliases used by the CLI and API.
func ParseHabitKind(s string) (HabitKind, error) {
	switch s {
	case "base", "daily", "every-day":
		return KindBase, nil
	case "day", "once", "one-off":
		return KindDay, nil
	default:
		return "", fmt.Errorf("invalid habit kind %q (expected base or day)", s)
	}
}

func (k HabitKind) String() string { return string(k) }

// Habit is a tracked practice. Dates are YYYY-MM-DD day strings.
type Habit struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	CreatedDate     string    `json:"created_date"`
	IsActive        bool      `json:"is_active"`
	Kind            HabitKind `json:"kind"`
	DeactivatedDate *string   `json:"deactivated_date,omitempty"`
}

func (h Habit) IsBase() bool { return h.Kind == KindBase }

// Retired reports whether the habit was converted from a base habit with a
// deactivation cutoff. Such habits stay visible on the days before the cutoff.
func (h Habit) Retired() bool { return h.DeactivatedDate != nil }

// HabitExclusion hides a habit from a single day.
type HabitExclusion struct {
	HabitID int64  `json:"habit_id"`
	Date    string `json:"date"`
}

// HabitCompletion is the completion state of a habit on a day.
type HabitCompletion struct {
	ID          int64  `json:"id"`
	HabitID     int64  `json:"habit_id"`
	Date        string `json:"date"`
	IsCompleted bool   `json:"is_completed"`
}
