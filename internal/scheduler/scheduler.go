package scheduler

import (
	"sort"

	"github.com/julianstephens/habitlog/internal/models"
)

// HabitsForDate resolves which of the given habits apply to date. Habits
// should be the active habit set and excluded the IDs excluded on date.
// The result is sorted by name, ties broken by ID, and never aliases the
// input slice.
func HabitsForDate(habits []models.Habit, excluded map[int64]bool, date string) []models.Habit {
	result := []models.Habit{}
	for _, h := range habits {
		if Visible(h, excluded, date) {
			result = append(result, h)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Visible reports whether h applies to date. The deactivation cutoff is
// checked before the kind so that a retired base habit, whose kind is
// already day-scoped, keeps its past days.
func Visible(h models.Habit, excluded map[int64]bool, date string) bool {
	if !h.IsActive {
		return false
	}
	if excluded[h.ID] {
		return false
	}
	if h.CreatedDate > date {
		return false
	}
	if h.DeactivatedDate != nil {
		return date < *h.DeactivatedDate
	}

	switch h.Kind {
	case models.KindBase:
		return true
	default:
		return h.CreatedDate == date
	}
}

// CountCompleted counts the habits whose ID is in completed.
func CountCompleted(habits []models.Habit, completed map[int64]bool) int {
	n := 0
	for _, h := range habits {
		if completed[h.ID] {
			n++
		}
	}
	return n
}
