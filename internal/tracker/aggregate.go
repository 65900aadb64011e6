package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/scheduler"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/utils"
)

// lastDay bounds open-ended record ranges.
const lastDay = "9999-12-31"

// RecomputeDailyStats recounts the habits and completions of date and
// upserts its record, creating it with no mood if absent.
func (t *Tracker) RecomputeDailyStats(ctx context.Context, date string) (models.DailyRecord, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return models.DailyRecord{}, err
	}
	return t.recompute(ctx, day, nil)
}

// recompute reloads the day's record, applies mutate (if any) and persists it
// with freshly counted totals.
func (t *Tracker) recompute(ctx context.Context, day string, mutate func(*models.DailyRecord)) (models.DailyRecord, error) {
	habits, err := t.HabitsForDate(ctx, day)
	if err != nil {
		return models.DailyRecord{}, err
	}
	completed, err := t.store.CompletedHabitIDs(ctx, day)
	if err != nil {
		return models.DailyRecord{}, storageError("list completions", err, "date", day)
	}

	record, err := t.store.GetDailyRecord(ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		record = models.DailyRecord{Date: day}
	} else if err != nil {
		return models.DailyRecord{}, storageError("get daily record", err, "date", day)
	}

	if mutate != nil {
		mutate(&record)
	}
	record.Date = day
	record.TotalHabits = len(habits)
	record.CompletedHabits = scheduler.CountCompleted(habits, completed)

	saved, err := t.store.SaveDailyRecord(ctx, record)
	if err != nil {
		return models.DailyRecord{}, storageError("save daily record", err, "date", day)
	}
	logger.Debug("Daily record recomputed", "date", day,
		"completed", saved.CompletedHabits, "total", saved.TotalHabits)
	return saved, nil
}

// refreshRecords recomputes the records that already exist between start
// and end inclusive. An empty end means no upper bound. Days without a
// record are left without one.
func (t *Tracker) refreshRecords(ctx context.Context, start, end string) error {
	if end == "" {
		end = lastDay
	}
	if end < start {
		return nil
	}

	records, err := t.store.ListDailyRecords(ctx, start, end)
	if err != nil {
		return storageError("list daily records", err, "start", start, "end", end)
	}
	for _, r := range records {
		if _, err := t.recompute(ctx, r.Date, nil); err != nil {
			return err
		}
	}
	return nil
}

// visibleSpan returns the first and last day a habit can appear on. An empty
// end means the habit has no last day.
func visibleSpan(h models.Habit) (string, string) {
	switch {
	case h.Retired():
		return h.CreatedDate, utils.AddDays(*h.DeactivatedDate, -1)
	case h.IsBase():
		return h.CreatedDate, ""
	default:
		return h.CreatedDate, h.CreatedDate
	}
}

// DailyRecord returns the stored record for date, or nil when the day has
// no data.
func (t *Tracker) DailyRecord(ctx context.Context, date string) (*models.DailyRecord, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	record, err := t.store.GetDailyRecord(ctx, day)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get daily record", err, "date", day)
	}
	return &record, nil
}

// SaveDailyRecord stores the record's mood for its date. Counts are always
// recomputed, and an existing row keeps its id.
func (t *Tracker) SaveDailyRecord(ctx context.Context, record models.DailyRecord) error {
	day, err := normalizeDate(record.Date)
	if err != nil {
		return err
	}
	if !record.Mood.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMood, record.Mood)
	}
	_, err = t.recompute(ctx, day, func(r *models.DailyRecord) {
		r.Mood = record.Mood
	})
	return err
}

// SetMood records the mood of date. Zero clears it.
func (t *Tracker) SetMood(ctx context.Context, date string, mood models.Mood) (models.DailyRecord, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return models.DailyRecord{}, err
	}
	if !mood.Valid() {
		return models.DailyRecord{}, fmt.Errorf("%w: %d (expected 0-7)", ErrInvalidMood, mood)
	}
	return t.recompute(ctx, day, func(r *models.DailyRecord) {
		r.Mood = mood
	})
}
