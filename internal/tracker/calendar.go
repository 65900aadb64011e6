package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

// RecordsInRange maps each day in [start, end] that has a stored record to
// that record. Days without data are absent from the map.
func (t *Tracker) RecordsInRange(ctx context.Context, start, end string) (map[string]models.DailyRecord, error) {
	result := map[string]models.DailyRecord{}

	s, err := normalizeDate(start)
	if err != nil {
		return result, err
	}
	e, err := normalizeDate(end)
	if err != nil {
		return result, err
	}

	records, err := t.store.ListDailyRecords(ctx, s, e)
	if err != nil {
		return result, storageError("list daily records", err, "start", s, "end", e)
	}
	for _, r := range records {
		result[r.Date] = r
	}
	return result, nil
}

// MonthSummary describes a calendar month. DaysFilled counts days with a
// stored record; AverageMood is taken over the MoodDays that have a mood.
type MonthSummary struct {
	Year            int                           `json:"year"`
	Month           time.Month                    `json:"month"`
	Days            []string                      `json:"days"`
	Records         map[string]models.DailyRecord `json:"records"`
	DaysInMonth     int                           `json:"days_in_month"`
	DaysFilled      int                           `json:"days_filled"`
	MoodDays        int                           `json:"mood_days"`
	AverageMood     float64                       `json:"average_mood"`
	CompletedHabits int                           `json:"completed_habits"`
	TotalHabits     int                           `json:"total_habits"`
}

// CompletionRatio returns completed/total habits over the month.
func (s MonthSummary) CompletionRatio() float64 {
	if s.TotalHabits == 0 {
		return 0
	}
	return float64(s.CompletedHabits) / float64(s.TotalHabits)
}

// MonthRecords returns the stored records of a month.
func (t *Tracker) MonthRecords(ctx context.Context, year int, month time.Month) (map[string]models.DailyRecord, error) {
	first, last := utils.MonthRange(year, month)
	return t.RecordsInRange(ctx, first, last)
}

// MonthSummary aggregates the records of a month.
func (t *Tracker) MonthSummary(ctx context.Context, year int, month time.Month) (MonthSummary, error) {
	if month < time.January || month > time.December {
		return MonthSummary{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}

	first, last := utils.MonthRange(year, month)
	summary := MonthSummary{
		Year:  year,
		Month: month,
		Days:  utils.DaysBetween(first, last),
	}
	summary.DaysInMonth = len(summary.Days)

	records, err := t.RecordsInRange(ctx, first, last)
	summary.Records = records
	if err != nil {
		return summary, err
	}

	summary.DaysFilled = len(records)
	moodSum := 0
	for _, r := range records {
		if r.Mood.IsSet() {
			summary.MoodDays++
			moodSum += int(r.Mood)
		}
		summary.CompletedHabits += r.CompletedHabits
		summary.TotalHabits += r.TotalHabits
	}
	if summary.MoodDays > 0 {
		summary.AverageMood = float64(moodSum) / float64(summary.MoodDays)
	}
	return summary, nil
}
