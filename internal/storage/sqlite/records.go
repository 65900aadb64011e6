package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

const recordColumns = "id, date, mood, completed_habits, total_habits"

func scanRecord(row rowScanner) (models.DailyRecord, error) {
	var r models.DailyRecord
	var mood int
	if err := row.Scan(&r.ID, &r.Date, &mood, &r.CompletedHabits, &r.TotalHabits); err != nil {
		return models.DailyRecord{}, err
	}
	r.Mood = models.Mood(mood)
	return r, nil
}

func (s *Store) GetDailyRecord(ctx context.Context, date string) (models.DailyRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM daily_records WHERE date = ?`, date)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyRecord{}, fmt.Errorf("daily record %s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return models.DailyRecord{}, err
	}
	return r, nil
}

// SaveDailyRecord upserts by date. An existing row keeps its id whatever
// id the caller passed; the stored record is returned.
func (s *Store) SaveDailyRecord(ctx context.Context, record models.DailyRecord) (models.DailyRecord, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_records (date, mood, completed_habits, total_habits)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			mood = excluded.mood,
			completed_habits = excluded.completed_habits,
			total_habits = excluded.total_habits`,
		record.Date, int(record.Mood), record.CompletedHabits, record.TotalHabits)
	if err != nil {
		return models.DailyRecord{}, err
	}
	return s.GetDailyRecord(ctx, record.Date)
}

// ListDailyRecords returns stored records with startDate <= date <= endDate, by date.
func (s *Store) ListDailyRecords(ctx context.Context, startDate, endDate string) ([]models.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM daily_records
		WHERE date >= ? AND date <= ?
		ORDER BY date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.DailyRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
