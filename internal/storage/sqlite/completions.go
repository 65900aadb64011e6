package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

func (s *Store) GetCompletion(ctx context.Context, habitID int64, date string) (models.HabitCompletion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, date, is_completed
		FROM habit_completions WHERE habit_id = ? AND date = ?`, habitID, date)

	var c models.HabitCompletion
	var completed int
	err := row.Scan(&c.ID, &c.HabitID, &c.Date, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitCompletion{}, fmt.Errorf("completion for habit %d on %s: %w", habitID, date, storage.ErrNotFound)
	}
	if err != nil {
		return models.HabitCompletion{}, err
	}
	c.IsCompleted = completed != 0
	return c, nil
}

// UpsertCompletion writes the completion state for (habit, date), keeping
// the existing row when one is present.
func (s *Store) UpsertCompletion(ctx context.Context, habitID int64, date string, completed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (habit_id, date, is_completed)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			is_completed = excluded.is_completed`,
		habitID, date, boolToInt(completed))
	return err
}

func (s *Store) CompletedHabitIDs(ctx context.Context, date string) (map[int64]bool, error) {
	return s.idSet(ctx, `
		SELECT habit_id FROM habit_completions WHERE date = ? AND is_completed = 1`, date)
}

func (s *Store) RemoveCompletion(ctx context.Context, habitID int64, date string) (int64, error) {
	return s.execCount(ctx, `DELETE FROM habit_completions WHERE habit_id = ? AND date = ?`, habitID, date)
}

// RemoveFutureCompletions deletes completions dated strictly after afterDate.
func (s *Store) RemoveFutureCompletions(ctx context.Context, habitID int64, afterDate string) (int64, error) {
	return s.execCount(ctx, `DELETE FROM habit_completions WHERE habit_id = ? AND date > ?`, habitID, afterDate)
}

func (s *Store) RemoveAllCompletions(ctx context.Context, habitID int64) (int64, error) {
	return s.execCount(ctx, `DELETE FROM habit_completions WHERE habit_id = ?`, habitID)
}
