package sqlite

import (
	"context"
)

// Exclude hides a habit from a day. Repeated calls leave a single row.
func (s *Store) Exclude(ctx context.Context, habitID int64, date string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO habit_exclusions (habit_id, exclusion_date)
		VALUES (?, ?)`, habitID, date)
	return err
}

func (s *Store) ExcludedHabitIDs(ctx context.Context, date string) (map[int64]bool, error) {
	return s.idSet(ctx, `SELECT habit_id FROM habit_exclusions WHERE exclusion_date = ?`, date)
}

// RemoveFutureExclusions deletes exclusions dated strictly after afterDate.
func (s *Store) RemoveFutureExclusions(ctx context.Context, habitID int64, afterDate string) (int64, error) {
	return s.execCount(ctx, `
		DELETE FROM habit_exclusions WHERE habit_id = ? AND exclusion_date > ?`, habitID, afterDate)
}

func (s *Store) RemoveAllExclusions(ctx context.Context, habitID int64) (int64, error) {
	return s.execCount(ctx, `DELETE FROM habit_exclusions WHERE habit_id = ?`, habitID)
}

func (s *Store) idSet(ctx context.Context, query string, args ...any) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (s *Store) execCount(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
