package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

const habitColumns = "id, name, created_date, is_active, is_base_habit, deactivated_date"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var isActive, isBase int
	var deactivated sql.NullString

	if err := row.Scan(&h.ID, &h.Name, &h.CreatedDate, &isActive, &isBase, &deactivated); err != nil {
		return models.Habit{}, err
	}

	h.IsActive = isActive != 0
	h.Kind = models.KindDay
	if isBase != 0 {
		h.Kind = models.KindBase
	}
	if deactivated.Valid {
		d := deactivated.String
		h.DeactivatedDate = &d
	}
	return h, nil
}

func (s *Store) queryHabits(ctx context.Context, query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) ListActiveHabits(ctx context.Context) ([]models.Habit, error) {
	return s.queryHabits(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE is_active = 1
		ORDER BY name, id`)
}

func (s *Store) ListActiveBaseHabits(ctx context.Context) ([]models.Habit, error) {
	return s.queryHabits(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE is_active = 1 AND is_base_habit = 1
		ORDER BY name, id`)
}

func (s *Store) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (int64, error) {
	var deactivated sql.NullString
	if habit.DeactivatedDate != nil {
		deactivated = sql.NullString{String: *habit.DeactivatedDate, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (name, created_date, is_active, is_base_habit, deactivated_date)
		VALUES (?, ?, ?, ?, ?)`,
		habit.Name, habit.CreatedDate, boolToInt(habit.IsActive), boolToInt(habit.IsBase()), deactivated)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) DeactivateBaseHabit(ctx context.Context, id int64) (bool, error) {
	return s.execAffected(ctx, `
		UPDATE habits SET is_active = 0
		WHERE id = ? AND is_active = 1 AND is_base_habit = 1`, id)
}

func (s *Store) RetireBaseHabit(ctx context.Context, id int64, cutoff string) (bool, error) {
	return s.execAffected(ctx, `
		UPDATE habits SET is_base_habit = 0, deactivated_date = ?
		WHERE id = ? AND is_active = 1 AND is_base_habit = 1`, cutoff, id)
}

func (s *Store) DeleteDayHabit(ctx context.Context, id int64) (bool, error) {
	return s.execAffected(ctx, `DELETE FROM habits WHERE id = ? AND is_base_habit = 0`, id)
}

// execAffected runs a single-row state transition and reports whether a row matched.
func (s *Store) execAffected(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
