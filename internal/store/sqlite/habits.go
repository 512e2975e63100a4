package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

const habitColumns = `id, user_id, created_at, updated_at, name, emoji, color, recurrence_kind, recurrence_days, archived_at`

// encodeRecurrenceDays serializes weekday indices as a comma-joined string.
func encodeRecurrenceDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeRecurrenceDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("recurrence days %q: %w", s, err)
		}
		days[i] = d
	}
	return days, nil
}

func scanHabit(scanner interface{ Scan(dest ...any) error }) (*domain.Habit, error) {
	var h domain.Habit
	var createdAt, updatedAt, kind, days string
	var archivedAt sql.NullString

	err := scanner.Scan(
		&h.ID,
		&h.UserID,
		&createdAt,
		&updatedAt,
		&h.Name,
		&h.Emoji,
		&h.Color,
		&kind,
		&days,
		&archivedAt,
	)
	if err != nil {
		return nil, err
	}

	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if h.ArchivedAt, err = parseNullableTime(archivedAt); err != nil {
		return nil, err
	}

	h.Recurrence.Kind = domain.RecurrenceKind(kind)
	if h.Recurrence.Days, err = decodeRecurrenceDays(days); err != nil {
		return nil, err
	}

	return &h, nil
}

// execInsertHabit writes a habit row through db or tx. Shared with import.
func execInsertHabit(ctx context.Context, e execer, h *domain.Habit) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, created_at, updated_at, name, emoji, color, recurrence_kind, recurrence_days, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID,
		h.UserID,
		formatTime(h.CreatedAt),
		formatTime(h.UpdatedAt),
		h.Name,
		h.Emoji,
		h.Color,
		string(h.Recurrence.Kind),
		encodeRecurrenceDays(h.Recurrence.Days),
		nullTimeString(h.ArchivedAt),
	)
	return err
}

// CreateHabit inserts a new habit.
func (s *Store) CreateHabit(ctx context.Context, habit *domain.Habit) error {
	err := execInsertHabit(ctx, s.db, habit)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetHabit retrieves a habit by ID.
// Returns store.ErrNotFound if the habit does not exist.
func (s *Store) GetHabit(ctx context.Context, id string) (*domain.Habit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ListHabits returns a user's habits in creation order. Archived habits are
// excluded unless includeArchived is set.
func (s *Store) ListHabits(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit performs a full row update on an existing habit.
// Returns store.ErrNotFound if the habit does not exist.
func (s *Store) UpdateHabit(ctx context.Context, habit *domain.Habit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits
		SET updated_at = ?, name = ?, emoji = ?, color = ?, recurrence_kind = ?, recurrence_days = ?, archived_at = ?
		WHERE id = ?`,
		formatTime(habit.UpdatedAt),
		habit.Name,
		habit.Emoji,
		habit.Color,
		string(habit.Recurrence.Kind),
		encodeRecurrenceDays(habit.Recurrence.Days),
		nullTimeString(habit.ArchivedAt),
		habit.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteHabit removes the habit; the FK cascade removes its completions.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
