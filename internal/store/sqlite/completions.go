package sqlite

import (
	"context"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

const completionColumns = `id, habit_id, user_id, day, created_at`

func scanCompletion(scanner interface{ Scan(dest ...any) error }) (*domain.Completion, error) {
	var c domain.Completion
	var createdAt string

	err := scanner.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Day, &createdAt)
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// execInsertCompletion writes a completion through db or tx. Shared with
// import. Reports false when the (habit, day) pair already exists.
func execInsertCompletion(ctx context.Context, e execer, c *domain.Completion) (bool, error) {
	res, err := e.ExecContext(ctx, `
		INSERT INTO completions (id, habit_id, user_id, day, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		c.ID,
		c.HabitID,
		c.UserID,
		c.Day,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateCompletion inserts a completion. Reports false without error when
// the day is already completed, so toggles are idempotent.
func (s *Store) CreateCompletion(ctx context.Context, completion *domain.Completion) (bool, error) {
	return execInsertCompletion(ctx, s.db, completion)
}

// DeleteCompletion removes the completion for (habit, day). Reports whether
// a row was actually deleted.
func (s *Store) DeleteCompletion(ctx context.Context, habitID, day string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM completions WHERE habit_id = ? AND day = ?`, habitID, day)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCompletions returns a user's completions ordered by day, optionally
// narrowed by habit and an inclusive day range.
func (s *Store) ListCompletions(ctx context.Context, userID string, filter store.CompletionFilter) ([]*domain.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE user_id = ?`
	args := []any{userID}

	if filter.HabitID != "" {
		query += ` AND habit_id = ?`
		args = append(args, filter.HabitID)
	}
	if filter.From != "" {
		query += ` AND day >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += ` AND day <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY day ASC, habit_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []*domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
