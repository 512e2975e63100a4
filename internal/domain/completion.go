package domain

import "time"

// Completion records that a habit was done on a canonical day. Day uses the
// YYYY-MM-DD key produced by the consistency calendar; the store enforces
// uniqueness per (habit, day), so toggling the same day twice is idempotent.
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	UserID    string    `json:"user_id"`
	Day       string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
