// Package store defines the persistence interface for the HabitLoop server.
// Implementations live in subpackages (currently sqlite).
package store

import (
	"context"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/errors"
)

// Sentinel errors returned by store implementations. These are coded domain
// errors, so services can bubble them straight to the API layer.
var (
	ErrNotFound      = errors.NotFound("resource not found")
	ErrAlreadyExists = errors.AlreadyExists("resource already exists")
)

// CompletionFilter narrows completion listings. Zero values mean "no bound".
type CompletionFilter struct {
	HabitID string
	From    string // inclusive day key
	To      string // inclusive day key
}

// Store is the persistence interface the rest of the server programs against.
type Store interface {
	UserStore
	SessionStore
	HabitStore
	CompletionStore
	SettingsStore
	SubscriptionStore

	// ReplaceUserData atomically replaces a user's habits, completions and
	// settings with the given snapshot. Used by import.
	ReplaceUserData(ctx context.Context, userID string, habits []*domain.Habit, completions []*domain.Completion, settings *domain.UserSettings) error

	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// HabitStore persists habits.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *domain.Habit) error
	GetHabit(ctx context.Context, id string) (*domain.Habit, error)
	ListHabits(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error)
	UpdateHabit(ctx context.Context, habit *domain.Habit) error
	// DeleteHabit removes the habit and, via FK cascade, its completions.
	DeleteHabit(ctx context.Context, id string) error
}

// CompletionStore persists habit completions.
type CompletionStore interface {
	// CreateCompletion inserts a completion. Inserting the same (habit, day)
	// twice reports false with no error, so toggles are idempotent.
	CreateCompletion(ctx context.Context, completion *domain.Completion) (created bool, err error)
	// DeleteCompletion removes the completion for (habit, day). Reports
	// whether a row was actually deleted.
	DeleteCompletion(ctx context.Context, habitID, day string) (deleted bool, err error)
	ListCompletions(ctx context.Context, userID string, filter CompletionFilter) ([]*domain.Completion, error)
}

// SettingsStore persists user settings.
type SettingsStore interface {
	GetUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error)
	PutUserSettings(ctx context.Context, settings *domain.UserSettings) error
}

// SubscriptionStore persists billing state.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error)
	GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*domain.Subscription, error)
	UpsertSubscription(ctx context.Context, sub *domain.Subscription) error
}
