package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/store"
)

func TestComplete_Toggle(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	habit := createTestHabit(t, env, user.User.ID, "Read")
	ctx := context.Background()
	day := env.calendar.Today(timeNow())

	_, created, err := env.completions.Complete(ctx, user.User.ID, habit.ID, day)
	require.NoError(t, err)
	assert.True(t, created)

	// Completing the same day again is a harmless no-op.
	_, created, err = env.completions.Complete(ctx, user.User.ID, habit.ID, day)
	require.NoError(t, err)
	assert.False(t, created)

	deleted, err := env.completions.Uncomplete(ctx, user.User.ID, habit.ID, day)
	require.NoError(t, err)
	assert.True(t, deleted)

	// And so is deleting an already-clear day.
	deleted, err = env.completions.Uncomplete(ctx, user.User.ID, habit.ID, day)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestComplete_RejectsBadDays(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	habit := createTestHabit(t, env, user.User.ID, "Read")
	ctx := context.Background()

	withFixedNow(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	for _, day := range []string{"2025-6-15", "June 15", "2025-02-30", ""} {
		_, _, err := env.completions.Complete(ctx, user.User.ID, habit.ID, day)
		require.Error(t, err, "day %q", day)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}

	// Tomorrow in the anchor zone is allowed for clients in zones ahead of
	// it; anything past that is not.
	_, created, err := env.completions.Complete(ctx, user.User.ID, habit.ID, "2025-06-16")
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = env.completions.Complete(ctx, user.User.ID, habit.ID, "2025-06-17")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestComplete_ArchivedHabit(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	habit := createTestHabit(t, env, user.User.ID, "Read")
	ctx := context.Background()

	_, err := env.habits.Archive(ctx, user.User.ID, habit.ID)
	require.NoError(t, err)

	_, _, err = env.completions.Complete(ctx, user.User.ID, habit.ID, env.calendar.Today(timeNow()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestListCompletions_Filters(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	reading := createTestHabit(t, env, user.User.ID, "Read")
	running := createTestHabit(t, env, user.User.ID, "Run")
	ctx := context.Background()

	withFixedNow(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	for _, day := range []string{"2025-06-10", "2025-06-12", "2025-06-14"} {
		_, _, err := env.completions.Complete(ctx, user.User.ID, reading.ID, day)
		require.NoError(t, err)
	}
	_, _, err := env.completions.Complete(ctx, user.User.ID, running.ID, "2025-06-12")
	require.NoError(t, err)

	all, err := env.completions.List(ctx, user.User.ID, store.CompletionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Inclusive day range.
	ranged, err := env.completions.List(ctx, user.User.ID, store.CompletionFilter{
		From: "2025-06-12",
		To:   "2025-06-14",
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	byHabit, err := env.completions.List(ctx, user.User.ID, store.CompletionFilter{HabitID: running.ID})
	require.NoError(t, err)
	require.Len(t, byHabit, 1)
	assert.Equal(t, "2025-06-12", byHabit[0].Day)

	_, err = env.completions.List(ctx, user.User.ID, store.CompletionFilter{From: "2025-06-14", To: "2025-06-12"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
