package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/store"
)

func TestExportImport_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	ctx := context.Background()
	withFixedNow(t, time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC))

	habit := createTestHabit(t, env, user.User.ID, "Read")
	for _, day := range []string{"2025-06-13", "2025-06-14"} {
		_, _, err := env.completions.Complete(ctx, user.User.ID, habit.ID, day)
		require.NoError(t, err)
	}
	theme := "dark"
	_, err := env.settings.Update(ctx, user.User.ID, SettingsUpdate{Theme: &theme})
	require.NoError(t, err)

	doc, err := env.transfer.Export(ctx, user.User.ID)
	require.NoError(t, err)
	require.Len(t, doc.Habits, 1)
	require.Len(t, doc.Completed, 2)
	require.NotNil(t, doc.Settings)
	assert.Equal(t, "dark", doc.Settings.Theme)

	// Mutate, then restore the export: import replaces, not merges.
	createTestHabit(t, env, user.User.ID, "Doomscroll")
	require.NoError(t, env.transfer.Import(ctx, user.User.ID, doc))

	habits, err := env.habits.List(ctx, user.User.ID, true)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name)

	completions, err := env.completions.List(ctx, user.User.ID, store.CompletionFilter{})
	require.NoError(t, err)
	assert.Len(t, completions, 2)
}

func TestImport_GeneratesMissingIDs(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	ctx := context.Background()

	doc := &Document{
		Habits: []*domain.Habit{{
			Name:       "Stretch",
			Recurrence: domain.Recurrence{Kind: domain.RecurrenceDaily},
		}},
	}
	require.NoError(t, env.transfer.Import(ctx, user.User.ID, doc))

	habits, err := env.habits.List(ctx, user.User.ID, true)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.NotEmpty(t, habits[0].ID)
	assert.Equal(t, user.User.ID, habits[0].UserID)
}

func TestImport_Validation(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	ctx := context.Background()

	cases := []struct {
		name string
		doc  *Document
	}{
		{"nil document", nil},
		{"habit without name", &Document{
			Habits: []*domain.Habit{{Recurrence: domain.Recurrence{Kind: domain.RecurrenceDaily}}},
		}},
		{"invalid recurrence", &Document{
			Habits: []*domain.Habit{{
				Name:       "Bad",
				Recurrence: domain.Recurrence{Kind: domain.RecurrenceCustom},
			}},
		}},
		{"completion for unknown habit", &Document{
			Completed: []*domain.Completion{{HabitID: "habit_missing", Day: "2025-06-14"}},
		}},
		{"completion with bad date", &Document{
			Habits: []*domain.Habit{{
				Entity:     domain.Entity{ID: "habit_1"},
				Name:       "Read",
				Recurrence: domain.Recurrence{Kind: domain.RecurrenceDaily},
			}},
			Completed: []*domain.Completion{{HabitID: "habit_1", Day: "2025-6-14"}},
		}},
		{"duplicate completion", &Document{
			Habits: []*domain.Habit{{
				Entity:     domain.Entity{ID: "habit_1"},
				Name:       "Read",
				Recurrence: domain.Recurrence{Kind: domain.RecurrenceDaily},
			}},
			Completed: []*domain.Completion{
				{HabitID: "habit_1", Day: "2025-06-14"},
				{HabitID: "habit_1", Day: "2025-06-14"},
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.transfer.Import(ctx, user.User.ID, tc.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}

	// Failed imports leave existing data alone.
	habits, err := env.habits.List(ctx, user.User.ID, true)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestSettings_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := registerTestUser(t, env, "alice@example.com")
	ctx := context.Background()

	settings, err := env.settings.Get(ctx, user.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "system", settings.Theme)

	theme := "dark"
	tz := "Europe/Berlin"
	updated, err := env.settings.Update(ctx, user.User.ID, SettingsUpdate{Theme: &theme, Timezone: &tz})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "Europe/Berlin", updated.Timezone)

	bad := "neon"
	_, err = env.settings.Update(ctx, user.User.ID, SettingsUpdate{Theme: &bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
