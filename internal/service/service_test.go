package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-server/internal/auth"
	"github.com/habitloop/habitloop-server/internal/billing"
	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/ledger"
	"github.com/habitloop/habitloop-server/internal/store"
	"github.com/habitloop/habitloop-server/internal/store/sqlite"
)

const (
	testKeyHex        = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testWebhookSecret = "whsec_service_test"
)

// testEnv bundles every service against one temporary sqlite store.
type testEnv struct {
	store       store.Store
	auth        *AuthService
	sessions    *SessionService
	habits      *HabitService
	completions *CompletionService
	stats       *StatsService
	billing     *BillingService
	transfer    *TransferService
	settings    *SettingsService
	calendar    *consistency.Calendar
}

// newTestEnv wires the full service layer over temporary storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	s, err := sqlite.Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	led, err := ledger.Open(filepath.Join(dir, "ledger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })

	calendar, err := consistency.NewCalendar("America/Chicago")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	sessions := NewSessionService(s, tokens, logger)
	habits := NewHabitService(s, logger)

	return &testEnv{
		store:       s,
		auth:        NewAuthService(s, tokens, sessions, logger),
		sessions:    sessions,
		habits:      habits,
		completions: NewCompletionService(s, habits, calendar, logger),
		stats:       NewStatsService(s, habits, calendar, logger),
		billing:     NewBillingService(s, led, testWebhookSecret, billing.DefaultTolerance, logger),
		transfer:    NewTransferService(s, calendar, logger),
		settings:    NewSettingsService(s, logger),
		calendar:    calendar,
	}
}

// registerTestUser creates an account and returns the logged-in response.
func registerTestUser(t *testing.T, env *testEnv, email string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "correct horse battery",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return resp
}

// createTestHabit adds a daily habit for the user.
func createTestHabit(t *testing.T, env *testEnv, userID, name string) *domain.Habit {
	t.Helper()
	habit, err := env.habits.Create(context.Background(), userID, CreateHabitRequest{
		Name:       name,
		Emoji:      "🔥",
		Color:      "#34d399",
		Recurrence: domain.Recurrence{Kind: domain.RecurrenceDaily},
	})
	require.NoError(t, err)
	return habit
}

// withFixedNow pins the service clock for the duration of a test.
func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}
