package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-server/internal/auth"
	"github.com/habitloop/habitloop-server/internal/billing"
	"github.com/habitloop/habitloop-server/internal/config"
	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/ledger"
	"github.com/habitloop/habitloop-server/internal/service"
	"github.com/habitloop/habitloop-server/internal/store/sqlite"
)

const (
	testAPIKeyHex        = "202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f"
	testAPIWebhookSecret = "whsec_api_test"
)

// testEnvelope mirrors the wire envelope for decoding responses in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope mirrors the error envelope shape.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api      humatest.TestAPI
	calendar *consistency.Calendar
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	// Generous limits so tests never trip the limiter by accident.
	return setupTestServerWithLimits(t, 1000, 1000)
}

func setupTestServerWithLimits(t *testing.T, rps float64, burst int) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	led, err := ledger.Open(filepath.Join(tmpDir, "ledger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })

	calendar, err := consistency.NewCalendar("America/Chicago")
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(testAPIKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	habitService := service.NewHabitService(st, logger)

	services := &Services{
		Auth:       authService,
		Session:    sessionService,
		Habit:      habitService,
		Completion: service.NewCompletionService(st, habitService, calendar, logger),
		Stats:      service.NewStatsService(st, habitService, calendar, logger),
		Billing:    service.NewBillingService(st, led, testAPIWebhookSecret, billing.DefaultTolerance, logger),
		Transfer:   service.NewTransferService(st, calendar, logger),
		Settings:   service.NewSettingsService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
			RateLimitRPS:         rps,
			RateLimitBurst:       burst,
		},
	}

	s := NewServer(cfg, st, services, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.api),
		calendar: calendar,
	}
}

// registerUser registers a user and returns the access token and user ID.
func (ts *testServer) registerUser(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// createHabit creates a habit through the API and returns its ID.
func (ts *testServer) createHabit(t *testing.T, token, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/habits",
		"Authorization: Bearer "+token,
		map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "Create habit failed: %s", resp.Body.String())

	var envelope testEnvelope[HabitResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope.Data.ID
}

// decodeData unmarshals a success envelope body into T.
func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()

	var envelope testEnvelope[T]
	err := json.Unmarshal(body, &envelope)
	require.NoError(t, err)
	require.True(t, envelope.Success, "expected success envelope: %s", string(body))

	return envelope.Data
}
