package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "alice@example.com",
		"password":     "correct horse battery",
		"display_name": "Alice",
		"device_info": map[string]any{
			"platform":    "Web",
			"client_name": "HabitLoop Web",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "alice@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Alice", envelope.Data.User.DisplayName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "another password entirely",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testErrorEnvelope
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestRegister_InvalidInput(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	data := decodeData[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, data.AccessToken)
	assert.Equal(t, "alice@example.com", data.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)

	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong password here",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testErrorEnvelope
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	first := decodeData[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Refresh failed: %s", resp.Body.String())
	second := decodeData[AuthResponse](t, resp.Body.Bytes())

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.SessionID, second.SessionID)

	// The old refresh token is dead after rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	authData := decodeData[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": authData.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": authData.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/habits")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/habits", "Authorization: Bearer garbage-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/habits", "Authorization: NotBearer something")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	data := decodeData[CurrentUserResponse](t, resp.Body.Bytes())
	assert.Equal(t, userID, data.User.ID)
	assert.Equal(t, "alice@example.com", data.User.Email)
	assert.Equal(t, "system", data.Settings.Theme)
}

func TestUpdateSettings(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Patch("/api/v1/users/me/settings",
		"Authorization: Bearer "+token,
		map[string]any{"theme": "dark", "timezone": "Europe/Berlin"})
	require.Equal(t, http.StatusOK, resp.Code, "Update settings failed: %s", resp.Body.String())

	data := decodeData[SettingsResponse](t, resp.Body.Bytes())
	assert.Equal(t, "dark", data.Theme)
	assert.Equal(t, "Europe/Berlin", data.Timezone)

	resp = ts.api.Patch("/api/v1/users/me/settings",
		"Authorization: Bearer "+token,
		map[string]any{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
