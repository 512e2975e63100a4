package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-server/internal/service"
)

func TestExportImport_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")
	habitID := ts.createHabit(t, token, "Read")

	today := ts.calendar.Today(time.Now())
	resp := ts.api.Put("/api/v1/habits/"+habitID+"/completions/"+today,
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/export", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Export failed: %s", resp.Body.String())

	doc := decodeData[service.Document](t, resp.Body.Bytes())
	require.Len(t, doc.Habits, 1)
	require.Len(t, doc.Completed, 1)
	require.NotNil(t, doc.Settings)
	assert.Equal(t, habitID, doc.Habits[0].ID)
	assert.Equal(t, today, doc.Completed[0].Day)

	// A habit created after the export disappears on import: replace, not merge.
	ts.createHabit(t, token, "Doomed")

	resp = ts.api.Post("/api/v1/import", "Authorization: Bearer "+token, doc)
	require.Equal(t, http.StatusOK, resp.Code, "Import failed: %s", resp.Body.String())

	resp = ts.api.Get("/api/v1/habits?include_archived=true", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	habits := decodeData[ListHabitsResponse](t, resp.Body.Bytes())
	require.Len(t, habits.Habits, 1)
	assert.Equal(t, "Read", habits.Habits[0].Name)

	resp = ts.api.Get("/api/v1/completions", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	completions := decodeData[ListCompletionsResponse](t, resp.Body.Bytes())
	assert.Len(t, completions.Completions, 1)
}

func TestImport_RejectsBrokenDocument(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")
	ts.createHabit(t, token, "Keep me")

	// Completion references a habit the document does not contain.
	resp := ts.api.Post("/api/v1/import",
		"Authorization: Bearer "+token,
		map[string]any{
			"habits": []map[string]any{
				{"name": "Read", "recurrence": map[string]any{"kind": "daily"}},
			},
			"completed": []map[string]any{
				{"habit_id": "hab_missing", "date": "2025-06-14"},
			},
		})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// A failed import must leave existing data untouched.
	resp = ts.api.Get("/api/v1/habits", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	habits := decodeData[ListHabitsResponse](t, resp.Body.Bytes())
	require.Len(t, habits.Habits, 1)
	assert.Equal(t, "Keep me", habits.Habits[0].Name)
}

func TestExport_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice@example.com")
	bobToken, _ := ts.registerUser(t, "bob@example.com")
	ts.createHabit(t, aliceToken, "Read")

	resp := ts.api.Get("/api/v1/export", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	doc := decodeData[service.Document](t, resp.Body.Bytes())
	assert.Empty(t, doc.Habits)
	assert.Empty(t, doc.Completed)
}
