package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/service"
)

func (s *Server) registerTransferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportData",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export data",
		Description: "Exports all habits, completions and settings as a portable document",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExport)

	huma.Register(s.api, huma.Operation{
		OperationID: "importData",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import data",
		Description: "Replaces all habits, completions and settings with the uploaded document",
		Tags:        []string{"Transfer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImport)
}

// === DTOs ===

// ExportOutput wraps the export document for Huma.
type ExportOutput struct {
	Body service.Document
}

// ImportHabit is a habit entry in an uploaded document. Only the name is
// required so hand-written documents stay easy to produce; exported
// documents round-trip with all fields intact.
type ImportHabit struct {
	ID         string             `json:"id,omitempty" doc:"Habit ID, generated when empty"`
	UserID     string             `json:"user_id,omitempty" doc:"Ignored, always the importing user"`
	Name       string             `json:"name" doc:"Habit name"`
	Emoji      string             `json:"emoji,omitempty" doc:"Display emoji"`
	Color      string             `json:"color,omitempty" doc:"Display color (hex)"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty" doc:"Schedule, daily by default"`
	ArchivedAt *time.Time         `json:"archived_at,omitempty" doc:"When the habit was archived"`
	CreatedAt  *time.Time         `json:"created_at,omitempty" doc:"Original creation time"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty" doc:"Original update time"`
}

// ImportCompletion is a completion entry in an uploaded document.
type ImportCompletion struct {
	ID        string     `json:"id,omitempty" doc:"Completion ID, generated when empty"`
	HabitID   string     `json:"habit_id" doc:"Habit the completion belongs to"`
	UserID    string     `json:"user_id,omitempty" doc:"Ignored, always the importing user"`
	Date      string     `json:"date" doc:"Day key (YYYY-MM-DD)"`
	CreatedAt *time.Time `json:"created_at,omitempty" doc:"When the completion was recorded"`
}

// ImportSettings is the settings entry in an uploaded document.
type ImportSettings struct {
	UserID    string     `json:"user_id,omitempty" doc:"Ignored, always the importing user"`
	Theme     string     `json:"theme,omitempty" doc:"UI theme (system, light, dark)"`
	Timezone  string     `json:"timezone,omitempty" doc:"Display timezone (IANA name)"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" doc:"Original update time"`
}

// ImportRequest is the uploaded document body.
type ImportRequest struct {
	Habits    []ImportHabit      `json:"habits,omitempty" doc:"Habits to import"`
	Completed []ImportCompletion `json:"completed,omitempty" doc:"Completions to import"`
	Settings  *ImportSettings    `json:"settings,omitempty" doc:"Display preferences"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token" required:"true"`
	Body          ImportRequest
}

// === Handlers ===

func (s *Server) handleExport(ctx context.Context, input *AuthedInput) (*ExportOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	doc, err := s.services.Transfer.Export(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ExportOutput{Body: *doc}, nil
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Transfer.Import(ctx, userID, mapImportDocument(input.Body)); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "import complete"}}, nil
}

func mapImportDocument(req ImportRequest) *service.Document {
	doc := &service.Document{
		Habits:    make([]*domain.Habit, len(req.Habits)),
		Completed: make([]*domain.Completion, len(req.Completed)),
	}

	for i, h := range req.Habits {
		habit := &domain.Habit{
			Entity:     domain.Entity{ID: h.ID},
			Name:       h.Name,
			Emoji:      h.Emoji,
			Color:      h.Color,
			ArchivedAt: h.ArchivedAt,
		}
		if h.Recurrence != nil {
			habit.Recurrence = mapRecurrence(*h.Recurrence)
		}
		if h.CreatedAt != nil {
			habit.CreatedAt = *h.CreatedAt
		}
		if h.UpdatedAt != nil {
			habit.UpdatedAt = *h.UpdatedAt
		}
		doc.Habits[i] = habit
	}

	for i, c := range req.Completed {
		completion := &domain.Completion{
			ID:      c.ID,
			HabitID: c.HabitID,
			Day:     c.Date,
		}
		if c.CreatedAt != nil {
			completion.CreatedAt = *c.CreatedAt
		}
		doc.Completed[i] = completion
	}

	if req.Settings != nil {
		doc.Settings = &domain.UserSettings{
			Theme:    req.Settings.Theme,
			Timezone: req.Settings.Timezone,
		}
		if req.Settings.UpdatedAt != nil {
			doc.Settings.UpdatedAt = *req.Settings.UpdatedAt
		}
	}

	return doc
}
