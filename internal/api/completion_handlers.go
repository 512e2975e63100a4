package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

func (s *Server) registerCompletionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "completeHabit",
		Method:      http.MethodPut,
		Path:        "/api/v1/habits/{id}/completions/{date}",
		Summary:     "Mark habit done",
		Description: "Records a completion for the habit on the given day. Idempotent.",
		Tags:        []string{"Completions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCompleteHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "uncompleteHabit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/habits/{id}/completions/{date}",
		Summary:     "Unmark habit",
		Description: "Removes the habit's completion for the given day. Idempotent.",
		Tags:        []string{"Completions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUncompleteHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCompletions",
		Method:      http.MethodGet,
		Path:        "/api/v1/completions",
		Summary:     "List completions",
		Description: "Returns the user's completions, optionally filtered by habit and day range",
		Tags:        []string{"Completions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCompletions)
}

// === DTOs ===

// CompletionPathInput addresses one habit-day pair.
type CompletionPathInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
	Date          string `path:"date" doc:"Day key (YYYY-MM-DD)"`
}

// CompletionResponse contains completion data in API responses.
type CompletionResponse struct {
	ID        string    `json:"id" doc:"Completion ID"`
	HabitID   string    `json:"habit_id" doc:"Habit ID"`
	Date      string    `json:"date" doc:"Day key (YYYY-MM-DD)"`
	CreatedAt time.Time `json:"created_at" doc:"When the completion was recorded"`
}

// ToggleResponse reports the result of a completion toggle half.
type ToggleResponse struct {
	Completed bool `json:"completed" doc:"Whether the habit is now completed on that day"`
	Changed   bool `json:"changed" doc:"Whether this request changed anything"`
}

// ToggleOutput wraps the toggle response for Huma.
type ToggleOutput struct {
	Body ToggleResponse
}

// ListCompletionsInput contains filters for listing completions.
type ListCompletionsInput struct {
	Authorization string `header:"Authorization"`
	HabitID       string `query:"habit_id" doc:"Restrict to one habit"`
	From          string `query:"from" doc:"Inclusive start day (YYYY-MM-DD)"`
	To            string `query:"to" doc:"Inclusive end day (YYYY-MM-DD)"`
}

// ListCompletionsResponse contains a list of completions.
type ListCompletionsResponse struct {
	Completions []CompletionResponse `json:"completions" doc:"Completions, oldest first"`
}

// ListCompletionsOutput wraps the list completions response for Huma.
type ListCompletionsOutput struct {
	Body ListCompletionsResponse
}

// === Handlers ===

func (s *Server) handleCompleteHabit(ctx context.Context, input *CompletionPathInput) (*ToggleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	_, created, err := s.services.Completion.Complete(ctx, userID, input.ID, input.Date)
	if err != nil {
		return nil, err
	}

	return &ToggleOutput{Body: ToggleResponse{Completed: true, Changed: created}}, nil
}

func (s *Server) handleUncompleteHabit(ctx context.Context, input *CompletionPathInput) (*ToggleOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	deleted, err := s.services.Completion.Uncomplete(ctx, userID, input.ID, input.Date)
	if err != nil {
		return nil, err
	}

	return &ToggleOutput{Body: ToggleResponse{Completed: false, Changed: deleted}}, nil
}

func (s *Server) handleListCompletions(ctx context.Context, input *ListCompletionsInput) (*ListCompletionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	completions, err := s.services.Completion.List(ctx, userID, store.CompletionFilter{
		HabitID: input.HabitID,
		From:    input.From,
		To:      input.To,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]CompletionResponse, len(completions))
	for i, c := range completions {
		resp[i] = mapCompletionResponse(c)
	}
	return &ListCompletionsOutput{Body: ListCompletionsResponse{Completions: resp}}, nil
}

func mapCompletionResponse(c *domain.Completion) CompletionResponse {
	return CompletionResponse{
		ID:        c.ID,
		HabitID:   c.HabitID,
		Date:      c.Day,
		CreatedAt: c.CreatedAt,
	}
}
