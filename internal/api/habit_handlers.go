package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/service"
)

func (s *Server) registerHabitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listHabits",
		Method:      http.MethodGet,
		Path:        "/api/v1/habits",
		Summary:     "List habits",
		Description: "Returns the user's habits, optionally including archived ones",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListHabits)

	huma.Register(s.api, huma.Operation{
		OperationID: "createHabit",
		Method:      http.MethodPost,
		Path:        "/api/v1/habits",
		Summary:     "Create habit",
		Description: "Creates a new habit",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHabit",
		Method:      http.MethodGet,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Get habit",
		Description: "Returns a habit by ID",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateHabit",
		Method:      http.MethodPatch,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Update habit",
		Description: "Patches a habit's fields",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteHabit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/habits/{id}",
		Summary:     "Delete habit",
		Description: "Deletes a habit and its completion history",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "archiveHabit",
		Method:      http.MethodPost,
		Path:        "/api/v1/habits/{id}/archive",
		Summary:     "Archive habit",
		Description: "Retires a habit while keeping its history",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleArchiveHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "unarchiveHabit",
		Method:      http.MethodPost,
		Path:        "/api/v1/habits/{id}/unarchive",
		Summary:     "Unarchive habit",
		Description: "Restores an archived habit to the active set",
		Tags:        []string{"Habits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnarchiveHabit)
}

// === DTOs ===

// RecurrenceResponse describes a habit's schedule.
type RecurrenceResponse struct {
	Kind string `json:"kind" doc:"daily, weekdays or custom"`
	Days []int  `json:"days,omitempty" doc:"Weekday indices (Sunday = 0) for custom recurrence"`
}

// HabitResponse contains habit data in API responses.
type HabitResponse struct {
	ID         string             `json:"id" doc:"Habit ID"`
	Name       string             `json:"name" doc:"Habit name"`
	Emoji      string             `json:"emoji,omitempty" doc:"Display emoji"`
	Color      string             `json:"color,omitempty" doc:"Display color (hex)"`
	Recurrence RecurrenceResponse `json:"recurrence" doc:"Schedule"`
	ArchivedAt *time.Time         `json:"archived_at,omitempty" doc:"When the habit was archived"`
	CreatedAt  time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time          `json:"updated_at" doc:"Last update time"`
}

// ListHabitsInput contains parameters for listing habits.
type ListHabitsInput struct {
	Authorization   string `header:"Authorization"`
	IncludeArchived bool   `query:"include_archived" doc:"Include archived habits"`
}

// ListHabitsResponse contains a list of habits.
type ListHabitsResponse struct {
	Habits []HabitResponse `json:"habits" doc:"List of habits"`
}

// ListHabitsOutput wraps the list habits response for Huma.
type ListHabitsOutput struct {
	Body ListHabitsResponse
}

// RecurrenceRequest describes a habit schedule in requests.
type RecurrenceRequest struct {
	Kind string `json:"kind" validate:"omitempty,oneof=daily weekdays custom" doc:"daily, weekdays or custom"`
	Days []int  `json:"days,omitempty" doc:"Weekday indices (Sunday = 0) for custom recurrence"`
}

// CreateHabitRequest is the request body for creating a habit.
type CreateHabitRequest struct {
	Name       string            `json:"name" validate:"required,min=1,max=100" doc:"Habit name"`
	Emoji      string            `json:"emoji,omitempty" validate:"omitempty,max=16" doc:"Display emoji"`
	Color      string            `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color (hex)"`
	Recurrence RecurrenceRequest `json:"recurrence,omitempty" doc:"Schedule, daily by default"`
}

// CreateHabitInput wraps the create habit request for Huma.
type CreateHabitInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateHabitRequest
}

// HabitOutput wraps a single habit response for Huma.
type HabitOutput struct {
	Body HabitResponse
}

// GetHabitInput contains parameters for getting a habit.
type GetHabitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
}

// UpdateHabitRequest is the request body for updating a habit.
type UpdateHabitRequest struct {
	Name       *string            `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Habit name"`
	Emoji      *string            `json:"emoji,omitempty" validate:"omitempty,max=16" doc:"Display emoji"`
	Color      *string            `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color (hex)"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty" doc:"Schedule"`
}

// UpdateHabitInput wraps the update habit request for Huma.
type UpdateHabitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
	Body          UpdateHabitRequest
}

// === Handlers ===

func (s *Server) handleListHabits(ctx context.Context, input *ListHabitsInput) (*ListHabitsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habits, err := s.services.Habit.List(ctx, userID, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	resp := make([]HabitResponse, len(habits))
	for i, h := range habits {
		resp[i] = mapHabitResponse(h)
	}
	return &ListHabitsOutput{Body: ListHabitsResponse{Habits: resp}}, nil
}

func (s *Server) handleCreateHabit(ctx context.Context, input *CreateHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.Create(ctx, userID, service.CreateHabitRequest{
		Name:       input.Body.Name,
		Emoji:      input.Body.Emoji,
		Color:      input.Body.Color,
		Recurrence: mapRecurrence(input.Body.Recurrence),
	})
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleGetHabit(ctx context.Context, input *GetHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleUpdateHabit(ctx context.Context, input *UpdateHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateHabitRequest{
		Name:  input.Body.Name,
		Emoji: input.Body.Emoji,
		Color: input.Body.Color,
	}
	if input.Body.Recurrence != nil {
		rec := mapRecurrence(*input.Body.Recurrence)
		req.Recurrence = &rec
	}

	habit, err := s.services.Habit.Update(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, input *GetHabitInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Habit.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Habit deleted"}}, nil
}

func (s *Server) handleArchiveHabit(ctx context.Context, input *GetHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.Archive(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

func (s *Server) handleUnarchiveHabit(ctx context.Context, input *GetHabitInput) (*HabitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	habit, err := s.services.Habit.Unarchive(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &HabitOutput{Body: mapHabitResponse(habit)}, nil
}

// === Helpers ===

func mapRecurrence(r RecurrenceRequest) domain.Recurrence {
	return domain.Recurrence{
		Kind: domain.RecurrenceKind(r.Kind),
		Days: r.Days,
	}
}

func mapHabitResponse(h *domain.Habit) HabitResponse {
	return HabitResponse{
		ID:    h.ID,
		Name:  h.Name,
		Emoji: h.Emoji,
		Color: h.Color,
		Recurrence: RecurrenceResponse{
			Kind: string(h.Recurrence.Kind),
			Days: h.Recurrence.Days,
		},
		ArchivedAt: h.ArchivedAt,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}
}
