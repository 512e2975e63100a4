package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/id"
	"github.com/habitloop/habitloop-server/internal/store"
)

// HabitService orchestrates habit CRUD. Every operation is scoped to the
// calling user; a habit owned by someone else reads as not found so IDs
// don't leak across accounts.
type HabitService struct {
	store  store.Store
	logger *slog.Logger
}

// NewHabitService creates a new habit service.
func NewHabitService(store store.Store, logger *slog.Logger) *HabitService {
	return &HabitService{
		store:  store,
		logger: logger,
	}
}

// CreateHabitRequest contains the fields for a new habit.
type CreateHabitRequest struct {
	Name       string            `json:"name" validate:"required,max=100"`
	Emoji      string            `json:"emoji" validate:"max=16"`
	Color      string            `json:"color" validate:"omitempty,hexcolor"`
	Recurrence domain.Recurrence `json:"recurrence"`
}

// UpdateHabitRequest contains the patchable habit fields. Nil means leave
// unchanged.
type UpdateHabitRequest struct {
	Name       *string            `json:"name,omitempty" validate:"omitempty,max=100"`
	Emoji      *string            `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Color      *string            `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Recurrence *domain.Recurrence `json:"recurrence,omitempty"`
}

// Create adds a new habit for the user. An empty recurrence defaults to
// daily.
func (s *HabitService) Create(ctx context.Context, userID string, req CreateHabitRequest) (*domain.Habit, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Recurrence.Kind == "" {
		req.Recurrence.Kind = domain.RecurrenceDaily
	}
	if !req.Recurrence.Valid() {
		return nil, domainerrors.Validation("recurrence is invalid: kind must be daily, weekdays or custom; custom needs weekday indices 0-6")
	}

	habitID, err := id.Generate(id.PrefixHabit)
	if err != nil {
		return nil, fmt.Errorf("generate habit ID: %w", err)
	}

	habit := &domain.Habit{
		Entity:     domain.Entity{ID: habitID},
		UserID:     userID,
		Name:       req.Name,
		Emoji:      req.Emoji,
		Color:      req.Color,
		Recurrence: req.Recurrence,
	}
	habit.InitTimestamps()

	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Habit created",
			"user_id", userID,
			"habit_id", habitID,
			"name", habit.Name,
		)
	}
	return habit, nil
}

// Get returns one of the user's habits.
func (s *HabitService) Get(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	return s.getOwned(ctx, userID, habitID)
}

// List returns the user's habits, optionally including archived ones.
func (s *HabitService) List(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error) {
	habits, err := s.store.ListHabits(ctx, userID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Update patches a habit's mutable fields.
func (s *HabitService) Update(ctx context.Context, userID, habitID string, req UpdateHabitRequest) (*domain.Habit, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domainerrors.Validation("name cannot be empty")
		}
		habit.Name = *req.Name
	}
	if req.Emoji != nil {
		habit.Emoji = *req.Emoji
	}
	if req.Color != nil {
		habit.Color = *req.Color
	}
	if req.Recurrence != nil {
		if !req.Recurrence.Valid() {
			return nil, domainerrors.Validation("recurrence is invalid: kind must be daily, weekdays or custom; custom needs weekday indices 0-6")
		}
		habit.Recurrence = *req.Recurrence
	}
	habit.Touch()

	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

// Delete removes a habit and all of its completion history.
func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.store.DeleteHabit(ctx, habitID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Habit deleted",
			"user_id", userID,
			"habit_id", habitID,
		)
	}
	return nil
}

// Archive retires a habit. History is kept, but the habit drops out of
// active streak and perfect-day math. Archiving twice is a no-op.
func (s *HabitService) Archive(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	habit.Archive()
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("archive habit: %w", err)
	}
	return habit, nil
}

// Unarchive restores an archived habit to the active set.
func (s *HabitService) Unarchive(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	habit.Unarchive()
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("unarchive habit: %w", err)
	}
	return habit, nil
}

// getOwned loads a habit and verifies ownership. A habit belonging to
// another user reads as not found.
func (s *HabitService) getOwned(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("habit not found")
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	if habit.UserID != userID {
		return nil, domainerrors.NotFound("habit not found")
	}
	return habit, nil
}
