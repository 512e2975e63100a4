package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/id"
	"github.com/habitloop/habitloop-server/internal/store"
)

// CompletionService records and removes habit completions. Days are
// canonical keys in the server's anchor timezone; both halves of the toggle
// are idempotent so double-taps and retries are harmless.
type CompletionService struct {
	store    store.Store
	habits   *HabitService
	calendar *consistency.Calendar
	logger   *slog.Logger
}

// NewCompletionService creates a new completion service.
func NewCompletionService(store store.Store, habits *HabitService, calendar *consistency.Calendar, logger *slog.Logger) *CompletionService {
	return &CompletionService{
		store:    store,
		habits:   habits,
		calendar: calendar,
		logger:   logger,
	}
}

// Complete marks a habit done on the given day. Reports whether a new
// completion was recorded; completing an already-completed day is a no-op.
func (s *CompletionService) Complete(ctx context.Context, userID, habitID, day string) (*domain.Completion, bool, error) {
	if err := s.checkDay(day); err != nil {
		return nil, false, err
	}
	habit, err := s.habits.Get(ctx, userID, habitID)
	if err != nil {
		return nil, false, err
	}
	if habit.IsArchived() {
		return nil, false, domainerrors.Conflict("habit is archived")
	}

	completionID, err := id.Generate(id.PrefixCompletion)
	if err != nil {
		return nil, false, fmt.Errorf("generate completion ID: %w", err)
	}

	completion := &domain.Completion{
		ID:      completionID,
		HabitID: habitID,
		UserID:  userID,
		Day:     day,
	}
	created, err := s.store.CreateCompletion(ctx, completion)
	if err != nil {
		return nil, false, fmt.Errorf("create completion: %w", err)
	}

	if s.logger != nil && created {
		s.logger.Info("Completion recorded",
			"user_id", userID,
			"habit_id", habitID,
			"date", day,
		)
	}
	return completion, created, nil
}

// Uncomplete removes a habit's completion for the given day. Reports
// whether a completion actually existed.
func (s *CompletionService) Uncomplete(ctx context.Context, userID, habitID, day string) (bool, error) {
	if err := s.checkDay(day); err != nil {
		return false, err
	}
	if _, err := s.habits.Get(ctx, userID, habitID); err != nil {
		return false, err
	}

	deleted, err := s.store.DeleteCompletion(ctx, habitID, day)
	if err != nil {
		return false, fmt.Errorf("delete completion: %w", err)
	}
	return deleted, nil
}

// List returns the user's completions, optionally narrowed to a habit or an
// inclusive day range.
func (s *CompletionService) List(ctx context.Context, userID string, filter store.CompletionFilter) ([]*domain.Completion, error) {
	if filter.From != "" {
		if _, err := s.calendar.Anchor(filter.From); err != nil {
			return nil, domainerrors.Validation("from must be a YYYY-MM-DD date")
		}
	}
	if filter.To != "" {
		if _, err := s.calendar.Anchor(filter.To); err != nil {
			return nil, domainerrors.Validation("to must be a YYYY-MM-DD date")
		}
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, domainerrors.Validation("from must not be after to")
	}

	completions, err := s.store.ListCompletions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return completions, nil
}

// checkDay validates a day key. A day at most one ahead of the anchor
// zone's today is allowed: clients in timezones ahead of the anchor can
// legitimately see a local date the anchor hasn't reached yet.
func (s *CompletionService) checkDay(day string) error {
	if _, err := s.calendar.Anchor(day); err != nil {
		return domainerrors.Validation("date must be a YYYY-MM-DD date")
	}
	tomorrow, err := s.calendar.AddDays(s.calendar.Today(timeNow()), 1)
	if err != nil {
		return fmt.Errorf("compute tomorrow: %w", err)
	}
	if day > tomorrow {
		return domainerrors.Validation("date cannot be in the future")
	}
	return nil
}
