package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/id"
	"github.com/habitloop/habitloop-server/internal/store"
)

// TransferService exports a user's data as a portable JSON document and
// imports such documents back. Import replaces the user's data wholesale in
// one transaction, so a half-applied document can never be observed.
type TransferService struct {
	store    store.Store
	calendar *consistency.Calendar
	logger   *slog.Logger
}

// NewTransferService creates a new export/import service.
func NewTransferService(store store.Store, calendar *consistency.Calendar, logger *slog.Logger) *TransferService {
	return &TransferService{
		store:    store,
		calendar: calendar,
		logger:   logger,
	}
}

// Document is the portable backup format: everything a user owns except
// credentials and billing state.
type Document struct {
	Habits    []*domain.Habit      `json:"habits"`
	Completed []*domain.Completion `json:"completed"`
	Settings  *domain.UserSettings `json:"settings"`
}

// Export builds the user's backup document, archived habits included.
func (s *TransferService) Export(ctx context.Context, userID string) (*Document, error) {
	habits, err := s.store.ListHabits(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	completions, err := s.store.ListCompletions(ctx, userID, store.CompletionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get settings: %w", err)
		}
		settings = domain.NewUserSettings(userID)
	}

	return &Document{
		Habits:    habits,
		Completed: completions,
		Settings:  settings,
	}, nil
}

// Import validates a backup document and atomically replaces the user's
// habits, completions and settings with its contents.
func (s *TransferService) Import(ctx context.Context, userID string, doc *Document) error {
	if doc == nil {
		return domainerrors.Validation("document is required")
	}

	habitIDs := make(map[string]struct{}, len(doc.Habits))
	for i, h := range doc.Habits {
		if h == nil {
			return domainerrors.Validationf("habits[%d] is null", i)
		}
		if h.Name == "" {
			return domainerrors.Validationf("habits[%d] is missing a name", i)
		}
		if h.Recurrence.Kind == "" {
			h.Recurrence.Kind = domain.RecurrenceDaily
		}
		if !h.Recurrence.Valid() {
			return domainerrors.Validationf("habits[%d] has an invalid recurrence", i)
		}
		if h.ID == "" {
			generated, err := id.Generate(id.PrefixHabit)
			if err != nil {
				return fmt.Errorf("generate habit ID: %w", err)
			}
			h.ID = generated
		}
		if _, dup := habitIDs[h.ID]; dup {
			return domainerrors.Validationf("habits[%d] repeats id %s", i, h.ID)
		}
		habitIDs[h.ID] = struct{}{}
		// Ownership always follows the importing user, whatever the
		// document claims.
		h.UserID = userID
		if h.CreatedAt.IsZero() {
			h.InitTimestamps()
		}
	}

	seen := make(map[[2]string]struct{}, len(doc.Completed))
	for i, c := range doc.Completed {
		if c == nil {
			return domainerrors.Validationf("completed[%d] is null", i)
		}
		if _, err := s.calendar.Anchor(c.Day); err != nil {
			return domainerrors.Validationf("completed[%d] has an invalid date %q", i, c.Day)
		}
		if _, ok := habitIDs[c.HabitID]; !ok {
			return domainerrors.Validationf("completed[%d] references unknown habit %s", i, c.HabitID)
		}
		key := [2]string{c.HabitID, c.Day}
		if _, dup := seen[key]; dup {
			return domainerrors.Validationf("completed[%d] repeats habit %s on %s", i, c.HabitID, c.Day)
		}
		seen[key] = struct{}{}
		if c.ID == "" {
			generated, err := id.Generate(id.PrefixCompletion)
			if err != nil {
				return fmt.Errorf("generate completion ID: %w", err)
			}
			c.ID = generated
		}
		c.UserID = userID
	}

	settings := doc.Settings
	if settings == nil {
		settings = domain.NewUserSettings(userID)
	}
	settings.UserID = userID

	if err := s.store.ReplaceUserData(ctx, userID, doc.Habits, doc.Completed, settings); err != nil {
		return fmt.Errorf("replace user data: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User data imported",
			"user_id", userID,
			"habits", len(doc.Habits),
			"completions", len(doc.Completed),
		)
	}
	return nil
}
