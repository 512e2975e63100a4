package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

// SettingsService manages per-user display preferences.
type SettingsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger,
	}
}

// Get returns the user's settings, falling back to defaults if none were
// ever saved.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NewUserSettings(userID), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// SettingsUpdate contains the patchable settings fields. Nil means leave
// unchanged.
type SettingsUpdate struct {
	Theme    *string `json:"theme,omitempty" validate:"omitempty,oneof=system light dark"`
	Timezone *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// Update patches the user's settings and returns the result.
func (s *SettingsService) Update(ctx context.Context, userID string, update SettingsUpdate) (*domain.UserSettings, error) {
	if err := validate.Validate(update); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Theme != nil {
		settings.Theme = *update.Theme
	}
	if update.Timezone != nil {
		settings.Timezone = *update.Timezone
	}
	settings.UpdatedAt = time.Now()

	if err := s.store.PutUserSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}
