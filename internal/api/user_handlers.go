package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile and settings",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me/settings",
		Summary:     "Update settings",
		Description: "Patches the user's display preferences",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)
}

// === DTOs ===

// GetCurrentUserInput contains parameters for the current-user lookup.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// SettingsResponse contains user display preferences.
type SettingsResponse struct {
	Theme    string `json:"theme" doc:"UI theme (system, light, dark)"`
	Timezone string `json:"timezone,omitempty" doc:"Display timezone (IANA name)"`
}

// CurrentUserResponse bundles the profile with settings.
type CurrentUserResponse struct {
	User     UserResponse     `json:"user" doc:"User profile"`
	Settings SettingsResponse `json:"settings" doc:"Display preferences"`
}

// CurrentUserOutput wraps the current-user response for Huma.
type CurrentUserOutput struct {
	Body CurrentUserResponse
}

// UpdateSettingsRequest is the request body for patching settings.
type UpdateSettingsRequest struct {
	Theme    *string `json:"theme,omitempty" validate:"omitempty,oneof=system light dark" doc:"UI theme"`
	Timezone *string `json:"timezone,omitempty" validate:"omitempty,timezone" doc:"Display timezone"`
}

// UpdateSettingsInput wraps the settings patch for Huma.
type UpdateSettingsInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateSettingsRequest
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*CurrentUserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CurrentUserOutput{
		Body: CurrentUserResponse{
			User: mapUserResponse(user),
			Settings: SettingsResponse{
				Theme:    settings.Theme,
				Timezone: settings.Timezone,
			},
		},
	}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.Update(ctx, userID, service.SettingsUpdate{
		Theme:    input.Body.Theme,
		Timezone: input.Body.Timezone,
	})
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{
		Body: SettingsResponse{
			Theme:    settings.Theme,
			Timezone: settings.Timezone,
		},
	}, nil
}
