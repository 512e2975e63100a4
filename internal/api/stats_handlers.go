package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatsOverview",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/overview",
		Summary:     "Stats overview",
		Description: "Returns the dashboard headline numbers: streaks, weekly progress and perfect-day flag",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStatsOverview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHabitStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/habits/{id}/stats",
		Summary:     "Habit stats",
		Description: "Returns detail stats for one habit",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleHabitStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHeatmap",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/heatmap",
		Summary:     "Completion heatmap",
		Description: "Returns per-day completion counts over a trailing window",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleHeatmap)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWeekStrip",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/week",
		Summary:     "Current week strip",
		Description: "Returns the Sunday-start strip for the current week",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleWeekStrip)
}

// === DTOs ===

// AuthedInput carries only the Authorization header.
type AuthedInput struct {
	Authorization string `header:"Authorization"`
}

// OverviewOutput wraps the stats overview for Huma.
type OverviewOutput struct {
	Body service.Overview
}

// HabitStatsInput addresses one habit's stats.
type HabitStatsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Habit ID"`
}

// HabitStatsOutput wraps the habit stats for Huma.
type HabitStatsOutput struct {
	Body service.HabitStats
}

// HeatmapInput contains heatmap window parameters.
type HeatmapInput struct {
	Authorization string `header:"Authorization"`
	Days          int    `query:"days" doc:"Window length in days; 0 selects the default 53-week window"`
	HabitID       string `query:"habit_id" doc:"Restrict to one habit"`
}

// HeatmapOutput wraps the heatmap window for Huma.
type HeatmapOutput struct {
	Body consistency.Window
}

// WeekStripResponse contains the current week's per-day counts.
type WeekStripResponse struct {
	Days []consistency.DayCount `json:"days" doc:"Seven days, Sunday first"`
}

// WeekStripOutput wraps the week strip for Huma.
type WeekStripOutput struct {
	Body WeekStripResponse
}

// === Handlers ===

func (s *Server) handleStatsOverview(ctx context.Context, input *AuthedInput) (*OverviewOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	overview, err := s.services.Stats.GetOverview(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &OverviewOutput{Body: *overview}, nil
}

func (s *Server) handleHabitStats(ctx context.Context, input *HabitStatsInput) (*HabitStatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetHabitStats(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &HabitStatsOutput{Body: *stats}, nil
}

func (s *Server) handleHeatmap(ctx context.Context, input *HeatmapInput) (*HeatmapOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	window, err := s.services.Stats.GetHeatmap(ctx, userID, input.Days, input.HabitID)
	if err != nil {
		return nil, err
	}
	return &HeatmapOutput{Body: *window}, nil
}

func (s *Server) handleWeekStrip(ctx context.Context, input *AuthedInput) (*WeekStripOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	strip, err := s.services.Stats.GetWeek(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WeekStripOutput{Body: WeekStripResponse{Days: strip}}, nil
}
