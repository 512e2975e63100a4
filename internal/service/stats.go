package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/store"
)

// timeNow is swapped out in tests for deterministic day math.
var timeNow = time.Now

// StatsService turns raw completions into the streak, heatmap and weekly
// numbers the dashboard renders. All day math goes through the consistency
// calendar so every caller agrees on what "today" means.
type StatsService struct {
	store    store.Store
	habits   *HabitService
	calendar *consistency.Calendar
	logger   *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, habits *HabitService, calendar *consistency.Calendar, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:    store,
		habits:   habits,
		calendar: calendar,
		logger:   logger,
	}
}

// HabitStreakEntry is one habit's current streak inside the overview.
type HabitStreakEntry struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
	Streak  int    `json:"streak"`
}

// Overview is the dashboard's headline numbers.
type Overview struct {
	CurrentStreak    int                `json:"current_streak"`
	WeeklyStreak     int                `json:"weekly_streak"`
	WeekCompletions  int                `json:"week_completions"`
	TotalCompletions int                `json:"total_completions"`
	PerfectToday     bool               `json:"perfect_today"`
	HabitStreaks     []HabitStreakEntry `json:"habit_streaks"`
}

// HabitStats is the per-habit detail view.
type HabitStats struct {
	HabitID          string `json:"habit_id"`
	CurrentStreak    int    `json:"current_streak"`
	TotalCompletions int    `json:"total_completions"`
	BestWeekday      string `json:"best_weekday,omitempty"` // empty until first completion
	WeekdayCounts    [7]int `json:"weekday_counts"`         // Sunday-indexed
}

// GetOverview computes the dashboard headline stats for a user.
func (s *StatsService) GetOverview(ctx context.Context, userID string) (*Overview, error) {
	records, habits, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := timeNow()

	global, err := s.calendar.GlobalStreak(records, now)
	if err != nil {
		return nil, fmt.Errorf("global streak: %w", err)
	}
	weekly, err := s.calendar.WeeklyStreak(records, now)
	if err != nil {
		return nil, fmt.Errorf("weekly streak: %w", err)
	}
	weekCount, err := s.calendar.WeekCompletionCount(records, now)
	if err != nil {
		return nil, fmt.Errorf("week completion count: %w", err)
	}

	activeIDs := activeHabitIDs(habits)
	streaks := make([]HabitStreakEntry, 0, len(activeIDs))
	for _, h := range habits {
		if h.IsArchived() {
			continue
		}
		streak, err := s.calendar.HabitStreak(records, h.ID, now)
		if err != nil {
			return nil, fmt.Errorf("streak for habit %s: %w", h.ID, err)
		}
		streaks = append(streaks, HabitStreakEntry{
			HabitID: h.ID,
			Name:    h.Name,
			Streak:  streak,
		})
	}

	return &Overview{
		CurrentStreak:    global,
		WeeklyStreak:     weekly,
		WeekCompletions:  weekCount,
		TotalCompletions: len(records),
		PerfectToday:     consistency.PerfectDay(records, activeIDs, s.calendar.Today(now)),
		HabitStreaks:     streaks,
	}, nil
}

// GetHabitStats computes detail stats for a single habit.
func (s *StatsService) GetHabitStats(ctx context.Context, userID, habitID string) (*HabitStats, error) {
	habit, err := s.habits.Get(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	completions, err := s.store.ListCompletions(ctx, userID, store.CompletionFilter{HabitID: habit.ID})
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	records := toRecords(completions)

	streak, err := s.calendar.HabitStreak(records, habit.ID, timeNow())
	if err != nil {
		return nil, fmt.Errorf("habit streak: %w", err)
	}
	counts, err := s.calendar.WeekdayCounts(records, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("weekday counts: %w", err)
	}

	best := ""
	bestCount := 0
	for wd, n := range counts {
		if n > bestCount {
			best = time.Weekday(wd).String()
			bestCount = n
		}
	}

	return &HabitStats{
		HabitID:          habit.ID,
		CurrentStreak:    streak,
		TotalCompletions: len(records),
		BestWeekday:      best,
		WeekdayCounts:    counts,
	}, nil
}

// GetHeatmap buckets completions by day over a trailing window. days <= 0
// selects the default 53-week window; habitID narrows to one habit.
func (s *StatsService) GetHeatmap(ctx context.Context, userID string, days int, habitID string) (*consistency.Window, error) {
	if days <= 0 {
		days = consistency.HeatmapDays
	}
	if days > 2*consistency.HeatmapDays {
		return nil, domainerrors.Validationf("days must be at most %d", 2*consistency.HeatmapDays)
	}

	records, habits, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	opt := consistency.WindowOptions{
		Days:    days,
		HabitID: habitID,
	}
	if habitID == "" {
		// The all-habits heatmap only counts active habits, so archiving a
		// habit immediately calms the wall instead of leaving ghost cells.
		opt.ActiveHabitIDs = activeHabitIDs(habits)
	}

	window, err := s.calendar.Heatmap(records, timeNow(), opt)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}
	return window, nil
}

// GetWeek returns the Sunday-start strip for the current week: per-day
// distinct-habit counts, the active-habit denominator, and perfect flags.
func (s *StatsService) GetWeek(ctx context.Context, userID string) ([]consistency.DayCount, error) {
	records, habits, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	activeIDs := activeHabitIDs(habits)

	weekDays, err := s.calendar.WeekDays(s.calendar.Today(now))
	if err != nil {
		return nil, fmt.Errorf("week days: %w", err)
	}

	active := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}
	byDay := make(map[string]map[string]struct{})
	for _, r := range records {
		if _, ok := active[r.HabitID]; !ok {
			continue
		}
		set := byDay[r.Day]
		if set == nil {
			set = make(map[string]struct{})
			byDay[r.Day] = set
		}
		set[r.HabitID] = struct{}{}
	}

	strip := make([]consistency.DayCount, 0, len(weekDays))
	for _, day := range weekDays {
		count := len(byDay[day])
		strip = append(strip, consistency.DayCount{
			Day:       day,
			Count:     count,
			Active:    len(activeIDs),
			IsPerfect: len(activeIDs) > 0 && count == len(activeIDs),
		})
	}
	return strip, nil
}

// load fetches a user's full completion history and habit list.
func (s *StatsService) load(ctx context.Context, userID string) ([]consistency.Record, []*domain.Habit, error) {
	completions, err := s.store.ListCompletions(ctx, userID, store.CompletionFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list completions: %w", err)
	}
	habits, err := s.store.ListHabits(ctx, userID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("list habits: %w", err)
	}
	return toRecords(completions), habits, nil
}

// toRecords converts stored completions into calendar records.
func toRecords(completions []*domain.Completion) []consistency.Record {
	records := make([]consistency.Record, len(completions))
	for i, c := range completions {
		records[i] = consistency.Record{HabitID: c.HabitID, Day: c.Day}
	}
	return records
}

// activeHabitIDs returns the IDs of non-archived habits.
func activeHabitIDs(habits []*domain.Habit) []string {
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		if !h.IsArchived() {
			ids = append(ids, h.ID)
		}
	}
	return ids
}
