package consistency

import (
	"fmt"
	"time"
)

// HeatmapDays is the default trailing window for the activity heatmap:
// 53 full weeks, enough to cover a year aligned to week columns.
const HeatmapDays = 53 * 7

// Bucket is one day of a heatmap window.
type Bucket struct {
	Day   string `json:"date"`
	Count int    `json:"count"`
}

// Window is a fixed-length run of daily buckets, oldest first, with the
// aggregates the UI scales intensity by.
type Window struct {
	Buckets    []Bucket `json:"buckets"`
	MaxCount   int      `json:"max_count"`   // floor of 1, so intensity math never divides by zero
	TotalCount int      `json:"total_count"` // sum of all bucket counts
}

// WindowOptions selects and filters a heatmap window.
type WindowOptions struct {
	// Days is the window length; required, > 0.
	Days int
	// EndDay anchors the window's newest bucket. Empty means today.
	EndDay string
	// HabitID restricts counting to one habit. Empty means all habits.
	HabitID string
	// ActiveHabitIDs, when non-nil, restricts counting to the given habits.
	// Archived habits are excluded from "active" aggregates this way while
	// their history stays available to unfiltered lookups.
	ActiveHabitIDs []string
}

// Heatmap buckets completions by day over a trailing window. The result has
// exactly opt.Days buckets, oldest to newest, with zero-count buckets filled
// in — no gaps.
func (c *Calendar) Heatmap(records []Record, now time.Time, opt WindowOptions) (*Window, error) {
	if opt.Days <= 0 {
		return nil, fmt.Errorf("heatmap window must be positive, got %d", opt.Days)
	}

	end := opt.EndDay
	if end == "" {
		end = c.Today(now)
	}

	var active map[string]struct{}
	if opt.ActiveHabitIDs != nil {
		active = make(map[string]struct{}, len(opt.ActiveHabitIDs))
		for _, id := range opt.ActiveHabitIDs {
			active[id] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for _, r := range records {
		if opt.HabitID != "" && r.HabitID != opt.HabitID {
			continue
		}
		if active != nil {
			if _, ok := active[r.HabitID]; !ok {
				continue
			}
		}
		counts[r.Day]++
	}

	day, err := c.AddDays(end, -(opt.Days - 1))
	if err != nil {
		return nil, err
	}

	w := &Window{
		Buckets:  make([]Bucket, 0, opt.Days),
		MaxCount: 1,
	}
	for i := 0; i < opt.Days; i++ {
		n := counts[day]
		w.Buckets = append(w.Buckets, Bucket{Day: day, Count: n})
		w.TotalCount += n
		if n > w.MaxCount {
			w.MaxCount = n
		}
		if i < opt.Days-1 {
			day, err = c.AddDays(day, 1)
			if err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

// PerfectDay reports whether every currently active habit has a completion
// on the given day. A day with no active habits is never perfect.
func PerfectDay(records []Record, activeHabitIDs []string, day string) bool {
	if len(activeHabitIDs) == 0 {
		return false
	}
	active := make(map[string]struct{}, len(activeHabitIDs))
	for _, id := range activeHabitIDs {
		active[id] = struct{}{}
	}

	done := make(map[string]struct{})
	for _, r := range records {
		if r.Day != day {
			continue
		}
		if _, ok := active[r.HabitID]; ok {
			done[r.HabitID] = struct{}{}
		}
	}
	return len(done) == len(active)
}

// DayCounts returns the number of distinct active habits completed per day
// over the Sunday-start week strip the dashboard renders, oldest first.
// Each entry also reports whether the day was perfect.
type DayCount struct {
	Day       string `json:"date"`
	Count     int    `json:"count"`
	Active    int    `json:"active_habits"`
	IsPerfect bool   `json:"is_perfect"`
}

// LastNDays returns per-day distinct-active-habit completion counts for the
// trailing n days ending today, oldest first.
func (c *Calendar) LastNDays(records []Record, activeHabitIDs []string, now time.Time, n int) ([]DayCount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("day window must be positive, got %d", n)
	}

	active := make(map[string]struct{}, len(activeHabitIDs))
	for _, id := range activeHabitIDs {
		active[id] = struct{}{}
	}

	// day -> set of active habits completed that day
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

	day, err := c.AddDays(c.Today(now), -(n - 1))
	if err != nil {
		panic(err) // today's key always parses
	}

	out := make([]DayCount, 0, n)
	for i := 0; i < n; i++ {
		count := len(byDay[day])
		out = append(out, DayCount{
			Day:       day,
			Count:     count,
			Active:    len(active),
			IsPerfect: len(active) > 0 && count >= len(active),
		})
		if i < n-1 {
			day, err = c.AddDays(day, 1)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
