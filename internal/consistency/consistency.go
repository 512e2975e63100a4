// Package consistency computes habit streaks and daily completion aggregates.
//
// All date logic is anchored to one fixed civil timezone: an instant is first
// normalized to a canonical day key ("2006-01-02" as observed in that zone),
// and every comparison, set membership and day-arithmetic operation happens on
// those keys. Mixing host-local dates with canonical keys is the primary
// correctness hazard this package exists to prevent.
//
// Everything here is pure computation over immutable input snapshots. Callers
// own fetching and mutation; they re-invoke these functions against a fresh
// snapshot whenever their data changes.
package consistency

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical calendar-day format for all date keys.
const DayKeyLayout = "2006-01-02"

// DefaultZone is the anchor timezone used when none is configured.
// It matches the product's original launch market.
const DefaultZone = "America/Chicago"

// Record is a single habit completion: one habit, one canonical day.
// Day must already be a canonical key in the calendar's anchor zone.
type Record struct {
	HabitID string `json:"habit_id"`
	Day     string `json:"date"`
}

// Calendar anchors day-key computations to a fixed civil timezone.
// The zero value is not usable; construct with NewCalendar or UTC.
type Calendar struct {
	loc  *time.Location
	zone string
}

// NewCalendar returns a calendar anchored to the named IANA timezone.
func NewCalendar(zone string) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load anchor timezone %q: %w", zone, err)
	}
	return &Calendar{loc: loc, zone: zone}, nil
}

// UTC returns a calendar anchored to raw UTC. This is the fallback policy
// when the configured zone is unavailable; it must then be used for the whole
// process so keys stay comparable.
func UTC() *Calendar {
	return &Calendar{loc: time.UTC, zone: "UTC"}
}

// Zone returns the anchor timezone name.
func (c *Calendar) Zone() string {
	return c.zone
}

// DayKey returns the canonical day key for an instant as observed in the
// anchor zone. Two instants on the same civil day produce the same key
// regardless of their own locations or offsets.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayKeyLayout)
}

// Anchor parses a canonical day key into an instant at local noon in the
// anchor zone. Noon is at least eleven hours from either civil-day boundary,
// so whole-day arithmetic on the result can never slip into an adjacent day
// across a DST transition. Anchor(d) always satisfies DayKey(Anchor(d)) == d.
func (c *Calendar) Anchor(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, day, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", day, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, c.loc), nil
}

// AddDays returns the day key n days after (or before, for negative n) the
// given key. AddDays(AddDays(d, n), -n) == d for every valid key.
func (c *Calendar) AddDays(day string, n int) (string, error) {
	anchor, err := c.Anchor(day)
	if err != nil {
		return "", err
	}
	return c.DayKey(anchor.AddDate(0, 0, n)), nil
}

// Today returns the canonical key of the civil day containing now.
func (c *Calendar) Today(now time.Time) string {
	return c.DayKey(now)
}

// Yesterday returns the canonical key of the civil day before the one
// containing now. Computed via the noon anchor, not by subtracting 24 hours,
// so it is stable across DST boundaries.
func (c *Calendar) Yesterday(now time.Time) string {
	day, err := c.AddDays(c.Today(now), -1)
	if err != nil {
		// Today's key is produced by this calendar and always parses.
		panic(err)
	}
	return day
}

// Weekday returns the weekday of a canonical day key (Sunday == 0).
func (c *Calendar) Weekday(day string) (time.Weekday, error) {
	anchor, err := c.Anchor(day)
	if err != nil {
		return 0, err
	}
	return anchor.Weekday(), nil
}

// WeekDays returns the seven day keys of the Sunday-start week containing the
// given day, oldest first. This is display windowing only; the weekly streak
// uses ISO week numbering (see WeeklyStreak).
func (c *Calendar) WeekDays(day string) ([]string, error) {
	wd, err := c.Weekday(day)
	if err != nil {
		return nil, err
	}
	start, err := c.AddDays(day, -int(wd))
	if err != nil {
		return nil, err
	}
	days := make([]string, 7)
	days[0] = start
	for i := 1; i < 7; i++ {
		days[i], err = c.AddDays(start, i)
		if err != nil {
			return nil, err
		}
	}
	return days, nil
}

// distinctDays returns the distinct day keys of records, optionally filtered
// to one habit, in no particular order.
func distinctDays(records []Record, habitID string) []string {
	seen := make(map[string]struct{}, len(records))
	days := make([]string, 0, len(records))
	for _, r := range records {
		if habitID != "" && r.HabitID != habitID {
			continue
		}
		if _, ok := seen[r.Day]; ok {
			continue
		}
		seen[r.Day] = struct{}{}
		days = append(days, r.Day)
	}
	return days
}
