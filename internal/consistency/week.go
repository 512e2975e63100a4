package consistency

import (
	"slices"
	"time"
)

// isoWeek is a (year, week) pair under ISO-8601 week numbering.
type isoWeek struct {
	year int
	week int
}

// WeeklyStreak returns the number of consecutive ISO weeks containing at
// least one completion, ending at the week containing now. If the current
// week has no completion the streak is 0 — there is no grace week.
//
// One week convention applies everywhere: ISO-8601 (Thursday-anchored) week
// numbers computed from anchored instants, for stored keys and for "now"
// alike. Year boundaries need no special casing: the week preceding week 1 of
// year Y is found by stepping an anchor back seven days, which lands in week
// 52 or 53 of Y-1.
func (c *Calendar) WeeklyStreak(records []Record, now time.Time) (int, error) {
	days := distinctDays(records, "")
	if len(days) == 0 {
		return 0, nil
	}
	slices.Sort(days)
	slices.Reverse(days)

	// Distinct weeks, most recent first, each with a representative anchor
	// used to step backwards across year boundaries.
	var weeks []isoWeek
	anchors := make(map[isoWeek]time.Time)
	for _, day := range days {
		anchor, err := c.Anchor(day)
		if err != nil {
			return 0, err
		}
		y, w := anchor.ISOWeek()
		pair := isoWeek{year: y, week: w}
		if _, ok := anchors[pair]; ok {
			continue
		}
		anchors[pair] = anchor
		weeks = append(weeks, pair)
	}

	nowAnchor, err := c.Anchor(c.Today(now))
	if err != nil {
		panic(err) // today's key always parses
	}
	y, w := nowAnchor.ISOWeek()
	if weeks[0] != (isoWeek{year: y, week: w}) {
		return 0, nil
	}

	streak := 1
	expectedAnchor := anchors[weeks[0]].AddDate(0, 0, -7)
	for _, pair := range weeks[1:] {
		ey, ew := expectedAnchor.ISOWeek()
		if pair != (isoWeek{year: ey, week: ew}) {
			break
		}
		streak++
		expectedAnchor = anchors[pair].AddDate(0, 0, -7)
	}
	return streak, nil
}

// WeekdayCounts returns per-weekday completion counts for one habit,
// Sunday-indexed. Used for "best day" stats.
func (c *Calendar) WeekdayCounts(records []Record, habitID string) ([7]int, error) {
	var counts [7]int
	for _, r := range records {
		if habitID != "" && r.HabitID != habitID {
			continue
		}
		wd, err := c.Weekday(r.Day)
		if err != nil {
			return counts, err
		}
		counts[wd]++
	}
	return counts, nil
}
