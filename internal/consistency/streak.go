package consistency

import (
	"slices"
	"time"
)

// Streak returns the length of the unbroken run of consecutive days ending at
// the most recent of the given day keys, but only when that run reaches today
// or yesterday. A user who has not acted yet today keeps their streak until a
// full day passes: completions on exactly {today-3, today-2, today-1} still
// count as 3, while a run ending before yesterday counts as 0.
//
// Duplicate keys collapse. Keys later than today are tolerated (clock skew);
// the walk only inspects relative ordering. A malformed key is a caller
// contract violation and returns an error rather than a plausible-but-wrong
// count.
func (c *Calendar) Streak(days []string, now time.Time) (int, error) {
	uniq := slices.Clone(days)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	slices.Reverse(uniq) // most recent first; keys sort lexically as dates

	if len(uniq) == 0 {
		return 0, nil
	}

	yesterday := c.Yesterday(now)
	if uniq[0] < yesterday {
		return 0, nil
	}

	streak := 1
	current := uniq[0]
	for _, day := range uniq[1:] {
		prev, err := c.AddDays(current, -1)
		if err != nil {
			return 0, err
		}
		if day != prev {
			break
		}
		streak++
		current = prev
	}

	// Validate the head key even when the walk never ran, so malformed input
	// fails loudly instead of being counted as a one-day streak.
	if len(uniq) == 1 {
		if _, err := c.Anchor(uniq[0]); err != nil {
			return 0, err
		}
	}

	return streak, nil
}

// HabitStreak returns the current streak for one habit.
func (c *Calendar) HabitStreak(records []Record, habitID string, now time.Time) (int, error) {
	return c.Streak(distinctDays(records, habitID), now)
}

// GlobalStreak returns the current streak over the union of all records:
// a day counts once no matter how many habits were completed on it.
func (c *Calendar) GlobalStreak(records []Record, now time.Time) (int, error) {
	return c.Streak(distinctDays(records, ""), now)
}

// WeekCompletionCount returns the number of distinct days with at least one
// completion inside the Sunday-start week containing now.
func (c *Calendar) WeekCompletionCount(records []Record, now time.Time) (int, error) {
	week, err := c.WeekDays(c.Today(now))
	if err != nil {
		return 0, err
	}
	start, end := week[0], week[6]

	count := 0
	for _, day := range distinctDays(records, "") {
		if day >= start && day <= end {
			count++
		}
	}
	return count, nil
}
