package consistency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyStreak_Empty(t *testing.T) {
	c, now := fixedNow(t)

	got, err := c.WeeklyStreak(nil, now)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestWeeklyStreak_CurrentWeekOnly(t *testing.T) {
	c, now := fixedNow(t)

	got, err := c.WeeklyStreak([]Record{{HabitID: "hab-a", Day: c.Today(now)}}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestWeeklyStreak_ZeroWithoutCurrentWeek(t *testing.T) {
	c, now := fixedNow(t)

	// Two consecutive weeks of activity, but none in the current week.
	records := []Record{
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 14)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 21)},
	}
	got, err := c.WeeklyStreak(records, now)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestWeeklyStreak_ConsecutiveWeeks(t *testing.T) {
	c, now := fixedNow(t)

	// One completion in each of the current and two preceding ISO weeks.
	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-b", Day: daysAgo(t, c, now, 7)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 14)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 28)}, // gap: two weeks back from there
	}
	got, err := c.WeeklyStreak(records, now)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestWeeklyStreak_MultipleDaysOneWeek(t *testing.T) {
	c, now := fixedNow(t)

	// Several completions inside the same week count as one week.
	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 1)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 2)},
	}
	got, err := c.WeeklyStreak(records, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestWeeklyStreak_YearBoundary(t *testing.T) {
	c := chicago(t)
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// ISO week 52 of 2025 runs Dec 22-28; ISO week 1 of 2026 runs
	// Dec 29 - Jan 4. Consecutive weeks across the year boundary.
	now := time.Date(2025, 12, 30, 10, 0, 0, 0, loc)
	records := []Record{
		{HabitID: "hab-a", Day: "2025-12-26"}, // week 52, 2025
		{HabitID: "hab-a", Day: "2025-12-30"}, // week 1, 2026
	}
	got, err := c.WeeklyStreak(records, now)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestWeeklyStreak_MalformedKey(t *testing.T) {
	c, now := fixedNow(t)

	_, err := c.WeeklyStreak([]Record{{HabitID: "hab-a", Day: "junk"}}, now)
	assert.Error(t, err)
}

func TestWeekdayCounts(t *testing.T) {
	c := chicago(t)

	records := []Record{
		{HabitID: "hab-a", Day: "2025-06-15"}, // Sunday
		{HabitID: "hab-a", Day: "2025-06-22"}, // Sunday
		{HabitID: "hab-a", Day: "2025-06-18"}, // Wednesday
		{HabitID: "hab-b", Day: "2025-06-19"}, // other habit, filtered out
	}
	counts, err := c.WeekdayCounts(records, "hab-a")
	require.NoError(t, err)
	assert.Equal(t, [7]int{2, 0, 0, 1, 0, 0, 0}, counts)
}
