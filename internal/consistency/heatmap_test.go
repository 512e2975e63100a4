package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatmap_EmptyWindowZeroFilled(t *testing.T) {
	c, now := fixedNow(t)

	w, err := c.Heatmap(nil, now, WindowOptions{Days: 7})
	require.NoError(t, err)
	require.Len(t, w.Buckets, 7)
	assert.Equal(t, daysAgo(t, c, now, 6), w.Buckets[0].Day)
	assert.Equal(t, c.Today(now), w.Buckets[6].Day)
	for _, b := range w.Buckets {
		assert.Zero(t, b.Count)
	}
	assert.Equal(t, 1, w.MaxCount, "intensity divisor never drops below one")
	assert.Zero(t, w.TotalCount)
}

func TestHeatmap_CountsAndAggregates(t *testing.T) {
	c, now := fixedNow(t)

	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-b", Day: c.Today(now)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 2)},
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 400)}, // outside the window
	}
	w, err := c.Heatmap(records, now, WindowOptions{Days: 7})
	require.NoError(t, err)
	require.Len(t, w.Buckets, 7)
	assert.Equal(t, 2, w.Buckets[6].Count)
	assert.Equal(t, 1, w.Buckets[4].Count)
	assert.Equal(t, 2, w.MaxCount)
	assert.Equal(t, 3, w.TotalCount)
}

func TestHeatmap_DefaultWindowLength(t *testing.T) {
	c, now := fixedNow(t)

	w, err := c.Heatmap(nil, now, WindowOptions{Days: HeatmapDays})
	require.NoError(t, err)
	assert.Len(t, w.Buckets, 371)
}

func TestHeatmap_HabitFilter(t *testing.T) {
	c, now := fixedNow(t)

	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-b", Day: c.Today(now)},
	}
	w, err := c.Heatmap(records, now, WindowOptions{Days: 7, HabitID: "hab-a"})
	require.NoError(t, err)
	assert.Equal(t, 1, w.Buckets[6].Count)
	assert.Equal(t, 1, w.TotalCount)
}

func TestHeatmap_ActiveHabitFilter(t *testing.T) {
	c, now := fixedNow(t)

	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-archived", Day: c.Today(now)},
	}
	w, err := c.Heatmap(records, now, WindowOptions{Days: 7, ActiveHabitIDs: []string{"hab-a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, w.Buckets[6].Count)
}

func TestHeatmap_InvalidWindow(t *testing.T) {
	c, now := fixedNow(t)

	_, err := c.Heatmap(nil, now, WindowOptions{Days: 0})
	assert.Error(t, err)
}

func TestPerfectDay(t *testing.T) {
	records := []Record{
		{HabitID: "hab-a", Day: "2025-06-15"},
		{HabitID: "hab-b", Day: "2025-06-15"},
		{HabitID: "hab-a", Day: "2025-06-14"},
	}
	active := []string{"hab-a", "hab-b"}

	assert.True(t, PerfectDay(records, active, "2025-06-15"))
	assert.False(t, PerfectDay(records, active, "2025-06-14"), "one of two active habits done")
	assert.False(t, PerfectDay(records, nil, "2025-06-15"), "no active habits, never perfect")
}

func TestLastNDays(t *testing.T) {
	c, now := fixedNow(t)

	records := []Record{
		{HabitID: "hab-a", Day: c.Today(now)},
		{HabitID: "hab-b", Day: c.Today(now)},
		{HabitID: "hab-a", Day: c.Today(now)}, // duplicate, distinct habits counted once
		{HabitID: "hab-a", Day: daysAgo(t, c, now, 1)},
		{HabitID: "hab-archived", Day: daysAgo(t, c, now, 1)},
	}
	strip, err := c.LastNDays(records, []string{"hab-a", "hab-b"}, now, 7)
	require.NoError(t, err)
	require.Len(t, strip, 7)

	today := strip[6]
	assert.Equal(t, c.Today(now), today.Day)
	assert.Equal(t, 2, today.Count)
	assert.Equal(t, 2, today.Active)
	assert.True(t, today.IsPerfect)

	yesterday := strip[5]
	assert.Equal(t, 1, yesterday.Count, "archived habit excluded")
	assert.False(t, yesterday.IsPerfect)

	assert.Zero(t, strip[0].Count)
}
