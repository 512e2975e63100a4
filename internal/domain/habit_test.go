package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecurrenceValid(t *testing.T) {
	assert.True(t, Recurrence{Kind: RecurrenceDaily}.Valid())
	assert.True(t, Recurrence{Kind: RecurrenceWeekdays}.Valid())
	assert.True(t, Recurrence{Kind: RecurrenceCustom, Days: []int{0, 6}}.Valid())

	assert.False(t, Recurrence{Kind: RecurrenceCustom}.Valid(), "custom needs at least one day")
	assert.False(t, Recurrence{Kind: RecurrenceCustom, Days: []int{7}}.Valid())
	assert.False(t, Recurrence{Kind: "hourly"}.Valid())
}

func TestRecurrenceDueOn(t *testing.T) {
	daily := Recurrence{Kind: RecurrenceDaily}
	assert.True(t, daily.DueOn(time.Sunday))
	assert.True(t, daily.DueOn(time.Wednesday))

	weekdays := Recurrence{Kind: RecurrenceWeekdays}
	assert.True(t, weekdays.DueOn(time.Monday))
	assert.True(t, weekdays.DueOn(time.Friday))
	assert.False(t, weekdays.DueOn(time.Saturday))
	assert.False(t, weekdays.DueOn(time.Sunday))

	custom := Recurrence{Kind: RecurrenceCustom, Days: []int{2, 4}}
	assert.True(t, custom.DueOn(time.Tuesday))
	assert.False(t, custom.DueOn(time.Monday))
}

func TestHabitArchive(t *testing.T) {
	h := &Habit{Name: "Read"}
	h.InitTimestamps()
	assert.False(t, h.IsArchived())

	h.Archive()
	assert.True(t, h.IsArchived())
	first := *h.ArchivedAt

	// Archiving again keeps the original timestamp.
	h.Archive()
	assert.Equal(t, first, *h.ArchivedAt)

	h.Unarchive()
	assert.False(t, h.IsArchived())
}

func TestSubscriptionIsPremium(t *testing.T) {
	cases := map[SubscriptionStatus]bool{
		SubscriptionFree:     false,
		SubscriptionTrialing: true,
		SubscriptionActive:   true,
		SubscriptionPastDue:  true,
		SubscriptionCanceled: false,
	}
	for status, want := range cases {
		s := &Subscription{Status: status}
		assert.Equal(t, want, s.IsPremium(), "status %s", status)
	}
}
