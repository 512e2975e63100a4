package domain

import "time"

// RecurrenceKind determines which days a habit is due.
type RecurrenceKind string

const (
	// RecurrenceDaily means the habit is due every day.
	RecurrenceDaily RecurrenceKind = "daily"
	// RecurrenceWeekdays means the habit is due Monday through Friday.
	RecurrenceWeekdays RecurrenceKind = "weekdays"
	// RecurrenceCustom means the habit is due on an explicit weekday set.
	RecurrenceCustom RecurrenceKind = "custom"
)

// Recurrence describes a habit's schedule. Days is only meaningful for
// RecurrenceCustom and holds weekday indices, Sunday = 0.
type Recurrence struct {
	Kind RecurrenceKind `json:"kind"`
	Days []int          `json:"days,omitempty"`
}

// Valid reports whether the recurrence is well-formed.
func (r Recurrence) Valid() bool {
	switch r.Kind {
	case RecurrenceDaily, RecurrenceWeekdays:
		return true
	case RecurrenceCustom:
		if len(r.Days) == 0 {
			return false
		}
		for _, d := range r.Days {
			if d < 0 || d > 6 {
				return false
			}
		}
		return true
	}
	return false
}

// DueOn reports whether the habit is scheduled for the given weekday.
func (r Recurrence) DueOn(wd time.Weekday) bool {
	switch r.Kind {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekdays:
		return wd >= time.Monday && wd <= time.Friday
	case RecurrenceCustom:
		for _, d := range r.Days {
			if time.Weekday(d) == wd {
				return true
			}
		}
	}
	return false
}

// Habit is something the user is trying to do regularly. Completions record
// the days it was actually done; the consistency engine turns those into
// streaks and heatmaps.
type Habit struct {
	Entity
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Emoji      string     `json:"emoji,omitempty"`
	Color      string     `json:"color,omitempty"`
	Recurrence Recurrence `json:"recurrence"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// IsArchived reports whether the habit has been archived. Archived habits
// keep their history but drop out of active streak and perfect-day math.
func (h *Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// Archive marks the habit archived as of now. No-op if already archived.
func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}
	now := time.Now()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

// Unarchive restores an archived habit to the active set.
func (h *Habit) Unarchive() {
	h.ArchivedAt = nil
	h.Touch()
}
