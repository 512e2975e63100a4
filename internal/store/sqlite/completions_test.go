package sqlite

import (
	"context"
	"testing"

	"github.com/habitloop/habitloop-server/internal/store"
)

func TestCreateCompletion_IdempotentPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "usr-1")
	h := seedHabit(t, s, "hab-1", u.ID)

	created, err := s.CreateCompletion(ctx, makeTestCompletion("comp-1", h.ID, u.ID, "2025-06-15"))
	if err != nil {
		t.Fatalf("CreateCompletion: %v", err)
	}
	if !created {
		t.Error("first insert should report created")
	}

	// Same habit and day again, different ID: silently ignored.
	created, err = s.CreateCompletion(ctx, makeTestCompletion("comp-2", h.ID, u.ID, "2025-06-15"))
	if err != nil {
		t.Fatalf("CreateCompletion duplicate: %v", err)
	}
	if created {
		t.Error("duplicate insert should report not created")
	}

	comps, err := s.ListCompletions(ctx, u.ID, store.CompletionFilter{})
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(comps) != 1 {
		t.Errorf("expected exactly one completion, got %d", len(comps))
	}
}

func TestDeleteCompletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "usr-1")
	h := seedHabit(t, s, "hab-1", u.ID)
	if _, err := s.CreateCompletion(ctx, makeTestCompletion("comp-1", h.ID, u.ID, "2025-06-15")); err != nil {
		t.Fatalf("CreateCompletion: %v", err)
	}

	deleted, err := s.DeleteCompletion(ctx, h.ID, "2025-06-15")
	if err != nil {
		t.Fatalf("DeleteCompletion: %v", err)
	}
	if !deleted {
		t.Error("expected a row to be deleted")
	}

	// Deleting again is a no-op, not an error.
	deleted, err = s.DeleteCompletion(ctx, h.ID, "2025-06-15")
	if err != nil {
		t.Fatalf("DeleteCompletion repeat: %v", err)
	}
	if deleted {
		t.Error("second delete should report nothing deleted")
	}
}

func TestListCompletions_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "usr-1")
	h1 := seedHabit(t, s, "hab-1", u.ID)
	h2 := seedHabit(t, s, "hab-2", u.ID)

	days := []struct {
		id, habit, day string
	}{
		{"comp-1", h1.ID, "2025-06-10"},
		{"comp-2", h1.ID, "2025-06-15"},
		{"comp-3", h2.ID, "2025-06-15"},
		{"comp-4", h1.ID, "2025-06-20"},
	}
	for _, d := range days {
		if _, err := s.CreateCompletion(ctx, makeTestCompletion(d.id, d.habit, u.ID, d.day)); err != nil {
			t.Fatalf("CreateCompletion %s: %v", d.id, err)
		}
	}

	// Day range is inclusive on both ends.
	got, err := s.ListCompletions(ctx, u.ID, store.CompletionFilter{From: "2025-06-15", To: "2025-06-20"})
	if err != nil {
		t.Fatalf("ListCompletions range: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("range filter returned %d completions, want 3", len(got))
	}

	// Habit filter.
	got, err = s.ListCompletions(ctx, u.ID, store.CompletionFilter{HabitID: h2.ID})
	if err != nil {
		t.Fatalf("ListCompletions habit: %v", err)
	}
	if len(got) != 1 || got[0].ID != "comp-3" {
		t.Errorf("habit filter returned %+v", got)
	}

	// Ordered by day ascending.
	got, err = s.ListCompletions(ctx, u.ID, store.CompletionFilter{})
	if err != nil {
		t.Fatalf("ListCompletions all: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Day > got[i].Day {
			t.Errorf("completions out of order: %s before %s", got[i-1].Day, got[i].Day)
		}
	}
}
