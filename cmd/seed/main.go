// Package main provides a tool to seed the database with demo habit data.
//
// It creates a demo user with a handful of habits and a few months of
// realistic completion history, so streaks, heatmaps and weekly stats have
// something to show during development.
//
// Usage:
//
//	DB_PATH=~/habitloop/habitloop.db go run ./cmd/seed
//	go run ./cmd/seed --email demo@habitloop.dev --days 180
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/habitloop/habitloop-server/internal/auth"
	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/id"
	"github.com/habitloop/habitloop-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@habitloop.dev", "Email for the demo user")
	password = flag.String("password", "demo-password-123", "Password for the demo user")
	days     = flag.Int("days", 120, "Days of completion history to generate")
	zone     = flag.String("zone", "America/Chicago", "Anchor timezone for day keys")
)

// seedHabit pairs a habit definition with how reliably the demo user does it.
type seedHabit struct {
	name       string
	emoji      string
	color      string
	recurrence domain.Recurrence
	adherence  float64
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/habitloop/habitloop.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	calendar, err := consistency.NewCalendar(*zone)
	if err != nil {
		log.Fatalf("Invalid anchor timezone %q: %v", *zone, err)
	}

	ctx := context.Background()
	user := ensureUser(ctx, s)

	habits := []seedHabit{
		{"Read 20 minutes", "📚", "#34d399", domain.Recurrence{Kind: domain.RecurrenceDaily}, 0.85},
		{"Morning run", "🏃", "#f87171", domain.Recurrence{Kind: domain.RecurrenceCustom, Days: []int{1, 3, 5}}, 0.7},
		{"Meditate", "🧘", "#818cf8", domain.Recurrence{Kind: domain.RecurrenceDaily}, 0.6},
		{"Practice guitar", "🎸", "#fbbf24", domain.Recurrence{Kind: domain.RecurrenceWeekdays}, 0.5},
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := calendar.Today(time.Now())

	for _, sh := range habits {
		habit := &domain.Habit{
			UserID:     user.ID,
			Name:       sh.name,
			Emoji:      sh.emoji,
			Color:      sh.color,
			Recurrence: sh.recurrence,
		}
		habit.ID = id.MustGenerate(id.PrefixHabit)
		habit.InitTimestamps()

		if err := s.CreateHabit(ctx, habit); err != nil {
			log.Fatalf("Failed to create habit %q: %v", sh.name, err)
		}

		count := seedCompletions(ctx, s, calendar, rng, user.ID, habit.ID, today, sh.adherence)
		fmt.Printf("Created habit %q with %d completions\n", sh.name, count)
	}

	fmt.Printf("\nDone. Log in as %s / %s\n", *email, *password)
}

// ensureUser creates the demo user, or reuses it if seeding ran before.
func ensureUser(ctx context.Context, s *sqlite.Store) *domain.User {
	if existing, err := s.GetUserByEmail(ctx, *email); err == nil {
		fmt.Printf("Reusing existing user %s\n", existing.ID)
		return existing
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        *email,
		PasswordHash: hash,
		DisplayName:  "Demo User",
	}
	user.ID = id.MustGenerate(id.PrefixUser)
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	if err := s.PutUserSettings(ctx, domain.NewUserSettings(user.ID)); err != nil {
		log.Fatalf("Failed to create settings: %v", err)
	}
	if err := s.UpsertSubscription(ctx, domain.NewSubscription(user.ID)); err != nil {
		log.Fatalf("Failed to create subscription: %v", err)
	}

	fmt.Printf("Created user %s\n", user.ID)
	return user
}

// seedCompletions walks backwards from today, completing the habit with the
// given probability on each day. Recent days get a boost so the demo user
// usually has a live streak.
func seedCompletions(ctx context.Context, s *sqlite.Store, calendar *consistency.Calendar, rng *rand.Rand, userID, habitID, today string, adherence float64) int {
	count := 0
	day := today

	for i := 0; i < *days; i++ {
		p := adherence
		if i < 7 {
			p += (1 - p) * 0.8
		}

		if rng.Float64() < p {
			completion := &domain.Completion{
				ID:        id.MustGenerate(id.PrefixCompletion),
				HabitID:   habitID,
				UserID:    userID,
				Day:       day,
				CreatedAt: time.Now(),
			}
			if _, err := s.CreateCompletion(ctx, completion); err != nil {
				log.Fatalf("Failed to create completion: %v", err)
			}
			count++
		}

		prev, err := calendar.AddDays(day, -1)
		if err != nil {
			log.Fatalf("Failed to step day key: %v", err)
		}
		day = prev
	}

	return count
}
