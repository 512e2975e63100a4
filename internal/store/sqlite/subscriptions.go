package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

const subscriptionColumns = `user_id, stripe_customer_id, stripe_subscription_id, price_id, status,
	current_period_end, cancel_at_period_end, trial_start, trial_end, is_trial_user, created_at, updated_at`

func scanSubscription(scanner interface{ Scan(dest ...any) error }) (*domain.Subscription, error) {
	var sub domain.Subscription
	var status, createdAt, updatedAt string
	var periodEnd, trialStart, trialEnd sql.NullString
	var cancelAtPeriodEnd, isTrialUser int

	err := scanner.Scan(
		&sub.UserID,
		&sub.StripeCustomerID,
		&sub.StripeSubscriptionID,
		&sub.PriceID,
		&status,
		&periodEnd,
		&cancelAtPeriodEnd,
		&trialStart,
		&trialEnd,
		&isTrialUser,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Status = domain.SubscriptionStatus(status)
	sub.CancelAtPeriodEnd = cancelAtPeriodEnd != 0
	sub.IsTrialUser = isTrialUser != 0

	if sub.CurrentPeriodEnd, err = parseNullableTime(periodEnd); err != nil {
		return nil, err
	}
	if sub.TrialStart, err = parseNullableTime(trialStart); err != nil {
		return nil, err
	}
	if sub.TrialEnd, err = parseNullableTime(trialEnd); err != nil {
		return nil, err
	}
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &sub, nil
}

// GetSubscription retrieves a user's billing state.
// Returns store.ErrNotFound if no row exists yet.
func (s *Store) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ?`, userID)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscriptionByCustomerID looks up billing state by Stripe customer ID.
// Returns store.ErrNotFound if no row matches.
func (s *Store) GetSubscriptionByCustomerID(ctx context.Context, customerID string) (*domain.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_customer_id = ?`, customerID)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpsertSubscription creates or replaces a user's billing state.
func (s *Store) UpsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = excluded.stripe_customer_id,
			stripe_subscription_id = excluded.stripe_subscription_id,
			price_id = excluded.price_id,
			status = excluded.status,
			current_period_end = excluded.current_period_end,
			cancel_at_period_end = excluded.cancel_at_period_end,
			trial_start = excluded.trial_start,
			trial_end = excluded.trial_end,
			is_trial_user = excluded.is_trial_user,
			updated_at = excluded.updated_at`,
		sub.UserID,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.PriceID,
		string(sub.Status),
		nullTimeString(sub.CurrentPeriodEnd),
		boolToInt(sub.CancelAtPeriodEnd),
		nullTimeString(sub.TrialStart),
		nullTimeString(sub.TrialEnd),
		boolToInt(sub.IsTrialUser),
		formatTime(sub.CreatedAt),
		formatTime(sub.UpdatedAt),
	)
	return err
}
