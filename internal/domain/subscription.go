package domain

import "time"

// SubscriptionStatus is the billing state of a user's subscription.
type SubscriptionStatus string

const (
	// SubscriptionFree is the default state for users with no paid plan.
	SubscriptionFree SubscriptionStatus = "free"
	// SubscriptionTrialing means the user is inside a Stripe trial period.
	SubscriptionTrialing SubscriptionStatus = "trialing"
	// SubscriptionActive means payment is current.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionPastDue means the latest payment failed but Stripe is
	// still retrying.
	SubscriptionPastDue SubscriptionStatus = "past_due"
	// SubscriptionCanceled means the subscription ended.
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription mirrors the user's Stripe subscription state. Rows are
// written only by the billing webhook handler; the rest of the app reads
// them to gate premium features.
type Subscription struct {
	UserID               string             `json:"user_id"`
	StripeCustomerID     string             `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string             `json:"stripe_subscription_id,omitempty"`
	PriceID              string             `json:"price_id,omitempty"`
	Status               SubscriptionStatus `json:"status"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool               `json:"cancel_at_period_end"`
	TrialStart           *time.Time         `json:"trial_start,omitempty"`
	TrialEnd             *time.Time         `json:"trial_end,omitempty"`

	// IsTrialUser latches true the first time the user enters a trial and
	// never resets, so a second trial can't be granted.
	IsTrialUser bool `json:"is_trial_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubscription creates the default free-tier row for a new user.
func NewSubscription(userID string) *Subscription {
	now := time.Now()
	return &Subscription{
		UserID:    userID,
		Status:    SubscriptionFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPremium reports whether the user currently has paid-tier access.
// Past-due users keep access while Stripe retries the charge.
func (s *Subscription) IsPremium() bool {
	switch s.Status {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue:
		return true
	}
	return false
}
