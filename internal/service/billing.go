package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/habitloop/habitloop-server/internal/billing"
	"github.com/habitloop/habitloop-server/internal/domain"
	domainerrors "github.com/habitloop/habitloop-server/internal/errors"
	"github.com/habitloop/habitloop-server/internal/ledger"
	"github.com/habitloop/habitloop-server/internal/store"
)

// BillingService applies Stripe webhook events to subscription rows and
// serves the current subscription state. Every event goes through the
// idempotency ledger first; a redelivered event is acknowledged without
// being applied twice.
type BillingService struct {
	store     store.Store
	ledger    *ledger.Ledger
	secret    string
	tolerance time.Duration
	logger    *slog.Logger
}

// NewBillingService creates a new billing service. secret is the Stripe
// webhook signing secret; tolerance bounds the accepted signature age.
func NewBillingService(store store.Store, ledger *ledger.Ledger, secret string, tolerance time.Duration, logger *slog.Logger) *BillingService {
	return &BillingService{
		store:     store,
		ledger:    ledger,
		secret:    secret,
		tolerance: tolerance,
		logger:    logger,
	}
}

// GetSubscription returns the user's subscription state. Users without a
// row read as free tier.
func (s *BillingService) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NewSubscription(userID), nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// HandleWebhook verifies, deduplicates and applies one Stripe webhook
// delivery. A nil return means the event should be acknowledged with 200,
// including duplicates and event types this server doesn't react to.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := billing.VerifySignature(payload, sigHeader, s.secret, s.tolerance, time.Now()); err != nil {
		return domainerrors.Unauthorized("invalid webhook signature").WithCause(err)
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		return domainerrors.Validation("malformed webhook payload").WithCause(err)
	}

	// Ledger first: redeliveries of an already-applied event must not be
	// applied again.
	first, err := s.ledger.MarkProcessed(event.ID)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	if !first {
		if s.logger != nil {
			s.logger.Info("Duplicate webhook event ignored",
				"event_id", event.ID,
				"type", event.Type,
			)
		}
		return nil
	}

	switch event.Type {
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
		err = s.applySubscription(ctx, event)
	case billing.EventSubscriptionDeleted:
		err = s.applyDeleted(ctx, event)
	case billing.EventPaymentFailed:
		err = s.applyPaymentFailed(ctx, event)
	case billing.EventCheckoutCompleted:
		err = s.applyCheckout(ctx, event)
	default:
		if s.logger != nil {
			s.logger.Debug("Ignoring webhook event type", "type", event.Type)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply %s: %w", event.Type, err)
	}

	if s.logger != nil {
		s.logger.Info("Webhook event applied",
			"event_id", event.ID,
			"type", event.Type,
		)
	}
	return nil
}

// applySubscription handles subscription created/updated events.
func (s *BillingService) applySubscription(ctx context.Context, event *billing.Event) error {
	var payload billing.Subscription
	if err := event.DecodeObject(&payload); err != nil {
		return err
	}

	sub, err := s.byCustomer(ctx, payload.Customer)
	if err != nil || sub == nil {
		return err
	}

	sub.StripeSubscriptionID = payload.ID
	sub.PriceID = payload.PriceID()
	sub.Status = billing.MapStatus(payload.Status)
	sub.CurrentPeriodEnd = billing.UnixTime(payload.CurrentPeriodEnd)
	sub.CancelAtPeriodEnd = payload.CancelAtPeriodEnd
	sub.TrialStart = billing.UnixTime(payload.TrialStart)
	sub.TrialEnd = billing.UnixTime(payload.TrialEnd)
	if sub.Status == domain.SubscriptionTrialing || sub.TrialStart != nil {
		// Latches permanently: one trial per user, ever.
		sub.IsTrialUser = true
	}
	sub.UpdatedAt = time.Now()

	return s.store.UpsertSubscription(ctx, sub)
}

// applyDeleted handles subscription deletion: the user drops to canceled.
func (s *BillingService) applyDeleted(ctx context.Context, event *billing.Event) error {
	var payload billing.Subscription
	if err := event.DecodeObject(&payload); err != nil {
		return err
	}

	sub, err := s.byCustomer(ctx, payload.Customer)
	if err != nil || sub == nil {
		return err
	}

	sub.Status = domain.SubscriptionCanceled
	sub.CancelAtPeriodEnd = false
	sub.UpdatedAt = time.Now()

	return s.store.UpsertSubscription(ctx, sub)
}

// applyPaymentFailed marks the subscription past due. Access is retained
// while Stripe retries the charge; a terminal failure arrives later as a
// subscription deleted event.
func (s *BillingService) applyPaymentFailed(ctx context.Context, event *billing.Event) error {
	var payload billing.Invoice
	if err := event.DecodeObject(&payload); err != nil {
		return err
	}

	sub, err := s.byCustomer(ctx, payload.Customer)
	if err != nil || sub == nil {
		return err
	}

	sub.Status = domain.SubscriptionPastDue
	sub.UpdatedAt = time.Now()

	return s.store.UpsertSubscription(ctx, sub)
}

// applyCheckout links the Stripe customer to our user after hosted
// checkout. client_reference_id carries the user ID through Stripe.
func (s *BillingService) applyCheckout(ctx context.Context, event *billing.Event) error {
	var payload billing.CheckoutSession
	if err := event.DecodeObject(&payload); err != nil {
		return err
	}
	if payload.ClientReferenceID == "" {
		if s.logger != nil {
			s.logger.Warn("Checkout session without client_reference_id", "event_id", event.ID)
		}
		return nil
	}

	sub, err := s.store.GetSubscription(ctx, payload.ClientReferenceID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("get subscription: %w", err)
		}
		sub = domain.NewSubscription(payload.ClientReferenceID)
	}

	sub.StripeCustomerID = payload.Customer
	// Activate optimistically; the subscription.created event that follows
	// carries the full status, price and period detail.
	sub.Status = domain.SubscriptionActive
	sub.UpdatedAt = time.Now()

	return s.store.UpsertSubscription(ctx, sub)
}

// byCustomer resolves a Stripe customer ID to a subscription row. A nil,
// nil return means no user is linked to the customer yet; the event is
// logged and acknowledged rather than retried forever.
func (s *BillingService) byCustomer(ctx context.Context, customerID string) (*domain.Subscription, error) {
	if customerID == "" {
		return nil, nil
	}
	sub, err := s.store.GetSubscriptionByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if s.logger != nil {
				s.logger.Warn("Webhook for unknown Stripe customer", "customer_id", customerID)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("lookup customer %s: %w", customerID, err)
	}
	return sub, nil
}
