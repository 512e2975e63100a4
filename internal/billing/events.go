package billing

import (
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/habitloop/habitloop-server/internal/domain"
)

// Event types this server reacts to. Anything else is acknowledged and
// dropped.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentFailed       = "invoice.payment_failed"
	EventCheckoutCompleted   = "checkout.session.completed"
)

// Event is the envelope Stripe posts to the webhook endpoint.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object jsontext.Value `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a raw webhook body.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("event missing id or type")
	}
	return &ev, nil
}

// Subscription is the slice of Stripe's subscription object we use.
type Subscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	TrialStart        int64  `json:"trial_start"`
	TrialEnd          int64  `json:"trial_end"`
	Items             struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// PriceID returns the first line item's price, or empty.
func (s *Subscription) PriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

// Invoice is the slice of Stripe's invoice object we use.
type Invoice struct {
	Customer string `json:"customer"`
}

// CheckoutSession is the slice of Stripe's checkout session we use.
// ClientReferenceID carries our user ID through the hosted checkout flow.
type CheckoutSession struct {
	Customer          string `json:"customer"`
	ClientReferenceID string `json:"client_reference_id"`
}

// DecodeObject unmarshals the event's data.object into dest.
func (e *Event) DecodeObject(dest any) error {
	if err := json.Unmarshal(e.Data.Object, dest); err != nil {
		return fmt.Errorf("decode %s object: %w", e.Type, err)
	}
	return nil
}

// MapStatus translates a Stripe subscription status into ours.
func MapStatus(stripeStatus string) domain.SubscriptionStatus {
	switch stripeStatus {
	case "active":
		return domain.SubscriptionActive
	case "trialing":
		return domain.SubscriptionTrialing
	case "past_due", "unpaid":
		return domain.SubscriptionPastDue
	case "canceled", "incomplete_expired":
		return domain.SubscriptionCanceled
	default:
		return domain.SubscriptionFree
	}
}

// UnixTime converts a Stripe epoch-seconds field to *time.Time, nil for zero.
func UnixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
