package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/http/response"
)

// maxWebhookBody bounds the accepted webhook payload size.
const maxWebhookBody = 1 << 20 // 1 MiB

func (s *Server) registerBillingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSubscription",
		Method:      http.MethodGet,
		Path:        "/api/v1/billing/subscription",
		Summary:     "Get subscription",
		Description: "Returns the user's current subscription state",
		Tags:        []string{"Billing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSubscription)

	// The webhook bypasses huma: signature verification needs the raw,
	// unmodified request body.
	s.router.Post("/api/v1/billing/webhook", s.handleBillingWebhook)
}

// === DTOs ===

// SubscriptionResponse contains subscription state in API responses.
type SubscriptionResponse struct {
	Status            string     `json:"status" doc:"free, trialing, active, past_due or canceled"`
	IsPremium         bool       `json:"is_premium" doc:"Whether paid-tier features are available"`
	PriceID           string     `json:"price_id,omitempty" doc:"Stripe price ID"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty" doc:"End of the paid period"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end" doc:"Whether the subscription ends at the period boundary"`
	TrialEnd          *time.Time `json:"trial_end,omitempty" doc:"End of the trial period"`
	IsTrialUser       bool       `json:"is_trial_user" doc:"Whether the user has ever had a trial"`
}

// SubscriptionOutput wraps the subscription response for Huma.
type SubscriptionOutput struct {
	Body SubscriptionResponse
}

// === Handlers ===

func (s *Server) handleGetSubscription(ctx context.Context, input *AuthedInput) (*SubscriptionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sub, err := s.services.Billing.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SubscriptionOutput{Body: mapSubscriptionResponse(sub)}, nil
}

// handleBillingWebhook receives Stripe event deliveries. Stripe retries on
// any non-2xx, so only genuine failures return errors.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "failed to read request body", s.logger)
		return
	}

	if err := s.services.Billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		s.logger.Warn("Webhook rejected", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"received": true}, s.logger)
}

func mapSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		Status:            string(sub.Status),
		IsPremium:         sub.IsPremium(),
		PriceID:           sub.PriceID,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		TrialEnd:          sub.TrialEnd,
		IsTrialUser:       sub.IsTrialUser,
	}
}
