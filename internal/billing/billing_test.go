package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-server/internal/domain"
)

const testSecret = "whsec_test_secret"

// signPayload builds a valid Stripe-Signature header for the payload.
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature_Valid(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated"}`)
	header := signPayload(payload, testSecret, now)

	assert.NoError(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now))
}

func TestVerifySignature_MultipleV1(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)

	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.", now.Unix())
	mac.Write(payload)
	goodSig := hex.EncodeToString(mac.Sum(nil))

	// Stale secret's signature first, current one second (secret rotation).
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), hex.EncodeToString(make([]byte, 32)), goodSig)
	assert.NoError(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now))
}

func TestVerifySignature_Rejections(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	header := signPayload(payload, testSecret, now)

	// Wrong secret.
	assert.Error(t, VerifySignature(payload, header, "whsec_other", DefaultTolerance, now))

	// Tampered payload.
	assert.Error(t, VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, DefaultTolerance, now))

	// Stale timestamp.
	old := signPayload(payload, testSecret, now.Add(-10*time.Minute))
	assert.Error(t, VerifySignature(payload, old, testSecret, DefaultTolerance, now))

	// Missing or malformed headers.
	assert.Error(t, VerifySignature(payload, "", testSecret, DefaultTolerance, now))
	assert.Error(t, VerifySignature(payload, "v1=deadbeef", testSecret, DefaultTolerance, now))
	assert.Error(t, VerifySignature(payload, fmt.Sprintf("t=%d", now.Unix()), testSecret, DefaultTolerance, now))

	// Unconfigured secret.
	assert.Error(t, VerifySignature(payload, header, "", DefaultTolerance, now))
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_1", "customer": "cus_1", "status": "active",
			"current_period_end": 1750000000, "cancel_at_period_end": true,
			"items": {"data": [{"price": {"id": "price_1"}}]}}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)

	var sub Subscription
	require.NoError(t, ev.DecodeObject(&sub))
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "cus_1", sub.Customer)
	assert.Equal(t, "price_1", sub.PriceID())
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, int64(1750000000), sub.CurrentPeriodEnd)
}

func TestParseEvent_Invalid(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"type":"x"}`))
	assert.Error(t, err, "missing id")
}

func TestMapStatus(t *testing.T) {
	cases := map[string]domain.SubscriptionStatus{
		"active":             domain.SubscriptionActive,
		"trialing":           domain.SubscriptionTrialing,
		"past_due":           domain.SubscriptionPastDue,
		"unpaid":             domain.SubscriptionPastDue,
		"canceled":           domain.SubscriptionCanceled,
		"incomplete_expired": domain.SubscriptionCanceled,
		"incomplete":         domain.SubscriptionFree,
		"paused":             domain.SubscriptionFree,
		"":                   domain.SubscriptionFree,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapStatus(in), "stripe status %q", in)
	}
}

func TestUnixTime(t *testing.T) {
	assert.Nil(t, UnixTime(0))

	got := UnixTime(1750000000)
	require.NotNil(t, got)
	assert.Equal(t, int64(1750000000), got.Unix())
}
