// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/zackdaniels09/autopitch-ai/domain/billing"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/domain/quota"
	"github.com/zackdaniels09/autopitch-ai/domain/ratelimit"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// -----------------------------------------------------------------------------
// State Store Ports
// -----------------------------------------------------------------------------

// QuotaStore persists per-identity daily usage state. The reference
// implementation is in-memory: a restart resets every counter and nothing
// coordinates across processes. The interface exists so a shared backing
// store can be swapped in without touching call sites.
type QuotaStore interface {
	// Get retrieves the day state for an identity key.
	Get(ctx context.Context, key string) (quota.DayState, error)

	// Set replaces the day state for an identity key.
	Set(ctx context.Context, key string, state quota.DayState) error

	// Aggregate summarizes all identities seen on the given UTC day.
	Aggregate(ctx context.Context, day string) (quota.Aggregate, error)
}

// RateLimitStore persists burst-window state per identity.
type RateLimitStore interface {
	// Get retrieves current rate limit state for an identity.
	Get(ctx context.Context, key string) (ratelimit.WindowState, error)

	// Set updates rate limit state for an identity.
	Set(ctx context.Context, key string, state ratelimit.WindowState) error
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// Completer requests completions from the LLM vendor.
type Completer interface {
	// Complete sends the composed prompt and returns n candidate texts in
	// a single vendor call. Fewer than n may come back.
	Complete(ctx context.Context, prompt string, n int) ([]string, error)

	// Model returns the configured model name (for the health endpoint).
	Model() string
}

// ChallengeVerifier confirms a human-verification token with the vendor.
type ChallengeVerifier interface {
	// Verify checks the client-submitted token for the caller's address.
	// Any network or vendor failure is a verification failure (fail closed).
	Verify(ctx context.Context, token, remoteIP string) error
}

// PaymentProvider interfaces with the payments vendor (Stripe).
type PaymentProvider interface {
	// CreateCheckoutSession starts a subscription checkout for a price.
	CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (url string, err error)

	// GetCheckoutSession retrieves a checkout session by its opaque ID.
	GetCheckoutSession(ctx context.Context, sessionID string) (billing.CheckoutSession, error)

	// GetSubscription retrieves subscription details.
	GetSubscription(ctx context.Context, subscriptionID string) (billing.Subscription, error)

	// CreatePortalSession creates a self-service management session.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (url string, err error)

	// FindCustomerByEmail resolves a customer ID from an email address.
	FindCustomerByEmail(ctx context.Context, email string) (customerID string, err error)

	// ParseWebhook parses and validates an incoming vendor webhook.
	ParseWebhook(payload []byte, signature string) (eventType string, data map[string]any, err error)
}

// -----------------------------------------------------------------------------
// Entitlement Ports
// -----------------------------------------------------------------------------

// EntitlementSigner issues and verifies the signed entitlement token
// carried in the client cookie.
type EntitlementSigner interface {
	// Issue creates a signed token asserting the plan until now+validity.
	Issue(plan entitlement.Plan, now time.Time) (token string, expiresAt time.Time, err error)

	// Verify validates a token and returns its claims.
	Verify(token string) (entitlement.Claims, error)
}
