package app

import "errors"

// Service errors mapped to HTTP statuses at the web layer. Vendor error
// details are logged server-side and never echoed to the client.
var (
	// ErrBurstLimited means the caller exceeded the per-window burst cap (429).
	ErrBurstLimited = errors.New("too many requests, slow down")

	// ErrDailyQuotaExceeded means the free-tier daily cap was reached (402).
	ErrDailyQuotaExceeded = errors.New("daily free limit reached")

	// ErrChallengeRequired means a challenge token was expected but absent (401).
	ErrChallengeRequired = errors.New("verification required")

	// ErrChallengeFailed means the submitted challenge token did not verify (401).
	ErrChallengeFailed = errors.New("verification failed")

	// ErrUpstream means the completion vendor call failed (502).
	ErrUpstream = errors.New("generation service unavailable")

	// ErrUnknownPlan means the requested plan has no configured price (400).
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrNoActiveSubscription means the checkout session has no claimable
	// subscription (402).
	ErrNoActiveSubscription = errors.New("no active subscription")

	// ErrBillingDisabled means no payment provider is configured (503).
	ErrBillingDisabled = errors.New("billing is not enabled")
)
