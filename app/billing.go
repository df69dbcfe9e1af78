package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/zackdaniels09/autopitch-ai/adapters/metrics"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

// BillingService mediates checkout, claim and portal flows with the
// payments vendor. All subscription state lives at the vendor; the only
// local artifact is the signed entitlement token.
type BillingService struct {
	payment ports.PaymentProvider
	signer  ports.EntitlementSigner
	clock   ports.Clock
	prices  map[entitlement.Plan]string // plan -> vendor price ID
	baseURL string
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// BillingDeps contains dependencies for the billing service.
type BillingDeps struct {
	Payment ports.PaymentProvider
	Signer  ports.EntitlementSigner
	Clock   ports.Clock
	Prices  map[entitlement.Plan]string
	BaseURL string // Public base URL for redirect targets
	Metrics *metrics.Collector
	Logger  zerolog.Logger
}

// NewBillingService creates a new billing service.
func NewBillingService(deps BillingDeps) *BillingService {
	return &BillingService{
		payment: deps.Payment,
		signer:  deps.Signer,
		clock:   deps.Clock,
		prices:  deps.Prices,
		baseURL: deps.BaseURL,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

// Enabled reports whether a payment provider is configured.
func (s *BillingService) Enabled() bool {
	return s.payment != nil
}

// Checkout creates a vendor-hosted subscription checkout session for the
// requested plan and returns its redirect URL.
func (s *BillingService) Checkout(ctx context.Context, planName string) (string, error) {
	if !s.Enabled() {
		return "", ErrBillingDisabled
	}

	plan := entitlement.ParsePlan(planName)
	priceID, ok := s.prices[plan]
	if !ok || !plan.IsPremium() {
		return "", ErrUnknownPlan
	}

	successURL := s.baseURL + "/claim.html?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.baseURL + "/"

	url, err := s.payment.CreateCheckoutSession(ctx, priceID, successURL, cancelURL)
	if err != nil {
		s.logger.Error().Err(err).Str("plan", string(plan)).Msg("checkout session creation failed")
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CheckoutSessions.Inc()
	}
	return url, nil
}

// ClaimResult is the issued entitlement for a successful claim.
type ClaimResult struct {
	Plan      entitlement.Plan
	Token     string
	ExpiresAt time.Time
}

// Claim verifies the subscription behind a checkout session and issues a
// signed entitlement token when its status is claimable.
func (s *BillingService) Claim(ctx context.Context, sessionID string) (ClaimResult, error) {
	if !s.Enabled() {
		return ClaimResult{}, ErrBillingDisabled
	}

	session, err := s.payment.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("checkout session lookup failed")
		return ClaimResult{}, fmt.Errorf("get checkout session: %w", err)
	}
	if session.SubscriptionID == "" {
		s.rejectClaim()
		return ClaimResult{}, ErrNoActiveSubscription
	}

	sub, err := s.payment.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("subscription lookup failed")
		return ClaimResult{}, fmt.Errorf("get subscription: %w", err)
	}
	if !sub.Claimable() {
		s.rejectClaim()
		s.logger.Info().Str("status", string(sub.Status)).Msg("claim rejected, subscription not active")
		return ClaimResult{}, ErrNoActiveSubscription
	}

	plan := s.planForPrice(sub.PriceID)
	token, expiresAt, err := s.signer.Issue(plan, s.clock.Now())
	if err != nil {
		return ClaimResult{}, fmt.Errorf("issue entitlement: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ClaimsGranted.Inc()
	}
	s.logger.Info().Str("plan", string(plan)).Time("expires_at", expiresAt).Msg("entitlement issued")
	return ClaimResult{Plan: plan, Token: token, ExpiresAt: expiresAt}, nil
}

// Portal returns a vendor-hosted self-service management URL. The customer
// is resolved either from an email address or from a checkout session ID.
func (s *BillingService) Portal(ctx context.Context, email, sessionID string) (string, error) {
	if !s.Enabled() {
		return "", ErrBillingDisabled
	}

	var customerID string
	switch {
	case sessionID != "":
		session, err := s.payment.GetCheckoutSession(ctx, sessionID)
		if err != nil {
			s.logger.Error().Err(err).Msg("checkout session lookup failed")
			return "", fmt.Errorf("get checkout session: %w", err)
		}
		customerID = session.CustomerID
	case email != "":
		id, err := s.payment.FindCustomerByEmail(ctx, email)
		if err != nil {
			s.logger.Info().Err(err).Msg("customer lookup by email failed")
			return "", fmt.Errorf("find customer: %w", err)
		}
		customerID = id
	}
	if customerID == "" {
		return "", ErrNoActiveSubscription
	}

	url, err := s.payment.CreatePortalSession(ctx, customerID, s.baseURL+"/")
	if err != nil {
		s.logger.Error().Err(err).Msg("portal session creation failed")
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return url, nil
}

// planForPrice maps a vendor price ID back to its plan. Unknown prices
// still grant pro: the payment cleared, so erring toward access is the
// lesser failure.
func (s *BillingService) planForPrice(priceID string) entitlement.Plan {
	for plan, id := range s.prices {
		if id == priceID {
			return plan
		}
	}
	return entitlement.PlanPro
}

func (s *BillingService) rejectClaim() {
	if s.metrics != nil {
		s.metrics.ClaimsRejected.Inc()
	}
}
