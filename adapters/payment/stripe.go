// Package payment provides payment provider adapters.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	portalsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/zackdaniels09/autopitch-ai/domain/billing"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeProvider implements ports.PaymentProvider for Stripe.
type StripeProvider struct {
	config StripeConfig
}

// NewStripeProvider creates a new Stripe payment provider.
func NewStripeProvider(config StripeConfig) *StripeProvider {
	stripe.Key = config.SecretKey
	return &StripeProvider{config: config}
}

// CreateCheckoutSession creates a Stripe Checkout session in subscription mode.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// GetCheckoutSession retrieves a checkout session by its opaque ID.
func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (billing.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return billing.CheckoutSession{}, err
	}

	cs := billing.CheckoutSession{ID: s.ID, URL: s.URL}
	if s.Customer != nil {
		cs.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		cs.SubscriptionID = s.Subscription.ID
	}
	return cs, nil
}

// GetSubscription retrieves subscription details.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (billing.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return billing.Subscription{}, err
	}

	sub := billing.Subscription{
		ID:                s.ID,
		Status:            mapStripeStatus(s.Status),
		CurrentPeriodEnd:  time.Unix(s.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
		sub.PriceID = s.Items.Data[0].Price.ID
	}
	return sub, nil
}

// CreatePortalSession creates a customer portal session.
func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := portalsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// FindCustomerByEmail resolves a customer ID from an email address.
func (p *StripeProvider) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := customer.List(params)
	for iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no customer found for email")
}

// ParseWebhook parses and validates a Stripe webhook.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (string, map[string]any, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return "", nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return "", nil, err
	}

	return string(event.Type), data, nil
}

func mapStripeStatus(status stripe.SubscriptionStatus) billing.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return billing.SubscriptionStatusActive
	case stripe.SubscriptionStatusTrialing:
		return billing.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusPastDue:
		return billing.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return billing.SubscriptionStatusCancelled
	case stripe.SubscriptionStatusUnpaid:
		return billing.SubscriptionStatusUnpaid
	case stripe.SubscriptionStatusPaused:
		return billing.SubscriptionStatusPaused
	default:
		return billing.SubscriptionStatusUnpaid
	}
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*StripeProvider)(nil)
