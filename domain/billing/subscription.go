// Package billing provides subscription value types and pure functions.
package billing

import "time"

// SubscriptionStatus represents subscription state at the payment vendor.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusUnpaid    SubscriptionStatus = "unpaid"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
)

// Subscription is a vendor-owned subscription referenced by opaque IDs
// (value type). This service never stores it.
type Subscription struct {
	ID                string
	CustomerID        string
	PriceID           string
	Status            SubscriptionStatus
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// Claimable reports whether the subscription status entitles the holder to
// claim premium. past_due is deliberately included: the vendor is still
// retrying payment and access continues until it gives up.
// This is a PURE function.
func (s Subscription) Claimable() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

// CheckoutSession references a vendor-hosted checkout flow (value type).
type CheckoutSession struct {
	ID             string
	URL            string
	CustomerID     string
	SubscriptionID string
}
