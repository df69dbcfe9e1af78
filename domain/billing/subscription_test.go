package billing_test

import (
	"testing"

	"github.com/zackdaniels09/autopitch-ai/domain/billing"
)

func TestClaimable(t *testing.T) {
	tests := []struct {
		status billing.SubscriptionStatus
		want   bool
	}{
		{billing.SubscriptionStatusActive, true},
		{billing.SubscriptionStatusTrialing, true},
		{billing.SubscriptionStatusPastDue, true},
		{billing.SubscriptionStatusCancelled, false},
		{billing.SubscriptionStatusUnpaid, false},
		{billing.SubscriptionStatusPaused, false},
		{billing.SubscriptionStatus("unknown"), false},
	}

	for _, tt := range tests {
		sub := billing.Subscription{Status: tt.status}
		if got := sub.Claimable(); got != tt.want {
			t.Errorf("Claimable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
