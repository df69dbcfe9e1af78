package entitlement_test

import (
	"testing"
	"time"

	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestIsPremium(t *testing.T) {
	tests := []struct {
		plan entitlement.Plan
		want bool
	}{
		{entitlement.PlanFree, false},
		{entitlement.PlanPro, true},
		{entitlement.PlanTeam, true},
		{entitlement.Plan("enterprise"), false},
	}

	for _, tt := range tests {
		if got := tt.plan.IsPremium(); got != tt.want {
			t.Errorf("IsPremium(%s) = %v, want %v", tt.plan, got, tt.want)
		}
	}
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		in   string
		want entitlement.Plan
	}{
		{"pro", entitlement.PlanPro},
		{"team", entitlement.PlanTeam},
		{"free", entitlement.PlanFree},
		{"", entitlement.PlanFree},
		{"gold", entitlement.PlanFree},
	}

	for _, tt := range tests {
		if got := entitlement.ParsePlan(tt.in); got != tt.want {
			t.Errorf("ParsePlan(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestVariantCap(t *testing.T) {
	tests := []struct {
		plan entitlement.Plan
		want int
	}{
		{entitlement.PlanFree, 1},
		{entitlement.PlanPro, 3},
		{entitlement.PlanTeam, 5},
	}

	for _, tt := range tests {
		if got := entitlement.VariantCap(tt.plan); got != tt.want {
			t.Errorf("VariantCap(%s) = %d, want %d", tt.plan, got, tt.want)
		}
	}
}

func TestClaimsValid(t *testing.T) {
	tests := []struct {
		name   string
		claims entitlement.Claims
		want   bool
	}{
		{
			name:   "live premium",
			claims: entitlement.Claims{Plan: entitlement.PlanPro, ExpiresAt: baseTime.Add(time.Hour)},
			want:   true,
		},
		{
			name:   "expired premium",
			claims: entitlement.Claims{Plan: entitlement.PlanPro, ExpiresAt: baseTime.Add(-time.Hour)},
			want:   false,
		},
		{
			name:   "free plan never premium",
			claims: entitlement.Claims{Plan: entitlement.PlanFree, ExpiresAt: baseTime.Add(time.Hour)},
			want:   false,
		},
		{
			name:   "expiry boundary is exclusive",
			claims: entitlement.Claims{Plan: entitlement.PlanTeam, ExpiresAt: baseTime},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.claims.Valid(baseTime); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
