// Package entitlement provides plan tier value types and pure functions.
// Premium status is asserted by a signed, expiring client-held token; the
// signing itself lives in adapters/auth.
package entitlement

import "time"

// Plan identifies a pricing tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
	PlanTeam Plan = "team"
)

// DefaultValidity is how long an issued entitlement stays valid.
const DefaultValidity = 30 * 24 * time.Hour

// IsPremium reports whether the plan bypasses free-tier limits.
func (p Plan) IsPremium() bool {
	return p == PlanPro || p == PlanTeam
}

// ParsePlan normalizes a plan name, defaulting to free for unknown values.
// This is a PURE function.
func ParsePlan(s string) Plan {
	switch Plan(s) {
	case PlanPro:
		return PlanPro
	case PlanTeam:
		return PlanTeam
	default:
		return PlanFree
	}
}

// VariantCap returns the maximum number of drafts one request may ask for.
// This is a PURE function.
func VariantCap(p Plan) int {
	switch p {
	case PlanPro:
		return 3
	case PlanTeam:
		return 5
	default:
		return 1
	}
}

// Claims is the payload carried inside the entitlement token (value type).
type Claims struct {
	Plan      Plan
	ExpiresAt time.Time
}

// Valid reports whether the claims assert a live premium entitlement at t.
// Expired or free-plan claims grant nothing. Note that a cancelled
// subscription is NOT detected here: once issued, an entitlement holds
// until its embedded expiry.
// This is a PURE function.
func (c Claims) Valid(t time.Time) bool {
	return c.Plan.IsPremium() && t.Before(c.ExpiresAt)
}
