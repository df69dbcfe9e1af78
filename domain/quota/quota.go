// Package quota provides pure functions for free-tier daily quota enforcement.
// All functions are deterministic with no side effects.
package quota

import (
	"fmt"
	"time"

	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
)

// Config holds daily quota limits (value type).
type Config struct {
	DailyLimit         int   // Max generations per identity per UTC day
	ChallengeThreshold int   // Calls after which a challenge token is mandatory
	CostPerCallMicro   int64 // Estimated upstream cost per variant, micro-cents
}

// DayState tracks one identity's usage for one UTC day (value type).
type DayState struct {
	Calls         int   // Generations performed today
	EstCostMicro  int64 // Accumulated estimated spend, micro-cents
	ExceededCount int   // Requests rejected for being over the daily cap
}

// Reasons for denial.
const (
	ReasonDailyLimitExceeded = "daily_limit_exceeded"
)

// CheckResult represents the outcome of a quota check (value type).
type CheckResult struct {
	Allowed           bool
	ChallengeRequired bool // Caller must present a valid challenge token
	Remaining         int  // Calls remaining today after this one
	Reason            string
}

// DayKey buckets an identity into its (address, UTC calendar day) pair.
// This is a PURE function.
func DayKey(addr string, t time.Time) string {
	return fmt.Sprintf("%s:%s", addr, t.UTC().Format("2006-01-02"))
}

// Day returns the UTC calendar day label used in day keys.
// This is a PURE function.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Check performs a daily quota check and accounts for one generation of
// `variants` drafts. Day rollover is handled by the day key, so state is
// always for the current day. Premium plans bypass both the cap and the
// challenge requirement but still accumulate estimated spend.
// This is a PURE function - no side effects.
//
// Returns:
//   - result: whether the call is allowed and whether a challenge is needed
//   - newState: updated state (caller must persist if the call proceeds)
func Check(state DayState, cfg Config, plan entitlement.Plan, variants int) (CheckResult, DayState) {
	if variants < 1 {
		variants = 1
	}
	cost := cfg.CostPerCallMicro * int64(variants)

	if plan.IsPremium() {
		state.Calls++
		state.EstCostMicro += cost
		return CheckResult{Allowed: true, Remaining: -1}, state
	}

	if state.Calls >= cfg.DailyLimit {
		state.ExceededCount++
		return CheckResult{
			Allowed: false,
			Reason:  ReasonDailyLimitExceeded,
		}, state
	}

	// Past the challenge threshold every further call must carry a token.
	challenge := state.Calls >= cfg.ChallengeThreshold

	state.Calls++
	state.EstCostMicro += cost
	return CheckResult{
		Allowed:           true,
		ChallengeRequired: challenge,
		Remaining:         cfg.DailyLimit - state.Calls,
	}, state
}

// Aggregate summarizes a whole day across identities (value type).
type Aggregate struct {
	Day              string
	UniqueIdentities int
	TotalCalls       int
	ExceededCount    int
	EstCostMicro     int64
}

// Accumulate folds one identity's state into a day aggregate.
// This is a PURE function.
func Accumulate(agg Aggregate, state DayState) Aggregate {
	agg.UniqueIdentities++
	agg.TotalCalls += state.Calls
	agg.ExceededCount += state.ExceededCount
	agg.EstCostMicro += state.EstCostMicro
	return agg
}
