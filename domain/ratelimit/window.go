// Package ratelimit provides a pure fixed-window burst limiter.
// All functions are deterministic - same input always produces same output.
package ratelimit

import "time"

// WindowState represents the current state of a rate limit window (value type).
type WindowState struct {
	Count     int       // Requests in current window
	WindowEnd time.Time // When current window ends
}

// CheckResult represents the outcome of a rate limit check (value type).
type CheckResult struct {
	Allowed   bool
	Remaining int       // Requests remaining in window
	ResetAt   time.Time // When limit resets
	Reason    string    // If not allowed, why
}

// Config holds rate limit configuration (value type).
type Config struct {
	Limit  int           // Requests per window
	Window time.Duration // Window duration
}

// Reasons for denial
const (
	ReasonLimitExceeded = "rate_limit_exceeded"
)

// Check performs a rate limit check. The burst window applies to every
// tier, premium included.
// This is a PURE function - no side effects, deterministic.
//
// Returns:
//   - result: whether request is allowed and metadata
//   - newState: updated state (caller must persist if needed)
func Check(state WindowState, cfg Config, now time.Time) (CheckResult, WindowState) {
	windowStart := now.Truncate(cfg.Window)
	windowEnd := windowStart.Add(cfg.Window)

	// New window - reset counters
	if now.After(state.WindowEnd) || state.WindowEnd.IsZero() {
		state = WindowState{WindowEnd: windowEnd}
	}

	if state.Count < cfg.Limit {
		state.Count++
		return CheckResult{
			Allowed:   true,
			Remaining: cfg.Limit - state.Count,
			ResetAt:   state.WindowEnd,
		}, state
	}

	return CheckResult{
		Allowed: false,
		ResetAt: state.WindowEnd,
		Reason:  ReasonLimitExceeded,
	}, state
}

// RetryAfter returns how long to wait before retrying.
// This is a PURE function.
func RetryAfter(result CheckResult, now time.Time) time.Duration {
	if result.Allowed {
		return 0
	}
	delay := result.ResetAt.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}
