package ratelimit_test

import (
	"testing"
	"time"

	"github.com/zackdaniels09/autopitch-ai/domain/ratelimit"
)

var (
	baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cfg      = ratelimit.Config{
		Limit:  10,
		Window: time.Minute,
	}
)

func TestCheck_AllowsWithinLimit(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     5,
		WindowEnd: baseTime.Add(30 * time.Second),
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected request to be allowed")
	}
	if result.Remaining != 4 { // 10 - 6 = 4
		t.Errorf("remaining = %d, want 4", result.Remaining)
	}
	if newState.Count != 6 {
		t.Errorf("count = %d, want 6", newState.Count)
	}
}

func TestCheck_DeniesOverLimit(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     10,
		WindowEnd: baseTime.Add(30 * time.Second),
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if result.Allowed {
		t.Error("expected request to be denied")
	}
	if result.Reason != ratelimit.ReasonLimitExceeded {
		t.Errorf("reason = %q, want %q", result.Reason, ratelimit.ReasonLimitExceeded)
	}
	if newState.Count != 10 { // Count unchanged
		t.Errorf("count = %d, want 10", newState.Count)
	}
}

func TestCheck_ResetsExpiredWindow(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     100, // Way over limit
		WindowEnd: baseTime.Add(-time.Hour),
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected request to be allowed after window reset")
	}
	if newState.Count != 1 {
		t.Errorf("count = %d, want 1 (reset)", newState.Count)
	}
}

func TestCheck_HandlesZeroState(t *testing.T) {
	result, newState := ratelimit.Check(ratelimit.WindowState{}, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected first request to be allowed")
	}
	if result.Remaining != 9 {
		t.Errorf("remaining = %d, want 9", result.Remaining)
	}
	if newState.Count != 1 {
		t.Errorf("count = %d, want 1", newState.Count)
	}
}

func TestCheck_Deterministic(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     7,
		WindowEnd: baseTime.Add(30 * time.Second),
	}

	result1, state1 := ratelimit.Check(state, cfg, baseTime)
	result2, state2 := ratelimit.Check(state, cfg, baseTime)

	if result1 != result2 || state1 != state2 {
		t.Error("Check should be deterministic")
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name      string
		result    ratelimit.CheckResult
		now       time.Time
		wantDelay time.Duration
	}{
		{
			name: "allowed returns zero",
			result: ratelimit.CheckResult{
				Allowed: true,
				ResetAt: baseTime.Add(time.Minute),
			},
			now:       baseTime,
			wantDelay: 0,
		},
		{
			name: "denied returns time to reset",
			result: ratelimit.CheckResult{
				Allowed: false,
				ResetAt: baseTime.Add(30 * time.Second),
			},
			now:       baseTime,
			wantDelay: 30 * time.Second,
		},
		{
			name: "past reset returns zero",
			result: ratelimit.CheckResult{
				Allowed: false,
				ResetAt: baseTime.Add(-time.Second),
			},
			now:       baseTime,
			wantDelay: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ratelimit.RetryAfter(tt.result, tt.now)
			if got != tt.wantDelay {
				t.Errorf("RetryAfter() = %v, want %v", got, tt.wantDelay)
			}
		})
	}
}
