package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/zackdaniels09/autopitch-ai/adapters/memory"
	"github.com/zackdaniels09/autopitch-ai/domain/ratelimit"
)

func TestRateLimitStore_GetMissingReturnsZeroState(t *testing.T) {
	store := memory.NewRateLimitStore()

	state, err := store.Get(context.Background(), "198.51.100.1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if state != (ratelimit.WindowState{}) {
		t.Errorf("state = %+v, want zero value", state)
	}
}

func TestRateLimitStore_SetThenGet(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	want := ratelimit.WindowState{
		Count:     4,
		WindowEnd: time.Date(2025, 3, 10, 12, 1, 0, 0, time.UTC),
	}

	if err := store.Set(ctx, "198.51.100.1", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "198.51.100.1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestRateLimitStore_Clear(t *testing.T) {
	store := memory.NewRateLimitStore()
	ctx := context.Background()
	store.Set(ctx, "a", ratelimit.WindowState{Count: 1})

	store.Clear()

	state, _ := store.Get(ctx, "a")
	if state != (ratelimit.WindowState{}) {
		t.Errorf("state = %+v, want zero value after clear", state)
	}
}
