package memory_test

import (
	"context"
	"testing"

	"github.com/zackdaniels09/autopitch-ai/adapters/memory"
	"github.com/zackdaniels09/autopitch-ai/domain/quota"
)

func TestQuotaStore_GetMissingReturnsZeroState(t *testing.T) {
	store := memory.NewQuotaStore()

	state, err := store.Get(context.Background(), "198.51.100.1:2025-03-10")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if state != (quota.DayState{}) {
		t.Errorf("state = %+v, want zero value", state)
	}
}

func TestQuotaStore_SetThenGet(t *testing.T) {
	store := memory.NewQuotaStore()
	ctx := context.Background()
	key := "198.51.100.1:2025-03-10"
	want := quota.DayState{Calls: 3, EstCostMicro: 900, ExceededCount: 1}

	if err := store.Set(ctx, key, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestQuotaStore_AggregateFiltersByDay(t *testing.T) {
	store := memory.NewQuotaStore()
	ctx := context.Background()

	store.Set(ctx, "198.51.100.1:2025-03-10", quota.DayState{Calls: 5, EstCostMicro: 1500, ExceededCount: 2})
	store.Set(ctx, "198.51.100.2:2025-03-10", quota.DayState{Calls: 1, EstCostMicro: 300})
	store.Set(ctx, "198.51.100.1:2025-03-09", quota.DayState{Calls: 9, EstCostMicro: 2700})

	agg, err := store.Aggregate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if agg.UniqueIdentities != 2 {
		t.Errorf("uniqueIdentities = %d, want 2", agg.UniqueIdentities)
	}
	if agg.TotalCalls != 6 {
		t.Errorf("totalCalls = %d, want 6", agg.TotalCalls)
	}
	if agg.ExceededCount != 2 {
		t.Errorf("exceededCount = %d, want 2", agg.ExceededCount)
	}
	if agg.EstCostMicro != 1800 {
		t.Errorf("estCostMicro = %d, want 1800", agg.EstCostMicro)
	}
}

func TestQuotaStore_AggregateEmptyDay(t *testing.T) {
	store := memory.NewQuotaStore()

	agg, err := store.Aggregate(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if agg.UniqueIdentities != 0 || agg.TotalCalls != 0 {
		t.Errorf("expected empty aggregate, got %+v", agg)
	}
}

func TestQuotaStore_Clear(t *testing.T) {
	store := memory.NewQuotaStore()
	ctx := context.Background()
	store.Set(ctx, "a:2025-03-10", quota.DayState{Calls: 1})

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}
}

func TestQuotaStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewQuotaStore()
	ctx := context.Background()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				state, _ := store.Get(ctx, "shared:2025-03-10")
				state.Calls++
				store.Set(ctx, "shared:2025-03-10", state)
				store.Aggregate(ctx, "2025-03-10")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
