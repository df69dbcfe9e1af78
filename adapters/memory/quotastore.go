// Package memory provides in-memory store adapters. State lives only for
// the process lifetime; a restart resets every counter.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/zackdaniels09/autopitch-ai/domain/quota"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

// QuotaStore is an in-memory implementation of ports.QuotaStore keyed by
// (address, UTC day) identity keys.
type QuotaStore struct {
	mu    sync.RWMutex
	state map[string]quota.DayState
}

// NewQuotaStore creates a new in-memory quota store.
func NewQuotaStore() *QuotaStore {
	return &QuotaStore{
		state: make(map[string]quota.DayState),
	}
}

// Get retrieves the day state for an identity key.
func (s *QuotaStore) Get(ctx context.Context, key string) (quota.DayState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[key], nil
}

// Set replaces the day state for an identity key.
func (s *QuotaStore) Set(ctx context.Context, key string, state quota.DayState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = state
	return nil
}

// Aggregate summarizes all identities seen on the given UTC day. Identity
// keys are "<addr>:<day>", so day entries are found by suffix.
func (s *QuotaStore) Aggregate(ctx context.Context, day string) (quota.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := quota.Aggregate{Day: day}
	suffix := ":" + day
	for key, state := range s.state {
		if strings.HasSuffix(key, suffix) {
			agg = quota.Accumulate(agg, state)
		}
	}
	return agg, nil
}

// Clear removes all state (for testing).
func (s *QuotaStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[string]quota.DayState)
}

// Len returns the number of tracked identities (for testing).
func (s *QuotaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}

// Ensure interface compliance.
var _ ports.QuotaStore = (*QuotaStore)(nil)
