package timeframestore

import (
	"context"
	"sync"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// MemoryStore keeps the timeframe for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	value *recommendation.Timeframe
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements recommendation.TimeframeStore.
func (s *MemoryStore) Load(context.Context) (recommendation.Timeframe, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value == nil {
		return recommendation.Timeframe{}, false, nil
	}
	return *s.value, true, nil
}

// Save implements recommendation.TimeframeStore.
func (s *MemoryStore) Save(_ context.Context, tf recommendation.Timeframe) error {
	if err := tf.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = &tf
	return nil
}

var _ recommendation.TimeframeStore = (*MemoryStore)(nil)
