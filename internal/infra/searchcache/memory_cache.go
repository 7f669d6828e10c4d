package searchcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

type entry struct {
	playlists []recommendation.Playlist
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the search cache for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements recommendation.SearchCache.
func (c *MemoryCache) Get(_ context.Context, query string) ([]recommendation.Playlist, bool, error) {
	key := normalizeQuery(query)
	if key == "" {
		return nil, false, nil
	}
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !cached.expiresAt.IsZero() && !c.now().Before(cached.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return clonePlaylists(cached.playlists), true, nil
}

// Save caches the playlists with optional TTL.
func (c *MemoryCache) Save(_ context.Context, query string, playlists []recommendation.Playlist, ttl time.Duration) error {
	key := normalizeQuery(query)
	if key == "" {
		return nil
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{playlists: clonePlaylists(playlists), expiresAt: exp}
	return nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func clonePlaylists(in []recommendation.Playlist) []recommendation.Playlist {
	out := make([]recommendation.Playlist, len(in))
	copy(out, in)
	return out
}

var _ recommendation.SearchCache = (*MemoryCache)(nil)
