package searchcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// ValkeyCache stores catalog search results in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a new cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "playlist-recommender"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, query string) ([]recommendation.Playlist, bool, error) {
	key := normalizeQuery(query)
	if key == "" {
		return nil, false, nil
	}
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.searchKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var playlists []recommendation.Playlist
	if err := json.Unmarshal([]byte(payload), &playlists); err != nil {
		return nil, false, fmt.Errorf("decode cached search: %w", err)
	}
	return playlists, true, nil
}

func (c *ValkeyCache) Save(ctx context.Context, query string, playlists []recommendation.Playlist, ttl time.Duration) error {
	key := normalizeQuery(query)
	if key == "" {
		return nil
	}
	if playlists == nil {
		playlists = []recommendation.Playlist{}
	}
	payload, err := json.Marshal(playlists)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.searchKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) searchKey(normalized string) string {
	return fmt.Sprintf("%s:search:%s", c.prefix, normalized)
}

var _ recommendation.SearchCache = (*ValkeyCache)(nil)
