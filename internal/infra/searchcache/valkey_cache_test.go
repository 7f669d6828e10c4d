package searchcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

func TestValkeyCacheRoundTrip(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "home")
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "Friday Feeling")
	require.NoError(t, err)
	require.False(t, ok)

	playlists := []recommendation.Playlist{{ID: "p1", Name: "Friday Feeling", Owner: "spotify", TrackCount: 50}}
	require.NoError(t, cache.Save(ctx, " Friday Feeling", playlists, 10*time.Minute))

	require.True(t, mr.Exists("home:search:friday feeling"))
	require.Equal(t, 10*time.Minute, mr.TTL("home:search:friday feeling"))

	got, ok, err := cache.Get(ctx, "friday feeling ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, playlists, got)

	mr.FastForward(11 * time.Minute)
	_, ok, err = cache.Get(ctx, "Friday Feeling")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValkeyCacheStoresEmptyResults(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "")
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "Obscure Tag", nil, 0))
	payload, err := mr.Get("playlist-recommender:search:obscure tag")
	require.NoError(t, err)
	require.Equal(t, "[]", payload)
	require.Zero(t, mr.TTL("playlist-recommender:search:obscure tag"))

	got, ok, err := cache.Get(ctx, "Obscure Tag")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestValkeyCacheRoundsShortTTLUp(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "home")

	require.NoError(t, cache.Save(context.Background(), "rain", []recommendation.Playlist{{ID: "r"}}, 100*time.Millisecond))
	require.Equal(t, time.Second, mr.TTL("home:search:rain"))
}

func TestValkeyCacheIgnoresBlankQuery(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "home")
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "   ", []recommendation.Playlist{{ID: "x"}}, time.Minute))
	require.Empty(t, mr.Keys())

	_, ok, err := cache.Get(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValkeyCacheRejectsCorruptPayload(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "home")
	require.NoError(t, mr.Set("home:search:rain", "{not json"))

	_, ok, err := cache.Get(context.Background(), "rain")
	require.Error(t, err)
	require.False(t, ok)
}

func TestValkeyCacheSurfacesConnectionErrors(t *testing.T) {
	mr, client := newTestValkey(t)
	cache := NewValkeyCache(client, "home")
	mr.SetError("ERR injected failure")

	_, ok, err := cache.Get(context.Background(), "rain")
	require.Error(t, err)
	require.False(t, ok)
	require.Error(t, cache.Save(context.Background(), "rain", nil, time.Minute))
}

func newTestValkey(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return mr, client
}
