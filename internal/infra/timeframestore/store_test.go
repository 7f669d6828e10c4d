package timeframestore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	tf := recommendation.Timeframe{Amount: 3, Unit: recommendation.Months}
	require.NoError(t, store.Save(ctx, tf))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tf, got)

	err = store.Save(ctx, recommendation.Timeframe{Amount: 0, Unit: recommendation.Days})
	require.True(t, errors.Is(err, recommendation.ErrInvalidTimeframe))
	got, _, _ = store.Load(ctx)
	require.Equal(t, tf, got)
}

func TestTimeframeEncoding(t *testing.T) {
	payload, err := encodeTimeframe(recommendation.Timeframe{Amount: 2, Unit: recommendation.Weeks})
	require.NoError(t, err)
	require.JSONEq(t, `{"timeframe":2,"time_unit":"weeks"}`, payload)

	tf, err := decodeTimeframe(payload)
	require.NoError(t, err)
	require.Equal(t, recommendation.Timeframe{Amount: 2, Unit: recommendation.Weeks}, tf)

	_, err = decodeTimeframe(`{"timeframe":-4,"time_unit":"weeks"}`)
	require.Error(t, err)
	_, err = decodeTimeframe(`not json`)
	require.Error(t, err)
}

func TestValkeyStoreRoundTrip(t *testing.T) {
	mr, client := newTestValkey(t)
	store := NewValkeyStore(client, "home")
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	tf := recommendation.Timeframe{Amount: 2, Unit: recommendation.Weeks}
	require.NoError(t, store.Save(ctx, tf))

	payload, err := mr.Get("home:timeframe")
	require.NoError(t, err)
	require.JSONEq(t, `{"timeframe":2,"time_unit":"weeks"}`, payload)
	require.Zero(t, mr.TTL("home:timeframe"))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tf, got)

	// a store built after a restart sees the same value
	restarted := NewValkeyStore(client, "home")
	got, ok, err = restarted.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tf, got)
}

func TestValkeyStoreRejectsInvalidTimeframe(t *testing.T) {
	mr, client := newTestValkey(t)
	store := NewValkeyStore(client, "")

	err := store.Save(context.Background(), recommendation.Timeframe{Amount: 0, Unit: recommendation.Days})
	require.True(t, errors.Is(err, recommendation.ErrInvalidTimeframe))
	require.False(t, mr.Exists("playlist-recommender:timeframe"))
}

func TestValkeyStoreRejectsCorruptPayload(t *testing.T) {
	mr, client := newTestValkey(t)
	store := NewValkeyStore(client, "home")

	for _, payload := range []string{"not json", `{"timeframe":3,"time_unit":"fortnights"}`} {
		require.NoError(t, mr.Set("home:timeframe", payload))
		_, ok, err := store.Load(context.Background())
		require.Error(t, err)
		require.False(t, ok)
	}
}

func TestValkeyStoreSurfacesConnectionErrors(t *testing.T) {
	mr, client := newTestValkey(t)
	store := NewValkeyStore(client, "home")
	mr.SetError("ERR injected failure")

	_, ok, err := store.Load(context.Background())
	require.Error(t, err)
	require.False(t, ok)
	require.Error(t, store.Save(context.Background(), recommendation.Timeframe{Amount: 1, Unit: recommendation.Days}))
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
