package timeframestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// ValkeyStore persists the timeframe as a JSON document without expiry.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "playlist-recommender"
	}
	return &ValkeyStore{client: client, key: fmt.Sprintf("%s:timeframe", prefix)}
}

func (s *ValkeyStore) Load(ctx context.Context) (recommendation.Timeframe, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return recommendation.Timeframe{}, false, nil
		}
		return recommendation.Timeframe{}, false, err
	}
	tf, err := decodeTimeframe(payload)
	if err != nil {
		return recommendation.Timeframe{}, false, err
	}
	return tf, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, tf recommendation.Timeframe) error {
	payload, err := encodeTimeframe(tf)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Set().Key(s.key).Value(payload).Build()).Error()
}

func encodeTimeframe(tf recommendation.Timeframe) (string, error) {
	if err := tf.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(tf)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTimeframe rejects stored documents that no longer validate.
func decodeTimeframe(payload string) (recommendation.Timeframe, error) {
	var tf recommendation.Timeframe
	if err := json.Unmarshal([]byte(payload), &tf); err != nil {
		return recommendation.Timeframe{}, fmt.Errorf("decode stored timeframe: %w", err)
	}
	if err := tf.Validate(); err != nil {
		return recommendation.Timeframe{}, fmt.Errorf("stored timeframe: %w", err)
	}
	return tf, nil
}

var _ recommendation.TimeframeStore = (*ValkeyStore)(nil)
