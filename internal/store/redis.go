package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"qc-tracking-backend/internal/model"
)

// redisStore keeps records as JSON entries of a Redis list, with IDs drawn
// from an INCR counter.
type redisStore struct {
	client  *redis.Client
	listKey string
	seqKey  string
	now     func() time.Time
}

// NewRedisStore creates a store using keys under prefix.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{
		client:  client,
		listKey: prefix + "measurements",
		seqKey:  prefix + "measurements:seq",
		now:     time.Now,
	}
}

func (s *redisStore) Append(ctx context.Context, m model.Measurement) (model.Measurement, error) {
	id, err := s.client.Incr(ctx, s.seqKey).Result()
	if err != nil {
		return model.Measurement{}, fmt.Errorf("failed to allocate measurement id: %w", err)
	}
	m = stamp(m, s.now)
	m.ID = id

	data, err := json.Marshal(m)
	if err != nil {
		return model.Measurement{}, fmt.Errorf("failed to encode measurement %d: %w", id, err)
	}
	if err := s.client.RPush(ctx, s.listKey, data).Err(); err != nil {
		return model.Measurement{}, fmt.Errorf("failed to push measurement %d: %w", id, err)
	}
	return m, nil
}

func (s *redisStore) ListAll(ctx context.Context) ([]model.Measurement, error) {
	raw, err := s.client.LRange(ctx, s.listKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read measurements: %w", err)
	}
	records := make([]model.Measurement, 0, len(raw))
	for i, item := range raw {
		var m model.Measurement
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to decode measurement at index %d: %w", i, err)
		}
		records = append(records, m)
	}
	return records, nil
}
