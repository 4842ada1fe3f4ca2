// Package storage provides the durable home for the serialized board: a
// single key in a local key-value store. Absent or malformed values are
// reported as "nothing persisted" so the board can always start.
package storage

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"taskly-api/domain"
)

// DefaultKey is the storage key for the board blob. It matches the
// localStorage key used by the board's original web build so an exported
// blob stays interchangeable.
const DefaultKey = "tasklyData"

// RedisStore persists the board as one JSON value under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store writing to the given key; an empty key
// falls back to DefaultKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if client == nil {
		panic("storage.NewRedisStore: redis client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// Save replaces the persisted blob. The value has no TTL; the last saved
// state is authoritative for the next process start.
func (r *RedisStore) Save(ctx context.Context, b domain.PersistedBoard) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Load fetches the persisted blob. A missing key reports ok=false with no
// error. A malformed value is deleted and also reported as absent, with
// the decode error returned for logging.
func (r *RedisStore) Load(ctx context.Context) (domain.PersistedBoard, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var b domain.PersistedBoard
	if err := json.Unmarshal(data, &b); err != nil {
		_ = r.client.Del(ctx, r.key).Err()
		return nil, false, err
	}
	return b, true, nil
}
