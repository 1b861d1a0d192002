package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions as JSON values with a TTL, so stale sessions
// expire on their own even if the process restarts mid-pipeline.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(chatID int64) string { return fmt.Sprintf("session:%d", chatID) }

func (r *RedisStore) Get(ctx context.Context, chatID int64) (*Session, bool, error) {
	raw, err := r.rdb.Get(ctx, key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (r *RedisStore) Put(ctx context.Context, chatID int64, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(chatID), string(b), r.ttl).Err()
}

func (r *RedisStore) Remove(ctx context.Context, chatID int64) error {
	return r.rdb.Del(ctx, key(chatID)).Err()
}
