package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/guardianlink/backend/internal/model/chat"
)

const redisKeyPrefix = "guardianlink:chat:"

// RedisClient is the subset of go-redis used by RedisStore.
type RedisClient interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Close() error
}

// RedisStore keeps each identity's history in a Redis list of JSON messages.
type RedisStore struct {
	client RedisClient
}

// NewRedisStore connects to addr and verifies it with PING.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	opts := &redis.Options{Addr: addr, DB: db}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: ping failed: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, identity string) ([]chat.Message, error) {
	raw, err := s.client.LRange(ctx, redisKeyPrefix+identity, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	out := make([]chat.Message, 0, len(raw))
	for _, item := range raw {
		var msg chat.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *RedisStore) Append(ctx context.Context, identity string, role chat.Role, content string) (chat.Message, error) {
	if err := validate(identity, role); err != nil {
		return chat.Message{}, err
	}

	now := time.Now().UTC()
	msg := chat.Message{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return chat.Message{}, fmt.Errorf("encode message: %w", err)
	}
	if err := s.client.RPush(ctx, redisKeyPrefix+identity, payload).Err(); err != nil {
		return chat.Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
