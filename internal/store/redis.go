package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list interactions are pushed onto.
const DefaultRedisKey = "weather-agent:interactions"

// RedisLog appends interactions as JSON to a Redis list.
type RedisLog struct {
	client *redis.Client
	key    string
}

// NewRedisLog connects to addr and verifies the connection with a PING.
func NewRedisLog(ctx context.Context, addr string) (*RedisLog, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return NewRedisLogFromClient(client, DefaultRedisKey), nil
}

// NewRedisLogFromClient wraps an existing client.
func NewRedisLogFromClient(client *redis.Client, key string) *RedisLog {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLog{client: client, key: key}
}

func (l *RedisLog) Append(ctx context.Context, in Interaction) error {
	if err := validate(in); err != nil {
		return err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	if err := l.client.RPush(ctx, l.key, data).Err(); err != nil {
		return fmt.Errorf("push interaction: %w", err)
	}
	return nil
}

// Recent reads the tail of the list and returns it newest first.
func (l *RedisLog) Recent(ctx context.Context, n int) ([]Interaction, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := l.client.LRange(ctx, l.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}
	out := make([]Interaction, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var in Interaction
		if err := json.Unmarshal([]byte(raw[i]), &in); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		out = append(out, in)
	}
	return out, nil
}

func (l *RedisLog) Close() error {
	return l.client.Close()
}
