package repos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"techmart/internal/domain"
)

const redisCartTTL = 30 * 24 * time.Hour

// RedisCart keeps one session's line set as a JSON blob under a single
// key. Drop-in replacement for the sqlite cart storage when running more
// than one instance.
type RedisCart struct {
	client *redis.Client
	key    string
}

func NewRedisCart(client *redis.Client, sessionID string) *RedisCart {
	return &RedisCart{client: client, key: "cart:" + sessionID}
}

// OpenRedis connects and pings; addr is a redis URL.
func OpenRedis(addr string) (*redis.Client, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func (r *RedisCart) Load() ([]domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *RedisCart) Save(lines []domain.CartLine) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if len(lines) == 0 {
		return r.client.Del(ctx, r.key).Err()
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, raw, redisCartTTL).Err()
}
