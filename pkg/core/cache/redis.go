package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared backend used when REDIS_URL is configured, so several
// API replicas can serve each other's warm analyses. Keys are namespaced per
// cache instance.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSet builds the three agent caches on one Redis connection.
func NewRedisSet(redisURL string) (*Set, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Set{
		Review:     &Redis{client: client, prefix: "review:", ttl: ReviewTTL},
		Comparison: &Redis{client: client, prefix: "comparison:", ttl: ComparisonTTL},
		Price:      &Redis{client: client, prefix: "price:", ttl: PriceTTL},
	}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dest any) bool {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (r *Redis) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(ctx, r.prefix+key, data, r.ttl)
}

func (r *Redis) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, r.prefix+key)
}

func (r *Redis) Flush(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}
