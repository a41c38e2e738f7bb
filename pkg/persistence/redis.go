package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	redisconn "github.com/dmitrymomot/authbridge/pkg/redis"
)

// ErrNilClient is returned when a Redis store is constructed without a
// client.
var ErrNilClient = errors.New("persistence: nil redis client")

// Redis is a persistence store backed by a shared Redis instance. It is the
// only store that supports concurrent registration alongside others, and
// the only one whose entries can expire on their own.
type Redis struct {
	auth.Traits

	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption customizes a Redis persistence store.
type RedisOption func(*Redis)

// WithPrefix namespaces every key the store touches.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithTTL gives every entry a sliding expiry. Zero means entries never
// expire.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// ConnectRedis dials the server described by cfg and returns a Redis-backed
// persistence store on top of the resulting client.
func ConnectRedis(ctx context.Context, cfg redisconn.Config, opts ...RedisOption) (*Redis, error) {
	client, err := redisconn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedis(client, opts...)
}

// NewRedis returns a Redis-backed persistence store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	r := &Redis{
		client: client,
		Traits: auth.Traits{Concurrent: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get returns the value stored under key and whether it exists. When a TTL
// is configured a hit refreshes the expiry.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key(key), r.ttl).Err(); err != nil {
			return "", false, err
		}
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

// Delete removes key and reports whether it existed.
func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
