package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores entries as plain Redis strings under
// "<prefix>:<namespace>:<key>" and relies on native TTLs for expiry.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "movieclient"
	}
	return &RedisRepository{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisRepository) key(namespace, key string) string {
	return r.prefix + ":" + namespace + ":" + key
}

// ttl returns 0 (keep forever) for a zero time and false for a time
// already in the past.
func (r *RedisRepository) ttl(expiresAt time.Time) (time.Duration, bool) {
	if expiresAt.IsZero() {
		return 0, true
	}
	d := expiresAt.Sub(r.now())
	if d <= 0 {
		return 0, false
	}
	return d, true
}

func (r *RedisRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s/%s]: %w", namespace, key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, namespace, key string, value []byte, expiresAt time.Time) error {
	return r.SetMany(ctx, namespace, []Entry{{Key: key, Value: value, ExpiresAt: expiresAt}})
}

func (r *RedisRepository) SetMany(ctx context.Context, namespace string, entries []Entry) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, e := range entries {
			k := r.key(namespace, e.Key)
			ttl, live := r.ttl(e.ExpiresAt)
			if !live {
				p.Del(ctx, k)
				continue
			}
			p.Set(ctx, k, e.Value, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", namespace, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(namespace, k)
	}
	if err := r.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete kv[%s]%v: %w", namespace, keys, err)
	}
	return nil
}

func (r *RedisRepository) scan(ctx context.Context, namespace string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	match := r.key(namespace, "*")
	for {
		batch, next, err := r.rdb.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func (r *RedisRepository) Clear(ctx context.Context, namespace string) error {
	keys, err := r.scan(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to clear kv[%s]: %w", namespace, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear kv[%s]: %w", namespace, err)
	}
	return nil
}
