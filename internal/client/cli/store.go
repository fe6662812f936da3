package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/movieclient/internal/client/client"
	"github.com/dmitrijs2005/movieclient/internal/client/config"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "movieclient"

// openRepository opens the configured key-value backend. The returned
// function closes it.
func openRepository(ctx context.Context, c *config.Config, log logging.Logger) (kv.Repository, func() error, error) {
	switch c.StoreBackend {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
		}
		log.Debug(ctx, "using redis store", "addr", c.RedisAddr)
		return kv.NewRedisRepository(rdb, redisKeyPrefix), rdb.Close, nil

	default:
		db, err := client.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		repo := kv.NewSQLiteRepository(db)
		if n, err := repo.PurgeExpired(ctx); err != nil {
			log.Warn(ctx, "purge expired entries", "error", err)
		} else if n > 0 {
			log.Debug(ctx, "purged expired entries", "count", n)
		}
		return repo, db.Close, nil
	}
}
