package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/movieclient/internal/client/config"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/movieclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRepository_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	repo, closeFn, err := openRepository(ctx, &config.Config{StoreBackend: config.StoreRedis, RedisAddr: mr.Addr()}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &kv.RedisRepository{}, repo)

	require.NoError(t, repo.Set(ctx, "locale", "current", []byte("ko"), time.Time{}))
	assert.True(t, mr.Exists(redisKeyPrefix+":locale:current"))
}

func TestOpenRepository_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := openRepository(context.Background(), &config.Config{StoreBackend: config.StoreRedis, RedisAddr: addr}, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis "+addr)
}

func TestOpenRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "movie.db")

	repo, closeFn, err := openRepository(ctx, &config.Config{StoreBackend: config.StoreSQLite, DatabasePath: path}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &kv.SQLiteRepository{}, repo)
}
