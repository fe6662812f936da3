package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/dbx"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func expiry(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func (r *SQLiteRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM kv
		WHERE namespace = ? AND key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, namespace, key, r.now().UnixMilli()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s/%s]: %w", namespace, key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, namespace string, e Entry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, namespace, e.Key, e.Value, expiry(e.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to set kv[%s/%s]: %w", namespace, e.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Set(ctx context.Context, namespace, key string, value []byte, expiresAt time.Time) error {
	return set(ctx, r.db, namespace, Entry{Key: key, Value: value, ExpiresAt: expiresAt})
}

func (r *SQLiteRepository) SetMany(ctx context.Context, namespace string, entries []Entry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range entries {
			if err := set(ctx, tx, namespace, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, namespace)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]%v: %w", namespace, keys, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, namespace string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("failed to clear kv[%s]: %w", namespace, err)
	}
	return nil
}

// PurgeExpired removes expired rows from every namespace.
func (r *SQLiteRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?`, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge kv: %w", err)
	}
	return res.RowsAffected()
}
