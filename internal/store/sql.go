package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// sqlBackend stores one row per state key. The same table layout serves sqlite and postgres;
// only placeholders and the upsert statement differ.
type sqlBackend struct {
	db     *sql.DB
	get    string
	upsert string
}

func migrateStateTable(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS overlay_state (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms BIGINT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (b *sqlBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := b.db.QueryRowContext(ctx, b.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (b *sqlBackend) Put(ctx context.Context, key string, val []byte) error {
	_, err := b.db.ExecContext(ctx, b.upsert, key, string(val), time.Now().UTC().UnixMilli())
	return err
}

func (b *sqlBackend) Close() error {
	return b.db.Close()
}
