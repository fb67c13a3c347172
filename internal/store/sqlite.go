package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the state database at path.
func OpenSQLite(ctx context.Context, path string) (Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a save is in flight; busy_timeout covers a second process.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateStateTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqlBackend{
		db:     db,
		get:    `SELECT v FROM overlay_state WHERE k = ?`,
		upsert: `INSERT OR REPLACE INTO overlay_state(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
	}, nil
}
