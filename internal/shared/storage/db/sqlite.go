package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

const sqlitePragmas = "_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// OpenSQLite opens a local sqlite catalog database. Use ":memory:" for tests.
// SQLite allows a single writer, so the pool is pinned to one connection.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("SQLITE_PATH is empty")
	}
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:?" + sqlitePragmas
	} else if strings.Contains(path, "?") {
		dsn = path + "&" + sqlitePragmas
	} else {
		dsn = path + "?" + sqlitePragmas
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db.DB, 0); err != nil {
		db.Close()
		return nil, err
	}
	logPoolStats(db.DB, "sqlite init")
	return db, nil
}
