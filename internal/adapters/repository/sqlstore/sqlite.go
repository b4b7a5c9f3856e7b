package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// OpenSQLite opens the SQLite database at path, creating the file if needed.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open(string(DialectSQLite), sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite %q: %w", path, err)
	}
	// Every connection to :memory: is a separate database, and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not reach sqlite %q: %w", path, err)
	}
	return New(db, DialectSQLite, opts...), nil
}

func sqliteDSN(path string) string {
	if path == MemoryPath || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
}
