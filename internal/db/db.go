package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

// Pragmas applied to every pooled connection of a file database.
const filePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open opens the SQLite database at dbPath and turns on foreign keys.
// ":memory:" gives a private in-memory database, which only lives as long as
// its single connection, so the pool is pinned to one connection there.
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	dsn := dbPath
	if dbPath != ":memory:" && !strings.Contains(dbPath, "?") {
		dsn += "?" + filePragmas
	}

	pool, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if dbPath == ":memory:" {
		pool.SetMaxOpenConns(1)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	slog.InfoContext(ctx, "Connected to database", "path", dbPath)
	return pool, nil
}

var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "users",
		ddl: `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		auth_token TEXT UNIQUE,
		date_joined DATETIME NOT NULL
	);`,
	},
	{
		name: "tasks",
		ddl: `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'NOT_DONE' CHECK (status IN ('NOT_DONE', 'DONE')),
		created DATETIME NOT NULL,
		updated DATETIME NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	);`,
	},
	{
		name: "tasks_user_status_idx",
		ddl:  `CREATE INDEX IF NOT EXISTS tasks_user_status_idx ON tasks (user_id, status);`,
	},
}

// Migrate creates the schema if it doesn't exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}

	slog.InfoContext(ctx, "Database schema verified")
	return nil
}
