package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn))
	require.NoError(t, Migrate(ctx, conn))

	var tables []string
	err = conn.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'tasks') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks", "users"}, tables)
}

func TestMigrate_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(ctx, conn))

	_, err = conn.ExecContext(ctx, `INSERT INTO users (username, password_hash, date_joined) VALUES ('bob', 'x', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `INSERT INTO tasks (title, status, created, updated, user_id) VALUES ('t', 'MAYBE', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, 1)`)
	assert.Error(t, err)
}
