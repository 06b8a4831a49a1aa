package auth

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/db"
	"testing"

	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return repository.NewUserRepository(conn)
}

func mustCreateUser(t *testing.T, users repository.UserRepository, username string, token *string) *models.User {
	t.Helper()
	user := &models.User{Username: username, AuthToken: token}
	require.NoError(t, users.CreateUser(context.Background(), user, "pw123"))
	return user
}
