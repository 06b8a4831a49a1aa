package auth

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// BearerStrategy authenticates the opaque token sent in the Authorization
// header. Tokens never expire and are never rotated.
type BearerStrategy struct {
	users repository.UserRepository
}

// NewBearerStrategy creates a BearerStrategy backed by the user store.
func NewBearerStrategy(users repository.UserRepository) *BearerStrategy {
	return &BearerStrategy{users: users}
}

func (s *BearerStrategy) Name() string { return "bearer" }

// NewRegistrationToken issues the token stored with a new user.
func (s *BearerStrategy) NewRegistrationToken() (string, error) {
	return GenerateToken(BearerTokenLength)
}

// Authenticate looks the user up by exact token match. The header may carry
// the raw token or "Bearer <token>".
func (s *BearerStrategy) Authenticate(r *http.Request) (*models.User, error) {
	ctx, span := tracer.Start(r.Context(), "BearerStrategy.Authenticate")
	defer span.End()

	token := strings.TrimSpace(r.Header.Get("Authorization"))
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Login returns the user's token, issuing one first for users registered
// while another strategy was active.
func (s *BearerStrategy) Login(w http.ResponseWriter, r *http.Request, user *models.User) (string, error) {
	if user.AuthToken != nil && *user.AuthToken != "" {
		return *user.AuthToken, nil
	}

	token, err := GenerateToken(BearerTokenLength)
	if err != nil {
		return "", err
	}
	if err := s.users.SetAuthToken(r.Context(), user.ID, token); err != nil {
		return "", fmt.Errorf("failed to issue auth token: %w", err)
	}
	user.AuthToken = &token
	return token, nil
}
