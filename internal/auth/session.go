package auth

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "session_token"

	sessionTokenLength = 64
)

// SessionStrategy keeps login sessions server-side and identifies them with
// an HttpOnly cookie.
type SessionStrategy struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	ttl          time.Duration
	secureCookie bool
}

// NewSessionStrategy creates a SessionStrategy whose sessions live for ttl.
func NewSessionStrategy(users repository.UserRepository, sessions repository.SessionRepository, ttl time.Duration, secureCookie bool) *SessionStrategy {
	return &SessionStrategy{
		users:        users,
		sessions:     sessions,
		ttl:          ttl,
		secureCookie: secureCookie,
	}
}

func (s *SessionStrategy) Name() string { return "session" }

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Authenticate resolves the session cookie to its user.
func (s *SessionStrategy) Authenticate(r *http.Request) (*models.User, error) {
	ctx, span := tracer.Start(r.Context(), "SessionStrategy.Authenticate")
	defer span.End()

	token := sessionToken(r)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The user is gone, so is the session.
			if delErr := s.sessions.Delete(ctx, token); delErr != nil {
				slog.WarnContext(ctx, "Failed to drop orphaned session", "user.id", userID, "error", delErr)
			}
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Login opens a new session for user and sets the cookie. The token is not
// returned in the body.
func (s *SessionStrategy) Login(w http.ResponseWriter, r *http.Request, user *models.User) (string, error) {
	token, err := GenerateToken(sessionTokenLength)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(r.Context(), token, user.ID, s.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return "", nil
}

// Logout deletes the session and clears the cookie.
func (s *SessionStrategy) Logout(w http.ResponseWriter, r *http.Request) error {
	if token := sessionToken(r); token != "" {
		if err := s.sessions.Delete(r.Context(), token); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
