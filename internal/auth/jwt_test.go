package auth

import (
	"ctchen222/todo-api/internal/api/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/todos", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestJWTStrategy_RoundTrip(t *testing.T) {
	users := newUserRepo(t)
	alice := mustCreateUser(t, users, "alice", nil)
	s := NewJWTStrategy(users, "secret", time.Hour)

	token, err := s.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil), alice)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := s.Authenticate(jwtRequest(token))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
}

func TestJWTStrategy_Rejects(t *testing.T) {
	users := newUserRepo(t)
	alice := mustCreateUser(t, users, "alice", nil)
	s := NewJWTStrategy(users, "secret", time.Hour)

	issued := time.Now().Add(-2 * time.Hour)
	expired := NewJWTStrategy(users, "secret", time.Hour)
	expired.now = func() time.Time { return issued }
	expiredToken, err := expired.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), alice)
	require.NoError(t, err)

	otherKey := NewJWTStrategy(users, "other", time.Hour)
	forgedToken, err := otherKey.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), alice)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	ghost, err := s.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), &models.User{ID: 999, Username: "ghost"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "missing header", req: httptest.NewRequest(http.MethodGet, "/", nil)},
		{name: "garbage", req: jwtRequest("not.a.jwt")},
		{name: "expired", req: jwtRequest(expiredToken)},
		{name: "wrong key", req: jwtRequest(forgedToken)},
		{name: "alg none", req: jwtRequest(noneToken)},
		{name: "unknown subject", req: jwtRequest(ghost)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(tt.req)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}
