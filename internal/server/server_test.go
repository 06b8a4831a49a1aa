package server

import (
	"bytes"
	"context"
	"ctchen222/todo-api/internal/api/controller"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/api/repository/mocks"
	"ctchen222/todo-api/internal/api/service"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/config"
	"ctchen222/todo-api/internal/db"
	"ctchen222/todo-api/internal/i18n"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testServer struct {
	handler http.Handler
	msgs    *i18n.Messages
}

func newTestServer(t *testing.T, authCfg config.AuthConfig, sessions repository.SessionRepository) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	msgs, err := i18n.New("en")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(conn)
	strategy, err := auth.New(authCfg, userRepo, sessions)
	require.NoError(t, err)
	issuer, _ := strategy.(auth.RegistrationIssuer)

	userController := controller.NewUserController(service.NewUserService(userRepo, issuer), strategy, msgs)
	taskController := controller.NewTaskController(service.NewTaskService(repository.NewTaskRepository(conn)), msgs)

	srv, err := NewServer(strategy, msgs, userController, taskController)
	require.NoError(t, err)
	return &testServer{handler: srv.Engine(), msgs: msgs}
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

func (ts *testServer) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(req.body))
	}
	r := httptest.NewRequest(req.method, APIPrefix+req.path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		r.Header.Set("Authorization", req.token)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type tokenBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type detailBody struct {
	Detail string `json:"detail"`
}

type taskBody struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

func register(t *testing.T, ts *testServer, username string) tokenBody {
	t.Helper()
	w := ts.do(t, request{method: http.MethodPost, path: "/register", body: map[string]string{
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"email":      username + "@example.com",
		"password":   "pw123",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[tokenBody](t, w)
}

func login(t *testing.T, ts *testServer, username string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, request{method: http.MethodPost, path: "/login", body: map[string]string{
		"username": username,
		"password": "pw123",
	}})
}

func bearerServer(t *testing.T) *testServer {
	return newTestServer(t, config.AuthConfig{Strategy: config.StrategyBearer}, nil)
}

func TestBearer_Scenario(t *testing.T) {
	ts := bearerServer(t)

	reg := register(t, ts, "alice")
	assert.Equal(t, "You have registered successfully", reg.Message)
	require.Len(t, reg.Token, auth.BearerTokenLength)

	w := login(t, ts, "alice")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[tokenBody](t, w).Token
	assert.Equal(t, reg.Token, token)

	w = ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: token,
		body: map[string]string{"title": "buy milk", "description": "2%"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[taskBody](t, w)
	assert.Equal(t, "NOT_DONE", created.Status)
	_, err := time.Parse(time.RFC3339Nano, created.Created)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339Nano, created.Updated)
	assert.NoError(t, err)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]taskBody](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "buy milk", list[0].Title)
	assert.Equal(t, "2%", list[0].Description)
	assert.Equal(t, "NOT_DONE", list[0].Status)

	donePath := fmt.Sprintf("/edit_status_todo_on_done/%d", created.ID)
	w = ts.do(t, request{method: http.MethodPatch, path: donePath, token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ts.msgs.Get(i18n.StatusChanged, created.ID), decode[detailBody](t, w).Detail)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "There are no tasks yet.", decode[detailBody](t, w).Detail)

	w = ts.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/edit_todo/%d", created.ID), token: token,
		body: map[string]string{"title": "changed", "description": ""}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, request{method: http.MethodPatch, path: donePath, token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBearer_EditTodo(t *testing.T) {
	ts := bearerServer(t)
	token := register(t, ts, "alice").Token

	w := ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: "Bearer " + token,
		body: map[string]string{"title": "buy milk", "description": "2%"}})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[taskBody](t, w)

	w = ts.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/edit_todo/%d", created.ID), token: token,
		body: map[string]string{"title": "buy oat milk", "description": "barista"}})
	require.Equal(t, http.StatusOK, w.Code)
	edited := decode[taskBody](t, w)
	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, "buy oat milk", edited.Title)
	assert.Equal(t, "barista", edited.Description)
	createdAt, err := time.Parse(time.RFC3339Nano, created.Created)
	require.NoError(t, err)
	editedCreatedAt, err := time.Parse(time.RFC3339Nano, edited.Created)
	require.NoError(t, err)
	assert.WithinDuration(t, createdAt, editedCreatedAt, time.Millisecond)
}

func TestUnauthenticatedRequests(t *testing.T) {
	ts := bearerServer(t)
	token := register(t, ts, "alice").Token
	w := ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: token,
		body: map[string]string{"title": "t", "description": "d"}})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name string
		req  request
	}{
		{name: "list without token", req: request{method: http.MethodGet, path: "/todos"}},
		{name: "list with bad token", req: request{method: http.MethodGet, path: "/todos", token: "forged"}},
		{name: "create", req: request{method: http.MethodPost, path: "/create_todo", body: map[string]string{"title": "x"}}},
		{name: "edit", req: request{method: http.MethodPatch, path: "/edit_todo/1", body: map[string]string{"title": "x"}}},
		{name: "mark done", req: request{method: http.MethodPatch, path: "/edit_status_todo_on_done/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Not authenticated.", decode[detailBody](t, w).Detail)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ts := bearerServer(t)
	register(t, ts, "alice")

	w := ts.do(t, request{method: http.MethodPost, path: "/register", body: map[string]string{
		"username": "alice",
		"password": "other",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A user with this username already exists.", decode[detailBody](t, w).Detail)

	// The first registration is untouched.
	assert.Equal(t, http.StatusOK, login(t, ts, "alice").Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := bearerServer(t)
	register(t, ts, "alice")

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "wrong password", body: map[string]string{"username": "alice", "password": "nope"}},
		{name: "unknown user", body: map[string]string{"username": "bob", "password": "pw123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, request{method: http.MethodPost, path: "/login", body: tt.body})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid username or password.", decode[detailBody](t, w).Detail)
		})
	}
}

func TestOwnershipIsolation(t *testing.T) {
	ts := bearerServer(t)
	alice := register(t, ts, "alice").Token
	bob := register(t, ts, "bob").Token

	w := ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: alice,
		body: map[string]string{"title": "alice's", "description": ""}})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[taskBody](t, w)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: bob})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/edit_todo/%d", task.ID), token: bob,
		body: map[string]string{"title": "bob's now", "description": ""}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/edit_status_todo_on_done/%d", task.ID), token: bob})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: alice})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]taskBody](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "alice's", list[0].Title)
	assert.Equal(t, "NOT_DONE", list[0].Status)
}

func TestValidation(t *testing.T) {
	ts := bearerServer(t)
	token := register(t, ts, "alice").Token
	w := ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: token,
		body: map[string]string{"title": "buy milk", "description": "2%"}})
	require.Equal(t, http.StatusCreated, w.Code)
	editPath := fmt.Sprintf("/edit_todo/%d", decode[taskBody](t, w).ID)

	tests := []struct {
		name string
		req  request
	}{
		{name: "register without username", req: request{method: http.MethodPost, path: "/register",
			body: map[string]string{"password": "pw"}}},
		{name: "register with bad email", req: request{method: http.MethodPost, path: "/register",
			body: map[string]string{"username": "carol", "password": "pw", "email": "nope"}}},
		{name: "register with 100-byte password", req: request{method: http.MethodPost, path: "/register",
			body: map[string]string{"username": "dave", "password": strings.Repeat("a", 100)}}},
		{name: "register with 42 cyrillic runes", req: request{method: http.MethodPost, path: "/register",
			body: map[string]string{"username": "erin", "password": strings.Repeat("ж", 42)}}},
		{name: "login without password", req: request{method: http.MethodPost, path: "/login",
			body: map[string]string{"username": "alice"}}},
		{name: "create without title", req: request{method: http.MethodPost, path: "/create_todo", token: token,
			body: map[string]string{"description": "d"}}},
		{name: "create with blank title", req: request{method: http.MethodPost, path: "/create_todo", token: token,
			body: map[string]string{"title": "   "}}},
		{name: "create without description", req: request{method: http.MethodPost, path: "/create_todo", token: token,
			body: map[string]string{"title": "t"}}},
		{name: "edit without description", req: request{method: http.MethodPatch, path: editPath, token: token,
			body: map[string]string{"title": "x"}}},
		{name: "edit with non-numeric id", req: request{method: http.MethodPatch, path: "/edit_todo/abc", token: token,
			body: map[string]string{"title": "t"}}},
		{name: "done with non-numeric id", req: request{method: http.MethodPatch, path: "/edit_status_todo_on_done/abc", token: token}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.req)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[detailBody](t, w).Detail)
		})
	}

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]taskBody](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Title)
	assert.Equal(t, "2%", list[0].Description, "rejected edits must leave the task untouched")

	// Rejected registrations leave the username free.
	register(t, ts, "erin")
}

func TestBearer_NoLogoutRoute(t *testing.T) {
	ts := bearerServer(t)
	token := register(t, ts, "alice").Token

	w := ts.do(t, request{method: http.MethodPost, path: "/logout", token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	ts := bearerServer(t)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestJWT_Scenario(t *testing.T) {
	ts := newTestServer(t, config.AuthConfig{Strategy: config.StrategyJWT, JWTSecret: "k", JWTTTL: time.Hour}, nil)

	reg := register(t, ts, "alice")
	assert.Empty(t, reg.Token, "jwt strategy issues tokens at login only")

	w := login(t, ts, "alice")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[tokenBody](t, w).Token
	require.NotEmpty(t, token)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: "Bearer " + token})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, request{method: http.MethodPost, path: "/create_todo", token: "Bearer " + token,
		body: map[string]string{"title": "buy milk", "description": "2%"}})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the Bearer scheme is mandatory for jwt")
}

// memorySessions backs the session mock with a map.
func memorySessions(ctrl *gomock.Controller) *mocks.MockSessionRepository {
	var mu sync.Mutex
	store := make(map[string]int64)

	m := mocks.NewMockSessionRepository(ctrl)
	m.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, token string, userID int64, _ time.Duration) error {
			mu.Lock()
			defer mu.Unlock()
			store[token] = userID
			return nil
		})
	m.EXPECT().Resolve(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, token string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			id, ok := store[token]
			if !ok {
				return 0, repository.ErrNotFound
			}
			return id, nil
		})
	m.EXPECT().Delete(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, token string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(store, token)
			return nil
		})
	return m
}

func TestSession_Scenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	ts := newTestServer(t, config.AuthConfig{Strategy: config.StrategySession, SessionTTL: time.Hour}, memorySessions(ctrl))

	reg := register(t, ts, "alice")
	assert.Empty(t, reg.Token)

	w := login(t, ts, "alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[tokenBody](t, w).Token)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, request{method: http.MethodPost, path: "/create_todo", cookies: cookies,
		body: map[string]string{"title": "buy milk", "description": "2%"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]taskBody](t, w), 1)

	w = ts.do(t, request{method: http.MethodPost, path: "/logout", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You have logged out successfully.", decode[detailBody](t, w).Detail)

	w = ts.do(t, request{method: http.MethodGet, path: "/todos", cookies: cookies})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, request{method: http.MethodPost, path: "/logout", cookies: cookies})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
