package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testServer wires the real services and middleware over in-memory stores.
type testServer struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	cache  *mocks.MockAvatarCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	cache := mocks.NewMockAvatarCache()
	tokens := auth.NewTokenService(auth.RequireTestJWTService(t), users, quietLogger)

	userService := service.NewUserService(users, tasks, tokens, &mocks.MockPasswordVerifier{}, cache, quietLogger)
	taskService := service.NewTaskService(tasks, quietLogger)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(quietLogger))
	api.RegisterRoutes(
		r,
		api.NewUserHandler(userService, quietLogger),
		api.NewTaskHandler(taskService, quietLogger),
		middleware.NewAuthMiddleware(tokens, users).Authenticate,
	)

	return &testServer{router: r, users: users, tasks: tasks, cache: cache}
}

// do sends a request with an optional bearer token. A non-nil body that is
// not an io.Reader is JSON-encoded.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns the user and its first token.
func (s *testServer) register(t *testing.T, name, email string) (*domain.User, string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/users", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "red12345!",
		"age":      27,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	msg, _ := body["error"].(string)
	return msg
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task), rec.Body.String())
	return task
}

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []domain.Task {
	t.Helper()
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks), rec.Body.String())
	return tasks
}
