package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/myvfs/internal/domain/shell"
	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/monitoring"
)

func setupRouter(t *testing.T) (*gin.Engine, *shell.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	manager := shell.NewManager(vfs.NewTree(), shell.Options{
		Env:      shell.MapEnv(nil),
		Recorder: metrics,
	})

	router := gin.New()
	NewHandlers(manager, metrics).Register(router)
	return router, manager
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	info := decode[shell.SessionInfo](t, w)
	require.NotEmpty(t, info.ID)
	assert.Equal(t, "/", info.Cwd)
	return info.ID
}

func exec(t *testing.T, router http.Handler, sessionID, line string) ExecResponse {
	t.Helper()
	body, err := json.Marshal(ExecRequest{Line: line})
	require.NoError(t, err)
	w := do(t, router, http.MethodPost, "/sessions/"+sessionID+"/exec", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[ExecResponse](t, w)
}

func TestRootAndHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	root := decode[map[string]any](t, w)
	assert.Equal(t, "online", root["status"])
	assert.Equal(t, Service, root["service"])
	assert.Contains(t, root, "metrics")

	createSession(t, router)
	w = do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, float64(1), health["sessions"])
	assert.Equal(t, float64(1), health["nodes"])
}

func TestExecFlow(t *testing.T) {
	router, _ := setupRouter(t)
	sessionID := createSession(t, router)

	resp := exec(t, router, sessionID, "mkdir -p docs/notes")
	assert.Empty(t, resp.Error)
	assert.Equal(t, []string{}, resp.Output)

	resp = exec(t, router, sessionID, "cd docs/notes")
	assert.Equal(t, "/docs/notes", resp.Cwd)

	resp = exec(t, router, sessionID, `write todo.txt "buy milk"`)
	assert.Empty(t, resp.Error)

	resp = exec(t, router, sessionID, "cat todo.txt")
	assert.Equal(t, []string{"buy milk"}, resp.Output)

	resp = exec(t, router, sessionID, "cd /missing")
	assert.Equal(t, "not_found", resp.Kind)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "/docs/notes", resp.Cwd)

	resp = exec(t, router, sessionID, "frobnicate")
	assert.Equal(t, "command_not_found", resp.Kind)

	resp = exec(t, router, sessionID, `echo "unterminated`)
	assert.Equal(t, "parse", resp.Kind)

	resp = exec(t, router, sessionID, "exit")
	assert.True(t, resp.Exited)
	assert.Empty(t, resp.Cwd)

	// Exit closes the session.
	w := do(t, router, http.MethodGet, "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsShareTree(t *testing.T) {
	router, _ := setupRouter(t)
	a := createSession(t, router)
	b := createSession(t, router)

	exec(t, router, a, "touch shared.txt")
	resp := exec(t, router, b, "ls")
	require.Len(t, resp.Output, 1)
	assert.True(t, strings.HasSuffix(resp.Output[0], "shared.txt"))

	w := do(t, router, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Sessions []shell.SessionInfo `json:"sessions"`
		Count    int                 `json:"count"`
	}](t, w)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, a, list.Sessions[0].ID)
	assert.Equal(t, b, list.Sessions[1].ID)
}

func TestCloseSession(t *testing.T) {
	router, manager := setupRouter(t)
	sessionID := createSession(t, router)

	w := do(t, router, http.MethodDelete, "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, manager.Count())

	w = do(t, router, http.MethodDelete, "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestErrors(t *testing.T) {
	router, _ := setupRouter(t)
	sessionID := createSession(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed id", http.MethodGet, "/sessions/nope", "", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/sessions/sess_01ARZ3NDEKTSV4RRFFQ69G5FAV", "", http.StatusNotFound},
		{"exec unknown session", http.MethodPost, "/sessions/sess_01ARZ3NDEKTSV4RRFFQ69G5FAV/exec", `{"line":"ls"}`, http.StatusNotFound},
		{"exec bad body", http.MethodPost, "/sessions/" + sessionID + "/exec", `{"line":`, http.StatusBadRequest},
		{"exec malformed id", http.MethodPost, "/sessions/x/exec", `{"line":"ls"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestNewExecResponse(t *testing.T) {
	resp := NewExecResponse(shell.Result{}, "/")
	assert.Equal(t, []string{}, resp.Output)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.Kind)
	assert.Equal(t, "/", resp.Cwd)
}
