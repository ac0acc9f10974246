package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/myvfs/internal/api/middleware"
	"github.com/GriffinCanCode/myvfs/internal/domain/shell"
	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/monitoring"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *shell.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg.Logging.Development = true

	metrics := monitoring.NewMetrics()
	tree := vfs.NewTree()
	metrics.TrackNodes(tree.Len)
	manager := shell.NewManager(tree, shell.Options{Env: shell.MapEnv(nil), Recorder: metrics})
	return NewServer(cfg, manager, metrics, nil), manager
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/sessions", http.StatusCreated},
		{http.MethodGet, "/sessions", http.StatusOK},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "myvfs_http_requests_total")
	assert.Contains(t, w.Body.String(), "myvfs_vfs_nodes 1")
}

func TestRateLimitApplied(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	srv, _ := newTestServer(t, cfg)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, manager := newTestServer(t, config.Default())
	manager.Create()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, 0, manager.Count())
}
