package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/musicgraph/pkg/chat"
	"github.com/soundprediction/musicgraph/pkg/config"
	"github.com/soundprediction/musicgraph/pkg/driver"
	"github.com/soundprediction/musicgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: gin.TestMode,
		},
	}
}

// sessionAsker echoes the request source it finds in the request context.
type sessionAsker struct{}

func (sessionAsker) Ask(ctx context.Context, session *chat.Session, question string) (*chat.Answer, error) {
	source, _ := ctx.Value(types.ContextKeyRequestSource).(string)
	return &chat.Answer{Question: question, Text: source}, nil
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	server := New(cfg, nil, nil, nil)
	require.NotNil(t, server)
	assert.Same(t, cfg, server.config)
	assert.NotNil(t, server.sessions)
}

func TestSetup(t *testing.T) {
	server := New(testConfig(), nil, nil, nil)
	server.Setup()

	require.NotNil(t, server.router)
	require.NotNil(t, server.server)
	assert.Equal(t, "localhost:8080", server.server.Addr)
}

func TestRoutes(t *testing.T) {
	server := New(testConfig(), driver.NewMemoryDriver(), sessionAsker{}, nil)
	server.Setup()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/health/detailed", http.StatusOK},
		{http.MethodGet, "/api/v1/stats", http.StatusOK},
		{http.MethodGet, "/api/v1/examples", http.StatusOK},
		{http.MethodPost, "/api/v1/sessions", http.StatusCreated},
		{http.MethodGet, "/api/v1/sessions/unknown", http.StatusNotFound},
		{http.MethodGet, "/nonexistent", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAskThroughRouter(t *testing.T) {
	server := New(testConfig(), driver.NewMemoryDriver(), sessionAsker{}, nil)
	server.Setup()

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var session chat.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+session.ID+"/messages", strings.NewReader(`{"question":"Which genres exist?"}`))
	req.Header.Set("Content-Type", "application/json")
	server.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "server", resp["answer"], "request source is set by middleware")
}

func TestCORSPreflight(t *testing.T) {
	server := New(testConfig(), nil, nil, nil)
	server.Setup()

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	server := New(cfg, nil, nil, nil)
	server.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAskRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = 0.001
	cfg.Server.RateBurst = 2
	server := New(cfg, driver.NewMemoryDriver(), sessionAsker{}, nil)
	server.Setup()

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	var session chat.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+session.ID+"/messages", strings.NewReader(`{"question":"Which genres exist?"}`))
		req.Header.Set("Content-Type", "application/json")
		server.router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
