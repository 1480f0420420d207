package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Equal(t, int64(20), cfg.MaxUploadMB)
	assert.Equal(t, 60, cfg.TimeoutSec)
	assert.Equal(t, 10, cfg.ShutdownTimeoutSec)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.DefaultOptions.BlurPeople)
	assert.True(t, cfg.DefaultOptions.RemoveText)
}

func TestNewServer_InvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0

	_, err := NewServer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestNewServer_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PipelineConfig.ModelsDir = t.TempDir()
	cfg.MaxUploadMB = 0
	cfg.CORSOrigins = nil

	server, err := NewServer(cfg)
	require.NoError(t, err)
	defer func() { _ = server.Close() }()

	assert.Equal(t, int64(20), server.maxUploadMB)
	assert.NotEmpty(t, server.corsOrigins)
	assert.Nil(t, server.rateLimiter)
}

func TestNewServer_RateLimiterEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PipelineConfig.ModelsDir = t.TempDir()
	cfg.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMinute: 5}

	server, err := NewServer(cfg)
	require.NoError(t, err)
	defer func() { _ = server.Close() }()

	assert.NotNil(t, server.rateLimiter)
}

func TestSetupRoutes(t *testing.T) {
	server := newTestServer(&mockScrubber{})

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "process rejects GET", method: http.MethodGet, path: "/process", expectedStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestServer_CloseWithoutPipeline(t *testing.T) {
	server := &Server{}
	assert.NoError(t, server.Close())
}
