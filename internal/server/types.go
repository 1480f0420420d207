// Package server exposes the scrubbing pipeline over HTTP. A single
// POST /process endpoint accepts a multipart photo upload plus per-request
// options and answers with the scrubbed image bytes; /health and /metrics
// cover liveness and Prometheus scraping.
package server

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scrubberInterface defines the methods the server needs from a pipeline.
type scrubberInterface interface {
	ProcessImage(ctx context.Context, img image.Image, opts pipeline.Options) (*pipeline.Result, error)
	Warmup(ctx context.Context) map[string]error
	Close() error
}

// RateLimitConfig controls the optional per-client rate limiter.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// Config holds server configuration.
type Config struct {
	Host               string
	Port               int
	CORSOrigins        []string
	MaxUploadMB        int64
	TimeoutSec         int
	ShutdownTimeoutSec int
	PipelineConfig     pipeline.Config
	DefaultOptions     pipeline.Options
	OverlayColors      pipeline.OverlayColors
	RateLimit          RateLimitConfig
}

// DefaultConfig returns a server configuration suitable for local use.
// The CORS defaults match the Vite dev frontend.
func DefaultConfig() Config {
	return Config{
		Host:               "localhost",
		Port:               8080,
		CORSOrigins:        []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		MaxUploadMB:        20,
		TimeoutSec:         60,
		ShutdownTimeoutSec: 10,
		PipelineConfig:     pipeline.DefaultConfig(),
		DefaultOptions:     pipeline.DefaultOptions(),
		OverlayColors:      pipeline.DefaultOverlayColors(),
		RateLimit:          RateLimitConfig{Enabled: false, RequestsPerMinute: 60},
	}
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	scrubber      scrubberInterface
	corsOrigins   []string
	maxUploadMB   int64
	timeoutSec    int
	defaultOpts   pipeline.Options
	overlayColors pipeline.OverlayColors
	rateLimiter   *RateLimiter
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a new scrub server instance. The pipeline is built from
// the provided config; engines that fail to initialize stay nil and surface
// as 503 when a request needs them.
func NewServer(config Config) (*Server, error) {
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port number: %d", config.Port)
	}

	scrubber, err := pipeline.NewBuilder().WithConfig(config.PipelineConfig).Build()
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	s := &Server{
		scrubber:      scrubber,
		corsOrigins:   config.CORSOrigins,
		maxUploadMB:   config.MaxUploadMB,
		timeoutSec:    config.TimeoutSec,
		defaultOpts:   config.DefaultOptions,
		overlayColors: config.OverlayColors,
	}
	if s.maxUploadMB <= 0 {
		s.maxUploadMB = DefaultConfig().MaxUploadMB
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = DefaultConfig().CORSOrigins
	}
	if config.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(config.RateLimit.RequestsPerMinute)
	}
	return s, nil
}

// Warmup probes every pipeline engine once so the first request does not
// pay initialization cost. The result is keyed by engine name.
func (s *Server) Warmup(ctx context.Context) map[string]error {
	if s.scrubber == nil {
		return nil
	}
	return s.scrubber.Warmup(ctx)
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.scrubber != nil {
		return s.scrubber.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/process", s.corsMiddleware(s.rateLimitMiddleware(s.processHandler)))
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
