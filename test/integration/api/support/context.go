// Package support holds the shared state and step definitions for the
// HTTP API integration tests. Scenarios run against a real server wired
// through httptest, so every assertion exercises the production routing,
// middleware and handler code.
package support

import (
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/MeKo-Tech/scrub/internal/server"
)

// TestContext carries state across the steps of one scenario.
type TestContext struct {
	// Server under test
	httpServer  *httptest.Server
	scrubServer *server.Server

	// Last HTTP exchange
	LastStatusCode int
	LastHeaders    http.Header
	LastBody       []byte

	// LastUpload is the decoded image most recently sent to the server,
	// kept so response dimensions can be checked against it.
	LastUpload image.Image

	// Test artifacts
	TempDir      string
	CreatedFiles []string
}

// NewTestContext creates a fresh context with its own temp directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "scrub-api-test-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	return &TestContext{TempDir: tempDir}, nil
}

// TrackFile registers a file for removal during Cleanup.
func (testCtx *TestContext) TrackFile(path string) {
	testCtx.CreatedFiles = append(testCtx.CreatedFiles, path)
}

// ServerURL returns the base URL of the running test server.
func (testCtx *TestContext) ServerURL() string {
	if testCtx.httpServer == nil {
		return ""
	}
	return testCtx.httpServer.URL
}

// StartServer builds a real server from cfg and exposes it through an
// httptest listener. Any previously started server is shut down first, so
// a scenario can replace the default server with a specially configured
// one.
func (testCtx *TestContext) StartServer(cfg server.Config) error {
	testCtx.StopServer()

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	testCtx.scrubServer = srv
	testCtx.httpServer = httptest.NewServer(mux)
	return nil
}

// StopServer shuts down the test server if one is running.
func (testCtx *TestContext) StopServer() {
	if testCtx.httpServer != nil {
		testCtx.httpServer.Close()
		testCtx.httpServer = nil
	}
	if testCtx.scrubServer != nil {
		if err := testCtx.scrubServer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing server: %v\n", err)
		}
		testCtx.scrubServer = nil
	}
}

// Cleanup tears down the server and removes all tracked artifacts.
func (testCtx *TestContext) Cleanup() error {
	testCtx.StopServer()

	var errs []error
	for _, file := range testCtx.CreatedFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove file %s: %w", file, err))
		}
	}
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("remove temp directory %s: %w", testCtx.TempDir, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed: %v", errs)
	}
	return nil
}
