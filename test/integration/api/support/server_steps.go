package support

import (
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/scrub/internal/server"
)

// baseServerConfig returns the server configuration the scenarios start
// from. Model lookups are pointed into the scenario temp directory so the
// detector engines stay unloaded and requests that never reach them behave
// the same on every machine.
func (testCtx *TestContext) baseServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.PipelineConfig.ModelsDir = testCtx.TempDir
	return cfg
}

func (testCtx *TestContext) theScrubServerIsRunning() error {
	return testCtx.StartServer(testCtx.baseServerConfig())
}

func (testCtx *TestContext) theScrubServerIsRunningWithUploadLimit(limitMB int) error {
	cfg := testCtx.baseServerConfig()
	cfg.MaxUploadMB = int64(limitMB)
	return testCtx.StartServer(cfg)
}

func (testCtx *TestContext) theScrubServerIsRunningWithAllowedOrigins(origins string) error {
	cfg := testCtx.baseServerConfig()
	cfg.CORSOrigins = nil
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}
	return testCtx.StartServer(cfg)
}

func (testCtx *TestContext) theScrubServerIsRunningWithRateLimit(requestsPerMinute int) error {
	cfg := testCtx.baseServerConfig()
	cfg.RateLimit = server.RateLimitConfig{Enabled: true, RequestsPerMinute: requestsPerMinute}
	return testCtx.StartServer(cfg)
}

// RegisterServerSteps wires the server lifecycle steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the scrub server is running$`, testCtx.theScrubServerIsRunning)
	sc.Step(`^the scrub server is running with a (\d+) MB upload limit$`,
		testCtx.theScrubServerIsRunningWithUploadLimit)
	sc.Step(`^the scrub server is running with allowed origins "([^"]*)"$`,
		testCtx.theScrubServerIsRunningWithAllowedOrigins)
	sc.Step(`^the scrub server is running with a rate limit of (\d+) requests? per minute$`,
		testCtx.theScrubServerIsRunningWithRateLimit)
}
