package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithFile(t *testing.T) {
	path := writeConfigFile(t, `
log_level: debug
pipeline:
  blur_strength: 51
  ocr:
    languages: [eng, deu]
    min_confidence: 35
server:
  port: 9090
  max_upload_mb: 5
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 51, cfg.Pipeline.BlurStrength)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Pipeline.OCR.Languages)
	assert.InDelta(t, 35.0, cfg.Pipeline.OCR.MinConfidence, 0.001)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)

	// Untouched keys keep their defaults.
	assert.Equal(t, 20, DefaultConfig().Server.MaxUploadMB)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Len(t, cfg.Server.CORSOrigins, 2)
}

func TestLoadWithFileMissing(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadWithFileInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "pipeline: [not a map")
	_, err := LoadWithFile(path)
	require.Error(t, err)
}

func TestLoadWithFileFailsValidation(t *testing.T) {
	path := writeConfigFile(t, "pipeline:\n  blur_strength: 30\n")
	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blur_strength")
}

func TestLoadUsesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, DefaultConfig().Pipeline.BlurStrength, cfg.Pipeline.BlurStrength)
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("SCRUB_SERVER_PORT", "9191")
	t.Setenv("SCRUB_PIPELINE_BLUR_STRENGTH", "71")
	t.Setenv("SCRUB_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 71, cfg.Pipeline.BlurStrength)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadEnvironmentFailsValidation(t *testing.T) {
	t.Setenv("SCRUB_PIPELINE_BLUR_STRENGTH", "40")
	_, err := Load()
	require.Error(t, err)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrub.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# scrub configuration"))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, DefaultConfig().Pipeline.BlurStrength, cfg.Pipeline.BlurStrength)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/"+configName)
}
