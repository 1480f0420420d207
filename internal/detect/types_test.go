package detect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFaceConfig(t *testing.T) {
	cfg := DefaultFaceConfig()
	assert.Equal(t, BackendONNX, cfg.Backend)
	assert.InDelta(t, 0.7, cfg.ScoreThreshold, 1e-9)
	assert.InDelta(t, 0.3, cfg.NMSThreshold, 1e-9)
	assert.InDelta(t, 1.1, cfg.ScaleFactor, 1e-9)
	assert.Equal(t, 5, cfg.MinNeighbors)
	assert.Equal(t, 24, cfg.MinSize)
}

func TestDefaultBodyConfig(t *testing.T) {
	cfg := DefaultBodyConfig()
	assert.InDelta(t, 0.5, cfg.HitThreshold, 1e-9)
	assert.Equal(t, 8, cfg.WinStride)
	assert.Equal(t, 8, cfg.Padding)
	assert.InDelta(t, 1.05, cfg.Scale, 1e-9)
	assert.Equal(t, 900, cfg.DownscaleMaxDim)
	assert.InDelta(t, 0.75, cfg.DownscaleRatio, 1e-9)
}

func TestNewFaceDetectorUnknownBackend(t *testing.T) {
	_, err := NewFaceDetector(FaceConfig{Backend: "opencl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown face backend")
}

func TestNewFaceDetectorONNXMissingModel(t *testing.T) {
	cfg := DefaultFaceConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	_, err := NewFaceDetector(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "face model not found")
}
