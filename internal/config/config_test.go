package config

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, pipeline.DefaultBlurStrength, cfg.Pipeline.BlurStrength)
	assert.Equal(t, []string{"eng"}, cfg.Pipeline.OCR.Languages)
	assert.Zero(t, cfg.Pipeline.OCR.MinConfidence)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.False(t, cfg.Server.RateLimit.Enabled)
	assert.Len(t, cfg.Server.CORSOrigins, 2)
	assert.True(t, cfg.Pipeline.Barcode.TryHarder)
	assert.True(t, cfg.Pipeline.Barcode.Multi)
	assert.InDelta(t, pipeline.DefaultBarcodePadRatio, cfg.Pipeline.Barcode.PadRatio, 0.001)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, "_scrubbed", cfg.Batch.Suffix)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
		{
			name:    "even blur strength",
			mutate:  func(c *Config) { c.Pipeline.BlurStrength = 30 },
			wantErr: "blur_strength",
		},
		{
			name:    "blur strength too large",
			mutate:  func(c *Config) { c.Pipeline.BlurStrength = 153 },
			wantErr: "blur_strength",
		},
		{
			name:    "negative text pad ratio",
			mutate:  func(c *Config) { c.Pipeline.TextPadRatio = -0.1 },
			wantErr: "text_pad_ratio",
		},
		{
			name:    "negative barcode pad ratio",
			mutate:  func(c *Config) { c.Pipeline.Barcode.PadRatio = -1 },
			wantErr: "barcode.pad_ratio",
		},
		{
			name:    "confidence above range",
			mutate:  func(c *Config) { c.Pipeline.OCR.MinConfidence = 101 },
			wantErr: "min_confidence",
		},
		{
			name:    "negative confidence",
			mutate:  func(c *Config) { c.Pipeline.OCR.MinConfidence = -5 },
			wantErr: "min_confidence",
		},
		{
			name:    "unparseable ocr language",
			mutate:  func(c *Config) { c.Pipeline.OCR.Languages = []string{"not a language!"} },
			wantErr: "ocr language",
		},
		{
			name:    "zero inpaint radius",
			mutate:  func(c *Config) { c.Pipeline.Inpaint.Radius = 0 },
			wantErr: "inpaint.radius",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "bmp" },
			wantErr: "format",
		},
		{
			name:    "bad overlay color",
			mutate:  func(c *Config) { c.Output.OverlayFaceColor = "green" },
			wantErr: "overlay_face_color",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr: "max_upload_mb",
		},
		{
			name: "rate limit enabled without budget",
			mutate: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerMin = 0
			},
			wantErr: "requests_per_min",
		},
		{
			name:    "negative batch workers",
			mutate:  func(c *Config) { c.Batch.Workers = -1 },
			wantErr: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateAccepts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.BlurStrength = 151
	cfg.Pipeline.OCR.Languages = []string{"eng", "deu", "fra"}
	cfg.Output.Format = "jpg"
	cfg.Output.OverlayTextColor = ""
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 10
	require.NoError(t, cfg.Validate())
}

func TestToPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelsDir = "/opt/models"
	cfg.Pipeline.TextPadRatio = 0.2
	cfg.Pipeline.OCR.Languages = []string{"deu"}
	cfg.Pipeline.OCR.MinConfidence = 40
	cfg.Pipeline.Face.ScoreThreshold = 0.85
	cfg.Pipeline.Barcode.Multi = false
	cfg.Pipeline.Barcode.PadRatio = 0.6
	cfg.Pipeline.MaxPixels = 10_000_000
	cfg.Pipeline.Workers = 3

	pc := cfg.ToPipelineConfig()
	assert.Equal(t, "/opt/models", pc.ModelsDir)
	assert.InDelta(t, 0.2, pc.TextPadRatio, 0.001)
	assert.Equal(t, []string{"deu"}, pc.OCR.Languages)
	assert.InDelta(t, 40.0, pc.MinConfidence, 0.001)
	assert.InDelta(t, 0.85, pc.Face.ScoreThreshold, 0.001)
	assert.False(t, pc.Barcode.Multi)
	assert.InDelta(t, 0.6, pc.BarcodePadRatio, 0.001)
	assert.Equal(t, int64(10_000_000), pc.Constraints.MaxPixels)
	assert.Equal(t, 3, pc.Parallel.MaxWorkers)
}

func TestToPipelineConfigFallsBackToDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.TextPadRatio = pipeline.DefaultTextPadRatio
	cfg.Pipeline.FacePadRatio = pipeline.DefaultFacePadRatio

	pc := cfg.ToPipelineConfig()
	defaults := pipeline.DefaultConfig()
	assert.Equal(t, defaults.ModelsDir, pc.ModelsDir)
	assert.Equal(t, defaults.OCR.Languages, pc.OCR.Languages)
	assert.InDelta(t, defaults.Face.ScoreThreshold, pc.Face.ScoreThreshold, 0.001)
	assert.InDelta(t, defaults.Inpaint.Radius, pc.Inpaint.Radius, 0.001)
}

func TestDefaultRequestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.BlurStrength = 51

	opts := cfg.DefaultRequestOptions()
	assert.True(t, opts.BlurPeople)
	assert.True(t, opts.RemoveText)
	assert.False(t, opts.DetectBodies)
	assert.Equal(t, 51, opts.BlurStrength)
}

func TestOverlayColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.OverlayTextColor = "#112233"
	cfg.Output.OverlayBarcodeColor = "#ff00ff"
	cfg.Output.OverlayFaceColor = "nonsense"

	colors := cfg.OverlayColors()
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}, colors.Text)
	assert.Equal(t, color.RGBA{R: 0xff, B: 0xff, A: 255}, colors.Barcode)
	assert.Equal(t, pipeline.DefaultOverlayColors().Face, colors.Face, "unparseable values keep the default")
}
