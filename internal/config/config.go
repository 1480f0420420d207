// Package config loads and validates application configuration from YAML
// files and SCRUB_* environment variables.
package config

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// Config is the root application configuration.
type Config struct {
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// PipelineConfig holds defaults for the scrubbing pipeline. Request options
// can override the blur strength and stage toggles per call.
type PipelineConfig struct {
	BlurStrength int     `mapstructure:"blur_strength" yaml:"blur_strength" json:"blur_strength"`
	TextPadRatio float64 `mapstructure:"text_pad_ratio" yaml:"text_pad_ratio" json:"text_pad_ratio"`
	FacePadRatio float64 `mapstructure:"face_pad_ratio" yaml:"face_pad_ratio" json:"face_pad_ratio"`
	MaxPixels    int64   `mapstructure:"max_pixels" yaml:"max_pixels" json:"max_pixels"`
	Workers      int     `mapstructure:"workers" yaml:"workers" json:"workers"`

	OCR     OCRConfig     `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Face    FaceConfig    `mapstructure:"face" yaml:"face" json:"face"`
	Body    BodyConfig    `mapstructure:"body" yaml:"body" json:"body"`
	Barcode BarcodeConfig `mapstructure:"barcode" yaml:"barcode" json:"barcode"`
	Inpaint InpaintConfig `mapstructure:"inpaint" yaml:"inpaint" json:"inpaint"`
}

// OCRConfig holds text detection settings.
type OCRConfig struct {
	Languages     []string `mapstructure:"languages" yaml:"languages" json:"languages"`
	MinConfidence float64  `mapstructure:"min_confidence" yaml:"min_confidence" json:"min_confidence"`
}

// FaceConfig holds face detection settings.
type FaceConfig struct {
	Backend        string  `mapstructure:"backend" yaml:"backend" json:"backend"`
	ModelPath      string  `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	CascadePath    string  `mapstructure:"cascade_path" yaml:"cascade_path" json:"cascade_path"`
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold" json:"score_threshold"`
}

// BodyConfig holds body detection settings.
type BodyConfig struct {
	HitThreshold float64 `mapstructure:"hit_threshold" yaml:"hit_threshold" json:"hit_threshold"`
}

// BarcodeConfig holds barcode and QR code detection settings.
type BarcodeConfig struct {
	TryHarder bool    `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	Multi     bool    `mapstructure:"multi" yaml:"multi" json:"multi"`
	PadRatio  float64 `mapstructure:"pad_ratio" yaml:"pad_ratio" json:"pad_ratio"`
}

// InpaintConfig holds inpainting settings.
type InpaintConfig struct {
	Radius float64 `mapstructure:"radius" yaml:"radius" json:"radius"`
}

// OutputConfig controls output encoding and overlay rendering.
type OutputConfig struct {
	Format              string `mapstructure:"format" yaml:"format" json:"format"`
	OverlayTextColor    string `mapstructure:"overlay_text_color" yaml:"overlay_text_color" json:"overlay_text_color"`
	OverlayBarcodeColor string `mapstructure:"overlay_barcode_color" yaml:"overlay_barcode_color" json:"overlay_barcode_color"`
	OverlayFaceColor    string `mapstructure:"overlay_face_color" yaml:"overlay_face_color" json:"overlay_face_color"`
	OverlayBodyColor    string `mapstructure:"overlay_body_color" yaml:"overlay_body_color" json:"overlay_body_color"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host               string   `mapstructure:"host" yaml:"host" json:"host"`
	Port               int      `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigins        []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
	MaxUploadMB        int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec         int      `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig controls per-client request limiting. Disabled by default.
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMin int  `mapstructure:"requests_per_min" yaml:"requests_per_min" json:"requests_per_min"`
}

// BatchConfig controls directory batch processing.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Suffix          string `mapstructure:"suffix" yaml:"suffix" json:"suffix"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	pipelineDefaults := pipeline.DefaultConfig()
	return &Config{
		ModelsDir: pipelineDefaults.ModelsDir,
		LogLevel:  "info",
		Pipeline: PipelineConfig{
			BlurStrength: pipeline.DefaultBlurStrength,
			TextPadRatio: pipeline.DefaultTextPadRatio,
			FacePadRatio: pipeline.DefaultFacePadRatio,
			MaxPixels:    pipelineDefaults.Constraints.MaxPixels,
			Workers:      pipelineDefaults.Parallel.MaxWorkers,
			OCR: OCRConfig{
				Languages:     pipelineDefaults.OCR.Languages,
				MinConfidence: pipelineDefaults.MinConfidence,
			},
			Face: FaceConfig{
				Backend:        pipelineDefaults.Face.Backend,
				ScoreThreshold: pipelineDefaults.Face.ScoreThreshold,
			},
			Body: BodyConfig{
				HitThreshold: pipelineDefaults.Body.HitThreshold,
			},
			Barcode: BarcodeConfig{
				TryHarder: pipelineDefaults.Barcode.TryHarder,
				Multi:     pipelineDefaults.Barcode.Multi,
				PadRatio:  pipelineDefaults.BarcodePadRatio,
			},
			Inpaint: InpaintConfig{
				Radius: pipelineDefaults.Inpaint.Radius,
			},
		},
		Output: OutputConfig{
			Format:              utils.FormatPNG,
			OverlayTextColor:    "#ff0000",
			OverlayBarcodeColor: "#ffcc00",
			OverlayFaceColor:    "#00ff00",
			OverlayBodyColor:    "#0000ff",
		},
		Server: ServerConfig{
			Host:               "",
			Port:               8080,
			CORSOrigins:        []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			MaxUploadMB:        20,
			TimeoutSec:         60,
			ShutdownTimeoutSec: 10,
			RateLimit: RateLimitConfig{
				Enabled:        false,
				RequestsPerMin: 60,
			},
		},
		Batch: BatchConfig{
			Workers:   pipelineDefaults.Parallel.MaxWorkers,
			Suffix:    "_scrubbed",
			OutputDir: "",
		},
	}
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for values the application cannot run
// with. It returns the first problem found.
func (c *Config) Validate() error {
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (must be one of %v)", c.LogLevel, validLogLevels)
	}

	opts := pipeline.DefaultOptions()
	opts.BlurStrength = c.Pipeline.BlurStrength
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if c.Pipeline.TextPadRatio < 0 {
		return fmt.Errorf("pipeline: text_pad_ratio must not be negative, got %g", c.Pipeline.TextPadRatio)
	}
	if c.Pipeline.FacePadRatio < 0 {
		return fmt.Errorf("pipeline: face_pad_ratio must not be negative, got %g", c.Pipeline.FacePadRatio)
	}
	if c.Pipeline.Barcode.PadRatio < 0 {
		return fmt.Errorf("pipeline: barcode.pad_ratio must not be negative, got %g", c.Pipeline.Barcode.PadRatio)
	}
	if c.Pipeline.OCR.MinConfidence < 0 || c.Pipeline.OCR.MinConfidence > 100 {
		return fmt.Errorf("pipeline: ocr.min_confidence %g out of range [0, 100]", c.Pipeline.OCR.MinConfidence)
	}
	for _, lang := range c.Pipeline.OCR.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("pipeline: unknown ocr language %q: %w", lang, err)
		}
	}
	if c.Pipeline.Inpaint.Radius <= 0 {
		return fmt.Errorf("pipeline: inpaint.radius must be positive, got %g", c.Pipeline.Inpaint.Radius)
	}

	switch c.Output.Format {
	case utils.FormatPNG, utils.FormatJPEG, "jpg":
	default:
		return fmt.Errorf("output: unknown format %q", c.Output.Format)
	}
	for _, col := range []struct{ name, value string }{
		{"overlay_text_color", c.Output.OverlayTextColor},
		{"overlay_barcode_color", c.Output.OverlayBarcodeColor},
		{"overlay_face_color", c.Output.OverlayFaceColor},
		{"overlay_body_color", c.Output.OverlayBodyColor},
	} {
		if col.value != "" && utils.ParseHexColor(col.value) == nil {
			return fmt.Errorf("output: %s %q is not a hex color", col.name, col.value)
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server: max_upload_mb must be at least 1, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("server: timeout_sec must be at least 1, got %d", c.Server.TimeoutSec)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerMin < 1 {
		return fmt.Errorf("server: rate_limit.requests_per_min must be at least 1, got %d",
			c.Server.RateLimit.RequestsPerMin)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch: workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}

// ToPipelineConfig converts the file configuration into the pipeline's
// construction config.
func (c *Config) ToPipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	if c.ModelsDir != "" {
		cfg.ModelsDir = c.ModelsDir
	}
	cfg.TextPadRatio = c.Pipeline.TextPadRatio
	cfg.FacePadRatio = c.Pipeline.FacePadRatio
	cfg.MinConfidence = c.Pipeline.OCR.MinConfidence
	if len(c.Pipeline.OCR.Languages) > 0 {
		cfg.OCR.Languages = c.Pipeline.OCR.Languages
	}
	if c.Pipeline.Face.Backend != "" {
		cfg.Face.Backend = c.Pipeline.Face.Backend
	}
	cfg.Face.ModelPath = c.Pipeline.Face.ModelPath
	cfg.Face.CascadePath = c.Pipeline.Face.CascadePath
	if c.Pipeline.Face.ScoreThreshold > 0 {
		cfg.Face.ScoreThreshold = c.Pipeline.Face.ScoreThreshold
	}
	if c.Pipeline.Body.HitThreshold > 0 {
		cfg.Body.HitThreshold = c.Pipeline.Body.HitThreshold
	}
	if c.Pipeline.Inpaint.Radius > 0 {
		cfg.Inpaint.Radius = c.Pipeline.Inpaint.Radius
	}
	cfg.Barcode.TryHarder = c.Pipeline.Barcode.TryHarder
	cfg.Barcode.Multi = c.Pipeline.Barcode.Multi
	if c.Pipeline.Barcode.PadRatio > 0 {
		cfg.BarcodePadRatio = c.Pipeline.Barcode.PadRatio
	}
	if c.Pipeline.MaxPixels > 0 {
		cfg.Constraints.MaxPixels = c.Pipeline.MaxPixels
	}
	if c.Pipeline.Workers > 0 {
		cfg.Parallel.MaxWorkers = c.Pipeline.Workers
	}
	return cfg
}

// DefaultRequestOptions returns the per-request options implied by the
// configuration, before any request-level overrides.
func (c *Config) DefaultRequestOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	if c.Pipeline.BlurStrength > 0 {
		opts.BlurStrength = c.Pipeline.BlurStrength
	}
	return opts
}

// OverlayColors parses the configured overlay colors, falling back to the
// pipeline defaults for empty or unparseable values.
func (c *Config) OverlayColors() pipeline.OverlayColors {
	colors := pipeline.DefaultOverlayColors()
	if col := utils.ParseHexColor(c.Output.OverlayTextColor); col != nil {
		colors.Text = col
	}
	if col := utils.ParseHexColor(c.Output.OverlayBarcodeColor); col != nil {
		colors.Barcode = col
	}
	if col := utils.ParseHexColor(c.Output.OverlayFaceColor); col != nil {
		colors.Face = col
	}
	if col := utils.ParseHexColor(c.Output.OverlayBodyColor); col != nil {
		colors.Body = col
	}
	return colors
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
