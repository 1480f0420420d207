package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName = "scrub"
	configType = "yaml"
	envPrefix  = "SCRUB"
)

// Loader reads configuration from files and environment variables.
type Loader struct {
	viper *viper.Viper
}

// NewLoader creates a loader with the standard search paths and the
// SCRUB_* environment binding.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	addConfigPaths(v)
	setupEnvironment(v)
	setDefaults(v)
	return &Loader{viper: v}
}

// Load reads the configuration from the first scrub.yaml found in the
// search paths, applies environment overrides and validates the result.
// A missing config file is not an error; defaults apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile reads the configuration from an explicit file path.
func (l *Loader) LoadWithFile(path string) (*Config, error) {
	l.viper.SetConfigFile(path)
	if err := l.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Viper exposes the underlying viper instance so commands can bind flags.
func (l *Loader) Viper() *viper.Viper {
	return l.viper
}

// Load reads configuration using the default loader.
func Load() (*Config, error) {
	return NewLoader().Load()
}

// LoadWithFile reads configuration from an explicit file using the
// default loader.
func LoadWithFile(path string) (*Config, error) {
	return NewLoader().LoadWithFile(path)
}

func addConfigPaths(v *viper.Viper) {
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", configName))
	}
	v.AddConfigPath("/etc/" + configName)
}

// GetConfigSearchPaths returns the paths Load searches, in order.
func GetConfigSearchPaths() []string {
	paths := []string{".", "./config"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configName))
	}
	return append(paths, "/etc/"+configName)
}

func setupEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("models_dir", d.ModelsDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("verbose", d.Verbose)

	v.SetDefault("pipeline.blur_strength", d.Pipeline.BlurStrength)
	v.SetDefault("pipeline.text_pad_ratio", d.Pipeline.TextPadRatio)
	v.SetDefault("pipeline.face_pad_ratio", d.Pipeline.FacePadRatio)
	v.SetDefault("pipeline.max_pixels", d.Pipeline.MaxPixels)
	v.SetDefault("pipeline.workers", d.Pipeline.Workers)
	v.SetDefault("pipeline.ocr.languages", d.Pipeline.OCR.Languages)
	v.SetDefault("pipeline.ocr.min_confidence", d.Pipeline.OCR.MinConfidence)
	v.SetDefault("pipeline.face.backend", d.Pipeline.Face.Backend)
	v.SetDefault("pipeline.face.model_path", d.Pipeline.Face.ModelPath)
	v.SetDefault("pipeline.face.cascade_path", d.Pipeline.Face.CascadePath)
	v.SetDefault("pipeline.face.score_threshold", d.Pipeline.Face.ScoreThreshold)
	v.SetDefault("pipeline.body.hit_threshold", d.Pipeline.Body.HitThreshold)
	v.SetDefault("pipeline.inpaint.radius", d.Pipeline.Inpaint.Radius)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.overlay_text_color", d.Output.OverlayTextColor)
	v.SetDefault("output.overlay_face_color", d.Output.OverlayFaceColor)
	v.SetDefault("output.overlay_body_color", d.Output.OverlayBodyColor)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.timeout_sec", d.Server.TimeoutSec)
	v.SetDefault("server.shutdown_timeout_sec", d.Server.ShutdownTimeoutSec)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.requests_per_min", d.Server.RateLimit.RequestsPerMin)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.output_dir", d.Batch.OutputDir)
	v.SetDefault("batch.suffix", d.Batch.Suffix)
	v.SetDefault("batch.continue_on_error", d.Batch.ContinueOnError)
}

// GenerateDefaultConfigFile writes a commented scrub.yaml with the default
// configuration to the given path.
func GenerateDefaultConfigFile(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	header := "# scrub configuration\n" +
		"# Values can also be set via SCRUB_* environment variables,\n" +
		"# e.g. SCRUB_SERVER_PORT=9090 or SCRUB_PIPELINE_BLUR_STRENGTH=51.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil { //nolint:gosec // G306: Config files are not secrets
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
