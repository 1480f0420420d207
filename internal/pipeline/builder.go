package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/scrub/internal/barcode"
	"github.com/MeKo-Tech/scrub/internal/detect"
	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/models"
	"github.com/MeKo-Tech/scrub/internal/ocr"
)

// Builder assembles a Scrubber using a fluent interface.
//
//	scrubber, err := pipeline.NewBuilder().
//		WithModelsDir("models").
//		WithOCRLanguages("eng", "deu").
//		Build()
type Builder struct {
	config    Config
	ocrEngine ocr.Engine
	faces     detect.FaceDetector
	bodies    detect.BodyDetector
	barcodes  barcode.Detector
	inpainter inpaint.Inpainter
}

// NewBuilder creates a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithModelsDir sets the directory model files are resolved against.
func (b *Builder) WithModelsDir(dir string) *Builder {
	b.config.ModelsDir = models.GetModelsDir(dir)
	return b
}

// WithOCRLanguages sets the language hints passed to the OCR engine.
func (b *Builder) WithOCRLanguages(languages ...string) *Builder {
	if len(languages) > 0 {
		b.config.OCR.Languages = languages
	}
	return b
}

// WithMinConfidence sets the OCR confidence floor in [0, 100].
// Zero keeps every detected word.
func (b *Builder) WithMinConfidence(confidence float64) *Builder {
	b.config.MinConfidence = confidence
	return b
}

// WithTextPadRatio sets the padding ratio applied around detected words.
func (b *Builder) WithTextPadRatio(ratio float64) *Builder {
	b.config.TextPadRatio = ratio
	return b
}

// WithFacePadRatio sets the padding ratio applied around detected faces.
func (b *Builder) WithFacePadRatio(ratio float64) *Builder {
	b.config.FacePadRatio = ratio
	return b
}

// WithBarcodePadRatio sets the padding ratio applied around located codes.
func (b *Builder) WithBarcodePadRatio(ratio float64) *Builder {
	b.config.BarcodePadRatio = ratio
	return b
}

// WithFaceBackend selects the face detection backend ("onnx" or "haar").
func (b *Builder) WithFaceBackend(backend string) *Builder {
	b.config.Face.Backend = backend
	return b
}

// WithFaceModelPath overrides the ONNX face model path.
func (b *Builder) WithFaceModelPath(path string) *Builder {
	b.config.Face.ModelPath = path
	return b
}

// WithFaceCascadePath overrides the Haar cascade path.
func (b *Builder) WithFaceCascadePath(path string) *Builder {
	b.config.Face.CascadePath = path
	return b
}

// WithFaceScoreThreshold sets the minimum face detection score.
func (b *Builder) WithFaceScoreThreshold(threshold float64) *Builder {
	b.config.Face.ScoreThreshold = threshold
	return b
}

// WithBodyHitThreshold sets the HOG SVM hit threshold.
func (b *Builder) WithBodyHitThreshold(threshold float64) *Builder {
	b.config.Body.HitThreshold = threshold
	return b
}

// WithInpaintRadius sets the inpainting neighborhood radius in pixels.
func (b *Builder) WithInpaintRadius(radius float64) *Builder {
	b.config.Inpaint.Radius = radius
	return b
}

// WithMaxPixels caps the total pixel count of accepted images.
func (b *Builder) WithMaxPixels(maxPixels int64) *Builder {
	b.config.Constraints.MaxPixels = maxPixels
	return b
}

// WithParallelWorkers sets the worker count for batch processing.
func (b *Builder) WithParallelWorkers(workers int) *Builder {
	b.config.Parallel.MaxWorkers = workers
	return b
}

// WithOCREngine injects a pre-built OCR engine. Build skips engine
// construction for injected collaborators, which keeps tests free of
// native dependencies.
func (b *Builder) WithOCREngine(engine ocr.Engine) *Builder {
	b.ocrEngine = engine
	return b
}

// WithFaceDetector injects a pre-built face detector.
func (b *Builder) WithFaceDetector(detector detect.FaceDetector) *Builder {
	b.faces = detector
	return b
}

// WithBodyDetector injects a pre-built body detector.
func (b *Builder) WithBodyDetector(detector detect.BodyDetector) *Builder {
	b.bodies = detector
	return b
}

// WithBarcodeDetector injects a pre-built barcode detector.
func (b *Builder) WithBarcodeDetector(detector barcode.Detector) *Builder {
	b.barcodes = detector
	return b
}

// WithInpainter injects a pre-built inpainter.
func (b *Builder) WithInpainter(inpainter inpaint.Inpainter) *Builder {
	b.inpainter = inpainter
	return b
}

// Config returns a copy of the current builder configuration.
func (b *Builder) Config() Config {
	return b.config
}

// Build validates the configuration and constructs the Scrubber.
//
// Collaborators that fail to initialize are logged and left nil rather
// than failing the build. Requests that do not need the missing engine
// still succeed; requests that do fail with an engine error.
func (b *Builder) Build() (*Scrubber, error) {
	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Face.ModelPath == "" {
		cfg.Face.ModelPath = models.GetFaceModelPath(cfg.ModelsDir)
	}
	if cfg.Face.CascadePath == "" {
		cfg.Face.CascadePath = models.GetFaceCascadePath(cfg.ModelsDir)
	}

	s := &Scrubber{
		cfg:       cfg,
		ocrEngine: b.ocrEngine,
		faces:     b.faces,
		bodies:    b.bodies,
		barcodes:  b.barcodes,
		inpainter: b.inpainter,
	}

	if s.ocrEngine == nil {
		engine, err := ocr.NewEngine(cfg.OCR)
		if err != nil {
			slog.Warn("OCR engine unavailable", "error", err)
		} else {
			s.ocrEngine = engine
		}
	}
	if s.faces == nil {
		detector, err := detect.NewFaceDetector(cfg.Face)
		if err != nil {
			slog.Warn("face detector unavailable", "backend", cfg.Face.Backend, "error", err)
		} else {
			s.faces = detector
		}
	}
	if s.bodies == nil {
		detector, err := detect.NewBodyDetector(cfg.Body)
		if err != nil {
			slog.Warn("body detector unavailable", "error", err)
		} else {
			s.bodies = detector
		}
	}
	if s.barcodes == nil {
		detector, err := barcode.NewDetector(cfg.Barcode)
		if err != nil {
			slog.Warn("barcode detector unavailable", "error", err)
		} else {
			s.barcodes = detector
		}
	}
	if s.inpainter == nil {
		inpainter, err := inpaint.NewInpainter(cfg.Inpaint)
		if err != nil {
			slog.Warn("inpainter unavailable", "error", err)
		} else {
			s.inpainter = inpainter
		}
	}

	slog.Debug("scrubber built",
		"models_dir", cfg.ModelsDir,
		"ocr", s.ocrEngine != nil,
		"face", s.faces != nil,
		"body", s.bodies != nil,
		"barcode", s.barcodes != nil,
		"inpaint", s.inpainter != nil)
	return s, nil
}

// Validate checks configuration values that are not tied to a single
// engine backend.
func (c Config) Validate() error {
	if c.TextPadRatio < 0 {
		return fmt.Errorf("%w: text pad ratio %.2f must not be negative", ErrInvalidConfig, c.TextPadRatio)
	}
	if c.FacePadRatio < 0 {
		return fmt.Errorf("%w: face pad ratio %.2f must not be negative", ErrInvalidConfig, c.FacePadRatio)
	}
	if c.BarcodePadRatio < 0 {
		return fmt.Errorf("%w: barcode pad ratio %.2f must not be negative", ErrInvalidConfig, c.BarcodePadRatio)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("%w: min confidence %.1f out of range [0, 100]", ErrInvalidConfig, c.MinConfidence)
	}
	if c.Inpaint.Radius <= 0 {
		return fmt.Errorf("%w: inpaint radius %.1f must be positive", ErrInvalidConfig, c.Inpaint.Radius)
	}
	return nil
}
