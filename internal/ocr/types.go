package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrNoBackend is returned when no OCR engine is linked into the binary.
var ErrNoBackend = errors.New("ocr: no engine backend linked; build with -tags=tesseract")

// Word is a single recognized word with its bounding box in image coordinates.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64 // 0-100 as reported by the engine
}

// Config controls OCR engine behavior.
type Config struct {
	// Languages lists the language codes passed to the engine, e.g. "eng", "deu".
	Languages []string
}

// DefaultConfig returns the default OCR configuration.
func DefaultConfig() Config {
	return Config{
		Languages: []string{"eng"},
	}
}

// Engine extracts word-level bounding boxes from an image.
type Engine interface {
	// DetectWords returns all words the engine finds, unfiltered.
	// Zero words is a valid result, not an error.
	DetectWords(ctx context.Context, img image.Image) ([]Word, error)
	Close() error
}

// NewEngine returns the default engine implementation.
// The default build has no engine; enable one via build tags.
func NewEngine(cfg Config) (Engine, error) { return newDefaultEngine(cfg) }

// FilterByConfidence returns the words whose confidence is at least minConf.
// A minConf of 0 keeps every word the engine reported.
func FilterByConfidence(words []Word, minConf float64) []Word {
	if minConf <= 0 {
		return words
	}
	kept := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Confidence >= minConf {
			kept = append(kept, w)
		}
	}
	return kept
}
