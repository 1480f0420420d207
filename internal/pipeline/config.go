package pipeline

import (
	"github.com/MeKo-Tech/scrub/internal/barcode"
	"github.com/MeKo-Tech/scrub/internal/detect"
	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/models"
	"github.com/MeKo-Tech/scrub/internal/ocr"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// Box padding defaults. Word boxes grow relative to their own size so small
// text still gets a usable margin; face boxes grow relative to their width to
// cover hair and chin. Barcode boxes get the largest margin because decoders
// report finder pattern positions, which sit inside the code proper.
const (
	DefaultTextPadRatio    = 0.15
	DefaultFacePadRatio    = 0.25
	DefaultBarcodePadRatio = 0.4
	MinTextPad             = 2
)

// Config holds construction-time configuration for the pipeline and its
// collaborators. Per-request switches live in Options instead.
type Config struct {
	ModelsDir string

	// TextPadRatio expands each word box by ratio*min(w,h) per side.
	TextPadRatio float64
	// FacePadRatio expands each face box by ratio*width per side.
	FacePadRatio float64
	// BarcodePadRatio expands each barcode box by ratio*min(w,h) per side.
	BarcodePadRatio float64
	// MinConfidence drops OCR words below this confidence (0-100).
	// Zero keeps every word the engine reports.
	MinConfidence float64

	OCR     ocr.Config
	Face    detect.FaceConfig
	Body    detect.BodyConfig
	Barcode barcode.Config
	Inpaint inpaint.Config

	// Constraints bound the images the pipeline accepts.
	Constraints utils.ImageConstraints

	// Parallel configures batch worker pools.
	Parallel ParallelConfig
}

// DefaultConfig returns a pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir:       models.GetModelsDir(""),
		TextPadRatio:    DefaultTextPadRatio,
		FacePadRatio:    DefaultFacePadRatio,
		BarcodePadRatio: DefaultBarcodePadRatio,
		MinConfidence:   0,
		OCR:             ocr.DefaultConfig(),
		Face:            detect.DefaultFaceConfig(),
		Body:            detect.DefaultBodyConfig(),
		Barcode:         barcode.DefaultConfig(),
		Inpaint:         inpaint.DefaultConfig(),
		Constraints:     utils.DefaultImageConstraints(),
		Parallel:        DefaultParallelConfig(),
	}
}
