package pipeline

import (
	"fmt"

	"github.com/MeKo-Tech/scrub/internal/barcode"
	"github.com/MeKo-Tech/scrub/internal/detect"
	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/ocr"
)

// Scrubber runs the scrubbing pipeline. One instance serves concurrent
// requests: it holds only immutable configuration and collaborator handles,
// and every run allocates its own images and masks.
//
// Any collaborator may be absent (nil). A stage that needs a missing
// collaborator fails with the matching engine error; disabled stages never
// touch their collaborator, so a pipeline without engines still serves
// all-off requests.
type Scrubber struct {
	cfg       Config
	ocrEngine ocr.Engine
	faces     detect.FaceDetector
	bodies    detect.BodyDetector
	barcodes  barcode.Detector
	inpainter inpaint.Inpainter
}

// Config returns the scrubber configuration.
func (s *Scrubber) Config() Config { return s.cfg }

// Close releases all collaborator resources.
func (s *Scrubber) Close() error {
	var firstErr error
	if s.ocrEngine != nil {
		if err := s.ocrEngine.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close ocr engine: %w", err)
		}
		s.ocrEngine = nil
	}
	if s.faces != nil {
		if err := s.faces.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close face detector: %w", err)
		}
		s.faces = nil
	}
	if s.bodies != nil {
		if err := s.bodies.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close body detector: %w", err)
		}
		s.bodies = nil
	}
	if s.barcodes != nil {
		if err := s.barcodes.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close barcode detector: %w", err)
		}
		s.barcodes = nil
	}
	if s.inpainter != nil {
		if err := s.inpainter.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close inpainter: %w", err)
		}
		s.inpainter = nil
	}
	return firstErr
}

// Info returns key pipeline properties for diagnostics.
func (s *Scrubber) Info() map[string]interface{} {
	return map[string]interface{}{
		"models_dir":     s.cfg.ModelsDir,
		"stage_order":    StageOrder,
		"text_pad_ratio": s.cfg.TextPadRatio,
		"face_pad_ratio": s.cfg.FacePadRatio,
		"min_confidence": s.cfg.MinConfidence,
		"engines": map[string]bool{
			"ocr":       s.ocrEngine != nil,
			"face":      s.faces != nil,
			"body":      s.bodies != nil,
			"barcode":   s.barcodes != nil,
			"inpainter": s.inpainter != nil,
		},
	}
}
