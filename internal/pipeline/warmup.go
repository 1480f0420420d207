package pipeline

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/scrub/internal/barcode"
	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/ocr"
)

// warmupSize is the edge length of the blank probe image. Big enough for
// every backend to accept, small enough to keep startup cheap.
const warmupSize = 64

// EngineNames lists the pipeline engines in report order, matching the
// keys of Warmup and of Info's engines map.
var EngineNames = []string{"ocr", "face", "body", "barcode", "inpainter"}

// Warmup runs every constructed engine once against a blank image and
// reports the outcome per engine, keyed like Info's engines map. It cuts
// first-request latency for backends with lazy initialization, and it
// tells callers which engines this binary can actually serve: stub
// backends construct fine in any build and only fail once called.
//
// A missing engine maps to its pipeline sentinel error; a stub backend
// surfaces an error matching IsMissingBackend.
func (s *Scrubber) Warmup(ctx context.Context) map[string]error {
	img := image.NewNRGBA(image.Rect(0, 0, warmupSize, warmupSize))
	status := make(map[string]error, len(EngineNames))

	if s.ocrEngine == nil {
		status["ocr"] = ErrOcrEngine
	} else {
		_, err := s.ocrEngine.DetectWords(ctx, img)
		status["ocr"] = err
	}
	if s.faces == nil {
		status["face"] = ErrDetectorEngine
	} else {
		_, err := s.faces.DetectFaces(ctx, img)
		status["face"] = err
	}
	if s.bodies == nil {
		status["body"] = ErrDetectorEngine
	} else {
		_, err := s.bodies.DetectBodies(ctx, img)
		status["body"] = err
	}
	if s.barcodes == nil {
		status["barcode"] = ErrBarcodeEngine
	} else {
		_, err := s.barcodes.Detect(ctx, img)
		status["barcode"] = err
	}
	if s.inpainter == nil {
		status["inpainter"] = ErrInpaintEngine
	} else {
		m := mask.NewPooled(warmupSize, warmupSize)
		m.AddRect(image.Rect(8, 8, 16, 16))
		_, err := s.inpainter.Inpaint(ctx, img, m)
		m.Release()
		status["inpainter"] = err
	}
	return status
}

// IsMissingBackend reports whether an engine error means the backend was
// not compiled into this binary, as opposed to a runtime failure.
func IsMissingBackend(err error) bool {
	return errors.Is(err, ocr.ErrNoBackend) ||
		errors.Is(err, inpaint.ErrNoBackend) ||
		errors.Is(err, barcode.ErrNoBackend)
}
