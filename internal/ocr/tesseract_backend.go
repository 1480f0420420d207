//go:build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// newDefaultEngine returns the Tesseract-backed engine when the build tag is enabled.
func newDefaultEngine(cfg Config) (Engine, error) {
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultConfig().Languages
	}
	return &tesseractEngine{cfg: cfg}, nil
}

// tesseractEngine runs word detection through libtesseract. The gosseract
// client is not safe for concurrent use, so each call gets its own client.
type tesseractEngine struct {
	cfg Config
}

func (e *tesseractEngine) DetectWords(ctx context.Context, img image.Image) ([]Word, error) {
	if img == nil {
		return nil, fmt.Errorf("ocr: nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ocr: encode image for engine: %w", err)
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(e.cfg.Languages...); err != nil {
		return nil, fmt.Errorf("ocr: set language %v: %w", e.cfg.Languages, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("ocr: set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("ocr: bounding boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence,
		})
	}
	return words, nil
}

func (e *tesseractEngine) Close() error { return nil }
