package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/ocr"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// buildTextMask runs OCR over the image and rasterizes the padded word
// boxes into a mask. An image without text yields a zero mask, not an
// error. The caller owns the returned mask and must release it.
func (s *Scrubber) buildTextMask(ctx context.Context, img image.Image) (*mask.Mask, []Detection, error) {
	if s.ocrEngine == nil {
		return nil, nil, ErrOcrEngine
	}

	words, err := s.ocrEngine.DetectWords(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrOcrEngine, err)
	}
	words = ocr.FilterByConfidence(words, s.cfg.MinConfidence)

	bounds := img.Bounds()
	m := mask.NewPooled(bounds.Dx(), bounds.Dy())
	detections := make([]Detection, 0, len(words))
	for _, word := range words {
		rect := utils.ClipRect(padTextRect(word.Box, s.cfg.TextPadRatio), m.Bounds())
		if rect.Empty() {
			continue
		}
		m.AddRect(rect)
		detections = append(detections, Detection{
			Kind:       KindText,
			Box:        boxFromRect(rect),
			Confidence: word.Confidence,
		})
	}
	return m, detections, nil
}

// padTextRect grows a word box on every side by ratio times its shorter
// dimension, with a floor of MinTextPad pixels. Small boxes still get
// enough margin for the inpainter to erase glyph edges.
func padTextRect(rect image.Rectangle, ratio float64) image.Rectangle {
	shorter := rect.Dx()
	if rect.Dy() < shorter {
		shorter = rect.Dy()
	}
	pad := int(ratio * float64(shorter))
	if pad < MinTextPad {
		pad = MinTextPad
	}
	return utils.ExpandRect(rect, pad)
}
