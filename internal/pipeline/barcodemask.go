package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// buildBarcodeMask locates QR codes and barcodes and rasterizes their
// padded boxes into a mask. An image without codes yields a zero mask,
// not an error. The caller owns the returned mask and must release it.
func (s *Scrubber) buildBarcodeMask(ctx context.Context, img image.Image) (*mask.Mask, []Detection, error) {
	if s.barcodes == nil {
		return nil, nil, ErrBarcodeEngine
	}

	regions, err := s.barcodes.Detect(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrBarcodeEngine, err)
	}

	bounds := img.Bounds()
	m := mask.NewPooled(bounds.Dx(), bounds.Dy())
	detections := make([]Detection, 0, len(regions))
	for _, region := range regions {
		rect := utils.ClipRect(padBarcodeRect(region.Box, s.cfg.BarcodePadRatio), m.Bounds())
		if rect.Empty() {
			continue
		}
		m.AddRect(rect)
		detections = append(detections, Detection{
			Kind: KindBarcode,
			Box:  boxFromRect(rect),
		})
	}
	return m, detections, nil
}

// padBarcodeRect grows a code box on every side by ratio times its shorter
// dimension. Decoders report finder pattern positions rather than the full
// code extent, so the default ratio is generous.
func padBarcodeRect(rect image.Rectangle, ratio float64) image.Rectangle {
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
