package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// buildPersonMask detects faces, and optionally full bodies, and unions
// their regions into a single mask. Face boxes are padded to cover hair
// and neck; body boxes are used as reported. The caller owns the
// returned mask and must release it.
func (s *Scrubber) buildPersonMask(ctx context.Context, img image.Image, detectBodies bool) (*mask.Mask, []Detection, error) {
	if s.faces == nil {
		return nil, nil, ErrDetectorEngine
	}

	faces, err := s.faces.DetectFaces(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: face detection: %s", ErrDetectorEngine, err)
	}

	bounds := img.Bounds()
	m := mask.NewPooled(bounds.Dx(), bounds.Dy())
	detections := make([]Detection, 0, len(faces))
	for _, face := range faces {
		pad := int(s.cfg.FacePadRatio * float64(face.Box.Dx()))
		rect := utils.ClipRect(utils.ExpandRect(face.Box, pad), m.Bounds())
		if rect.Empty() {
			continue
		}
		m.AddRect(rect)
		detections = append(detections, Detection{
			Kind:       KindFace,
			Box:        boxFromRect(rect),
			Confidence: face.Confidence,
		})
	}

	if detectBodies {
		if s.bodies == nil {
			m.Release()
			return nil, nil, ErrDetectorEngine
		}
		bodies, err := s.bodies.DetectBodies(ctx, img)
		if err != nil {
			m.Release()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			return nil, nil, fmt.Errorf("%w: body detection: %s", ErrDetectorEngine, err)
		}
		for _, body := range bodies {
			rect := utils.ClipRect(body.Box, m.Bounds())
			if rect.Empty() {
				continue
			}
			m.AddRect(rect)
			detections = append(detections, Detection{
				Kind:       KindBody,
				Box:        boxFromRect(rect),
				Confidence: body.Confidence,
			})
		}
	}
	return m, detections, nil
}
