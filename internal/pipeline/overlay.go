package pipeline

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/scrub/internal/utils"
)

// OverlayColors holds the outline color per detection kind.
type OverlayColors struct {
	Text    color.Color
	Barcode color.Color
	Face    color.Color
	Body    color.Color
}

// DefaultOverlayColors returns red for text, yellow for barcodes, green
// for faces and blue for bodies.
func DefaultOverlayColors() OverlayColors {
	return OverlayColors{
		Text:    color.RGBA{R: 255, A: 255},
		Barcode: color.RGBA{R: 255, G: 204, A: 255},
		Face:    color.RGBA{G: 255, A: 255},
		Body:    color.RGBA{B: 255, A: 255},
	}
}

// RenderOverlay draws the detection boxes onto a copy of the input
// image instead of scrubbing it. The boxes are the final padded and
// clipped regions the pipeline would modify, so the overlay shows
// exactly what a real run touches.
func RenderOverlay(img image.Image, detections []Detection, colors OverlayColors) *image.NRGBA {
	out := utils.ToNRGBA(img)
	for _, det := range detections {
		var col color.Color
		switch det.Kind {
		case KindText:
			col = colors.Text
		case KindBarcode:
			col = colors.Barcode
		case KindFace:
			col = colors.Face
		case KindBody:
			col = colors.Body
		default:
			continue
		}
		if col == nil {
			continue
		}
		utils.DrawRect(out, det.Box.Rect(), col, 2)
	}
	return out
}
