package pipeline

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/scrub/internal/mask"
)

// KernelSigma converts an odd Gaussian kernel size into the sigma OpenCV
// derives when none is given: 0.3*((k-1)*0.5 - 1) + 0.8. The default
// strength 31 maps to sigma 5.0.
func KernelSigma(strength int) float64 {
	return 0.3*((float64(strength)-1)*0.5-1) + 0.8
}

// blurComposite blurs the whole image once and keeps the blurred pixels
// only where the mask is set. Pixels outside the mask are copied from
// the input unchanged.
func blurComposite(img *image.NRGBA, m *mask.Mask, strength int) *image.NRGBA {
	blurred := imaging.Blur(img, KernelSigma(strength))
	out := imaging.Clone(img)
	width, height := m.Width(), m.Height()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !m.At(x, y) {
				continue
			}
			dst := out.PixOffset(x, y)
			src := blurred.PixOffset(x, y)
			copy(out.Pix[dst:dst+4], blurred.Pix[src:src+4])
		}
	}
	return out
}
