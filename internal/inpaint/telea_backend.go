//go:build gocv

package inpaint

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
	"gocv.io/x/gocv"
)

// newDefaultInpainter returns the Telea-backed implementation when the gocv
// build tag is enabled.
func newDefaultInpainter(cfg Config) (Inpainter, error) {
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultConfig().Radius
	}
	return &teleaInpainter{cfg: cfg}, nil
}

type teleaInpainter struct {
	cfg Config
}

func (t *teleaInpainter) Inpaint(ctx context.Context, img image.Image, m *mask.Mask) (image.Image, error) {
	if img == nil {
		return nil, errors.New("inpaint: nil image")
	}
	if m == nil {
		return nil, errors.New("inpaint: nil mask")
	}
	if !m.MatchesImage(img) {
		b := img.Bounds()
		return nil, fmt.Errorf("inpaint: mask %dx%d does not match image %dx%d",
			m.Width(), m.Height(), b.Dx(), b.Dy())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("inpaint: convert image: %w", err)
	}
	defer rgb.Close()

	// Mat.ToImage assumes BGR channel order, so swap before processing.
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgb, &bgr, gocv.ColorBGRToRGB)

	gray := m.ToGray()
	maskMat, err := gocv.NewMatFromBytes(m.Height(), m.Width(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return nil, fmt.Errorf("inpaint: convert mask: %w", err)
	}
	defer maskMat.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(bgr, maskMat, &dst, float32(t.cfg.Radius), gocv.Telea)

	out, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("inpaint: convert result: %w", err)
	}
	return out, nil
}

func (t *teleaInpainter) Close() error { return nil }
