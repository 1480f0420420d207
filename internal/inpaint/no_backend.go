//go:build !gocv

package inpaint

import (
	"context"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
)

type defaultInpainter struct{}

func newDefaultInpainter(_ Config) (Inpainter, error) { return &defaultInpainter{}, nil }

func (d *defaultInpainter) Inpaint(_ context.Context, _ image.Image, _ *mask.Mask) (image.Image, error) {
	return nil, ErrNoBackend
}

func (d *defaultInpainter) Close() error { return nil }
