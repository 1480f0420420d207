//go:build !tesseract

package ocr

import (
	"context"
	"image"
)

type defaultEngine struct{}

func newDefaultEngine(_ Config) (Engine, error) { return &defaultEngine{}, nil }

func (d *defaultEngine) DetectWords(_ context.Context, _ image.Image) ([]Word, error) {
	return nil, ErrNoBackend
}

func (d *defaultEngine) Close() error { return nil }
