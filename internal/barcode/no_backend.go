//go:build !gozxing

package barcode

import (
	"context"
	"image"
)

type defaultDetector struct{}

func newDefaultDetector(_ Config) (Detector, error) { return &defaultDetector{}, nil }

func (d *defaultDetector) Detect(_ context.Context, _ image.Image) ([]Region, error) {
	return nil, ErrNoBackend
}

func (d *defaultDetector) Close() error { return nil }
