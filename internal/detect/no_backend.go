//go:build !gocv

package detect

import (
	"context"
	"image"
)

type stubFaceDetector struct{}

func newHaarFaceDetector(_ FaceConfig) (FaceDetector, error) { return &stubFaceDetector{}, nil }

func (d *stubFaceDetector) DetectFaces(_ context.Context, _ image.Image) ([]Region, error) {
	return nil, ErrNoBackend
}

func (d *stubFaceDetector) Close() error { return nil }

type stubBodyDetector struct{}

func newHOGBodyDetector(_ BodyConfig) (BodyDetector, error) { return &stubBodyDetector{}, nil }

func (d *stubBodyDetector) DetectBodies(_ context.Context, _ image.Image) ([]Region, error) {
	return nil, ErrNoBackend
}

func (d *stubBodyDetector) Close() error { return nil }
