package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ErrNoBackend is returned when a detector backend is not linked into the binary.
var ErrNoBackend = errors.New("detect: no detector backend linked; build with -tags=gocv or use the onnx face backend")

// Face backend identifiers.
const (
	BackendONNX = "onnx"
	BackendHaar = "haar"
)

// Region is a single detection in image coordinates.
type Region struct {
	Box        image.Rectangle
	Confidence float64 // [0,1] where provided; -1 if the backend reports none
}

// FaceDetector finds faces in an image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Region, error)
	Close() error
}

// BodyDetector finds full human figures in an image.
type BodyDetector interface {
	DetectBodies(ctx context.Context, img image.Image) ([]Region, error)
	Close() error
}

// FaceConfig controls face detection.
type FaceConfig struct {
	Backend string // "onnx" (default) or "haar"

	// ONNX backend settings.
	ModelPath      string  // resolved via internal/models when empty
	ScoreThreshold float64 // minimum face score, default 0.7
	NMSThreshold   float64 // IoU threshold for suppression, default 0.3
	NumThreads     int     // intra-op threads, 0 uses the runtime default

	// Haar cascade settings.
	CascadePath  string  // resolved via internal/models when empty
	ScaleFactor  float64 // pyramid scale step, default 1.1
	MinNeighbors int     // default 5
	MinSize      int     // minimum face edge in pixels, default 24
}

// DefaultFaceConfig returns the default face detection configuration.
func DefaultFaceConfig() FaceConfig {
	return FaceConfig{
		Backend:        BackendONNX,
		ScoreThreshold: 0.7,
		NMSThreshold:   0.3,
		ScaleFactor:    1.1,
		MinNeighbors:   5,
		MinSize:        24,
	}
}

// BodyConfig controls HOG body detection.
type BodyConfig struct {
	HitThreshold    float64 // SVM distance threshold, default 0.5
	WinStride       int     // sliding window stride in pixels, default 8
	Padding         int     // window padding in pixels, default 8
	Scale           float64 // pyramid scale step, default 1.05
	GroupThreshold  float64 // rectangle grouping threshold, default 2.0
	DownscaleMaxDim int     // images with a larger edge are downscaled first, default 900
	DownscaleRatio  float64 // downscale factor, default 0.75
}

// DefaultBodyConfig returns the default body detection configuration.
func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		HitThreshold:    0.5,
		WinStride:       8,
		Padding:         8,
		Scale:           1.05,
		GroupThreshold:  2.0,
		DownscaleMaxDim: 900,
		DownscaleRatio:  0.75,
	}
}

// NewFaceDetector creates a face detector for the configured backend.
func NewFaceDetector(cfg FaceConfig) (FaceDetector, error) {
	switch cfg.Backend {
	case "", BackendONNX:
		return newONNXFaceDetector(cfg)
	case BackendHaar:
		return newHaarFaceDetector(cfg)
	default:
		return nil, fmt.Errorf("detect: unknown face backend %q", cfg.Backend)
	}
}

// NewBodyDetector creates the HOG body detector. The default build has no
// body backend; enable it with the gocv build tag.
func NewBodyDetector(cfg BodyConfig) (BodyDetector, error) {
	return newHOGBodyDetector(cfg)
}
