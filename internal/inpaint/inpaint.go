// Package inpaint provides the region-fill collaborator used to remove text.
// The OpenCV Telea implementation is enabled with the build tag `gocv`; the
// default build has a stub that reports ErrNoBackend on use.
package inpaint

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mask"
)

// ErrNoBackend is returned when no inpainting backend is linked into the binary.
var ErrNoBackend = errors.New("inpaint: no backend linked; build with -tags=gocv")

// Config controls inpainting behavior.
type Config struct {
	// Radius is the neighborhood radius in pixels considered around each
	// point being filled.
	Radius float64
}

// DefaultConfig returns the default inpainting configuration.
func DefaultConfig() Config {
	return Config{Radius: 3}
}

// Inpainter reconstructs the masked pixels of an image from their
// surroundings. The returned image has the same dimensions as the input.
type Inpainter interface {
	Inpaint(ctx context.Context, img image.Image, m *mask.Mask) (image.Image, error)
	Close() error
}

// NewInpainter returns the default inpainter implementation.
// The default build has no backend; enable one via build tags.
func NewInpainter(cfg Config) (Inpainter, error) { return newDefaultInpainter(cfg) }
