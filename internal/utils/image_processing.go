package utils

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// ImageConstraints defines size limits for decoded images.
type ImageConstraints struct {
	MinWidth  int
	MinHeight int
	MaxPixels int64
}

// DefaultImageConstraints returns the default limits for uploaded images.
// MaxPixels guards against decompression bombs; scrubbing quality does not
// require capping the edge lengths themselves.
func DefaultImageConstraints() ImageConstraints {
	return ImageConstraints{
		MinWidth:  1,
		MinHeight: 1,
		MaxPixels: 50_000_000,
	}
}

// ValidateImageConstraints checks dimensions against the provided constraints.
func ValidateImageConstraints(img image.Image, constraints ImageConstraints) error {
	if img == nil {
		return &ImageProcessingError{Operation: "validate", Err: errors.New("input image is nil")}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < constraints.MinWidth || h < constraints.MinHeight {
		return &ImageProcessingError{
			Operation: "validate",
			Err: fmt.Errorf(
				"image too small: %dx%d < %dx%d",
				w, h, constraints.MinWidth, constraints.MinHeight,
			),
		}
	}
	if constraints.MaxPixels > 0 && int64(w)*int64(h) > constraints.MaxPixels {
		return &ImageProcessingError{
			Operation: "validate",
			Err:       fmt.Errorf("image too large: %dx%d exceeds %d pixels", w, h, constraints.MaxPixels),
		}
	}
	return nil
}

// ToNRGBA converts any image to an owned NRGBA copy. Stages never mutate a
// shared image; each works on its own copy produced here.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// ScaleImage resizes an image by the given uniform factor using Lanczos
// resampling. A factor of 1 returns an owned copy of the input.
func ScaleImage(img image.Image, factor float64) (*image.NRGBA, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "scale", Err: errors.New("input image is nil")}
	}
	if factor <= 0 {
		return nil, &ImageProcessingError{Operation: "scale", Err: fmt.Errorf("invalid scale factor %v", factor)}
	}
	if factor == 1 {
		return imaging.Clone(img), nil
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// ScaleRect maps a rectangle detected on a scaled-down image back to the
// coordinate space of the original by dividing through the scale factor.
func ScaleRect(r image.Rectangle, factor float64) image.Rectangle {
	if factor == 1 || factor == 0 {
		return r
	}
	return image.Rect(
		int(float64(r.Min.X)/factor),
		int(float64(r.Min.Y)/factor),
		int(float64(r.Max.X)/factor),
		int(float64(r.Max.Y)/factor),
	)
}

// ClipRect clamps a rectangle to the given bounds. Detectors may return boxes
// partially outside the image; coordinates are clipped rather than rejected.
func ClipRect(r image.Rectangle, bounds image.Rectangle) image.Rectangle {
	return r.Intersect(bounds)
}

// ExpandRect grows a rectangle by pad pixels on every side.
func ExpandRect(r image.Rectangle, pad int) image.Rectangle {
	return image.Rect(r.Min.X-pad, r.Min.Y-pad, r.Max.X+pad, r.Max.Y+pad)
}
