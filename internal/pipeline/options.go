package pipeline

import "fmt"

// Blur strength limits. The strength is a Gaussian kernel size and must be odd.
const (
	MinBlurStrength     = 3
	MaxBlurStrength     = 151
	DefaultBlurStrength = 31
)

// Options are the per-request processing switches. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// BlurPeople enables face (and optionally body) detection and blurring.
	BlurPeople bool
	// RemoveText enables OCR-driven text removal via inpainting.
	RemoveText bool
	// RemoveBarcodes additionally inpaints QR codes and barcodes. Requires
	// a decoder backend in the binary.
	RemoveBarcodes bool
	// DetectBodies additionally runs the body detector. Only consulted when
	// BlurPeople is true.
	DetectBodies bool
	// BlurStrength is the odd Gaussian kernel size applied to person regions.
	BlurStrength int
}

// DefaultOptions returns the options applied when a request omits a field.
func DefaultOptions() Options {
	return Options{
		BlurPeople:     true,
		RemoveText:     true,
		RemoveBarcodes: false,
		DetectBodies:   false,
		BlurStrength:   DefaultBlurStrength,
	}
}

// Validate rejects option combinations the pipeline must not run with.
// Validation happens before any pixel work.
func (o Options) Validate() error {
	if o.BlurStrength < MinBlurStrength || o.BlurStrength > MaxBlurStrength {
		return fmt.Errorf("%w: blur_strength %d out of range [%d, %d]",
			ErrInvalidConfig, o.BlurStrength, MinBlurStrength, MaxBlurStrength)
	}
	if o.BlurStrength%2 == 0 {
		return fmt.Errorf("%w: blur_strength %d must be odd", ErrInvalidConfig, o.BlurStrength)
	}
	return nil
}
