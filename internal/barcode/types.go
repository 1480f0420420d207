package barcode

import (
	"context"
	"errors"
	"image"
)

// ErrNoBackend is returned when no decoder backend is linked into the
// binary.
var ErrNoBackend = errors.New("barcode: no decoder backend linked; build with -tags=gozxing")

// Format is a barcode symbology.
type Format string

const (
	FormatUnknown    Format = "unknown"
	FormatQR         Format = "qr"
	FormatDataMatrix Format = "data_matrix"
	FormatAztec      Format = "aztec"
	FormatPDF417     Format = "pdf417"
	FormatCode128    Format = "code128"
	FormatCode39     Format = "code39"
	FormatEAN8       Format = "ean8"
	FormatEAN13      Format = "ean13"
	FormatUPCA       Format = "upca"
	FormatUPCE       Format = "upce"
	FormatITF        Format = "itf"
	FormatCodabar    Format = "codabar"
)

// Region is one located code in image coordinates. The box derives from
// the decoder's result points, which sit inside the code proper, so
// callers should pad it before masking.
type Region struct {
	Box    image.Rectangle
	Format Format
}

// Config controls detection behavior.
type Config struct {
	// Formats constrains the symbologies to search for. Empty searches all.
	Formats []Format
	// TryHarder trades speed for recall.
	TryHarder bool
	// Multi reports every code in the image instead of the first one found.
	Multi bool
}

// DefaultConfig favors recall. A missed code stays readable in the output,
// which is the worse failure for a scrubbing tool.
func DefaultConfig() Config {
	return Config{
		TryHarder: true,
		Multi:     true,
	}
}

// Detector finds codes in an image. Zero regions is a valid result, not
// an error.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Region, error)
	Close() error
}

// NewDetector returns the default detector implementation.
// The default build has no decoder; enable one via build tags.
func NewDetector(cfg Config) (Detector, error) { return newDefaultDetector(cfg) }
