//go:build gozxing

package barcode

import (
	"context"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/multi"
)

type gozxingDetector struct {
	cfg   Config
	hints map[gozxing.DecodeHintType]interface{}
}

func newDefaultDetector(cfg Config) (Detector, error) {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if formats := zxingFormats(cfg.Formats); len(formats) > 0 {
		hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
	}
	if cfg.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return &gozxingDetector{cfg: cfg, hints: hints}, nil
}

func (d *gozxingDetector) Detect(ctx context.Context, img image.Image) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))
	if err != nil {
		return nil, err
	}

	results, err := d.decode(bitmap)
	if err != nil {
		// An image without any code is a normal outcome.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	regions := make([]Region, 0, len(results))
	for _, result := range results {
		box := boxFromResultPoints(result.GetResultPoints())
		if box.Empty() {
			continue
		}
		regions = append(regions, Region{
			Box:    box,
			Format: formatFromZXing(result.GetBarcodeFormat()),
		})
	}
	return regions, nil
}

func (d *gozxingDetector) Close() error { return nil }

func (d *gozxingDetector) decode(bitmap *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
	if d.cfg.Multi {
		reader := multi.NewGenericMultipleBarcodeReader(gozxing.NewMultiFormatReader())
		return reader.DecodeMultiple(bitmap, d.hints)
	}
	result, err := gozxing.NewMultiFormatReader().Decode(bitmap, d.hints)
	if err != nil {
		return nil, err
	}
	return []*gozxing.Result{result}, nil
}

func isNotFound(err error) bool {
	_, ok := err.(gozxing.NotFoundException)
	return ok
}

// boxFromResultPoints bounds the decoder's result points. For most
// symbologies the points are finder pattern centers, so the box is a
// tight core rather than the full code extent.
func boxFromResultPoints(points []gozxing.ResultPoint) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	minX, minY := points[0].GetX(), points[0].GetY()
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		x, y := p.GetX(), p.GetY()
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return image.Rect(int(minX), int(minY), int(maxX)+1, int(maxY)+1)
}

func zxingFormats(formats []Format) []gozxing.BarcodeFormat {
	out := make([]gozxing.BarcodeFormat, 0, len(formats))
	for _, f := range formats {
		if bf, ok := formatToZXing(f); ok {
			out = append(out, bf)
		}
	}
	return out
}

func formatToZXing(f Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case FormatQR:
		return gozxing.BarcodeFormat_QR_CODE, true
	case FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case FormatPDF417:
		return gozxing.BarcodeFormat_PDF_417, true
	case FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case FormatUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case FormatUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	case FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	case FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	default:
		return 0, false
	}
}

func formatFromZXing(bf gozxing.BarcodeFormat) Format {
	switch bf {
	case gozxing.BarcodeFormat_QR_CODE:
		return FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return FormatAztec
	case gozxing.BarcodeFormat_PDF_417:
		return FormatPDF417
	case gozxing.BarcodeFormat_CODE_128:
		return FormatCode128
	case gozxing.BarcodeFormat_CODE_39:
		return FormatCode39
	case gozxing.BarcodeFormat_EAN_8:
		return FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return FormatEAN13
	case gozxing.BarcodeFormat_UPC_A:
		return FormatUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return FormatUPCE
	case gozxing.BarcodeFormat_ITF:
		return FormatITF
	case gozxing.BarcodeFormat_CODABAR:
		return FormatCodabar
	default:
		return FormatUnknown
	}
}
