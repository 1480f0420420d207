package detect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildScores creates [N,2] score rows with the given face probabilities.
func buildScores(faceProbs ...float32) []float32 {
	out := make([]float32, 0, len(faceProbs)*2)
	for _, p := range faceProbs {
		out = append(out, 1-p, p)
	}
	return out
}

func TestDecodeUltraFaceSingleBox(t *testing.T) {
	scores := buildScores(0.95)
	boxes := []float32{0.25, 0.25, 0.75, 0.75}

	regions := decodeUltraFace(scores, boxes, 400, 200, 0.7, 0.3)
	require.Len(t, regions, 1)
	assert.Equal(t, image.Rect(100, 50, 300, 150), regions[0].Box)
	assert.InDelta(t, 0.95, regions[0].Confidence, 1e-6)
}

func TestDecodeUltraFaceThreshold(t *testing.T) {
	scores := buildScores(0.95, 0.5)
	boxes := []float32{
		0.1, 0.1, 0.3, 0.3,
		0.6, 0.6, 0.9, 0.9,
	}

	regions := decodeUltraFace(scores, boxes, 100, 100, 0.7, 0.3)
	require.Len(t, regions, 1)
	assert.Equal(t, image.Rect(10, 10, 30, 30), regions[0].Box)
}

func TestDecodeUltraFaceNoCandidates(t *testing.T) {
	scores := buildScores(0.1, 0.2, 0.3)
	boxes := make([]float32, 12)

	regions := decodeUltraFace(scores, boxes, 100, 100, 0.7, 0.3)
	assert.Empty(t, regions, "no faces above threshold is a valid empty result")
}

func TestDecodeUltraFaceClampsCoordinates(t *testing.T) {
	scores := buildScores(0.9)
	boxes := []float32{-0.2, -0.1, 1.4, 1.2}

	regions := decodeUltraFace(scores, boxes, 100, 50, 0.7, 0.3)
	require.Len(t, regions, 1)
	assert.Equal(t, image.Rect(0, 0, 100, 50), regions[0].Box)
}

func TestDecodeUltraFaceDropsDegenerateBoxes(t *testing.T) {
	scores := buildScores(0.9, 0.9)
	boxes := []float32{
		0.5, 0.5, 0.5, 0.5, // zero area
		0.8, 0.8, 0.2, 0.2, // inverted corners
	}

	regions := decodeUltraFace(scores, boxes, 100, 100, 0.7, 0.3)
	assert.Empty(t, regions)
}

func TestDecodeUltraFaceSuppressesOverlaps(t *testing.T) {
	scores := buildScores(0.95, 0.85)
	boxes := []float32{
		0.20, 0.20, 0.60, 0.60,
		0.22, 0.22, 0.62, 0.62,
	}

	regions := decodeUltraFace(scores, boxes, 100, 100, 0.7, 0.3)
	require.Len(t, regions, 1)
	assert.InDelta(t, 0.95, regions[0].Confidence, 1e-6)
}

func TestDecodeUltraFaceMismatchedLengths(t *testing.T) {
	// More score rows than box rows; the extra rows are ignored.
	scores := buildScores(0.9, 0.9)
	boxes := []float32{0.1, 0.1, 0.4, 0.4}

	regions := decodeUltraFace(scores, boxes, 100, 100, 0.7, 0.3)
	assert.Len(t, regions, 1)
}

func TestUltraFaceTensorShape(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	data := ultraFaceTensor(img)
	assert.Len(t, data, 3*ultraFaceInputHeight*ultraFaceInputWidth)
}

func TestUltraFaceTensorNormalization(t *testing.T) {
	tests := []struct {
		name string
		fill color.NRGBA
		want float32
	}{
		{"mid gray maps to zero", color.NRGBA{127, 127, 127, 255}, 0.0},
		{"white maps to one", color.NRGBA{255, 255, 255, 255}, 1.0},
		{"black maps to -127/128", color.NRGBA{0, 0, 0, 255}, -127.0 / 128.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, ultraFaceInputWidth, ultraFaceInputHeight))
			for i := range img.Pix {
				switch i % 4 {
				case 3:
					img.Pix[i] = 255
				default:
					img.Pix[i] = tt.fill.R
				}
			}

			data := ultraFaceTensor(img)
			for _, channel := range []int{0, 1, 2} {
				idx := channel * ultraFaceInputHeight * ultraFaceInputWidth
				assert.InDelta(t, tt.want, data[idx], 1e-6)
			}
		})
	}
}
