package detect

import (
	"image"

	"github.com/disintegration/imaging"
)

// UltraFace RFB-320 model geometry and normalization.
const (
	ultraFaceInputWidth  = 320
	ultraFaceInputHeight = 240
	ultraFaceMean        = 127.0
	ultraFaceNorm        = 128.0
)

// ultraFaceTensor resizes the image to the fixed model input size and lays it
// out as a normalized NCHW float32 tensor. The model expects a direct resize,
// not aspect-preserving letterboxing.
func ultraFaceTensor(img image.Image) []float32 {
	resized := imaging.Resize(img, ultraFaceInputWidth, ultraFaceInputHeight, imaging.Linear)

	plane := ultraFaceInputHeight * ultraFaceInputWidth
	data := make([]float32, 3*plane)
	for y := range ultraFaceInputHeight {
		for x := range ultraFaceInputWidth {
			c := resized.NRGBAAt(x, y)
			idx := y*ultraFaceInputWidth + x
			data[idx] = (float32(c.R) - ultraFaceMean) / ultraFaceNorm
			data[plane+idx] = (float32(c.G) - ultraFaceMean) / ultraFaceNorm
			data[2*plane+idx] = (float32(c.B) - ultraFaceMean) / ultraFaceNorm
		}
	}
	return data
}

// decodeUltraFace converts the raw model outputs into regions in original
// image coordinates. scores holds [N,2] rows (background, face); boxes holds
// [N,4] corner-form coordinates normalized to [0,1]. Candidates below
// scoreThreshold are dropped, the rest go through NMS.
func decodeUltraFace(scores, boxes []float32, origW, origH int, scoreThreshold, iouThreshold float64) []Region {
	n := len(scores) / 2
	if len(boxes)/4 < n {
		n = len(boxes) / 4
	}

	candidates := make([]Region, 0, 16)
	for i := range n {
		score := float64(scores[i*2+1])
		if score < scoreThreshold {
			continue
		}
		x1 := clamp01(float64(boxes[i*4+0]))
		y1 := clamp01(float64(boxes[i*4+1]))
		x2 := clamp01(float64(boxes[i*4+2]))
		y2 := clamp01(float64(boxes[i*4+3]))
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		box := image.Rect(
			int(x1*float64(origW)),
			int(y1*float64(origH)),
			int(x2*float64(origW)),
			int(y2*float64(origH)),
		)
		if box.Empty() {
			continue
		}
		candidates = append(candidates, Region{Box: box, Confidence: score})
	}

	return NonMaxSuppression(candidates, iouThreshold)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
