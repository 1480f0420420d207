package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// BenchmarkCase describes one synthetic blur workload.
type BenchmarkCase struct {
	Name     string
	Width    int
	Height   int
	Strength int
	// Coverage is the fraction of the frame the blur mask covers.
	Coverage float64
}

// Megapixels returns the frame size in megapixels.
func (c BenchmarkCase) Megapixels() float64 {
	return float64(c.Width) * float64(c.Height) / 1e6
}

// DefaultBenchmarkCases spans the frame sizes and kernel strengths that
// dominate request latency in practice.
func DefaultBenchmarkCases() []BenchmarkCase {
	return []BenchmarkCase{
		{Name: "blur_480p_default", Width: 640, Height: 480, Strength: DefaultBlurStrength, Coverage: 0.2},
		{Name: "blur_1080p_default", Width: 1920, Height: 1080, Strength: DefaultBlurStrength, Coverage: 0.2},
		{Name: "blur_1080p_max", Width: 1920, Height: 1080, Strength: MaxBlurStrength, Coverage: 0.2},
		{Name: "blur_1080p_full", Width: 1920, Height: 1080, Strength: DefaultBlurStrength, Coverage: 1.0},
		{Name: "blur_4k_default", Width: 3840, Height: 2160, Strength: DefaultBlurStrength, Coverage: 0.2},
	}
}

// BenchmarkBlur times the masked Gaussian blur composite over a synthetic
// frame. It needs no engines, so it runs the same in every build.
func BenchmarkBlur(c BenchmarkCase, iterations int) common.BenchmarkResult {
	res := common.BenchmarkResult{Name: c.Name, Iterations: iterations}
	if iterations <= 0 {
		res.Error = fmt.Errorf("iterations must be positive, got %d", iterations)
		return res
	}
	if c.Width <= 0 || c.Height <= 0 {
		res.Error = fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
		return res
	}
	if err := (Options{BlurStrength: c.Strength}).Validate(); err != nil {
		res.Error = err
		return res
	}

	img := benchmarkImage(c.Width, c.Height)
	m := benchmarkMask(c.Width, c.Height, c.Coverage)
	defer m.Release()

	runtime.GC()
	res.MemoryBefore = common.GetMemoryStats()
	timer := common.NewTimer()
	for range iterations {
		blurComposite(img, m, c.Strength)
	}
	res.Duration = timer.Stop()
	res.MemoryAfter = common.GetMemoryStats()
	return res
}

// BenchmarkCodec times an encode plus decode round trip of a synthetic
// frame in the given output format.
func BenchmarkCodec(c BenchmarkCase, format string, iterations int) common.BenchmarkResult {
	res := common.BenchmarkResult{
		Name:       fmt.Sprintf("codec_%s_%dx%d", format, c.Width, c.Height),
		Iterations: iterations,
	}
	if iterations <= 0 {
		res.Error = fmt.Errorf("iterations must be positive, got %d", iterations)
		return res
	}
	if c.Width <= 0 || c.Height <= 0 {
		res.Error = fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
		return res
	}

	img := benchmarkImage(c.Width, c.Height)

	runtime.GC()
	res.MemoryBefore = common.GetMemoryStats()
	timer := common.NewTimer()
	for range iterations {
		data, err := utils.EncodeImage(img, format)
		if err != nil {
			res.Error = err
			break
		}
		if _, _, err := utils.DecodeImage(data); err != nil {
			res.Error = err
			break
		}
	}
	res.Duration = timer.Stop()
	res.MemoryAfter = common.GetMemoryStats()
	return res
}

// benchmarkImage fills a frame with a gradient so codecs and the blur
// kernel see non-constant pixel data.
func benchmarkImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

// benchmarkMask marks a centered rectangle covering the given fraction of
// the frame.
func benchmarkMask(width, height int, coverage float64) *mask.Mask {
	coverage = math.Min(math.Max(coverage, 0), 1)
	m := mask.NewPooled(width, height)
	if coverage == 0 {
		return m
	}
	scale := math.Sqrt(coverage)
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	x0 := (width - w) / 2
	y0 := (height - h) / 2
	m.AddRect(image.Rect(x0, y0, x0+w, y0+h))
	return m
}
