package pipeline

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/mask"
)

func TestKernelSigma(t *testing.T) {
	assert.InDelta(t, 5.0, KernelSigma(31), 1e-9)
	assert.InDelta(t, 0.8, KernelSigma(3), 1e-9)
	assert.InDelta(t, 23.0, KernelSigma(151), 1e-9)
}

func TestKernelSigmaMonotonic(t *testing.T) {
	prev := KernelSigma(MinBlurStrength)
	for k := MinBlurStrength + 2; k <= MaxBlurStrength; k += 2 {
		cur := KernelSigma(k)
		require.Greater(t, cur, prev, "sigma must grow with kernel size")
		prev = cur
	}
}

func TestBlurCompositeOnlyTouchesMask(t *testing.T) {
	square := image.Rect(40, 40, 60, 60)
	img := squareImage(100, 100, square)

	m := mask.New(100, 100)
	m.AddRect(image.Rect(30, 30, 70, 70))

	out := blurComposite(img, m, DefaultBlurStrength)

	changed := false
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			in, got := img.NRGBAAt(x, y), out.NRGBAAt(x, y)
			if m.At(x, y) {
				if in != got {
					changed = true
				}
			} else {
				require.Equal(t, in, got, "pixel (%d,%d) outside the mask changed", x, y)
			}
		}
	}
	assert.True(t, changed, "blur must alter pixels at the square edge")
}

func TestBlurCompositeLeavesInputAlone(t *testing.T) {
	img := squareImage(50, 50, image.Rect(20, 20, 30, 30))
	white := img.NRGBAAt(25, 25)

	m := mask.New(50, 50)
	m.AddRect(image.Rect(10, 10, 40, 40))
	_ = blurComposite(img, m, DefaultBlurStrength)

	assert.Equal(t, white, img.NRGBAAt(25, 25), "input image must not be modified")
}
