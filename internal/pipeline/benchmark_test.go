package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBenchmarkCases(t *testing.T) {
	cases := DefaultBenchmarkCases()
	require.NotEmpty(t, cases)

	seen := make(map[string]bool)
	for _, c := range cases {
		assert.False(t, seen[c.Name], "duplicate case %q", c.Name)
		seen[c.Name] = true
		assert.Positive(t, c.Width)
		assert.Positive(t, c.Height)
		assert.NoError(t, Options{BlurStrength: c.Strength}.Validate())
		assert.Greater(t, c.Coverage, 0.0)
		assert.LessOrEqual(t, c.Coverage, 1.0)
	}
}

func TestBenchmarkBlur(t *testing.T) {
	c := BenchmarkCase{Name: "blur_tiny", Width: 48, Height: 32, Strength: MinBlurStrength, Coverage: 0.25}

	res := BenchmarkBlur(c, 2)
	require.NoError(t, res.Error)
	assert.Equal(t, "blur_tiny", res.Name)
	assert.Equal(t, 2, res.Iterations)
	assert.Positive(t, res.Duration)
	assert.Positive(t, res.AvgDuration())
}

func TestBenchmarkBlurRejectsBadCases(t *testing.T) {
	res := BenchmarkBlur(BenchmarkCase{Name: "zero_width", Height: 32, Strength: 31, Coverage: 0.2}, 1)
	assert.Error(t, res.Error)

	res = BenchmarkBlur(BenchmarkCase{Name: "even_kernel", Width: 32, Height: 32, Strength: 30, Coverage: 0.2}, 1)
	assert.ErrorIs(t, res.Error, ErrInvalidConfig)

	res = BenchmarkBlur(BenchmarkCase{Name: "no_iterations", Width: 32, Height: 32, Strength: 31, Coverage: 0.2}, 0)
	assert.Error(t, res.Error)
}

func TestBenchmarkCodec(t *testing.T) {
	res := BenchmarkCodec(BenchmarkCase{Width: 48, Height: 32}, "png", 2)
	require.NoError(t, res.Error)
	assert.Equal(t, "codec_png_48x32", res.Name)
	assert.Positive(t, res.Duration)

	res = BenchmarkCodec(BenchmarkCase{Width: 16, Height: 16}, "tiff", 1)
	assert.Error(t, res.Error)
}

func TestBenchmarkCaseMegapixels(t *testing.T) {
	assert.InDelta(t, 2.0736, BenchmarkCase{Width: 1920, Height: 1080}.Megapixels(), 1e-9)
}

func TestBenchmarkMask(t *testing.T) {
	m := benchmarkMask(100, 100, 0.25)
	defer m.Release()
	assert.Equal(t, 2500, m.CountNonZero())

	empty := benchmarkMask(10, 10, 0)
	defer empty.Release()
	assert.True(t, empty.IsZero())

	full := benchmarkMask(10, 10, 1)
	defer full.Release()
	assert.Equal(t, 100, full.CountNonZero())
}
