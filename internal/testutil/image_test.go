package testutil

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTextImageConfig(t *testing.T) {
	config := DefaultTextImageConfig()
	assert.Equal(t, "Sample Text", config.Text)
	assert.Equal(t, MediumSize, config.Size)
	assert.Equal(t, color.White, config.Background)
	assert.Equal(t, color.Black, config.Foreground)
	assert.InDelta(t, 0.0, config.Rotation, 0.0001)
	assert.False(t, config.Multiline)
}

func TestGenerateTextImage(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Test"
	config.Size = SmallSize

	img, err := GenerateTextImage(config)
	require.NoError(t, err)
	assert.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, SmallSize.Width, bounds.Dx())
	assert.Equal(t, SmallSize.Height, bounds.Dy())

	// Corners stay background, the text leaves foreground pixels somewhere.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	dark := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r == 0 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "rendered text should produce foreground pixels")
}

func TestGenerateMultilineTextImage(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Multiline = true
	config.Size = LargeSize

	img, err := GenerateTextImage(config)
	require.NoError(t, err)
	assert.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, LargeSize.Width, bounds.Dx())
	assert.Equal(t, LargeSize.Height, bounds.Dy())
}

func TestGenerateRotatedTextImage(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Rotated"
	config.Rotation = 45.0

	img, err := GenerateTextImage(config)
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestTextRectCoversRenderedText(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Boxed"
	config.Size = SmallSize

	img, err := GenerateTextImage(config)
	require.NoError(t, err)

	rect := TextRect(config)
	assert.False(t, rect.Empty())

	// Every non-background pixel must fall inside the reported rectangle.
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0xffff && g == 0xffff && b == 0xffff {
				continue
			}
			assert.True(t, image.Pt(x, y).In(rect), "foreground pixel (%d,%d) outside %v", x, y, rect)
		}
	}
}

func TestSolidImage(t *testing.T) {
	img := SolidImage(10, 8, color.RGBA{R: 255, A: 255})

	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	r, g, b, a := img.At(5, 4).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestSaveAndLoadImage(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Save Test"
	img, err := GenerateTextImage(config)
	require.NoError(t, err)

	imagePath := filepath.Join(t.TempDir(), "test_image.png")
	SaveImage(t, img, imagePath)

	assert.FileExists(t, imagePath)

	loadedImg := LoadImage(t, imagePath)
	assert.NotNil(t, loadedImg)
	assert.Equal(t, img.Bounds(), loadedImg.Bounds())
}

func TestCompareImages(t *testing.T) {
	config := DefaultTextImageConfig()
	config.Text = "Compare Test"

	img1, err := GenerateTextImage(config)
	require.NoError(t, err)

	img2, err := GenerateTextImage(config)
	require.NoError(t, err)

	assert.True(t, CompareImages(img1, img2, 0.01))

	config.Text = "Completely Different"
	config.Background = color.Black
	config.Foreground = color.White
	img3, err := GenerateTextImage(config)
	require.NoError(t, err)

	assert.False(t, CompareImages(img1, img3, 0.8))
}

func TestCompareImagesSizeMismatch(t *testing.T) {
	img1 := SolidImage(4, 4, color.White)
	img2 := SolidImage(5, 4, color.White)

	assert.False(t, CompareImages(img1, img2, 1.0))
}
