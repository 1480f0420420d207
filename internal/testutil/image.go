package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
	LargeSize  = ImageSize{1024, 768}
)

// TextImageConfig holds configuration for generating synthetic text images.
// Scrub tests use these as uploads that carry a known text region.
type TextImageConfig struct {
	Text       string
	Size       ImageSize
	Background color.Color
	Foreground color.Color
	FontFace   font.Face
	Rotation   float64 // rotation in degrees
	Multiline  bool
}

// DefaultTextImageConfig returns a default configuration for text images.
func DefaultTextImageConfig() TextImageConfig {
	return TextImageConfig{
		Text:       "Sample Text",
		Size:       MediumSize,
		Background: color.White,
		Foreground: color.Black,
		FontFace:   basicfont.Face7x13,
		Rotation:   0,
		Multiline:  false,
	}
}

// GenerateTextImage creates a synthetic image with rendered text.
func GenerateTextImage(config TextImageConfig) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, config.Size.Width, config.Size.Height))

	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{config.Foreground},
		Face: config.FontFace,
	}

	if config.Multiline {
		// Build lines with a fixed number of words per line to avoid deep nesting.
		words := []string{"Street", "signs", "and", "name", "tags", "should", "vanish", "after", "a", "scrub"}
		wordsPerLine := 3
		var lines []string
		for i := 0; i < len(words); i += wordsPerLine {
			end := i + wordsPerLine
			if end > len(words) {
				end = len(words)
			}
			lines = append(lines, strings.Join(words[i:end], " "))
		}

		lineHeight := config.FontFace.Metrics().Height.Ceil()
		startY := (config.Size.Height - len(lines)*lineHeight) / 2
		for i, line := range lines {
			y := startY + (i+1)*lineHeight
			textWidth := font.MeasureString(config.FontFace, line).Ceil()
			x := (config.Size.Width - textWidth) / 2
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(line)
		}
	} else {
		// Center the text
		textWidth := font.MeasureString(config.FontFace, config.Text).Ceil()
		textHeight := config.FontFace.Metrics().Height.Ceil()
		x := (config.Size.Width - textWidth) / 2
		y := (config.Size.Height + textHeight) / 2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(config.Text)
	}

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, color.White)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba, nil
	}

	return img, nil
}

// TextRect returns the rectangle the centered single-line text of config
// occupies. Tests use it as the region a text scrub is expected to touch.
func TextRect(config TextImageConfig) image.Rectangle {
	textWidth := font.MeasureString(config.FontFace, config.Text).Ceil()
	textHeight := config.FontFace.Metrics().Height.Ceil()
	ascent := config.FontFace.Metrics().Ascent.Ceil()
	descent := config.FontFace.Metrics().Descent.Ceil()

	x := (config.Size.Width - textWidth) / 2
	baseline := (config.Size.Height + textHeight) / 2
	return image.Rect(x, baseline-ascent, x+textWidth, baseline+descent)
}

// SolidImage creates an image filled with a single color.
func SolidImage(width, height int, fill color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{fill}, image.Point{}, draw.Src)
	return img
}

// TextImage creates a white image with black text rendered on it.
func TextImage(text string, width, height int) image.Image {
	config := DefaultTextImageConfig()
	config.Text = text
	config.Size = ImageSize{Width: width, Height: height}

	img, err := GenerateTextImage(config)
	if err != nil {
		// Fallback to a plain background if text generation fails
		return SolidImage(width, height, color.White)
	}

	return img
}

// SaveImage saves an image as PNG to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	err = png.Encode(file, img)
	require.NoError(t, err, "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	img, err := LoadImageFile(path)
	require.NoError(t, err, "Failed to load image %s", path)

	return img
}

// LoadImageFile loads an image from the specified path (non-testing version).
func LoadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: Opening caller-provided image path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// CompareImages compares two images and returns true if their average
// per-pixel difference stays within tolerance (0 exact, 1 anything).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1.Dx() != bounds2.Dx() || bounds1.Dy() != bounds2.Dy() {
		return false
	}

	var totalDiff float64
	var pixelCount float64

	for y := 0; y < bounds1.Dy(); y++ {
		for x := 0; x < bounds1.Dx(); x++ {
			r1, g1, b1, a1 := img1.At(bounds1.Min.X+x, bounds1.Min.Y+y).RGBA()
			r2, g2, b2, a2 := img2.At(bounds2.Min.X+x, bounds2.Min.Y+y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			diff := math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			totalDiff += diff
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535) // Maximum possible difference

	return (avgDiff / maxDiff) <= tolerance
}
