package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawRect(t *testing.T) {
	img := testImage(20, 20, color.NRGBA{A: 255})
	red := color.NRGBA{R: 255, A: 255}

	DrawRect(img, image.Rect(5, 5, 15, 15), red, 1)

	assert.Equal(t, red, img.NRGBAAt(5, 5), "top-left corner")
	assert.Equal(t, red, img.NRGBAAt(14, 14), "bottom-right corner")
	assert.Equal(t, red, img.NRGBAAt(10, 5), "top edge")
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(10, 10), "interior untouched")
	assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(0, 0), "exterior untouched")
}

func TestDrawRectClipped(t *testing.T) {
	img := testImage(10, 10, color.NRGBA{A: 255})
	assert.NotPanics(t, func() {
		DrawRect(img, image.Rect(-5, -5, 50, 50), color.NRGBA{G: 255, A: 255}, 2)
	})
	assert.NotPanics(t, func() {
		DrawRect(img, image.Rect(50, 50, 60, 60), color.NRGBA{G: 255, A: 255}, 1)
	})
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}},
		{"00ff00", color.RGBA{0, 255, 0, 255}},
		{"#0000FF", color.RGBA{0, 0, 255, 255}},
		{"", nil},
		{"#fff", nil},
		{"nothex", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHexColor(tt.in), "input %q", tt.in)
	}
}
