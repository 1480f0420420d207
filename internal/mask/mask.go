// Package mask implements the binary pixel masks that scrub stages exchange.
// A mask marks which pixels of its paired image a stage should modify; an
// all-zero mask is the valid "nothing to do" outcome, never an error.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/scrub/internal/mempool"
)

// On is the value of a marked pixel. Masks are strictly binary; rasterizing
// overlapping boxes is idempotent because marking sets pixels to On.
const On uint8 = 255

// Mask is a single-channel plane with the same dimensions as its source image.
type Mask struct {
	width  int
	height int
	pix    []uint8
	pooled bool
}

// New allocates an all-zero mask of the given dimensions.
func New(width, height int) *Mask {
	if width <= 0 || height <= 0 {
		return &Mask{}
	}
	return &Mask{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
}

// NewPooled allocates an all-zero mask backed by the shared byte pool.
// The caller must call Release when the mask is no longer used.
func NewPooled(width, height int) *Mask {
	if width <= 0 || height <= 0 {
		return &Mask{}
	}
	return &Mask{
		width:  width,
		height: height,
		pix:    mempool.GetBytes(width * height),
		pooled: true,
	}
}

// Release returns a pooled mask's backing buffer. Safe on non-pooled masks.
func (m *Mask) Release() {
	if m == nil || !m.pooled {
		return
	}
	mempool.PutBytes(m.pix)
	m.pix = nil
	m.pooled = false
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// Bounds returns the mask extent as a rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At reports whether the pixel at (x, y) is marked. Out-of-range coordinates
// are unmarked.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.pix[y*m.width+x] != 0
}

// AddRect marks every pixel inside the rectangle, clipped to the mask bounds.
// Boxes fully outside the mask are a no-op.
func (m *Mask) AddRect(r image.Rectangle) {
	r = r.Intersect(m.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.pix[y*m.width : y*m.width+m.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = On
		}
	}
}

// Union marks every pixel set in other. Dimensions must match.
func (m *Mask) Union(other *Mask) error {
	if other == nil {
		return errors.New("union with nil mask")
	}
	if m.width != other.width || m.height != other.height {
		return fmt.Errorf("mask dimensions %dx%d do not match %dx%d",
			m.width, m.height, other.width, other.height)
	}
	for i, v := range other.pix {
		if v != 0 {
			m.pix[i] = On
		}
	}
	return nil
}

// IsZero reports whether no pixel is marked.
func (m *Mask) IsZero() bool {
	for _, v := range m.pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// CountNonZero returns the number of marked pixels.
func (m *Mask) CountNonZero() int {
	n := 0
	for _, v := range m.pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// MatchesImage reports whether the mask dimensions equal the image's.
func (m *Mask) MatchesImage(img image.Image) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	return m.width == b.Dx() && m.height == b.Dy()
}

// ToGray converts the mask to a grayscale image, mainly for handing masks to
// external inpainting backends that consume image data.
func (m *Mask) ToGray() *image.Gray {
	g := image.NewGray(m.Bounds())
	copy(g.Pix, m.pix)
	return g
}

// FromRects builds a mask of the given dimensions with all rectangles marked.
func FromRects(width, height int, rects []image.Rectangle) *Mask {
	m := New(width, height)
	for _, r := range rects {
		m.AddRect(r)
	}
	return m
}
