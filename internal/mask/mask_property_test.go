package mask

import (
	"image"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRect generates rectangles that may be degenerate or extend past typical
// mask bounds, exercising the clipping path.
func genRect() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(-50, 150),
		gen.IntRange(-50, 150),
		gen.IntRange(-50, 150),
		gen.IntRange(-50, 150),
	).Map(func(values []interface{}) image.Rectangle {
		x0, _ := values[0].(int)
		y0, _ := values[1].(int)
		x1, _ := values[2].(int)
		y1, _ := values[3].(int)
		return image.Rect(x0, y0, x1, y1)
	})
}

// genInnerRect generates rectangles guaranteed to sit inside a 100x100 mask.
func genInnerRect() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
		gen.IntRange(1, 100),
		gen.IntRange(1, 100),
	).Map(func(values []interface{}) image.Rectangle {
		x0, _ := values[0].(int)
		y0, _ := values[1].(int)
		x1, _ := values[2].(int)
		y1, _ := values[3].(int)
		return image.Rect(x0, y0, x1, y1)
	})
}

func TestMaskProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rasterizing the same box twice equals rasterizing it once",
		prop.ForAll(
			func(r image.Rectangle) bool {
				once := New(100, 100)
				once.AddRect(r)

				twice := New(100, 100)
				twice.AddRect(r)
				twice.AddRect(r)

				return once.CountNonZero() == twice.CountNonZero() &&
					masksEqual(once, twice)
			},
			genInnerRect(),
		))

	properties.Property("marked pixel count never exceeds the mask area",
		prop.ForAll(
			func(rects []image.Rectangle) bool {
				m := FromRects(100, 100, rects)
				n := m.CountNonZero()
				return n >= 0 && n <= 100*100
			},
			gen.SliceOfN(10, genRect()),
		))

	properties.Property("clipping keeps arbitrary boxes inside the mask",
		prop.ForAll(
			func(r image.Rectangle) bool {
				m := New(100, 100)
				m.AddRect(r)
				clipped := r.Intersect(m.Bounds())
				return m.CountNonZero() == clipped.Dx()*clipped.Dy()
			},
			genRect(),
		))

	properties.Property("union is commutative",
		prop.ForAll(
			func(ra, rb image.Rectangle) bool {
				a1 := New(100, 100)
				a1.AddRect(ra)
				b1 := New(100, 100)
				b1.AddRect(rb)
				if err := a1.Union(b1); err != nil {
					return false
				}

				a2 := New(100, 100)
				a2.AddRect(ra)
				b2 := New(100, 100)
				b2.AddRect(rb)
				if err := b2.Union(a2); err != nil {
					return false
				}

				return masksEqual(a1, b2)
			},
			genRect(),
			genRect(),
		))

	properties.Property("union with an empty mask changes nothing",
		prop.ForAll(
			func(r image.Rectangle) bool {
				m := New(100, 100)
				m.AddRect(r)
				before := m.CountNonZero()

				if err := m.Union(New(100, 100)); err != nil {
					return false
				}
				return m.CountNonZero() == before
			},
			genRect(),
		))

	properties.Property("every marked pixel lies inside one of the source boxes",
		prop.ForAll(
			func(rects []image.Rectangle) bool {
				m := FromRects(100, 100, rects)
				for y := 0; y < 100; y++ {
					for x := 0; x < 100; x++ {
						if !m.At(x, y) {
							continue
						}
						inside := false
						for _, r := range rects {
							if image.Pt(x, y).In(r) {
								inside = true
								break
							}
						}
						if !inside {
							return false
						}
					}
				}
				return true
			},
			gen.SliceOfN(5, genInnerRect()),
		))

	properties.TestingRun(t)
}

func masksEqual(a, b *Mask) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}
