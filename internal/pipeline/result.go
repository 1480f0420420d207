package pipeline

import "image"

// Detection kinds.
const (
	KindText    = "text"
	KindBarcode = "barcode"
	KindFace    = "face"
	KindBody    = "body"
)

// Box is an axis-aligned rectangle in image coordinates.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// boxFromRect converts a rectangle to a Box.
func boxFromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Detection is a single region the pipeline acted on, with the padding
// already applied.
type Detection struct {
	Kind       string  `json:"kind"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence,omitempty"`
}

// StageTiming records how long an enabled stage ran and whether it changed
// any pixels. A stage that found nothing to do reports Applied=false.
type StageTiming struct {
	Stage      string `json:"stage"`
	DurationNs int64  `json:"duration_ns"`
	Applied    bool   `json:"applied"`
}

// Result is the output of one pipeline run.
type Result struct {
	// Image is the scrubbed image. With every stage disabled or nothing
	// detected it is pixel-identical to the input.
	Image image.Image `json:"-"`

	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Options    Options       `json:"-"`
	Detections []Detection   `json:"detections"`
	Stages     []StageTiming `json:"stages"`
	TotalNs    int64         `json:"total_ns"`

	// Encoded holds the re-encoded image bytes when the caller asked for
	// encoding, together with the format actually used.
	Encoded []byte `json:"-"`
	Format  string `json:"format,omitempty"`
}

// CountByKind returns how many detections of the given kind were applied.
func (r *Result) CountByKind(kind string) int {
	n := 0
	for _, d := range r.Detections {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
