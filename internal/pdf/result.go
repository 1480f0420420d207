package pdf

import (
	"fmt"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// ImageResult describes one embedded image after scrubbing.
type ImageResult struct {
	Index      int                  `json:"index"`
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Detections []pipeline.Detection `json:"detections,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// PageResult groups the scrubbed images of one page.
type PageResult struct {
	PageNumber int           `json:"page"`
	Images     []ImageResult `json:"images"`
}

// DocumentResult is the outcome of scrubbing one PDF.
type DocumentResult struct {
	Filename   string       `json:"filename"`
	PageCount  int          `json:"page_count,omitempty"`
	Pages      []PageResult `json:"pages"`
	Images     int          `json:"images"`
	Failed     int          `json:"failed"`
	Detections int          `json:"detections"`
	DurationMs int64        `json:"duration_ms"`
	OutputDir  string       `json:"output_dir"`
}

// Summary returns a one-line human readable outcome.
func (r *DocumentResult) Summary() string {
	return fmt.Sprintf("%s: %d image(s) on %d page(s), %d detection(s), %d failed, %dms",
		r.Filename, r.Images, len(r.Pages), r.Detections, r.Failed, r.DurationMs)
}
