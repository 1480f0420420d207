// Package batch scrubs whole directories or file lists in parallel.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// Config holds all settings for one batch run.
type Config struct {
	// Options are the pipeline switches applied to every file.
	Options pipeline.Options

	// OutputDir receives the scrubbed files. Empty writes next to the
	// inputs.
	OutputDir string
	// Suffix is appended to output basenames, e.g. photo_scrubbed.png.
	Suffix string
	// Format is the output encoding, "png" (default) or "jpeg".
	Format string

	// OverlayDir additionally writes detection overlays when set.
	OverlayDir    string
	OverlayColors pipeline.OverlayColors

	// File discovery settings.
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Workers caps concurrent files. Zero means one per CPU.
	Workers int
	// ContinueOnError keeps going after per-file failures.
	ContinueOnError bool

	ShowProgress bool
	Quiet        bool
}

// DefaultConfig returns a batch config with the standard suffix and
// pipeline defaults.
func DefaultConfig() *Config {
	return &Config{
		Options:       pipeline.DefaultOptions(),
		Suffix:        "_scrubbed",
		OverlayColors: pipeline.DefaultOverlayColors(),
	}
}

// FileResult is the outcome for a single input file.
type FileResult struct {
	Path       string               `json:"file"`
	OutputPath string               `json:"output,omitempty"`
	Width      int                  `json:"width,omitempty"`
	Height     int                  `json:"height,omitempty"`
	Detections []pipeline.Detection `json:"detections,omitempty"`
	DurationMs int64                `json:"duration_ms"`
	Error      string               `json:"error,omitempty"`
}

// Failed reports whether this file could not be scrubbed.
func (r *FileResult) Failed() bool {
	return r.Error != ""
}

// Result aggregates one batch run.
type Result struct {
	Items       []FileResult  `json:"items"`
	Duration    time.Duration `json:"-"`
	DurationMs  int64         `json:"duration_ms"`
	WorkerCount int           `json:"workers"`
}

// Processed returns how many files were scrubbed successfully.
func (r *Result) Processed() int {
	n := 0
	for i := range r.Items {
		if !r.Items[i].Failed() {
			n++
		}
	}
	return n
}

// FailedCount returns how many files failed.
func (r *Result) FailedCount() int {
	return len(r.Items) - r.Processed()
}

// Format renders the result in the given output format: "json", "csv"
// or plain text.
func (r *Result) Format(format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "csv":
		return formatCSV(r.Items)
	default:
		return formatText(r.Items), nil
	}
}

// Save writes the formatted result to outputFile, or stdout when empty.
func (r *Result) Save(format, outputFile string, quiet bool) error {
	output, err := r.Format(format)
	if err != nil {
		return fmt.Errorf("format results: %w", err)
	}
	if outputFile == "" {
		_, _ = fmt.Fprint(os.Stdout, output)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
	}
	return nil
}

// PrintStats prints run statistics to stdout.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(os.Stdout, "\nBatch statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total files: %d\n", len(r.Items))
	_, _ = fmt.Fprintf(os.Stdout, "  Scrubbed: %d\n", r.Processed())
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.FailedCount())
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if n := r.Processed(); n > 0 {
		avg := r.Duration / time.Duration(n)
		_, _ = fmt.Fprintf(os.Stdout, "  Avg per file: %v\n", avg.Round(time.Millisecond))
		if secs := r.Duration.Seconds(); secs > 0 {
			_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f files/sec\n", float64(n)/secs)
		}
	}
}
