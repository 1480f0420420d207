package pdf

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// Processor scrubs the embedded images of PDF files.
type Processor struct {
	scrubber    *pipeline.Scrubber
	parallel    pipeline.ParallelConfig
	credentials *Credentials
}

// NewProcessor creates a PDF processor on top of an existing scrubber.
func NewProcessor(scrubber *pipeline.Scrubber) *Processor {
	return &Processor{
		scrubber: scrubber,
		parallel: scrubber.Config().Parallel,
	}
}

// SetCredentials sets the passwords used for encrypted PDFs.
func (p *Processor) SetCredentials(creds *Credentials) {
	p.credentials = creds
}

// SetWorkers overrides the worker count for image scrubbing.
func (p *Processor) SetWorkers(workers int) {
	p.parallel.MaxWorkers = workers
}

// ScrubFile extracts the images of a PDF, scrubs each and writes the
// results into outputDir as page_<n>_image_<i>_scrubbed files. An empty
// outputDir creates <pdf-name>_scrubbed next to the input. Individual
// image failures are recorded in the result, not returned as errors.
func (p *Processor) ScrubFile(ctx context.Context, filename, pageRange, outputDir string,
	opts pipeline.Options, format string,
) (*DocumentResult, error) {
	timer := common.NewNamedTimer("pdf_scrub")

	working, err := DecryptToTemp(filename, p.credentials)
	if err != nil {
		return nil, err
	}
	if working != filename {
		defer CleanupTemp(working)
	}

	pageImages, err := ExtractImages(working, pageRange)
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		outputDir = filepath.Join(filepath.Dir(filename), base+"_scrubbed")
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	result := &DocumentResult{
		Filename:  filename,
		OutputDir: outputDir,
	}
	if count, err := PageCount(working); err == nil {
		result.PageCount = count
	}

	pages := make([]int, 0, len(pageImages))
	for pageNum := range pageImages {
		pages = append(pages, pageNum)
	}
	sort.Ints(pages)

	type slot struct {
		page  int
		index int
	}
	var flat []image.Image
	var slots []slot
	for _, pageNum := range pages {
		for i, img := range pageImages[pageNum] {
			flat = append(flat, img)
			slots = append(slots, slot{page: pageNum, index: i})
		}
	}

	items := p.scrubber.ProcessImagesParallel(ctx, flat, opts, p.parallel)

	byPage := make(map[int][]ImageResult)
	for i, item := range items {
		s := slots[i]
		imgResult := ImageResult{Index: s.index + 1}
		bounds := flat[i].Bounds()
		imgResult.Width = bounds.Dx()
		imgResult.Height = bounds.Dy()

		switch {
		case item.Err != nil:
			imgResult.Error = item.Err.Error()
			result.Failed++
		default:
			imgResult.Detections = item.Result.Detections
			result.Detections += len(item.Result.Detections)
			outPath := filepath.Join(outputDir, outputName(s.page, s.index+1, format))
			if err := utils.SaveImage(outPath, item.Result.Image); err != nil {
				imgResult.Error = err.Error()
				result.Failed++
			} else {
				imgResult.OutputPath = outPath
			}
		}
		result.Images++
		byPage[s.page] = append(byPage[s.page], imgResult)
	}

	for _, pageNum := range pages {
		result.Pages = append(result.Pages, PageResult{
			PageNumber: pageNum,
			Images:     byPage[pageNum],
		})
	}

	result.DurationMs = timer.Stop().Milliseconds()
	slog.Info("PDF scrubbed",
		"file", filename,
		"pages", len(result.Pages),
		"images", result.Images,
		"failed", result.Failed,
		"detections", result.Detections)
	return result, nil
}

// outputName builds the output filename for one embedded image.
func outputName(page, index int, format string) string {
	ext := ".png"
	if format == utils.FormatJPEG || format == "jpg" {
		ext = ".jpg"
	}
	return fmt.Sprintf("page_%d_image_%d_scrubbed%s", page, index, ext)
}
