package batch

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// processFile scrubs one file and writes the output image, plus an
// overlay image when configured. Failures are captured in the result.
func processFile(ctx context.Context, scrubber *pipeline.Scrubber, path string, cfg *Config) FileResult {
	fr := FileResult{Path: path}
	timer := common.NewTimer()
	defer func() { fr.DurationMs = timer.Stop().Milliseconds() }()

	img, _, err := utils.LoadImage(path)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	res, err := scrubber.ProcessImage(ctx, img, cfg.Options)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}
	fr.Width = res.Width
	fr.Height = res.Height
	fr.Detections = res.Detections

	outPath := outputPathFor(path, cfg.OutputDir, cfg.Suffix, cfg.Format)
	if err := utils.SaveImage(outPath, res.Image); err != nil {
		fr.Error = err.Error()
		return fr
	}
	fr.OutputPath = outPath

	if cfg.OverlayDir != "" {
		saveOverlay(img, res.Detections, path, cfg)
	}
	return fr
}

// outputPathFor derives the output path from the input name, the
// configured directory, suffix and encoding format.
func outputPathFor(path, outputDir, suffix, format string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".png"
	if format == utils.FormatJPEG || format == "jpg" {
		ext = ".jpg"
	}
	return filepath.Join(dir, stem+suffix+ext)
}

// saveOverlay writes a detection overlay into the overlay directory.
// Overlay failures are not reported; the scrubbed image already exists.
func saveOverlay(img image.Image, detections []pipeline.Detection, path string, cfg *Config) {
	if err := os.MkdirAll(cfg.OverlayDir, 0o750); err != nil {
		return
	}
	overlay := pipeline.RenderOverlay(img, detections, cfg.OverlayColors)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	_ = utils.SaveImage(filepath.Join(cfg.OverlayDir, stem+"_overlay.png"), overlay)
}
