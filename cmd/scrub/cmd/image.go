package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

var imageCmd = &cobra.Command{
	Use:   "image [flags] <image files...>",
	Short: "Scrub text and people from image files",
	Long: `Scrub one or more image files. Detected text is removed by inpainting
and detected faces (and optionally full bodies) are blurred.

Supported formats: JPEG, PNG, GIF, BMP, WebP

Examples:
  scrub image photo.jpg
  scrub image *.jpg --detect-bodies --blur-strength 51
  scrub image badge.png --no-blur-people --output clean.png
  scrub image ticket.jpg --remove-barcodes
  scrub image group.jpg --overlay`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runImageCommand,
}

func runImageCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input files provided")
	}

	cfg := GetConfig()

	opts, err := requestOptionsFromFlags(cfg, cmd)
	if err != nil {
		return err
	}
	format, err := resolveImageFormat(cfg, cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" && len(args) > 1 {
		return errors.New("--output is only valid with a single input file")
	}
	overlay, _ := cmd.Flags().GetBool("overlay")
	quiet, _ := cmd.Flags().GetBool("quiet")

	scrubber, err := buildScrubber(cfg, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := scrubber.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing pipeline: %v\n", err)
		}
	}()

	cons := utils.DefaultImageConstraints()
	colors := cfg.OverlayColors()
	for _, path := range args {
		if !utils.IsSupportedImage(path) {
			return fmt.Errorf("unsupported image format: %s", path)
		}
		img, meta, err := utils.LoadImage(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		if err := utils.ValidateImageConstraints(img, cons); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		res, err := scrubber.ProcessImage(cmd.Context(), img, opts)
		if err != nil {
			return fmt.Errorf("scrub failed for %s: %w", path, err)
		}

		outPath := outputPath
		if outPath == "" {
			outPath = scrubbedOutputPath(path, format)
		}
		if err := utils.SaveImage(outPath, res.Image); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		if overlay {
			ov := pipeline.RenderOverlay(img, res.Detections, colors)
			ovPath := overlayOutputPath(outPath)
			if err := utils.SaveImage(ovPath, ov); err != nil {
				return fmt.Errorf("failed to write overlay %s: %w", ovPath, err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved overlay: %s\n", ovPath)
			}
		}

		if !quiet {
			printScrubSummary(cmd, meta.Path, outPath, res)
		}
	}
	return nil
}

// scrubbedOutputPath derives the default output path for an input file, for
// example photo.jpg becomes photo_scrubbed.jpg.
func scrubbedOutputPath(path, format string) string {
	ext := "." + utils.FormatPNG
	if format == utils.FormatJPEG {
		ext = ".jpg"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_scrubbed" + ext
}

// overlayOutputPath derives the overlay path next to an output file.
func overlayOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_overlay.png"
}

func printScrubSummary(cmd *cobra.Command, inPath, outPath string, res *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s -> %s\n", inPath, outPath)
	fmt.Fprintf(out, "  text: %d  barcodes: %d  faces: %d  bodies: %d  took: %s\n",
		res.CountByKind(pipeline.KindText),
		res.CountByKind(pipeline.KindBarcode),
		res.CountByKind(pipeline.KindFace),
		res.CountByKind(pipeline.KindBody),
		time.Duration(res.TotalNs))
}

func init() {
	rootCmd.AddCommand(imageCmd)

	addScrubOptionFlags(imageCmd)
	addEngineFlags(imageCmd)
	imageCmd.Flags().StringP("output", "o", "", "output path (single input only)")
	imageCmd.Flags().StringP("format", "f", "", "output format for derived filenames (png or jpeg)")
	imageCmd.Flags().Bool("overlay", false, "also write a detection overlay PNG next to each output")
	imageCmd.Flags().Bool("quiet", false, "suppress per-file summaries")
}

// GetImageCommand returns the image command for testing purposes.
func GetImageCommand() *cobra.Command {
	return imageCmd
}
