package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/scrub/internal/testutil"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		generateText     = flag.Bool("text", true, "Generate synthetic text images")
		generateControls = flag.Bool("controls", true, "Generate text-free control images")
		verbose          = flag.Bool("v", false, "Verbose output")
		help             = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate synthetic images for exercising scrub by hand.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                  # Generate all test data\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -controls=false  # Generate only text images\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	slog.Info("Starting test data generation...")

	if *verbose {
		slog.Info("Options", "text", *generateText, "controls", *generateControls)
	}

	// Generate into the repository testdata tree regardless of cwd
	root, err := testutil.GetProjectRoot()
	if err != nil {
		slog.Error("Failed to find project root", "error", err)
		os.Exit(1)
	}

	if *verbose {
		slog.Info("Project root", "path", root)
	}

	if err := os.Chdir(root); err != nil {
		slog.Error("Failed to change to project root", "error", err)
		os.Exit(1)
	}

	if *generateText {
		slog.Info("Generating synthetic text images...")

		if err := generateTextImages(); err != nil {
			slog.Error("Failed to generate text images", "error", err)
			os.Exit(1)
		}

		slog.Info("✓ Generated synthetic text images")
	}

	if *generateControls {
		slog.Info("Generating control images...")

		if err := generateControlImages(); err != nil {
			slog.Error("Failed to generate control images", "error", err)
			os.Exit(1)
		}

		slog.Info("✓ Generated control images")
	}

	slog.Info("Test data generation completed successfully!")
}

// generateTextImages writes sign and document style scenes whose text the
// removal path should fully inpaint.
func generateTextImages() error {
	config := testutil.DefaultTextImageConfig()

	signDir := "testdata/images/signs"
	if err := testutil.EnsureDir(signDir); err != nil {
		return fmt.Errorf("failed to create sign images directory: %w", err)
	}

	// Strings a privacy scrub typically has to take out of street scenes.
	labels := []string{"PRIVATE", "EXIT", "Main St 42", "0176 5550199", "B-XY 1234"}
	for i, label := range labels {
		config.Text = label
		config.Size = testutil.SmallSize
		config.Rotation = 0
		config.Multiline = false

		img, err := testutil.GenerateTextImage(config)
		if err != nil {
			return fmt.Errorf("failed to generate sign image for %q: %w", label, err)
		}

		if err := writePNG(fmt.Sprintf("%s/sign_%d.png", signDir, i+1), img); err != nil {
			return err
		}
	}

	noticeDir := "testdata/images/notices"
	if err := testutil.EnsureDir(noticeDir); err != nil {
		return fmt.Errorf("failed to create notice images directory: %w", err)
	}

	config.Size = testutil.LargeSize
	config.Multiline = true

	img, err := testutil.GenerateTextImage(config)
	if err != nil {
		return fmt.Errorf("failed to generate notice image: %w", err)
	}
	if err := writePNG(noticeDir+"/notice_board.png", img); err != nil {
		return err
	}

	rotatedDir := "testdata/images/rotated"
	if err := testutil.EnsureDir(rotatedDir); err != nil {
		return fmt.Errorf("failed to create rotated images directory: %w", err)
	}

	rotations := []float64{0, 90, 180, 270, 45, -45}
	for _, rotation := range rotations {
		config.Text = "NO PARKING"
		config.Size = testutil.MediumSize
		config.Rotation = rotation
		config.Multiline = false

		img, err := testutil.GenerateTextImage(config)
		if err != nil {
			return fmt.Errorf("failed to generate rotated image for angle %.1f: %w", rotation, err)
		}

		if err := writePNG(fmt.Sprintf("%s/rotated_%.0f.png", rotatedDir, rotation), img); err != nil {
			return err
		}
	}

	return nil
}

// generateControlImages writes frames without any text. A scrub over these
// must come back unchanged, so they double as no-op regression inputs.
func generateControlImages() error {
	controlDir := "testdata/images/controls"
	if err := testutil.EnsureDir(controlDir); err != nil {
		return fmt.Errorf("failed to create control images directory: %w", err)
	}

	fills := []struct {
		name string
		col  color.Color
	}{
		{"white", color.White},
		{"gray", color.RGBA{R: 128, G: 128, B: 128, A: 255}},
		{"dark", color.RGBA{R: 24, G: 28, B: 32, A: 255}},
	}

	for _, fill := range fills {
		img := testutil.SolidImage(testutil.MediumSize.Width, testutil.MediumSize.Height, fill.col)
		if err := writePNG(fmt.Sprintf("%s/control_%s.png", controlDir, fill.name), img); err != nil {
			return err
		}
	}

	return nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path) //nolint:gosec // G304: Test data generation uses controlled paths
	if err != nil {
		return fmt.Errorf("failed to create image file %s: %w", path, err)
	}

	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
