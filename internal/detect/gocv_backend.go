//go:build gocv

package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/MeKo-Tech/scrub/internal/models"
	"github.com/MeKo-Tech/scrub/internal/utils"
	"gocv.io/x/gocv"
)

// haarFaceDetector wraps an OpenCV Haar cascade classifier. detectMultiScale
// mutates classifier state, so calls are serialized with a mutex.
type haarFaceDetector struct {
	cfg        FaceConfig
	classifier gocv.CascadeClassifier
	mu         sync.Mutex
}

// newHaarFaceDetector loads the cascade file when the gocv build tag is enabled.
func newHaarFaceDetector(cfg FaceConfig) (FaceDetector, error) {
	if cfg.ScaleFactor <= 1 {
		cfg.ScaleFactor = DefaultFaceConfig().ScaleFactor
	}
	if cfg.MinNeighbors <= 0 {
		cfg.MinNeighbors = DefaultFaceConfig().MinNeighbors
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = DefaultFaceConfig().MinSize
	}
	if cfg.CascadePath == "" {
		cfg.CascadePath = models.GetFaceCascadePath(models.GetModelsDir(""))
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		_ = classifier.Close()
		return nil, fmt.Errorf("detect: failed to load cascade %s", cfg.CascadePath)
	}
	return &haarFaceDetector{cfg: cfg, classifier: classifier}, nil
}

func (d *haarFaceDetector) DetectFaces(ctx context.Context, img image.Image) ([]Region, error) {
	if img == nil {
		return nil, errors.New("detect: nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("detect: convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	minSize := image.Pt(d.cfg.MinSize, d.cfg.MinSize)
	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(
		gray, d.cfg.ScaleFactor, d.cfg.MinNeighbors, 0, minSize, image.Pt(0, 0))
	d.mu.Unlock()

	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, Region{Box: r, Confidence: -1})
	}
	return regions, nil
}

func (d *haarFaceDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}

// hogBodyDetector wraps the OpenCV HOG descriptor with the default people SVM.
type hogBodyDetector struct {
	cfg BodyConfig
	hog gocv.HOGDescriptor
	mu  sync.Mutex
}

// newHOGBodyDetector builds the HOG people detector when the gocv build tag is enabled.
func newHOGBodyDetector(cfg BodyConfig) (BodyDetector, error) {
	def := DefaultBodyConfig()
	if cfg.WinStride <= 0 {
		cfg.WinStride = def.WinStride
	}
	if cfg.Padding < 0 {
		cfg.Padding = def.Padding
	}
	if cfg.Scale <= 1 {
		cfg.Scale = def.Scale
	}
	if cfg.GroupThreshold <= 0 {
		cfg.GroupThreshold = def.GroupThreshold
	}
	if cfg.DownscaleRatio <= 0 || cfg.DownscaleRatio > 1 {
		cfg.DownscaleRatio = def.DownscaleRatio
	}

	hog := gocv.NewHOGDescriptor()
	if err := hog.SetSVMDetector(gocv.HOGDefaultPeopleDetector()); err != nil {
		_ = hog.Close()
		return nil, fmt.Errorf("detect: set people detector: %w", err)
	}
	return &hogBodyDetector{cfg: cfg, hog: hog}, nil
}

func (d *hogBodyDetector) DetectBodies(ctx context.Context, img image.Image) ([]Region, error) {
	if img == nil {
		return nil, errors.New("detect: nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Large images are downscaled before the sliding-window search; boxes are
	// mapped back to original coordinates afterwards.
	bounds := img.Bounds()
	working := img
	factor := 1.0
	maxDim := bounds.Dx()
	if bounds.Dy() > maxDim {
		maxDim = bounds.Dy()
	}
	if d.cfg.DownscaleMaxDim > 0 && maxDim > d.cfg.DownscaleMaxDim {
		factor = d.cfg.DownscaleRatio
		scaled, err := utils.ScaleImage(img, factor)
		if err != nil {
			return nil, fmt.Errorf("detect: downscale for body detection: %w", err)
		}
		working = scaled
	}

	mat, err := gocv.ImageToMatRGB(working)
	if err != nil {
		return nil, fmt.Errorf("detect: convert image: %w", err)
	}
	defer mat.Close()

	d.mu.Lock()
	rects := d.hog.DetectMultiScaleWithParams(mat,
		d.cfg.HitThreshold,
		image.Pt(d.cfg.WinStride, d.cfg.WinStride),
		image.Pt(d.cfg.Padding, d.cfg.Padding),
		d.cfg.Scale, d.cfg.GroupThreshold, false)
	d.mu.Unlock()

	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		if factor != 1 {
			r = utils.ScaleRect(r, factor)
		}
		r = utils.ClipRect(r, bounds)
		if r.Empty() {
			continue
		}
		regions = append(regions, Region{Box: r, Confidence: -1})
	}
	return regions, nil
}

func (d *hogBodyDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hog.Close()
}
