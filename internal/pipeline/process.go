package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/mask"
	"github.com/MeKo-Tech/scrub/internal/utils"
)

// ProcessImage scrubs a single decoded image according to opts.
//
// Stages run in StageOrder. Text and barcode removal happen before
// people are blurred, so the inpainter never samples blurred pixels.
// The input image is never modified; the result holds a new image even
// when every stage is a no-op.
func (s *Scrubber) ProcessImage(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, errors.New("pipeline: nil image")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateImageConstraints(img, s.cfg.Constraints); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := common.NewTimer()
	bounds := img.Bounds()
	result := &Result{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Options: opts,
	}

	// Cloning normalizes bounds to the origin, so mask and detection
	// coordinates line up for subimages too.
	working := utils.ToNRGBA(img)

	if opts.RemoveText || opts.RemoveBarcodes {
		next, err := s.inpaintMarkings(ctx, working, result, opts)
		if err != nil {
			return nil, err
		}
		working = next
	}
	if opts.BlurPeople {
		next, err := s.blurPeople(ctx, working, result, opts)
		if err != nil {
			return nil, err
		}
		working = next
	}

	result.Image = working
	result.TotalNs = total.Stop().Nanoseconds()
	slog.Debug("image scrubbed",
		"width", result.Width,
		"height", result.Height,
		"detections", len(result.Detections),
		"duration", total.Duration())
	return result, nil
}

// inpaintMarkings runs the enabled mask stages, merges their masks and
// paints the union over in a single inpaint pass. Text and barcode
// regions share the inpainter so overlapping boxes never get painted
// twice.
func (s *Scrubber) inpaintMarkings(ctx context.Context, working *image.NRGBA, result *Result, opts Options) (*image.NRGBA, error) {
	var combined *mask.Mask

	if opts.RemoveText {
		maskTimer := common.NewNamedTimer(StageTextMask)
		textMask, detections, err := s.buildTextMask(ctx, working)
		if err != nil {
			return nil, stageFailure(StageTextMask, err)
		}
		result.Detections = append(result.Detections, detections...)
		result.Stages = append(result.Stages, StageTiming{
			Stage:      StageTextMask,
			DurationNs: maskTimer.Stop().Nanoseconds(),
			Applied:    !textMask.IsZero(),
		})
		combined = textMask
	}

	if opts.RemoveBarcodes {
		maskTimer := common.NewNamedTimer(StageBarcodeMask)
		barcodeMask, detections, err := s.buildBarcodeMask(ctx, working)
		if err != nil {
			if combined != nil {
				combined.Release()
			}
			return nil, stageFailure(StageBarcodeMask, err)
		}
		result.Detections = append(result.Detections, detections...)
		result.Stages = append(result.Stages, StageTiming{
			Stage:      StageBarcodeMask,
			DurationNs: maskTimer.Stop().Nanoseconds(),
			Applied:    !barcodeMask.IsZero(),
		})
		if combined == nil {
			combined = barcodeMask
		} else {
			err := combined.Union(barcodeMask)
			barcodeMask.Release()
			if err != nil {
				combined.Release()
				return nil, stageFailure(StageBarcodeMask, err)
			}
		}
	}
	defer combined.Release()

	inpaintTimer := common.NewNamedTimer(StageInpaint)
	if combined.IsZero() {
		result.Stages = append(result.Stages, StageTiming{
			Stage:      StageInpaint,
			DurationNs: inpaintTimer.Stop().Nanoseconds(),
		})
		return working, nil
	}
	if s.inpainter == nil {
		return nil, stageFailure(StageInpaint, ErrInpaintEngine)
	}
	inpainted, err := s.inpainter.Inpaint(ctx, working, combined)
	if err != nil {
		if errors.Is(err, inpaint.ErrNoBackend) {
			err = fmt.Errorf("%w: %s", ErrInpaintEngine, err)
		}
		return nil, stageFailure(StageInpaint, err)
	}
	result.Stages = append(result.Stages, StageTiming{
		Stage:      StageInpaint,
		DurationNs: inpaintTimer.Stop().Nanoseconds(),
		Applied:    true,
	})
	return utils.ToNRGBA(inpainted), nil
}

// blurPeople runs the person_mask and blur stages and returns the image
// with detected people blurred.
func (s *Scrubber) blurPeople(ctx context.Context, working *image.NRGBA, result *Result, opts Options) (*image.NRGBA, error) {
	maskTimer := common.NewNamedTimer(StagePersonMask)
	personMask, detections, err := s.buildPersonMask(ctx, working, opts.DetectBodies)
	if err != nil {
		return nil, stageFailure(StagePersonMask, err)
	}
	defer personMask.Release()
	result.Detections = append(result.Detections, detections...)
	result.Stages = append(result.Stages, StageTiming{
		Stage:      StagePersonMask,
		DurationNs: maskTimer.Stop().Nanoseconds(),
		Applied:    !personMask.IsZero(),
	})

	blurTimer := common.NewNamedTimer(StageBlur)
	if personMask.IsZero() {
		result.Stages = append(result.Stages, StageTiming{
			Stage:      StageBlur,
			DurationNs: blurTimer.Stop().Nanoseconds(),
		})
		return working, nil
	}
	blurred := blurComposite(working, personMask, opts.BlurStrength)
	result.Stages = append(result.Stages, StageTiming{
		Stage:      StageBlur,
		DurationNs: blurTimer.Stop().Nanoseconds(),
		Applied:    true,
	})
	return blurred, nil
}

// stageFailure wraps an error into a StageError unless the failure came
// from the context, which callers need to see unwrapped.
func stageFailure(stage string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// ProcessBytes decodes raw image bytes, scrubs them and encodes the
// result. An empty format encodes PNG, which is lossless and never
// reintroduces compression artifacts into inpainted regions.
func (s *Scrubber) ProcessBytes(ctx context.Context, data []byte, opts Options, format string) (*Result, error) {
	img, _, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	result, err := s.ProcessImage(ctx, img, opts)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = utils.FormatPNG
	}
	encoded, err := utils.EncodeImage(result.Image, format)
	if err != nil {
		return nil, err
	}
	result.Encoded = encoded
	result.Format = format
	return result, nil
}

// ProcessFile reads and scrubs a single image file.
func (s *Scrubber) ProcessFile(ctx context.Context, path string, opts Options, format string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ProcessBytes(ctx, data, opts, format)
}
