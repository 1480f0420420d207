package cmd

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/scrub/internal/config"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/utils"
	"github.com/spf13/cobra"
)

// addScrubOptionFlags registers the per-request pipeline switches shared by
// the image, batch and pdf commands.
func addScrubOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-blur-people", false, "keep faces and bodies untouched")
	cmd.Flags().Bool("no-remove-text", false, "keep text untouched")
	cmd.Flags().Bool("remove-barcodes", false, "also inpaint QR codes and barcodes")
	cmd.Flags().Bool("detect-bodies", false, "also detect and blur full bodies")
	cmd.Flags().Int("blur-strength", pipeline.DefaultBlurStrength,
		fmt.Sprintf("odd Gaussian kernel size in [%d, %d]", pipeline.MinBlurStrength, pipeline.MaxBlurStrength))
}

// addEngineFlags registers detector and OCR tuning flags shared by the
// processing commands.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("langs", "", "comma-separated OCR language codes (e.g. eng,deu)")
	cmd.Flags().Float64("min-confidence", 0, "minimum OCR word confidence (0-100, 0 keeps all)")
	cmd.Flags().String("face-backend", "", "face detection backend: onnx or haar")
	cmd.Flags().String("face-model", "", "override ONNX face model path")
	cmd.Flags().String("face-cascade", "", "override Haar cascade path")
}

// requestOptionsFromFlags builds the per-request options from configuration
// defaults plus explicit flag overrides.
func requestOptionsFromFlags(cfg *config.Config, cmd *cobra.Command) (pipeline.Options, error) {
	opts := cfg.DefaultRequestOptions()

	if cmd.Flags().Changed("no-blur-people") {
		v, _ := cmd.Flags().GetBool("no-blur-people")
		opts.BlurPeople = !v
	}
	if cmd.Flags().Changed("no-remove-text") {
		v, _ := cmd.Flags().GetBool("no-remove-text")
		opts.RemoveText = !v
	}
	if cmd.Flags().Changed("remove-barcodes") {
		opts.RemoveBarcodes, _ = cmd.Flags().GetBool("remove-barcodes")
	}
	if cmd.Flags().Changed("detect-bodies") {
		opts.DetectBodies, _ = cmd.Flags().GetBool("detect-bodies")
	}
	if cmd.Flags().Changed("blur-strength") {
		opts.BlurStrength, _ = cmd.Flags().GetInt("blur-strength")
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// pipelineConfigFromFlags derives the pipeline construction config from the
// application configuration plus engine flag overrides.
func pipelineConfigFromFlags(cfg *config.Config, cmd *cobra.Command) pipeline.Config {
	pCfg := cfg.ToPipelineConfig()

	if cmd.Flags().Changed("langs") {
		if langs, _ := cmd.Flags().GetString("langs"); langs != "" {
			pCfg.OCR.Languages = strings.Split(langs, ",")
		}
	}
	if cmd.Flags().Changed("min-confidence") {
		pCfg.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")
	}
	if cmd.Flags().Changed("face-backend") {
		pCfg.Face.Backend, _ = cmd.Flags().GetString("face-backend")
	}
	if cmd.Flags().Changed("face-model") {
		pCfg.Face.ModelPath, _ = cmd.Flags().GetString("face-model")
	}
	if cmd.Flags().Changed("face-cascade") {
		pCfg.Face.CascadePath, _ = cmd.Flags().GetString("face-cascade")
	}
	return pCfg
}

// buildScrubber constructs the pipeline from configuration with engine flag
// overrides applied.
func buildScrubber(cfg *config.Config, cmd *cobra.Command) (*pipeline.Scrubber, error) {
	scrubber, err := pipeline.NewBuilder().WithConfig(pipelineConfigFromFlags(cfg, cmd)).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scrub pipeline: %w", err)
	}
	return scrubber, nil
}

// resolveImageFormat picks the output image format from the --format flag
// and configuration, normalized to png or jpeg.
func resolveImageFormat(cfg *config.Config, cmd *cobra.Command) (string, error) {
	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	switch strings.ToLower(format) {
	case "", utils.FormatPNG:
		return utils.FormatPNG, nil
	case utils.FormatJPEG, "jpg":
		return utils.FormatJPEG, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (must be png or jpeg)", format)
	}
}
