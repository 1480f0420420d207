package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scrub/internal/batch"
	"github.com/MeKo-Tech/scrub/internal/config"
)

// batchCmd represents the batch command for parallel image scrubbing.
var batchCmd = &cobra.Command{
	Use:   "batch [flags] <files or directories...>",
	Short: "Scrub many images in parallel",
	Long: `Scrub multiple image files or whole directories with a pool of
parallel workers.

Examples:
  scrub batch vacation/ --recursive --workers 8
  scrub batch *.jpg --output-dir scrubbed/
  scrub batch photos/ --detect-bodies --overlay-dir overlays/
  scrub batch photos/ --continue-on-error --report json --report-file report.json`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps the application configuration to a batch run
// config. Flags that were set explicitly override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) (*batch.Config, error) {
	bCfg := batch.DefaultConfig()

	opts, err := requestOptionsFromFlags(cfg, cmd)
	if err != nil {
		return nil, err
	}
	bCfg.Options = opts

	format, err := resolveImageFormat(cfg, cmd)
	if err != nil {
		return nil, err
	}
	bCfg.Format = format

	bCfg.OutputDir = cfg.Batch.OutputDir
	if cmd.Flags().Changed("output-dir") {
		bCfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	if cfg.Batch.Suffix != "" {
		bCfg.Suffix = cfg.Batch.Suffix
	}
	if cmd.Flags().Changed("suffix") {
		bCfg.Suffix, _ = cmd.Flags().GetString("suffix")
	}

	bCfg.Workers = cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		bCfg.Workers, _ = cmd.Flags().GetInt("workers")
	}

	bCfg.ContinueOnError = cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		bCfg.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	bCfg.OverlayColors = cfg.OverlayColors()
	bCfg.OverlayDir, _ = cmd.Flags().GetString("overlay-dir")

	// File discovery and progress settings are CLI-only.
	bCfg.Recursive, _ = cmd.Flags().GetBool("recursive")
	bCfg.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	bCfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	bCfg.ShowProgress, _ = cmd.Flags().GetBool("progress")
	bCfg.Quiet, _ = cmd.Flags().GetBool("quiet")

	return bCfg, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	bCfg, err := configToBatchConfig(cfg, cmd)
	if err != nil {
		return err
	}

	reportFormat, _ := cmd.Flags().GetString("report")
	switch reportFormat {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid report format: %s (must be text, json or csv)", reportFormat)
	}
	reportFile, _ := cmd.Flags().GetString("report-file")

	scrubber, err := buildScrubber(cfg, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := scrubber.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing pipeline: %v\n", err)
		}
	}()

	if !bCfg.Quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scrubbing inputs from %d path(s)...\n", len(args))
	}

	result, err := batch.ProcessBatch(cmd.Context(), scrubber, args, bCfg)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := result.Save(reportFormat, reportFile, bCfg.Quiet); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	result.PrintStats(bCfg.Quiet)

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addScrubOptionFlags(batchCmd)
	addEngineFlags(batchCmd)

	// Output flags
	batchCmd.Flags().String("output-dir", "", "directory for scrubbed files (default: next to inputs)")
	batchCmd.Flags().String("suffix", "", "suffix appended to output basenames")
	batchCmd.Flags().StringP("format", "f", "", "output image format: png or jpeg")
	batchCmd.Flags().String("overlay-dir", "", "directory to save detection overlays")

	// Report flags
	batchCmd.Flags().String("report", "text", "report format: text, json, csv")
	batchCmd.Flags().StringP("report-file", "o", "", "report file (default: stdout)")

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0,
		fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))
	batchCmd.Flags().Bool("continue-on-error", false, "keep going after per-file failures")

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", nil, "file patterns to include (e.g. '*.jpg')")
	batchCmd.Flags().StringSlice("exclude", nil, "file patterns to exclude")

	// Progress flags
	batchCmd.Flags().Bool("progress", false, "show progress while scrubbing")
	batchCmd.Flags().Bool("quiet", false, "suppress progress and statistics")
}
