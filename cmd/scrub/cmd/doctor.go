package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scrub/internal/models"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
	"github.com/MeKo-Tech/scrub/internal/version"
)

// doctorCmd verifies a local installation end to end.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check models, engines and configuration",
	Long: `Check that this installation can serve scrub requests.

Reports the configuration file in use, whether the detection model
files are present, and which engines this binary can run. OCR,
inpainting and barcode decoding are selected at build time
(-tags tesseract,gocv,gozxing); a missing engine only fails requests
that ask for it.

Examples:
  scrub doctor
  scrub doctor --models-dir /opt/scrub/models`,
	SilenceUsage: true,
	RunE:         runDoctorCommand,
}

func runDoctorCommand(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "scrub %s\n", version.String())
	if file := GetConfigLoader().Viper().ConfigFileUsed(); file != "" {
		fmt.Fprintf(out, "Config file: %s\n", file)
	} else {
		fmt.Fprintln(out, "Config file: none (built-in defaults)")
	}

	fmt.Fprintf(out, "Models directory: %s\n", models.GetModelsDir(cfg.ModelsDir))
	for _, m := range models.ListAvailableModels() {
		path := models.ResolveModelPath(cfg.ModelsDir, m.Type, m.Filename)
		status := "found"
		if err := models.ValidateModelExists(path); err != nil {
			status = "missing"
		}
		fmt.Fprintf(out, "  %-12s %s (%s)\n", m.Name+":", status, path)
	}

	scrubber, err := buildScrubber(cfg, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = scrubber.Close() }()

	fmt.Fprintln(out, "Engines:")
	status := scrubber.Warmup(cmd.Context())
	for _, name := range pipeline.EngineNames {
		fmt.Fprintf(out, "  %-12s %s\n", name+":", engineStatus(status[name]))
	}
	return nil
}

// engineStatus renders a warmup outcome for humans.
func engineStatus(err error) string {
	switch {
	case err == nil:
		return "ready"
	case pipeline.IsMissingBackend(err):
		return "not built into this binary"
	default:
		return fmt.Sprintf("unavailable (%v)", err)
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	addEngineFlags(doctorCmd)
}
