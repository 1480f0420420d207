package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/scrub/internal/pdf"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [flags] <pdf files...>",
	Short: "Scrub the embedded images of PDF files",
	Long: `Extract the embedded images of PDF files, scrub each one and write
the results as image files. Works best with scanned documents and photo
albums exported to PDF.

Examples:
  scrub pdf album.pdf
  scrub pdf scan.pdf --pages 1-5 --output-dir scrubbed/
  scrub pdf locked.pdf --password hunter2`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runPDFCommand,
}

func runPDFCommand(cmd *cobra.Command, args []string) error {
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

	pages, _ := cmd.Flags().GetString("pages")
	if _, err := pdf.ParsePageRange(pages); err != nil {
		return fmt.Errorf("invalid page range %q: %w", pages, err)
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")

	reportFormat, _ := cmd.Flags().GetString("report")
	switch reportFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid report format: %s (must be text or json)", reportFormat)
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

	processor := pdf.NewProcessor(scrubber)
	userPW, _ := cmd.Flags().GetString("password")
	ownerPW, _ := cmd.Flags().GetString("owner-password")
	if userPW != "" || ownerPW != "" {
		processor.SetCredentials(&pdf.Credentials{
			UserPassword:  userPW,
			OwnerPassword: ownerPW,
		})
	}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		processor.SetWorkers(workers)
	}

	results := make([]*pdf.DocumentResult, 0, len(args))
	for _, file := range args {
		doc, err := processor.ScrubFile(cmd.Context(), file, pages, outputDir, opts, format)
		if err != nil {
			return fmt.Errorf("scrub %s: %w", file, err)
		}
		results = append(results, doc)
	}

	return writePDFReport(cmd, results, reportFormat, reportFile)
}

// writePDFReport formats the document results and writes them to the
// report file, or stdout when none is set.
func writePDFReport(cmd *cobra.Command, results []*pdf.DocumentResult, format, outputFile string) error {
	var output string
	if format == "json" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		output = string(data) + "\n"
	} else {
		var sb strings.Builder
		for _, doc := range results {
			sb.WriteString(doc.Summary())
			sb.WriteString("\n")
		}
		output = sb.String()
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputFile)
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	addScrubOptionFlags(pdfCmd)
	addEngineFlags(pdfCmd)

	pdfCmd.Flags().String("pages", "", "page range to process (e.g. '1-5', '1,3,5')")
	pdfCmd.Flags().String("output-dir", "", "directory for scrubbed images (default: <pdf>_scrubbed/)")
	pdfCmd.Flags().StringP("format", "f", "", "output image format: png or jpeg")
	pdfCmd.Flags().IntP("workers", "w", 0, "max parallel workers for image scrubbing (0=pipeline default)")

	// Password flags for encrypted PDFs
	pdfCmd.Flags().StringP("password", "p", "", "user password for encrypted PDFs")
	pdfCmd.Flags().String("owner-password", "", "owner password for encrypted PDFs")

	// Report flags
	pdfCmd.Flags().String("report", "text", "report format: text or json")
	pdfCmd.Flags().StringP("report-file", "o", "", "report file (default: stdout)")
}
