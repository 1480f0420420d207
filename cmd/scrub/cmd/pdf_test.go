package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/pdf"
)

func TestPDFCommand(t *testing.T) {
	assert.NotNil(t, pdfCmd)
	assert.True(t, strings.HasPrefix(pdfCmd.Use, "pdf"))
	assert.NotEmpty(t, pdfCmd.Short)
	assert.NotEmpty(t, pdfCmd.Long)
}

func TestPDFCommandFlags(t *testing.T) {
	flags := pdfCmd.Flags()

	for _, name := range []string{
		"pages", "output-dir", "format", "workers",
		"password", "owner-password",
		"report", "report-file",
		"no-blur-people", "detect-bodies", "blur-strength",
	} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestPDFCommandNoInput(t *testing.T) {
	err := pdfCmd.RunE(pdfCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestPDFCommandInvalidPageRange(t *testing.T) {
	require.NoError(t, pdfCmd.Flags().Set("pages", "5-2"))
	defer func() {
		_ = pdfCmd.Flags().Set("pages", "")
	}()

	err := pdfCmd.RunE(pdfCmd, []string{"album.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page range")
}

func TestWritePDFReportText(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	results := []*pdf.DocumentResult{
		{Filename: "a.pdf", Images: 2, Detections: 5, DurationMs: 12},
		{Filename: "b.pdf", Images: 1, Failed: 1},
	}
	require.NoError(t, writePDFReport(cmd, results, "text", ""))

	output := buf.String()
	assert.Contains(t, output, "a.pdf")
	assert.Contains(t, output, "b.pdf")
	assert.Contains(t, output, "5 detection(s)")
}

func TestWritePDFReportJSONFile(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	path := filepath.Join(t.TempDir(), "report.json")
	results := []*pdf.DocumentResult{{Filename: "a.pdf", Images: 3}}
	require.NoError(t, writePDFReport(cmd, results, "json", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []pdf.DocumentResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a.pdf", decoded[0].Filename)
	assert.Equal(t, 3, decoded[0].Images)

	assert.Contains(t, buf.String(), "Report written to")
}
