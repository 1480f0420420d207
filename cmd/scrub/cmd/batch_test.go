package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/config"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

func TestBatchCommand(t *testing.T) {
	assert.NotNil(t, batchCmd)
	assert.True(t, strings.HasPrefix(batchCmd.Use, "batch"))
	assert.NotEmpty(t, batchCmd.Short)
	assert.NotEmpty(t, batchCmd.Long)
}

func TestBatchCommandFlags(t *testing.T) {
	flags := batchCmd.Flags()

	for _, name := range []string{
		"no-blur-people", "no-remove-text", "remove-barcodes", "detect-bodies", "blur-strength",
		"output-dir", "suffix", "format", "overlay-dir",
		"report", "report-file",
		"workers", "continue-on-error",
		"recursive", "include", "exclude",
		"progress", "quiet",
	} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestBatchCommandRequiresArgs(t *testing.T) {
	err := batchCmd.Args(batchCmd, []string{})
	assert.Error(t, err)
}

func TestConfigToBatchConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := batchCmd

	bCfg, err := configToBatchConfig(cfg, cmd)
	require.NoError(t, err)
	assert.Equal(t, "_scrubbed", bCfg.Suffix)
	assert.Equal(t, "png", bCfg.Format)
	assert.Equal(t, pipeline.DefaultOptions(), bCfg.Options)
	assert.False(t, bCfg.Recursive)
	assert.False(t, bCfg.ContinueOnError)

	require.NoError(t, cmd.Flags().Set("output-dir", "out"))
	require.NoError(t, cmd.Flags().Set("suffix", "_clean"))
	require.NoError(t, cmd.Flags().Set("workers", "4"))
	require.NoError(t, cmd.Flags().Set("recursive", "true"))
	require.NoError(t, cmd.Flags().Set("continue-on-error", "true"))
	require.NoError(t, cmd.Flags().Set("detect-bodies", "true"))

	bCfg, err = configToBatchConfig(cfg, cmd)
	require.NoError(t, err)
	assert.Equal(t, "out", bCfg.OutputDir)
	assert.Equal(t, "_clean", bCfg.Suffix)
	assert.Equal(t, 4, bCfg.Workers)
	assert.True(t, bCfg.Recursive)
	assert.True(t, bCfg.ContinueOnError)
	assert.True(t, bCfg.Options.DetectBodies)
}

func TestRunBatchCommandInvalidReport(t *testing.T) {
	require.NoError(t, batchCmd.Flags().Set("report", "xml"))
	defer func() {
		_ = batchCmd.Flags().Set("report", "text")
	}()

	err := batchCmd.RunE(batchCmd, []string{"photos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report format")
}
