package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCommand(t *testing.T) {
	assert.NotNil(t, imageCmd)
	assert.True(t, strings.HasPrefix(imageCmd.Use, "image"))
	assert.NotEmpty(t, imageCmd.Short)
	assert.NotEmpty(t, imageCmd.Long)
}

func TestImageCommandHelp(t *testing.T) {
	command := imageCmd
	buf := new(bytes.Buffer)
	command.SetOut(buf)
	command.SetErr(buf)
	err := command.Help()
	require.NoError(t, err)

	output := strings.TrimSpace(buf.String())
	assert.Contains(t, output, "Scrub one or more image files")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Flags:")
}

func TestImageCommandFlags(t *testing.T) {
	flags := imageCmd.Flags()

	for _, name := range []string{
		"no-blur-people", "no-remove-text", "remove-barcodes", "detect-bodies", "blur-strength",
		"langs", "min-confidence", "face-backend",
		"output", "format", "overlay", "quiet",
	} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestImageCommandNoInput(t *testing.T) {
	err := imageCmd.RunE(imageCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestImageCommandNonExistentFile(t *testing.T) {
	err := imageCmd.RunE(imageCmd, []string{"/non/existent/file.jpg"})
	assert.Error(t, err)
}

func TestImageCommandUnsupportedExtension(t *testing.T) {
	err := imageCmd.RunE(imageCmd, []string{"notes.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestScrubbedOutputPath(t *testing.T) {
	assert.Equal(t, "photo_scrubbed.png", scrubbedOutputPath("photo.jpg", "png"))
	assert.Equal(t, "photo_scrubbed.jpg", scrubbedOutputPath("photo.jpg", "jpeg"))
	assert.Equal(t, "dir/pic_scrubbed.png", scrubbedOutputPath("dir/pic.png", "png"))
	assert.Equal(t, "noext_scrubbed.png", scrubbedOutputPath("noext", "png"))
}

func TestOverlayOutputPath(t *testing.T) {
	assert.Equal(t, "out_overlay.png", overlayOutputPath("out.png"))
	assert.Equal(t, "dir/out_overlay.png", overlayOutputPath("dir/out.jpg"))
}
