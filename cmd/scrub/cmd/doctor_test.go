package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/ocr"
)

func TestDoctorCommand(t *testing.T) {
	assert.NotNil(t, doctorCmd)
	assert.Equal(t, "doctor", doctorCmd.Use)
	assert.NotEmpty(t, doctorCmd.Short)
	assert.Contains(t, doctorCmd.Long, "-tags")
}

func TestDoctorCommandFlags(t *testing.T) {
	flags := doctorCmd.Flags()

	for _, name := range []string{
		"langs", "min-confidence", "face-backend", "face-model", "face-cascade",
	} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}
}

func TestRunDoctorCommand(t *testing.T) {
	var buf bytes.Buffer
	doctorCmd.SetOut(&buf)
	defer doctorCmd.SetOut(nil)

	require.NoError(t, runDoctorCommand(doctorCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "scrub ")
	assert.Contains(t, out, "Config file:")
	assert.Contains(t, out, "Models directory:")
	assert.Contains(t, out, "face-onnx:")
	assert.Contains(t, out, "face-haar:")
	assert.Contains(t, out, "Engines:")

	// Every engine gets a line whatever the build tags say.
	for _, name := range []string{"ocr:", "face:", "body:", "barcode:", "inpainter:"} {
		assert.Contains(t, out, name)
	}
}

func TestEngineStatus(t *testing.T) {
	assert.Equal(t, "ready", engineStatus(nil))
	assert.Equal(t, "not built into this binary", engineStatus(ocr.ErrNoBackend))
	assert.Equal(t, "unavailable (boom)", engineStatus(errors.New("boom")))
}
