package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand(t *testing.T) {
	assert.NotNil(t, serveCmd)
	assert.Equal(t, "serve", serveCmd.Use)
	assert.NotEmpty(t, serveCmd.Short)
	assert.NotEmpty(t, serveCmd.Long)
}

func TestServeCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	serveCmd.SetOut(buf)
	serveCmd.SetErr(buf)
	err := serveCmd.Help()
	require.NoError(t, err)

	output := strings.TrimSpace(buf.String())
	assert.Contains(t, output, "POST /process")
	assert.Contains(t, output, "GET  /health")
	assert.Contains(t, output, "GET  /metrics")
}

func TestServeCommandFlags(t *testing.T) {
	flags := serveCmd.Flags()

	for _, name := range []string{
		"host", "port", "cors-origins", "max-upload-size",
		"timeout", "shutdown-timeout",
		"rate-limit-enabled", "requests-per-minute",
		"no-blur-people", "detect-bodies", "blur-strength",
	} {
		assert.NotNil(t, flags.Lookup(name), "expected flag %q", name)
	}

	port := flags.Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "8080", port.DefValue)

	host := flags.Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "localhost", host.DefValue)
}

func TestServeCommandRejectsInvalidPort(t *testing.T) {
	require.NoError(t, serveCmd.Flags().Set("port", "0"))
	defer func() {
		_ = serveCmd.Flags().Set("port", "8080")
	}()

	err := serveCmd.RunE(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port number")
}
