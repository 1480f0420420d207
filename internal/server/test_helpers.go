package server

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// mockScrubber is a canned implementation of scrubberInterface for handler
// tests. It echoes the input image back and records how it was called.
type mockScrubber struct {
	result *pipeline.Result
	err    error

	calls    int
	lastOpts pipeline.Options
}

func (m *mockScrubber) ProcessImage(
	_ context.Context, img image.Image, opts pipeline.Options,
) (*pipeline.Result, error) {
	m.calls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	bounds := img.Bounds()
	return &pipeline.Result{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Detections: []pipeline.Detection{
			{Kind: pipeline.KindText, Box: pipeline.Box{X: 10, Y: 10, W: 40, H: 12}, Confidence: 91},
		},
		Stages: []pipeline.StageTiming{
			{Stage: pipeline.StageTextMask, DurationNs: 1_000_000, Applied: true},
			{Stage: pipeline.StageInpaint, DurationNs: 2_000_000, Applied: true},
		},
		TotalNs: 3_000_000,
		Options: opts,
	}, nil
}

func (m *mockScrubber) Warmup(context.Context) map[string]error {
	return map[string]error{}
}

func (m *mockScrubber) Close() error {
	return nil
}

// newTestServer builds a server around a mock scrubber without touching any
// native engine.
func newTestServer(mock *mockScrubber) *Server {
	return &Server{
		scrubber:      mock,
		corsOrigins:   DefaultConfig().CORSOrigins,
		maxUploadMB:   20,
		timeoutSec:    60,
		defaultOpts:   pipeline.DefaultOptions(),
		overlayColors: pipeline.DefaultOverlayColors(),
	}
}

// createTestImage creates a simple test image for testing.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			r := byte(x % 256)
			g := byte(y % 256)
			img.Set(x, y, color.RGBA{r, g, 0, 255})
		}
	}
	return img
}

// encodeImageToPNG encodes an image to PNG bytes.
func encodeImageToPNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	return buf.Bytes(), err
}

// createProcessRequest creates a multipart form request with an image in the
// "file" field plus extra form fields.
func createProcessRequest(
	imageData []byte,
	filename string,
	extraFields map[string]string,
) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	_, err = part.Write(imageData)
	if err != nil {
		return nil, err
	}

	for key, value := range extraFields {
		err = writer.WriteField(key, value)
		if err != nil {
			return nil, err
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, "/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
