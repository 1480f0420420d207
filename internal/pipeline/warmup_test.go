package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scrub/internal/inpaint"
	"github.com/MeKo-Tech/scrub/internal/ocr"
)

func TestWarmupAllEnginesReady(t *testing.T) {
	o := &fakeOCR{}
	f := &fakeFaces{}
	b := &fakeBodies{}
	ip := &fakeInpainter{}
	codes := &fakeBarcodes{}
	s := newTestScrubber(o, f, b, ip)
	s.barcodes = codes

	status := s.Warmup(context.Background())
	require.Len(t, status, len(EngineNames))
	for _, name := range EngineNames {
		err, ok := status[name]
		require.True(t, ok, "engine %s missing from warmup status", name)
		assert.NoError(t, err, "engine %s", name)
	}

	assert.Equal(t, 1, o.calls)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, ip.calls)
	assert.Equal(t, 1, codes.calls)
	assert.Positive(t, ip.maskCount, "the inpainter probe needs a non-empty mask")
}

func TestWarmupReportsMissingEngines(t *testing.T) {
	s := newTestScrubber(nil, nil, nil, nil)

	status := s.Warmup(context.Background())
	assert.ErrorIs(t, status["ocr"], ErrOcrEngine)
	assert.ErrorIs(t, status["face"], ErrDetectorEngine)
	assert.ErrorIs(t, status["body"], ErrDetectorEngine)
	assert.ErrorIs(t, status["barcode"], ErrBarcodeEngine)
	assert.ErrorIs(t, status["inpainter"], ErrInpaintEngine)
}

func TestWarmupSurfacesStubBackends(t *testing.T) {
	s := newTestScrubber(&fakeOCR{err: ocr.ErrNoBackend}, nil, nil, &fakeInpainter{err: inpaint.ErrNoBackend})

	status := s.Warmup(context.Background())
	assert.True(t, IsMissingBackend(status["ocr"]))
	assert.True(t, IsMissingBackend(status["inpainter"]))
}

func TestIsMissingBackend(t *testing.T) {
	assert.True(t, IsMissingBackend(ocr.ErrNoBackend))
	assert.True(t, IsMissingBackend(inpaint.ErrNoBackend))
	assert.False(t, IsMissingBackend(ErrOcrEngine), "a missing engine is not a missing backend")
	assert.False(t, IsMissingBackend(nil))
}
