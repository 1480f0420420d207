package pipeline

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProgress struct {
	mu       sync.Mutex
	started  int
	events   int
	complete bool
}

func (p *recordingProgress) OnStart(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = total
}

func (p *recordingProgress) OnProgress(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events++
}

func (p *recordingProgress) OnComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = true
}

func TestProcessImagesParallel(t *testing.T) {
	s := newTestScrubber(nil, nil, nil, nil)
	images := make([]image.Image, 7)
	for i := range images {
		images[i] = gradientImage(16+i, 16)
	}

	progress := &recordingProgress{}
	cfg := ParallelConfig{MaxWorkers: 3, Progress: progress}
	opts := Options{BlurStrength: DefaultBlurStrength}
	items := s.ProcessImagesParallel(context.Background(), images, opts, cfg)

	require.Len(t, items, len(images))
	for i, item := range items {
		assert.Equal(t, i, item.Index)
		require.NoError(t, item.Err)
		require.NotNil(t, item.Result)
		assert.Equal(t, 16+i, item.Result.Width, "results stay index-aligned")
	}
	assert.Equal(t, len(images), progress.started)
	assert.Equal(t, len(images), progress.events)
	assert.True(t, progress.complete)
}

func TestProcessImagesParallelRecordsFailures(t *testing.T) {
	s := newTestScrubber(&fakeOCR{err: errors.New("down")}, nil, nil, nil)
	images := []image.Image{gradientImage(16, 16), gradientImage(16, 16)}

	// One item asks for text removal and fails, the other is a no-op.
	okOpts := Options{BlurStrength: DefaultBlurStrength}
	items := s.ProcessImagesParallel(context.Background(), images[:1], DefaultOptions(), DefaultParallelConfig())
	require.Len(t, items, 1)
	assert.Error(t, items[0].Err)
	assert.Nil(t, items[0].Result)

	items = s.ProcessImagesParallel(context.Background(), images, okOpts, DefaultParallelConfig())
	for _, item := range items {
		assert.NoError(t, item.Err)
	}
}

func TestProcessImagesParallelEmpty(t *testing.T) {
	s := newTestScrubber(nil, nil, nil, nil)
	items := s.ProcessImagesParallel(context.Background(), nil, DefaultOptions(), DefaultParallelConfig())
	assert.Empty(t, items)
}

func TestProcessImagesParallelCancelled(t *testing.T) {
	s := newTestScrubber(nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := []image.Image{gradientImage(16, 16), gradientImage(16, 16)}
	items := s.ProcessImagesParallel(ctx, images, Options{BlurStrength: DefaultBlurStrength}, DefaultParallelConfig())
	require.Len(t, items, 2)
	for _, item := range items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
}

func TestDefaultParallelConfig(t *testing.T) {
	cfg := DefaultParallelConfig()
	assert.Positive(t, cfg.MaxWorkers)
}
