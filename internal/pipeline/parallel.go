package pipeline

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// ParallelConfig controls batch processing.
type ParallelConfig struct {
	// MaxWorkers caps concurrent pipeline runs. Zero or negative
	// means one worker per CPU.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`

	// Progress receives completion events. Nil disables reporting.
	Progress ProgressReporter `mapstructure:"-" yaml:"-" json:"-"`
}

// DefaultParallelConfig returns one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

// BatchItem pairs one input's result with its position in the batch.
type BatchItem struct {
	Index  int
	Result *Result
	Err    error
}

// ProcessImagesParallel scrubs a batch of images concurrently with the
// same options. The returned slice is index-aligned with the input;
// failures are recorded per item and never abort the batch. Cancelling
// the context marks unstarted items with the context error.
func (s *Scrubber) ProcessImagesParallel(ctx context.Context, images []image.Image, opts Options, cfg ParallelConfig) []BatchItem {
	items := make([]BatchItem, len(images))
	if len(images) == 0 {
		return items
	}

	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(images) {
		workers = len(images)
	}

	progress := cfg.Progress
	if progress == nil {
		progress = NoopProgress{}
	}
	progress.OnStart(len(images))

	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				result, err := s.ProcessImage(ctx, images[idx], opts)
				items[idx] = BatchItem{Index: idx, Result: result, Err: err}
				progress.OnProgress(int(done.Add(1)), len(images))
			}
		}()
	}

	for idx := range images {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			items[idx] = BatchItem{Index: idx, Err: ctx.Err()}
			progress.OnProgress(int(done.Add(1)), len(images))
		}
	}
	close(jobs)
	wg.Wait()
	progress.OnComplete()
	return items
}
