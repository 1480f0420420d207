package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// ProcessBatch discovers the image files named by paths and scrubs them
// with a pool of workers. Without ContinueOnError the first failure
// cancels the remaining work and is returned; with it every failure is
// recorded in the result and the batch finishes.
func ProcessBatch(ctx context.Context, scrubber *pipeline.Scrubber, paths []string, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	files, err := discoverImageFiles(paths, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", cfg.OutputDir, err)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	var progress pipeline.ProgressReporter = pipeline.NoopProgress{}
	if cfg.ShowProgress && !cfg.Quiet {
		progress = NewConsoleProgress(os.Stdout, "Scrubbing")
	}
	progress.OnStart(len(files))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := common.NewTimer()
	items := make([]FileResult, len(files))
	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				items[idx] = processFile(runCtx, scrubber, files[idx], cfg)
				if items[idx].Failed() && !cfg.ContinueOnError {
					cancel()
				}
				progress.OnProgress(int(done.Add(1)), len(files))
			}
		}()
	}

dispatch:
	for idx := range files {
		select {
		case jobs <- idx:
		case <-runCtx.Done():
			for ; idx < len(files); idx++ {
				items[idx] = FileResult{Path: files[idx], Error: runCtx.Err().Error()}
				progress.OnProgress(int(done.Add(1)), len(files))
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	progress.OnComplete()

	result := &Result{
		Items:       items,
		Duration:    timer.Stop(),
		WorkerCount: workers,
	}
	result.DurationMs = result.Duration.Milliseconds()

	if !cfg.ContinueOnError {
		for i := range items {
			if items[i].Failed() {
				return result, fmt.Errorf("scrub %s: %s", items[i].Path, items[i].Error)
			}
		}
	}
	return result, nil
}
