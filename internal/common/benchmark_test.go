package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMemoryStats(t *testing.T) {
	stats := GetMemoryStats()
	assert.Positive(t, stats.Alloc)
	assert.Positive(t, stats.TotalAlloc)
	assert.Positive(t, stats.Sys)

	str := stats.String()
	assert.Contains(t, str, "Alloc:")
	assert.Contains(t, str, "KB")
}

func TestBenchmarkResult(t *testing.T) {
	result := BenchmarkResult{
		Name:         "blur_1080p",
		Duration:     100 * time.Millisecond,
		Iterations:   10,
		MemoryBefore: MemoryStats{Alloc: 1024 * 1024},
		MemoryAfter:  MemoryStats{Alloc: 3 * 1024 * 1024},
	}

	assert.Equal(t, 10*time.Millisecond, result.AvgDuration())
	assert.Equal(t, int64(2048), result.AllocDeltaKB())

	str := result.String()
	assert.Contains(t, str, "blur_1080p")
	assert.Contains(t, str, "10 iterations")
	assert.Contains(t, str, "avg: 10ms")
	assert.Contains(t, str, "total: 100ms")
	assert.Contains(t, str, "+2048 KB")
}

func TestBenchmarkResultError(t *testing.T) {
	result := BenchmarkResult{
		Name:  "broken",
		Error: errors.New("no such image"),
	}

	str := result.String()
	assert.Contains(t, str, "broken")
	assert.Contains(t, str, "ERROR")
	assert.Contains(t, str, "no such image")
}

func TestBenchmarkResultEdgeCases(t *testing.T) {
	// A GC between the snapshots can shrink the live heap.
	result := BenchmarkResult{
		Name:         "gc_mid_run",
		Duration:     time.Millisecond,
		Iterations:   1,
		MemoryBefore: MemoryStats{Alloc: 4 * 1024 * 1024},
		MemoryAfter:  MemoryStats{Alloc: 1024 * 1024},
	}
	assert.Equal(t, int64(-3072), result.AllocDeltaKB())
	assert.Contains(t, result.String(), "-3072 KB")

	assert.Equal(t, time.Duration(0), BenchmarkResult{}.AvgDuration())
}

func BenchmarkMemoryStatsRetrieval(b *testing.B) {
	for range b.N {
		GetMemoryStats()
	}
}
