package common

import (
	"fmt"
	"runtime"
	"time"
)

// MemoryStats is a snapshot of the allocator counters we report in
// benchmark output.
type MemoryStats struct {
	Alloc         uint64
	TotalAlloc    uint64
	Sys           uint64
	HeapInuse     uint64
	NumGC         uint32
	GCCPUFraction float64
}

// GetMemoryStats reads the current runtime memory counters.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		Alloc:         m.Alloc,
		TotalAlloc:    m.TotalAlloc,
		Sys:           m.Sys,
		HeapInuse:     m.HeapInuse,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
	}
}

func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.Alloc/1024,
		m.TotalAlloc/1024,
		m.Sys/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

// BenchmarkResult describes one timed run of a workload.
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// AvgDuration returns the mean duration of a single iteration.
func (br BenchmarkResult) AvgDuration() time.Duration {
	if br.Iterations <= 0 {
		return 0
	}
	return br.Duration / time.Duration(br.Iterations)
}

// AllocDeltaKB returns the change in live heap across the run. Negative
// when a collection ran mid-benchmark.
func (br BenchmarkResult) AllocDeltaKB() int64 {
	return (int64(br.MemoryAfter.Alloc) - int64(br.MemoryBefore.Alloc)) / 1024 //nolint:gosec // G115: counters stay far below int64 range
}

func (br BenchmarkResult) String() string {
	if br.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", br.Name, br.Error)
	}
	return fmt.Sprintf("%s: %d iterations, avg: %v, total: %v, mem: %+d KB",
		br.Name, br.Iterations, br.AvgDuration(), br.Duration, br.AllocDeltaKB())
}
