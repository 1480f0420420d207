package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MeKo-Tech/scrub/internal/common"
	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// caseResult pairs a workload with its measurement so reports can derive
// pixel throughput.
type caseResult struct {
	Case   pipeline.BenchmarkCase
	Result common.BenchmarkResult
}

func main() {
	var (
		iterations = flag.Int("iterations", 3, "Number of iterations per benchmark")
		outputFile = flag.String("output", "", "Output file for results (optional)")
		formats    = flag.String("formats", "png,jpeg", "Comma-separated encode formats to benchmark")
		skipCodec  = flag.Bool("skip-codec", false, "Skip encode/decode benchmarks")
	)
	flag.Parse()

	fmt.Println("scrub Blur and Codec Performance Benchmark")
	fmt.Println("==========================================")
	fmt.Printf("Running benchmarks with %d iterations per case...\n\n", *iterations)

	var results []caseResult
	for _, c := range pipeline.DefaultBenchmarkCases() {
		res := pipeline.BenchmarkBlur(c, *iterations)
		fmt.Println(resultLine(c, res))
		results = append(results, caseResult{Case: c, Result: res})
	}

	if !*skipCodec {
		codecCase := pipeline.BenchmarkCase{Width: 1920, Height: 1080}
		for _, format := range strings.Split(*formats, ",") {
			format = strings.TrimSpace(format)
			if format == "" {
				continue
			}
			res := pipeline.BenchmarkCodec(codecCase, format, *iterations)
			fmt.Println(resultLine(codecCase, res))
			results = append(results, caseResult{Case: codecCase, Result: res})
		}
	}

	if *outputFile != "" {
		if err := saveResultsToFile(*outputFile, results); err != nil {
			log.Printf("Failed to save results to file: %v", err)
		} else {
			fmt.Printf("\nResults saved to: %s\n", *outputFile)
		}
	}
}

func resultLine(c pipeline.BenchmarkCase, res common.BenchmarkResult) string {
	if res.Error != nil {
		return res.String()
	}
	return fmt.Sprintf("%s, %.1f MP/s", res.String(), throughput(c, res))
}

// throughput returns processed megapixels per second across all iterations.
func throughput(c pipeline.BenchmarkCase, res common.BenchmarkResult) float64 {
	secs := res.Duration.Seconds()
	if res.Error != nil || secs <= 0 {
		return 0
	}
	return c.Megapixels() * float64(res.Iterations) / secs
}

func saveResultsToFile(filename string, results []caseResult) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Write header
	_, _ = fmt.Fprintln(file, "scrub Blur and Codec Benchmark Results")
	_, _ = fmt.Fprintln(file, "======================================")
	_, _ = fmt.Fprintln(file)

	// Write individual results
	for _, r := range results {
		_, _ = fmt.Fprintf(file, "%s\n", resultLine(r.Case, r.Result))
	}

	_, _ = fmt.Fprintln(file)
	_, _ = fmt.Fprintln(file, "CSV Format:")
	_, _ = fmt.Fprintln(file, "Name,Width,Height,Iterations,Total_ms,Avg_ms,Throughput_MP_s,Memory_Diff_KB,Error")

	for _, r := range results {
		totalMs := float64(r.Result.Duration.Nanoseconds()) / 1e6
		avgMs := float64(r.Result.AvgDuration().Nanoseconds()) / 1e6
		errText := ""
		if r.Result.Error != nil {
			errText = r.Result.Error.Error()
		}

		_, _ = fmt.Fprintf(file, "%s,%d,%d,%d,%.2f,%.2f,%.1f,%d,%q\n",
			r.Result.Name,
			r.Case.Width,
			r.Case.Height,
			r.Result.Iterations,
			totalMs,
			avgMs,
			throughput(r.Case, r.Result),
			r.Result.AllocDeltaKB(),
			errText,
		)
	}

	return nil
}
