// Package main provides a performance benchmarking tool for the commitmood CLI.
// It measures execution times for the analyze and compare commands against public
// repositories, running each command several times with and without the commit cache.
// The first successful cached run is treated as cold and the rest are averaged as warm.
//
// Prerequisites:
// - commitmood binary installed and available in PATH
// - A GitHub token in GITHUB_TOKEN is recommended to avoid rate limits
//
// Usage: go run benchmark/main.go [limit]
//
//	limit: Number of commits to fetch per repository (default 200)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Target      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Limit       int
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Repos       []string
	Comparisons [][]string
}

func main() {
	limit := 200
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			fmt.Printf("Usage: %s [limit]\n", os.Args[0])
			os.Exit(1)
		}
		limit = n
	}

	config := BenchmarkConfig{
		Limit:       limit,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Repos:       []string{"spf13/cobra", "golang/go", "kubernetes/kubernetes"},
		Comparisons: [][]string{
			{"spf13/cobra", "spf13/viper"},
			{"golang/go", "rust-lang/rust", "python/cpython"},
		},
	}

	if _, err := exec.LookPath("commitmood"); err != nil {
		fmt.Println("Prerequisites check failed: commitmood binary not found in PATH")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("commitmood", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d comparisons, limit %d, no-cache: %d runs, cache: %d runs\n",
		len(config.Repos), len(config.Comparisons), config.Limit, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.Repos {
		results = append(results, runBenchmarkSuite(config, "analyze", []string{repo, "--no-chart"}))
	}
	for _, repos := range config.Comparisons {
		results = append(results, runBenchmarkSuite(config, "compare", repos))
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, command string, args []string) BenchmarkResult {
	target := strings.Join(filterRepos(args), ",")
	fmt.Printf("Running %s on %s\n", command, target)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Target:      target,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a commitmood command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, extraArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--cache-backend", cacheBackend, "--limit", strconv.Itoa(config.Limit)}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("commitmood", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// filterRepos drops flags from an argument list.
func filterRepos(args []string) []string {
	var repos []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			repos = append(repos, a)
		}
	}
	return repos
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "compare" {
		return strings.Contains(outputStr, "Compared") && strings.Contains(outputStr, "repositories in")
	}
	return strings.Contains(outputStr, "Analyzed") && strings.Contains(outputStr, "commits from")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/commitmood_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"target", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Target, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "compare", "Compare:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-40s: No-cache: %s, Cold: %s, Warm: %s\n", result.Target, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
